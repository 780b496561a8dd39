package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/soaringjerry/Krippen/internal/reliability"
)

type DatasetStore interface {
	InsertDataset(d *Dataset) (*Dataset, error)
	GetDataset(id string) (*Dataset, error)
	ListDatasetsByTenant(tid string) ([]*Dataset, error)
	DeleteDataset(id string) error
	AddRatings(rs []*Rating) error
	ListRatings(datasetID string) ([]*Rating, error)
	DeleteRatingsByDataset(datasetID string) (int, error)
	AddAudit(entry AuditEntry)
}

type DatasetService struct {
	store DatasetStore
	now   func() time.Time
}

func NewDatasetService(store DatasetStore) *DatasetService {
	return &DatasetService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *DatasetService) CreateDataset(tenantID string, d *Dataset) (*Dataset, error) {
	if tenantID == "" {
		return nil, NewForbiddenError("unauthorized")
	}
	if d == nil || strings.TrimSpace(d.Name) == "" {
		return nil, NewInvalidError("name required")
	}
	level, err := reliability.ParseLevel(d.Level)
	if err != nil {
		return nil, NewInvalidError(err.Error())
	}
	if d.Missing != nil && math.IsNaN(*d.Missing) {
		return nil, NewInvalidError("missing marker cannot be NaN; unrated cells are missing already")
	}
	d.Level = level.String()
	if d.ID == "" {
		d.ID = shortID(8)
	}
	d.TenantID = tenantID
	d.CreatedAt = s.now()
	created, err := s.store.InsertDataset(d)
	if err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: tenantID, Action: "dataset_create", Target: created.ID})
	return created, nil
}

func (s *DatasetService) GetDataset(tenantID, id string) (*Dataset, error) {
	ds, err := s.store.GetDataset(id)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, NewNotFoundError("dataset not found")
	}
	if ds.TenantID != tenantID {
		return nil, NewForbiddenError("forbidden")
	}
	return ds, nil
}

func (s *DatasetService) ListDatasets(tenantID string) ([]*Dataset, error) {
	if tenantID == "" {
		return nil, NewForbiddenError("unauthorized")
	}
	return s.store.ListDatasetsByTenant(tenantID)
}

func (s *DatasetService) DeleteDataset(tenantID, id string) error {
	if _, err := s.GetDataset(tenantID, id); err != nil {
		return err
	}
	if _, err := s.store.DeleteRatingsByDataset(id); err != nil {
		return err
	}
	if err := s.store.DeleteDataset(id); err != nil {
		return err
	}
	s.store.AddAudit(AuditEntry{Time: s.now(), Actor: tenantID, Action: "dataset_delete", Target: id})
	return nil
}

// RatingInput is one uploaded cell. Missing cells are simply never
// uploaded; a dataset-level marker covers sentinel-coded sources.
type RatingInput struct {
	ItemID  string   `json:"item_id"`
	RaterID string   `json:"rater_id"`
	Value   *float64 `json:"value,omitempty"`
	Label   string   `json:"label,omitempty"`
}

func (s *DatasetService) AddRatings(tenantID, datasetID string, inputs []*RatingInput) (int, error) {
	ds, err := s.GetDataset(tenantID, datasetID)
	if err != nil {
		return 0, err
	}
	if len(inputs) == 0 {
		return 0, NewInvalidError("no ratings supplied")
	}
	now := s.now()
	labelled := 0
	rs := make([]*Rating, 0, len(inputs))
	for i, in := range inputs {
		if in == nil || strings.TrimSpace(in.ItemID) == "" || strings.TrimSpace(in.RaterID) == "" {
			return 0, NewInvalidError(fmt.Sprintf("rating %d: item_id and rater_id required", i))
		}
		r := &Rating{DatasetID: ds.ID, ItemID: in.ItemID, RaterID: in.RaterID, Label: in.Label, SubmittedAt: now}
		switch {
		case in.Label != "":
			if in.Value != nil {
				return 0, NewInvalidError(fmt.Sprintf("rating %d: label and value are mutually exclusive", i))
			}
			if ds.Level != reliability.Nominal.String() {
				return 0, NewInvalidError(fmt.Sprintf("rating %d: labels only apply to nominal datasets", i))
			}
			labelled++
		case in.Value == nil:
			return 0, NewInvalidError(fmt.Sprintf("rating %d: value or label required", i))
		default:
			if math.IsNaN(*in.Value) || math.IsInf(*in.Value, 0) {
				return 0, NewInvalidError(fmt.Sprintf("rating %d: value must be finite; omit missing cells", i))
			}
			r.Value = *in.Value
		}
		rs = append(rs, r)
	}
	if labelled != 0 && labelled != len(rs) {
		return 0, NewInvalidError("mixed labelled and numeric ratings in one upload")
	}
	if err := s.store.AddRatings(rs); err != nil {
		return 0, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: tenantID, Action: "ratings_add", Target: ds.ID, Note: fmt.Sprintf("%d ratings", len(rs))})
	return len(rs), nil
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
