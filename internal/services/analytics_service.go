package services

import (
	"math"
	"sort"

	"github.com/soaringjerry/Krippen/internal/reliability"
)

type AnalyticsStore interface {
	GetDataset(id string) (*Dataset, error)
	ListRatings(datasetID string) ([]*Rating, error)
}

type AnalyticsService struct {
	store AnalyticsStore
}

func NewAnalyticsService(store AnalyticsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// AlphaOptions are the caller-tunable analysis knobs. Zero values mean
// point estimate only, default confidence, run-specific seed.
type AlphaOptions struct {
	Bootstrap  int
	Confidence float64
	Seed       *int64
	ItemStats  bool
}

type ItemStatView struct {
	ItemID       string  `json:"item_id"`
	Ratings      int     `json:"ratings"`
	UniqueValues int     `json:"unique_values"`
	StdDev       float64 `json:"std_dev"`
	Disagreement float64 `json:"pairwise_disagreement"`
	Agreement    float64 `json:"agreement_ratio"`
}

type AlphaSummary struct {
	DatasetID      string  `json:"dataset_id"`
	Level          string  `json:"level"`
	Alpha          float64 `json:"alpha"`
	Interpretation string  `json:"interpretation"`
	Items          int     `json:"items"`
	Raters         int     `json:"raters"`
	PairableItems  int     `json:"pairable_items"`
	PairableValues int     `json:"pairable_values"`

	CILow              *float64 `json:"ci_low,omitempty"`
	CIHigh             *float64 `json:"ci_high,omitempty"`
	Confidence         float64  `json:"confidence,omitempty"`
	BootstrapSamples   int      `json:"bootstrap_samples,omitempty"`
	BootstrapDiscarded int      `json:"bootstrap_discarded,omitempty"`

	ItemStats []ItemStatView `json:"item_stats,omitempty"`
}

// Alpha assembles the dataset's matrix and evaluates Krippendorff's
// alpha over it. Engine errors pass through with their codes intact.
func (s *AnalyticsService) Alpha(tenantID, datasetID string, opts AlphaOptions) (*AlphaSummary, error) {
	ds, err := s.store.GetDataset(datasetID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, NewNotFoundError("dataset not found")
	}
	if ds.TenantID != tenantID {
		return nil, NewForbiddenError("forbidden")
	}
	level, err := reliability.ParseLevel(ds.Level)
	if err != nil {
		return nil, NewInvalidError(err.Error())
	}
	ratings, err := s.store.ListRatings(datasetID)
	if err != nil {
		return nil, err
	}
	if len(ratings) == 0 {
		return nil, NewInvalidError("dataset has no ratings")
	}

	matrix, itemIDs, raters := buildMatrix(ratings)
	res, err := reliability.Compute(matrix, level, &reliability.Options{
		Missing: ds.Missing,
		// Rows are items by construction; never let the 2xN
		// heuristic second-guess a two-item dataset.
		Orientation: reliability.OrientItemsRows,
		Bootstrap:   opts.Bootstrap,
		Confidence:  opts.Confidence,
		Seed:        opts.Seed,
		ItemStats:   opts.ItemStats,
	})
	if err != nil {
		return nil, err
	}

	out := &AlphaSummary{
		DatasetID:      ds.ID,
		Level:          ds.Level,
		Alpha:          res.Alpha,
		Interpretation: Interpret(res.Alpha),
		Items:          len(itemIDs),
		Raters:         raters,
		PairableItems:  res.PairableItems,
		PairableValues: res.PairableValues,
	}
	if res.Bootstrap != nil {
		low, high := res.Bootstrap.Low, res.Bootstrap.High
		out.CILow = &low
		out.CIHigh = &high
		out.Confidence = res.Bootstrap.Confidence
		out.BootstrapSamples = len(res.Bootstrap.Samples)
		out.BootstrapDiscarded = res.Bootstrap.Discarded
	}
	for _, st := range res.Items {
		out.ItemStats = append(out.ItemStats, ItemStatView{
			ItemID:       itemIDs[st.Index],
			Ratings:      st.Ratings,
			UniqueValues: st.UniqueValues,
			StdDev:       st.StdDev,
			Disagreement: st.Disagreement,
			Agreement:    st.Agreement,
		})
	}
	return out, nil
}

// buildMatrix lays ratings out as items x raters with NaN for unrated
// cells. Item and rater order follow first appearance; a later rating
// for the same cell overwrites the earlier one. Labels are coded to
// their rank in the sorted label set so codes are stable across calls.
func buildMatrix(ratings []*Rating) ([][]float64, []string, int) {
	itemIndex := map[string]int{}
	raterIndex := map[string]int{}
	var itemIDs []string
	labelSet := map[string]struct{}{}
	for _, r := range ratings {
		if _, ok := itemIndex[r.ItemID]; !ok {
			itemIndex[r.ItemID] = len(itemIDs)
			itemIDs = append(itemIDs, r.ItemID)
		}
		if _, ok := raterIndex[r.RaterID]; !ok {
			raterIndex[r.RaterID] = len(raterIndex)
		}
		if r.Label != "" {
			labelSet[r.Label] = struct{}{}
		}
	}
	code := map[string]float64{}
	if len(labelSet) > 0 {
		labels := make([]string, 0, len(labelSet))
		for l := range labelSet {
			labels = append(labels, l)
		}
		sort.Strings(labels)
		for i, l := range labels {
			code[l] = float64(i + 1)
		}
	}

	matrix := make([][]float64, len(itemIDs))
	for i := range matrix {
		row := make([]float64, len(raterIndex))
		for j := range row {
			row[j] = math.NaN()
		}
		matrix[i] = row
	}
	for _, r := range ratings {
		v := r.Value
		if r.Label != "" {
			v = code[r.Label]
		}
		matrix[itemIndex[r.ItemID]][raterIndex[r.RaterID]] = v
	}
	return matrix, itemIDs, len(raterIndex)
}

// Interpret maps alpha onto Krippendorff's customary reporting bands.
func Interpret(alpha float64) string {
	switch {
	case alpha >= 0.800:
		return "reliable"
	case alpha >= 0.667:
		return "tentative"
	default:
		return "insufficient"
	}
}
