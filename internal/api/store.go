package api

import (
	"sort"
	"sync"

	"github.com/soaringjerry/Krippen/internal/services"
)

// MemoryStore is the in-process Store used by tests and dev runs.
type MemoryStore struct {
	mu           sync.RWMutex
	datasets     map[string]*services.Dataset
	ratings      map[string][]*services.Rating
	tenants      map[string]*services.Tenant
	usersByEmail map[string]*services.User
	audit        []services.AuditEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		datasets:     map[string]*services.Dataset{},
		ratings:      map[string][]*services.Rating{},
		tenants:      map[string]*services.Tenant{},
		usersByEmail: map[string]*services.User{},
	}
}

func (s *MemoryStore) InsertDataset(d *services.Dataset) (*services.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *d
	s.datasets[d.ID] = &cp
	out := cp
	return &out, nil
}

func (s *MemoryStore) GetDataset(id string) (*services.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if d, ok := s.datasets[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListDatasetsByTenant(tid string) ([]*services.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*services.Dataset{}
	for _, d := range s.datasets {
		if d.TenantID == tid {
			cp := *d
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) DeleteDataset(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, id)
	return nil
}

func (s *MemoryStore) AddRatings(rs []*services.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rs {
		cp := *r
		s.ratings[r.DatasetID] = append(s.ratings[r.DatasetID], &cp)
	}
	return nil
}

func (s *MemoryStore) ListRatings(datasetID string) ([]*services.Rating, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*services.Rating, 0, len(s.ratings[datasetID]))
	for _, r := range s.ratings[datasetID] {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemoryStore) DeleteRatingsByDataset(datasetID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.ratings[datasetID])
	delete(s.ratings, datasetID)
	return n, nil
}

func (s *MemoryStore) AddTenant(t *services.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tenants[t.ID] = &cp
	return nil
}

func (s *MemoryStore) AddUser(u *services.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.usersByEmail[u.Email] = &cp
	return nil
}

func (s *MemoryStore) FindUserByEmail(email string) (*services.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *MemoryStore) AddAudit(e services.AuditEntry) {
	s.mu.Lock()
	s.audit = append(s.audit, e)
	s.mu.Unlock()
}

func (s *MemoryStore) ListAudit() []services.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]services.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}
