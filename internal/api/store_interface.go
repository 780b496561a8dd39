package api

import "github.com/soaringjerry/Krippen/internal/services"

// Store is the persistence surface the router wires into the services.
// Method signatures match the narrow per-service interfaces so one
// implementation serves them all.
type Store interface {
	InsertDataset(d *services.Dataset) (*services.Dataset, error)
	GetDataset(id string) (*services.Dataset, error)
	ListDatasetsByTenant(tid string) ([]*services.Dataset, error)
	DeleteDataset(id string) error

	AddRatings(rs []*services.Rating) error
	ListRatings(datasetID string) ([]*services.Rating, error)
	DeleteRatingsByDataset(datasetID string) (int, error)

	AddTenant(t *services.Tenant) error
	AddUser(u *services.User) error
	FindUserByEmail(email string) (*services.User, error)

	AddAudit(entry services.AuditEntry)
	ListAudit() []services.AuditEntry
}

var _ Store = (*MemoryStore)(nil)
