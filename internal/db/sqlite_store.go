package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	_ "github.com/mattn/go-sqlite3"

	"github.com/soaringjerry/Krippen/internal/api"
	"github.com/soaringjerry/Krippen/internal/services"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// NewStore opens the database file, runs migrations and returns a ready
// api.Store.
func NewStore(path string) (api.Store, error) {
	sqlDB, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := RunMigrations(sqlDB, ""); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return NewSQLiteStore(sqlDB)
}

var _ api.Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) InsertDataset(d *services.Dataset) (*services.Dataset, error) {
	missing := sql.NullFloat64{}
	if d.Missing != nil {
		missing = sql.NullFloat64{Float64: *d.Missing, Valid: true}
	}
	_, err := s.db.Exec(
		`INSERT INTO datasets (id, tenant_id, name, level, missing, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.TenantID, d.Name, d.Level, missing, d.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert dataset: %w", err)
	}
	cp := *d
	return &cp, nil
}

func (s *SQLiteStore) GetDataset(id string) (*services.Dataset, error) {
	row := s.db.QueryRow(
		`SELECT id, tenant_id, name, level, missing, created_at FROM datasets WHERE id = ?`, id,
	)
	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}

func (s *SQLiteStore) ListDatasetsByTenant(tid string) ([]*services.Dataset, error) {
	rows, err := s.db.Query(
		`SELECT id, tenant_id, name, level, missing, created_at FROM datasets WHERE tenant_id = ? ORDER BY created_at, id`, tid,
	)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()
	out := []*services.Dataset{}
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteDataset(id string) error {
	if _, err := s.db.Exec(`DELETE FROM datasets WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddRatings(rs []*services.Rating) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO ratings (dataset_id, item_id, rater_id, value, label, submitted_at) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert rating: %w", err)
	}
	defer stmt.Close()
	for _, r := range rs {
		if _, err := stmt.Exec(r.DatasetID, r.ItemID, r.RaterID, r.Value, r.Label, r.SubmittedAt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert rating: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListRatings(datasetID string) ([]*services.Rating, error) {
	rows, err := s.db.Query(
		`SELECT dataset_id, item_id, rater_id, value, label, submitted_at FROM ratings WHERE dataset_id = ? ORDER BY rowid`, datasetID,
	)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	defer rows.Close()
	out := []*services.Rating{}
	for rows.Next() {
		var r services.Rating
		if err := rows.Scan(&r.DatasetID, &r.ItemID, &r.RaterID, &r.Value, &r.Label, &r.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DeleteRatingsByDataset(datasetID string) (int, error) {
	res, err := s.db.Exec(`DELETE FROM ratings WHERE dataset_id = ?`, datasetID)
	if err != nil {
		return 0, fmt.Errorf("delete ratings: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

func (s *SQLiteStore) AddTenant(t *services.Tenant) error {
	if _, err := s.db.Exec(`INSERT INTO tenants (id, name) VALUES (?, ?)`, t.ID, t.Name); err != nil {
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddUser(u *services.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (id, email, pass_hash, tenant_id, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PassHash, u.TenantID, u.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *SQLiteStore) FindUserByEmail(email string) (*services.User, error) {
	var u services.User
	err := s.db.QueryRow(
		`SELECT id, email, pass_hash, tenant_id, created_at FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.PassHash, &u.TenantID, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (s *SQLiteStore) AddAudit(e services.AuditEntry) {
	_, err := s.db.Exec(
		`INSERT INTO audit_log (at, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Actor, e.Action, e.Target, e.Note,
	)
	if err != nil {
		log.Printf("sqlite store: insert audit: %v", err)
	}
}

func (s *SQLiteStore) ListAudit() []services.AuditEntry {
	rows, err := s.db.Query(`SELECT at, actor, action, target, note FROM audit_log ORDER BY at, rowid`)
	if err != nil {
		log.Printf("sqlite store: list audit: %v", err)
		return nil
	}
	defer rows.Close()
	var out []services.AuditEntry
	for rows.Next() {
		var e services.AuditEntry
		if err := rows.Scan(&e.Time, &e.Actor, &e.Action, &e.Target, &e.Note); err != nil {
			log.Printf("sqlite store: scan audit: %v", err)
			return out
		}
		out = append(out, e)
	}
	return out
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*services.Dataset, error) {
	var d services.Dataset
	var missing sql.NullFloat64
	if err := row.Scan(&d.ID, &d.TenantID, &d.Name, &d.Level, &missing, &d.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan dataset: %w", err)
	}
	if missing.Valid {
		v := missing.Float64
		d.Missing = &v
	}
	return &d, nil
}
