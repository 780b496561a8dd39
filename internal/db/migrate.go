package db

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// RunMigrations applies the schema migrations in lexical order. When dir
// is non-empty its *.sql files are used instead of the embedded set,
// which keeps ad-hoc schema experiments possible without a rebuild.
func RunMigrations(db *sql.DB, dir string) error {
	names, read, err := migrationSource(dir)
	if err != nil {
		return err
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := read(name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if len(data) == 0 {
			continue
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec migration %s: %w", name, err)
		}
	}
	return nil
}

func migrationSource(dir string) ([]string, func(string) ([]byte, error), error) {
	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("read migrations dir %s: %w", dir, err)
		}
		var names []string
		for _, e := range entries {
			if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
				names = append(names, e.Name())
			}
		}
		return names, func(name string) ([]byte, error) {
			return os.ReadFile(filepath.Join(dir, name))
		}, nil
	}

	entries, err := embeddedMigrations.ReadDir("migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("read embedded migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			names = append(names, e.Name())
		}
	}
	return names, func(name string) ([]byte, error) {
		return embeddedMigrations.ReadFile(filepath.Join("migrations", name))
	}, nil
}
