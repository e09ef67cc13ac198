// Package dbtest opens throwaway databases for repository tests.
package dbtest

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/gymflow/internal/config"
	"github.com/mrlokans/gymflow/internal/database"
	"github.com/mrlokans/gymflow/internal/entities"
)

// New returns a migrated database in a temporary directory. It is closed when
// the test ends.
func New(t testing.TB) *database.Database {
	t.Helper()

	cfg := config.Database{
		Path:         filepath.Join(t.TempDir(), "gymflow_test.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
		BusyTimeout:  5 * time.Second,
	}
	db, err := database.NewDatabase(cfg, zerolog.Nop(), nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// WithoutForeignKeys runs fn on a single connection with foreign key checks
// switched off, so tests can build rows that production code never would.
func WithoutForeignKeys(t testing.TB, db *gorm.DB, fn func(conn *gorm.DB)) {
	t.Helper()

	err := db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
			return err
		}
		fn(conn)
		return conn.Exec("PRAGMA foreign_keys = ON").Error
	})
	require.NoError(t, err)
}

// Person returns a valid person whose unique fields derive from n.
func Person(n int) entities.Person {
	return entities.Person{
		Name:       fmt.Sprintf("Member %d", n),
		BirthDate:  entities.Date(1990, time.March, 1+n%28),
		NationalID: fmt.Sprintf("%011d", 10000000000+n),
		Phone:      "21999990000",
		Email:      fmt.Sprintf("member%d@gymflow.test", n),
	}
}
