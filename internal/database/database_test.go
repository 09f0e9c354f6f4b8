package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaamkrao/kaamkrao/internal/entities"
)

func TestNewDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file should be created")

	// Migrations ran for every model
	for _, model := range []any{
		&entities.User{},
		&entities.Service{},
		&entities.Booking{},
		&entities.AuditEvent{},
	} {
		assert.True(t, db.DB.Migrator().HasTable(model))
	}
}

func TestDatabase_Close(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}
