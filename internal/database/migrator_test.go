package database

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMigrator_Validation(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		m, err := NewMigrator(nil, "migrations", zerolog.Nop())
		require.Error(t, err)
		assert.Nil(t, m)
		assert.Contains(t, err.Error(), "database is required")
	})

	t.Run("uninitialized pool", func(t *testing.T) {
		m, err := NewMigrator(&DB{}, "migrations", zerolog.Nop())
		require.Error(t, err)
		assert.Nil(t, m)
		assert.Contains(t, err.Error(), "database pool not initialized")
	})

	t.Run("missing migrations path", func(t *testing.T) {
		db := &DB{}
		m, err := NewMigrator(db, "", zerolog.Nop())
		require.Error(t, err)
		assert.Nil(t, m)
		assert.Contains(t, err.Error(), "migrations path is required")
	})
}
