package database

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE editions (id INTEGER PRIMARY KEY, isbn TEXT NOT NULL UNIQUE)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO editions (id, isbn) VALUES (1, '9780441172719')`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO editions (id, isbn) VALUES (2, '9780441172719')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "unique index")
	assert.True(t, IsUniqueViolation(errors.WithStack(err)), "wrapped")

	_, err = db.Exec(`INSERT INTO editions (id, isbn) VALUES (1, '9780261102361')`)
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err), "primary key")

	_, err = db.Exec(`INSERT INTO editions (id) VALUES (3)`)
	require.Error(t, err)
	assert.False(t, IsUniqueViolation(err), "not null")

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: users.username")))
}
