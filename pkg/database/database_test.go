package database

import (
	"context"
	"database/sql/driver"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shishobooks/catalog/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewForTest()
	cfg.DatabaseFilePath = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestNew_EnablesForeignKeys(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	err = db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	assert.Equal(t, 1, enabled)

	var mode string
	err = db.QueryRow("PRAGMA journal_mode").Scan(&mode)
	require.NoError(t, err)
	assert.Equal(t, "wal", mode)
}

func TestNew_FileDatabasePersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t)

	db, err := New(cfg)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE shelves (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO shelves (name) VALUES ('fantasy')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(cfg)
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow("SELECT name FROM shelves").Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "fantasy", name)
}

type openOnlyDriver struct {
	opened []string
}

func (d *openOnlyDriver) Open(name string) (driver.Conn, error) {
	d.opened = append(d.opened, name)
	return nil, driver.ErrBadConn
}

func TestOpenConnector_FallsBackToOpen(t *testing.T) {
	t.Parallel()

	drv := &openOnlyDriver{}
	connector, err := openConnector(drv, "/data/catalog.db")
	require.NoError(t, err)
	assert.Same(t, drv, connector.Driver())

	_, err = connector.Connect(context.Background())
	assert.ErrorIs(t, err, driver.ErrBadConn)
	assert.Equal(t, []string{"/data/catalog.db"}, drv.opened)
}

func TestNew_InMemoryDatabaseSurvivesAcrossQueries(t *testing.T) {
	t.Parallel()

	db, err := New(config.NewForTest())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE things (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM things").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestConcurrentWrites(t *testing.T) {
	t.Parallel()

	db, err := New(newTestConfig(t))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE concurrency_test (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		value TEXT NOT NULL
	)`)
	require.NoError(t, err)

	const workers = 10
	const writes = 20

	var wg sync.WaitGroup
	errs := make(chan error, workers*writes)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < writes; i++ {
				_, err := db.Exec("INSERT INTO concurrency_test (value) VALUES (?)", fmt.Sprintf("%d-%d", id, i))
				if err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM concurrency_test").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, workers*writes, count)
}
