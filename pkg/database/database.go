package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

type logQueryHook struct {
	log logger.Logger
}

func (*logQueryHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (qh *logQueryHook) AfterQuery(_ context.Context, event *bun.QueryEvent) {
	data := logger.Data{"duration_ms": time.Since(event.StartTime).Milliseconds()}
	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		data["error"] = event.Err.Error()
	}
	qh.log.Debug(event.Query, data)
}

// dsnConnector adapts a driver without OpenConnector (modernc's sqlite) to
// driver.Connector.
type dsnConnector struct {
	dsn string
	drv driver.Driver
}

func (dc *dsnConnector) Connect(_ context.Context) (driver.Conn, error) {
	return dc.drv.Open(dc.dsn)
}

func (dc *dsnConnector) Driver() driver.Driver {
	return dc.drv
}

func openConnector(drv driver.Driver, dsn string) (driver.Connector, error) {
	if drvCtx, ok := drv.(driver.DriverContext); ok {
		connector, err := drvCtx.OpenConnector(dsn)
		return connector, errors.WithStack(err)
	}
	return &dsnConnector{dsn: dsn, drv: drv}, nil
}

// New opens the SQLite database at cfg.DatabaseFilePath.
//
// All access goes through a single connection. SQLite only allows one writer
// at a time anyway, and a single connection means every transaction observes
// the latest committed state without SQLITE_BUSY churn between pooled
// connections.
func New(cfg *config.Config) (*bun.DB, error) {
	connector, err := openConnector(sqliteshim.Driver(), cfg.DatabaseFilePath)
	if err != nil {
		return nil, err
	}

	sqldb := sql.OpenDB(newRetryConnector(connector, cfg.DatabaseMaxRetries))
	sqldb.SetMaxOpenConns(1)
	// Keep the connection around so an in-memory database isn't dropped.
	sqldb.SetConnMaxIdleTime(0)
	sqldb.SetConnMaxLifetime(0)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if cfg.DatabaseDebug {
		db.AddQueryHook(&logQueryHook{logger.NewWithLevel("debug")})
	}

	for i := 0; i < cfg.DatabaseConnectRetryCount; i++ {
		_, err = db.Exec("SELECT 1")
		if err == nil {
			break
		}
		time.Sleep(cfg.DatabaseConnectRetryDelay)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	pragmas := []struct {
		query string
		arg   interface{}
	}{
		{"PRAGMA journal_mode=WAL", nil},
		{"PRAGMA foreign_keys=ON", nil},
		{"PRAGMA busy_timeout=?", cfg.DatabaseBusyTimeout.Milliseconds()},
	}
	for _, p := range pragmas {
		if p.arg != nil {
			_, err = db.Exec(p.query, p.arg)
		} else {
			_, err = db.Exec(p.query)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to run %q", p.query)
		}
	}

	return db, nil
}
