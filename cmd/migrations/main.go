package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/catalog/pkg/config"
	"github.com/shishobooks/catalog/pkg/database"
	"github.com/shishobooks/catalog/pkg/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	if err := newApp(log, os.Stdout).Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

// newApp defers loading config and opening the database to Before, which
// runs once a command has been chosen.
func newApp(log logger.Logger, out io.Writer) *cli.App {
	var (
		db       *bun.DB
		migrator *migrate.Migrator
	)

	return &cli.App{
		Name:        "migrations",
		Usage:       "CLI to interact with the catalog database migrations",
		Description: "Runs against the database at DATABASE_FILE_PATH (or database_file_path in $CONFIG_FILE).",
		Writer:      out,
		Before: func(c *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return errors.Wrap(err, "config error")
			}
			db, err = database.New(cfg)
			if err != nil {
				return errors.Wrap(err, "database error")
			}
			migrator = migrate.NewMigrator(db, migrations.Migrations)
			return nil
		},
		After: func(c *cli.Context) error {
			if db == nil {
				return nil
			}
			return db.Close()
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return migrator.Init(c.Context)
				},
			},
			{
				Name:  "migrate",
				Usage: "create migration tables if needed and apply pending migrations",
				Action: func(c *cli.Context) error {
					group, err := migrations.BringUpToDate(c.Context, db)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Fprintln(out, "There are no new migrations to run")
						return nil
					}

					log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
					fmt.Fprintf(out, "Migrated to group %d: %s\n", group.ID, group.Migrations)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					group, err := migrator.Rollback(c.Context)
					if err != nil {
						return err
					}

					if group.ID == 0 {
						fmt.Fprintln(out, "There are no groups to roll back")
						return nil
					}

					log.Info("rolled back group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
					fmt.Fprintf(out, "Rolled back group %d: %s\n", group.ID, group.Migrations)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create Go migration",
				ArgsUsage: "<name words>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("migration name is required")
					}

					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator.CreateGoMigration(
						c.Context,
						name,
						migrate.WithGoTemplate(migrationTemplate),
					)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "unlock",
				Usage: "release a lock left behind by an interrupted migration",
				Action: func(c *cli.Context) error {
					return migrator.Unlock(c.Context)
				},
			},
			{
				Name:  "status",
				Usage: "list every migration and whether it has been applied",
				Action: func(c *cli.Context) error {
					if err := migrator.Init(c.Context); err != nil {
						return err
					}

					ms, err := migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}

					for _, m := range ms {
						state := "pending"
						if m.IsApplied() {
							state = fmt.Sprintf("applied (group %d, %s)", m.GroupID, m.MigratedAt.Format("2006-01-02 15:04:05"))
						}
						fmt.Fprintf(out, "%-40s %s\n", m.Name, state)
					}
					fmt.Fprintf(out, "%d applied, %d pending\n", len(ms.Applied()), len(ms.Unapplied()))
					return nil
				},
			},
		},
	}
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
