package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/riskibarqy/tournament-ledger/internal/app"
	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/infrastructure/repository/sqlstore"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newCLI().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newCLI() *cli.App {
	return &cli.App{
		Name:  "migration",
		Usage: "apply the embedded ledger schema; STORE_DRIVER and DB_URL select the database",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending migration",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					if err := ignoreNoChange(m.Up()); err != nil {
						return err
					}
					return printVersion(c, m)
				}),
			},
			{
				Name:  "down",
				Usage: "roll back migrations",
				Flags: []cli.Flag{
					&cli.UintFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					steps := c.Uint("steps")
					if steps == 0 {
						return fmt.Errorf("down steps must be > 0")
					}
					if err := ignoreNoChange(m.Steps(-int(steps))); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "rolled back %d migration(s)\n", steps)
					return nil
				}),
			},
			{
				Name:   "version",
				Usage:  "print the current schema version",
				Action: withMigrator(printVersion),
			},
			{
				Name:      "force",
				Usage:     "set the schema version without running migrations",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					version, err := versionArg(c)
					if err != nil {
						return err
					}
					if err := m.Force(int(version)); err != nil {
						return fmt.Errorf("force version %d: %w", version, err)
					}
					return printVersion(c, m)
				}),
			},
			{
				Name:      "goto",
				Aliases:   []string{"migrate"},
				Usage:     "migrate up or down to a version",
				ArgsUsage: "<version>",
				Action: withMigrator(func(c *cli.Context, m *migrate.Migrate) error {
					version, err := versionArg(c)
					if err != nil {
						return err
					}
					if err := ignoreNoChange(m.Migrate(version)); err != nil {
						return err
					}
					return printVersion(c, m)
				}),
			},
		},
	}
}

func withMigrator(action func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.StoreDriver == config.StoreMemory {
			return fmt.Errorf("STORE_DRIVER=memory has no schema to migrate")
		}

		db, dialect, err := app.OpenSQL(context.Background(), cfg)
		if err != nil {
			return err
		}
		m, err := sqlstore.NewMigrator(db.DB, dialect)
		if err != nil {
			_ = db.Close()
			return err
		}
		defer closeMigrator(m)

		return action(c, m)
	}
}

func versionArg(c *cli.Context) (uint, error) {
	if c.NArg() != 1 {
		return 0, fmt.Errorf("%s requires exactly one version argument", c.Command.Name)
	}
	var version uint
	if _, err := fmt.Sscan(c.Args().First(), &version); err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", c.Args().First(), err)
	}
	return version, nil
}

func printVersion(c *cli.Context, m *migrate.Migrate) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(c.App.Writer, "version: none")
		fmt.Fprintln(c.App.Writer, "dirty: false")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "version: %d\n", version)
	fmt.Fprintf(c.App.Writer, "dirty: %t\n", dirty)
	return nil
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		log.Printf("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		log.Printf("close migration source: %v", srcErr)
	}
	if dbErr != nil {
		log.Printf("close migration db: %v", dbErr)
	}
}
