package main

import (
	"context"
	"fmt"

	"volunteerhub/internal/db"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:  "migrate",
	Usage: "Apply pending database migrations",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		applied, err := db.Migrate(ctx, pool, cfg.DatabaseSchema, logrus.StandardLogger())
		if err != nil {
			return err
		}

		logrus.WithField("applied", applied).Info("migrations complete")
		return nil
	},
}
