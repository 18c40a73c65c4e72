package main

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"volunteerhub/internal/db"
	"volunteerhub/internal/seed"
	"volunteerhub/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with categories and demo data",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "demo",
			Usage: "Also create demo users and projects",
		},
		&cli.IntFlag{
			Name:  "projects",
			Usage: "Number of demo projects to create",
			Value: 12,
		},
		&cli.BoolFlag{
			Name:  "reset",
			Usage: "Delete previously seeded demo projects first",
		},
		&cli.BoolFlag{
			Name:  "dump",
			Usage: "Print the seed data and exit without touching the database",
		},
	},
	Action: func(c *cli.Context) error {
		if c.Bool("dump") {
			pp.Println(seed.Categories)
			pp.Println(seed.DemoUsers)
			return nil
		}

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

		logger := logrus.StandardLogger()
		logger.Info("connected to database")

		if err := seed.SyncCategories(ctx, store.NewCategoryRepository(pool), logger); err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}

		if !c.Bool("demo") {
			return nil
		}

		if err := seed.SeedDemoUsers(ctx, store.NewUserRepository(pool), logger); err != nil {
			return fmt.Errorf("failed to seed demo users: %w", err)
		}

		projects := store.NewProjectRepository(pool)
		if c.Bool("reset") {
			deleted, err := seed.ResetDemoProjects(ctx, projects)
			if err != nil {
				return err
			}
			logger.WithField("deleted", deleted).Info("demo projects reset")
		}

		repos := seed.DemoRepositories{
			Projects:     projects,
			Moderations:  store.NewModerationRepository(pool),
			Tasks:        store.NewTaskRepository(pool),
			Applications: store.NewApplicationRepository(pool),
			Donations:    store.NewDonationRepository(pool),
		}
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))

		return seed.SeedDemoProjects(ctx, repos, rng, c.Int("projects"), logger)
	},
}
