package seed

import (
	"context"
	"fmt"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	"github.com/sirupsen/logrus"
)

type CategoryRepository interface {
	Categories(ctx context.Context, activeOnly bool) ([]*types.ProjectCategory, error)
	UpsertCategory(ctx context.Context, category *types.ProjectCategory) error
	DeleteCategory(ctx context.Context, id string) error
}

// Categories is the source of truth for project categories. IDs are fixed so
// that a re-run updates rows in place; generate new ones with the nanoid command.
var Categories = []types.ProjectCategory{
	{
		ID:           "kY9pF34Qy6nB3Wwd25rq4f5zr3QA7YeE",
		Name:         "Ecology",
		Slug:         "ecology",
		Description:  utils.StringPtr("Cleanups, tree planting and protection of local nature"),
		Icon:         utils.StringPtr("leaf"),
		DisplayOrder: 1,
		IsActive:     true,
	},
	{
		ID:           "EBY3ABp3e2zS8iq9y7AjzQHb6BAEcn6z",
		Name:         "Social Help",
		Slug:         "social-help",
		Description:  utils.StringPtr("Support for elderly people, families and people in hardship"),
		Icon:         utils.StringPtr("hand-heart"),
		DisplayOrder: 2,
		IsActive:     true,
	},
	{
		ID:           "J4A3DdvHyrNktBXtnjfObINf5AjxvUlK",
		Name:         "Education",
		Slug:         "education",
		Description:  utils.StringPtr("Tutoring, school supplies and learning events"),
		Icon:         utils.StringPtr("book"),
		DisplayOrder: 3,
		IsActive:     true,
	},
	{
		ID:           "siC47wqaMl9Xvq2ZG4MzAOUQklImCvBP",
		Name:         "Animals",
		Slug:         "animals",
		Description:  utils.StringPtr("Shelters, feeding programs and veterinary help"),
		Icon:         utils.StringPtr("paw"),
		DisplayOrder: 4,
		IsActive:     true,
	},
	{
		ID:           "t4R5YhuIG43KIjFAHQsiJoUGm1YtmaD7",
		Name:         "Culture",
		Slug:         "culture",
		Description:  utils.StringPtr("Festivals, libraries, museums and heritage sites"),
		Icon:         utils.StringPtr("palette"),
		DisplayOrder: 5,
		IsActive:     true,
	},
	{
		ID:           "v3dNi8LfppWTv5aspzhU8QrTzhJqmHUo",
		Name:         "Sports",
		Slug:         "sports",
		Description:  utils.StringPtr("Community sports grounds, events and equipment"),
		Icon:         utils.StringPtr("trophy"),
		DisplayOrder: 6,
		IsActive:     true,
	},
	{
		ID:           "Ze95b9eGe0vRBbgi09qynDAkY8ISwYDF",
		Name:         "Healthcare",
		Slug:         "healthcare",
		Description:  utils.StringPtr("Blood drives, medical supplies and patient support"),
		Icon:         utils.StringPtr("heart-pulse"),
		DisplayOrder: 7,
		IsActive:     true,
	},
	{
		ID:           "HL3tVTNYTHPzpppp6uEp3c4dsa7lC360",
		Name:         "Emergency Relief",
		Slug:         "emergency-relief",
		Description:  utils.StringPtr("Urgent help after fires, floods and other disasters"),
		Icon:         utils.StringPtr("alert-circle"),
		DisplayOrder: 8,
		IsActive:     true,
	},
}

// SyncCategories makes the database match Categories: missing rows are
// inserted, changed rows updated and rows not in the list deleted.
func SyncCategories(ctx context.Context, repo CategoryRepository, logger logrus.FieldLogger) error {
	logger.WithField("categories", len(Categories)).Info("starting category sync")

	seedIDs := make(map[string]bool, len(Categories))
	for _, cat := range Categories {
		if !utils.IsNanoID(cat.ID) {
			return fmt.Errorf("category %s has malformed id %q", cat.Slug, cat.ID)
		}
		seedIDs[cat.ID] = true
	}

	existing, err := repo.Categories(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to fetch existing categories: %w", err)
	}

	deleted := 0
	for _, cat := range existing {
		if seedIDs[cat.ID] {
			continue
		}
		logger.WithField("category_id", cat.ID).WithField("name", cat.Name).Info("deleting category")
		if err := repo.DeleteCategory(ctx, cat.ID); err != nil {
			return fmt.Errorf("failed to delete category %s: %w", cat.ID, err)
		}
		deleted++
	}

	now := time.Now()
	upserted := 0
	for _, cat := range Categories {
		cat.CreatedAt = now
		if err := repo.UpsertCategory(ctx, &cat); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", cat.Slug, err)
		}
		upserted++
	}

	logger.WithField("upserted", upserted).WithField("deleted", deleted).Info("category sync complete")
	return nil
}
