package seed

import (
	"context"
	"errors"
	"fmt"

	"volunteerhub/internal/auth"
	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	"github.com/sirupsen/logrus"
)

type UserRepository interface {
	UserByLogin(ctx context.Context, login string) (*types.User, error)
	Create(ctx context.Context, user *types.User) error
}

// DemoPassword is shared by every demo account.
const DemoPassword = "demo12345"

type DemoUser struct {
	ID       string
	Username string
	FullName string
	City     string
	Role     types.Role
}

var DemoUsers = []DemoUser{
	{ID: "A9y6YnD14TdDo9EgZmCnu77Svtuuj596", Username: "demo_admin", FullName: "Alex Admin", City: "Springfield", Role: types.RoleAdmin},
	{ID: "LlLguRIax1dYYxn9IyW1MxjFT5ISgxnW", Username: "demo_moderator", FullName: "Morgan Reyes", City: "Springfield", Role: types.RoleModerator},
	{ID: "amNeyyNwlEeDPOMScPfQpLPecxvmK11O", Username: "demo_coordinator", FullName: "Casey Novak", City: "Riverton", Role: types.RoleCoordinator},
	{ID: "hugcICZmsPXKmZn5e6euclduDVDR0uWF", Username: "demo_coordinator2", FullName: "Priya Shah", City: "Lakeside", Role: types.RoleCoordinator},
	{ID: "mPF5RG7WoOJMcuUbrOEl5PYKptpLY5Ka", Username: "demo_volunteer", FullName: "Jamie Ortiz", City: "Riverton", Role: types.RoleVolunteer},
	{ID: "a819BVtPF9DQCuGXm9zz810PKF6xLX8r", Username: "demo_volunteer2", FullName: "Sam Lee", City: "Lakeside", Role: types.RoleVolunteer},
	{ID: "TcQTd1gdiwfMBkgyqR83WLmVtGBQVxqQ", Username: "demo_donor", FullName: "Dana Fischer", City: "Springfield", Role: types.RoleDonor},
	{ID: "WUw8y9xw1TsNbC0NP9b9uDK7z3kHxxzu", Username: "demo_donor2", FullName: "Robin Clarke", City: "Riverton", Role: types.RoleDonor},
}

func (d DemoUser) Email() string {
	return d.Username + "@volunteerhub.example"
}

// demoUserIDs returns the IDs of demo users with role.
func demoUserIDs(role types.Role) []string {
	ids := make([]string, 0, len(DemoUsers))
	for _, user := range DemoUsers {
		if user.Role == role {
			ids = append(ids, user.ID)
		}
	}
	return ids
}

// SeedDemoUsers creates the demo accounts that do not exist yet. Existing
// accounts are left alone so changed passwords survive a re-seed.
func SeedDemoUsers(ctx context.Context, repo UserRepository, logger logrus.FieldLogger) error {
	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	created := 0
	for _, demo := range DemoUsers {
		_, err := repo.UserByLogin(ctx, demo.Username)
		if err == nil {
			continue
		}
		if !errors.Is(err, types.ErrUserNotFound) {
			return fmt.Errorf("failed to fetch demo user %s: %w", demo.Username, err)
		}

		user := &types.User{
			ID:           demo.ID,
			Username:     demo.Username,
			Email:        demo.Email(),
			PasswordHash: hash,
			Role:         demo.Role,
			FullName:     utils.StringPtr(demo.FullName),
			City:         utils.StringPtr(demo.City),
			IsVerified:   true,
		}
		if err := repo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", demo.Username, err)
		}
		created++
	}

	logger.WithField("created", created).WithField("total", len(DemoUsers)).Info("demo users seeded")
	return nil
}
