package main

import (
	"context"
	"errors"
	"fmt"

	"volunteerhub/internal/auth"
	"volunteerhub/internal/db"
	"volunteerhub/internal/store"
	"volunteerhub/internal/validate"
	"volunteerhub/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

// adminInput reuses the registration rules for the fields an operator supplies.
type adminInput struct {
	Username string     `json:"username" validate:"required,min=3,max=32,username"`
	Email    string     `json:"email" validate:"required,email,max=254"`
	Password string     `json:"password" validate:"required,min=8,bcryptlen,password"`
	Role     types.Role `json:"role" validate:"required,oneof=admin moderator"`
}

var createAdminCommand = &cli.Command{
	Name:  "create-admin",
	Usage: "Create an administrator or moderator account",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "username", Required: true},
		&cli.StringFlag{Name: "email", Required: true},
		&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"ADMIN_PASSWORD"}},
		&cli.StringFlag{Name: "role", Value: string(types.RoleAdmin), Usage: "admin or moderator"},
	},
	Action: func(c *cli.Context) error {
		input := adminInput{
			Username: c.String("username"),
			Email:    c.String("email"),
			Password: c.String("password"),
			Role:     types.Role(c.String("role")),
		}
		if errs := validate.Struct(&input); len(errs) > 0 {
			return fmt.Errorf("invalid input: %v", errs)
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

		hash, err := auth.HashPassword(input.Password)
		if err != nil {
			return err
		}

		user := &types.User{
			Username:     input.Username,
			Email:        input.Email,
			PasswordHash: hash,
			Role:         input.Role,
			IsVerified:   true,
		}
		if err := store.NewUserRepository(pool).Create(ctx, user); err != nil {
			if errors.Is(err, types.ErrUserExists) {
				return fmt.Errorf("user %s already exists", input.Username)
			}
			return err
		}

		logrus.WithField("user_id", user.ID).WithField("role", user.Role).Info("account created")
		return nil
	},
}
