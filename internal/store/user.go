package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userTableName = "users"

var userColumns = utils.StructTagValues(types.User{})

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) User(ctx context.Context, userID string) (*types.User, error) {
	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// userByLoginQuery matches username or email ignoring case. A username match
// wins when one account's username equals another account's email.
func userByLoginQuery(login string) sq.SelectBuilder {
	login = strings.ToLower(strings.TrimSpace(login))

	return psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Or{
			sq.Expr("lower(username) = ?", login),
			sq.Expr("lower(email) = ?", login),
		}).
		OrderByClause("lower(username) = ? DESC", login).
		Limit(1)
}

// UserByLogin looks a user up by username or email, case-insensitively.
func (r *UserRepository) UserByLogin(ctx context.Context, login string) (*types.User, error) {
	query, args, err := userByLoginQuery(login).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user by login query: %w", err)
	}

	var user types.User
	err = pgxscan.Get(ctx, r.pool, &user, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user by login: %w", err)
	}

	return &user, nil
}

func (r *UserRepository) UsersByIDs(ctx context.Context, userIDs []string) ([]*types.User, error) {
	if len(userIDs) == 0 {
		return []*types.User{}, nil
	}

	query, args, err := psql().
		Select(userColumns...).
		From(userTableName).
		Where(sq.Eq{"id": userIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate users-by-ids query: %w", err)
	}

	var users []*types.User
	err = pgxscan.Select(ctx, r.pool, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by ids: %w", err)
	}

	return users, nil
}

func usersQuery(filter types.UserFilter) sq.SelectBuilder {
	builder := psql().
		Select(userColumns...).
		From(userTableName).
		OrderBy("created_at DESC").
		Limit(pageLimit(filter.Limit)).
		Offset(filter.Offset)

	if filter.Role != "" {
		builder = builder.Where(sq.Eq{"role": filter.Role})
	}
	if filter.Blocked != nil {
		builder = builder.Where(sq.Eq{"is_blocked": *filter.Blocked})
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := likePattern(q)
		builder = builder.Where(sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"full_name": pattern},
		})
	}

	return builder
}

func (r *UserRepository) Users(ctx context.Context, filter types.UserFilter) ([]*types.User, error) {
	query, args, err := usersQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate users query: %w", err)
	}

	users := make([]*types.User, 0)
	err = pgxscan.Select(ctx, r.pool, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *types.User) error {
	now := time.Now()
	if user.ID == "" {
		user.ID = utils.NanoID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := psql().
		Insert(userTableName).
		SetMap(utils.StructToMap(user)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate create user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateProfile writes the self-editable profile columns only.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *types.User) error {
	user.UpdatedAt = time.Now()

	query, args, err := psql().
		Update(userTableName).
		SetMap(map[string]any{
			"full_name":  user.FullName,
			"phone":      user.Phone,
			"birth_date": user.BirthDate,
			"city":       user.City,
			"bio":        user.Bio,
			"updated_at": user.UpdatedAt,
		}).
		Where(sq.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update user query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

func (r *UserRepository) setFlag(ctx context.Context, userID, column string, value bool) error {
	query, args, err := psql().
		Update(userTableName).
		Set(column, value).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate %s update query: %w", column, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return types.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	return r.setFlag(ctx, userID, "is_blocked", blocked)
}

func (r *UserRepository) SetVerified(ctx context.Context, userID string, verified bool) error {
	return r.setFlag(ctx, userID, "is_verified", verified)
}

func (r *UserRepository) CountByRole(ctx context.Context) (map[types.Role]int, error) {
	query, args, err := psql().
		Select("role", "count(*) AS total").
		From(userTableName).
		GroupBy("role").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate count by role query: %w", err)
	}

	var rows []struct {
		Role  types.Role `db:"role"`
		Total int        `db:"total"`
	}
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}

	counts := make(map[types.Role]int, len(types.AllRoles))
	for _, role := range types.AllRoles {
		counts[role] = 0
	}
	for _, row := range rows {
		counts[row.Role] = row.Total
	}

	return counts, nil
}
