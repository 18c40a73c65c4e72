package store

import (
	"context"
	"fmt"
	"time"

	"volunteerhub/internal/utils"
	"volunteerhub/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const contactMessageTableName = "contact_messages"

var contactMessageColumns = utils.StructTagValues(types.ContactMessage{})

type FormsRepository struct {
	pool *pgxpool.Pool
}

func NewFormsRepository(pool *pgxpool.Pool) *FormsRepository {
	return &FormsRepository{pool: pool}
}

func (r *FormsRepository) CreateContactMessage(ctx context.Context, msg *types.ContactMessage) error {
	msg.ID = utils.NanoID()
	msg.CreatedAt = time.Now()

	query, args, err := psql().
		Insert(contactMessageTableName).
		SetMap(utils.StructToMap(msg)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build contact message insert: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}

	return nil
}

func (r *FormsRepository) LatestContactMessages(ctx context.Context, limit uint64) ([]*types.ContactMessage, error) {
	query, args, err := psql().
		Select(contactMessageColumns...).
		From(contactMessageTableName).
		OrderBy("created_at DESC").
		Limit(pageLimit(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build latest contact messages query: %w", err)
	}

	out := make([]*types.ContactMessage, 0)
	if err := pgxscan.Select(ctx, r.pool, &out, query, args...); err != nil {
		return nil, fmt.Errorf("select latest contact messages: %w", err)
	}

	return out, nil
}
