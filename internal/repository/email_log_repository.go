package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/junggyoo/oh-my-stock/internal/model"
)

type EmailLogRepository struct {
	db *sql.DB
}

func NewEmailLogRepository(db *sql.DB) *EmailLogRepository {
	return &EmailLogRepository{db: db}
}

// CreateEmailLog appends a delivery record. Rows are never updated.
func (r *EmailLogRepository) CreateEmailLog(ctx context.Context, log *model.EmailLog) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO email_logs(id, user_id, subject, status, error)
		VALUES($1, $2, $3, $4, $5)
		RETURNING id, sent_at
	`, uuid.NewString(), log.UserID, log.Subject, log.Status, log.Error).Scan(&log.ID, &log.SentAt)
}
