package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/junggyoo/oh-my-stock/internal/model"
	"github.com/lib/pq"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
}

// Create inserts the user and the default email settings in one transaction.
func (r *UserRepository) Create(ctx context.Context, email string, name *string, passwordHash string) (*model.User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var u model.User
	err = scanUser(tx.QueryRowContext(ctx, `
		INSERT INTO users(id, email, name, password_hash)
		VALUES($1, $2, $3, $4)
		RETURNING `+userColumns,
		uuid.NewString(), email, name, passwordHash), &u)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	settings := model.DefaultEmailSettings(u.ID)
	_, err = tx.ExecContext(ctx, `
		INSERT INTO email_settings(id, user_id, enabled, send_time, timezone)
		VALUES($1, $2, $3, $4, $5)
	`, uuid.NewString(), settings.UserID, settings.Enabled, settings.SendTime, settings.Timezone)
	if err != nil {
		return nil, fmt.Errorf("insert email settings: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email), &u)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateProfile changes only the fields that are non-nil.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, name, email *string) (*model.User, error) {
	var u model.User
	err := scanUser(r.db.QueryRowContext(ctx, `
		UPDATE users
		SET name = COALESCE($2, name), email = COALESCE($3, email), updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns, id, name, email), &u)
	if isUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1
	`, id, passwordHash)
	return err
}

// Delete removes the user; watchlist entries, settings and logs cascade.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepository) GetSettings(ctx context.Context, userID string) (*model.EmailSettings, error) {
	var s model.EmailSettings
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, enabled, send_time, timezone FROM email_settings WHERE user_id = $1
	`, userID).Scan(&s.ID, &s.UserID, &s.Enabled, &s.SendTime, &s.Timezone)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *UserRepository) UpsertSettings(ctx context.Context, s *model.EmailSettings) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO email_settings(id, user_id, enabled, send_time, timezone)
		VALUES($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET enabled = EXCLUDED.enabled, send_time = EXCLUDED.send_time, timezone = EXCLUDED.timezone
		RETURNING id
	`, uuid.NewString(), s.UserID, s.Enabled, s.SendTime, s.Timezone).Scan(&s.ID)
}

// LoadDigestRecipients returns every user in signup order with settings (nil
// when the row is missing) and the watchlist in the order it was built.
func (r *UserRepository) LoadDigestRecipients(ctx context.Context) ([]model.DigestRecipient, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT u.id, u.email, u.name, u.password_hash, u.created_at, u.updated_at,
		       s.id, s.enabled, s.send_time, s.timezone
		FROM users u
		LEFT JOIN email_settings s ON s.user_id = u.id
		ORDER BY u.created_at ASC, u.id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var recipients []model.DigestRecipient
	index := map[string]int{}
	for rows.Next() {
		var (
			rc       model.DigestRecipient
			sID      sql.NullString
			enabled  sql.NullBool
			sendTime sql.NullString
			timezone sql.NullString
		)
		u := &rc.User
		err := rows.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt,
			&sID, &enabled, &sendTime, &timezone)
		if err != nil {
			return nil, err
		}
		if sID.Valid {
			rc.Settings = &model.EmailSettings{
				ID:       sID.String,
				UserID:   u.ID,
				Enabled:  enabled.Bool,
				SendTime: sendTime.String,
				Timezone: timezone.String,
			}
		}
		index[u.ID] = len(recipients)
		recipients = append(recipients, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(recipients) == 0 {
		return recipients, nil
	}

	ids := make([]string, len(recipients))
	for i, rc := range recipients {
		ids[i] = rc.User.ID
	}

	stockRows, err := r.db.QueryContext(ctx, `
		SELECT us.user_id, s.id, s.symbol, s.name, s.market, s.created_at
		FROM user_stocks us
		JOIN stocks s ON s.id = us.stock_id
		WHERE us.user_id = ANY($1)
		ORDER BY us.created_at ASC, us.id ASC
	`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("query watchlists: %w", err)
	}
	defer stockRows.Close()

	for stockRows.Next() {
		var userID string
		var s model.Stock
		if err := stockRows.Scan(&userID, &s.ID, &s.Symbol, &s.Name, &s.Market, &s.CreatedAt); err != nil {
			return nil, err
		}
		i := index[userID]
		recipients[i].Watchlist = append(recipients[i].Watchlist, s)
	}

	return recipients, stockRows.Err()
}
