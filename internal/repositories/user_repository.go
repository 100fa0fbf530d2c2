package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"uptask/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateTelegramLink(ctx context.Context, userID string, chatID int64, enabled bool) error
	GetTelegramSettings(ctx context.Context, userID string) (chatID int64, notify bool, err error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{db: db}
}

const uniqueViolation = pq.ErrorCode("23505")

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	const q = `
		INSERT INTO users (id, name, email, password_hash, telegram_chat_id, notify_telegram, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.db.ExecContext(ctx, q,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.TelegramChatID, user.NotifyTelegram, user.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return models.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	const q = `
		SELECT id, name, email, password_hash,
		       COALESCE(telegram_chat_id, 0), COALESCE(notify_telegram, TRUE), created_at
		FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, name, email, password_hash,
		       COALESCE(telegram_chat_id, 0), COALESCE(notify_telegram, TRUE), created_at
		FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, q, email))
}

func (r *userRepository) scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash,
		&u.TelegramChatID, &u.NotifyTelegram, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) UpdateTelegramLink(ctx context.Context, userID string, chatID int64, enabled bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET telegram_chat_id = $1, notify_telegram = $2 WHERE id = $3`,
		chatID, enabled, userID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) GetTelegramSettings(ctx context.Context, userID string) (int64, bool, error) {
	var chatID int64
	var notify bool
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(telegram_chat_id, 0), COALESCE(notify_telegram, TRUE) FROM users WHERE id = $1`,
		userID,
	).Scan(&chatID, &notify)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, false, models.ErrUserNotFound
		}
		return 0, false, err
	}
	return chatID, notify, nil
}
