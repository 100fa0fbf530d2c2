package services

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"uptask/internal/models"
	"uptask/internal/repositories"
)

type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	LinkTelegram(ctx context.Context, userID string, chatID int64, enabled bool) error
}

type userService struct {
	repo         repositories.UserRepository
	authService  AuthService
	emailService EmailService // optional, nil when SMTP is not configured
}

func NewUserService(repo repositories.UserRepository, authService AuthService, emailService EmailService) UserService {
	return &userService{
		repo:         repo,
		authService:  authService,
		emailService: emailService,
	}
}

func (s *userService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if existing, _ := s.repo.GetByEmail(ctx, email); existing != nil {
		return nil, models.ErrEmailTaken
	}

	hash, err := s.authService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           strings.TrimSpace(name),
		Email:          email,
		PasswordHash:   hash,
		NotifyTelegram: true,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			// warn but do not fail registration
			zap.L().Warn("failed to send welcome email", zap.String("email", user.Email), zap.Error(err))
		}
	}

	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, models.ErrInvalidCredentials
	}
	if err := s.authService.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, models.ErrInvalidCredentials
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) LinkTelegram(ctx context.Context, userID string, chatID int64, enabled bool) error {
	return s.repo.UpdateTelegramLink(ctx, userID, chatID, enabled)
}
