package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mbtmi/mbtmi/internal/auth"
	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/validator"
)

type credentialService struct {
	repo      repositories.Repository
	hasher    *auth.PasswordHasher
	publisher events.EventPublisher
	logger    *ServiceLogger
	validator *validator.Validator

	dummyOnce sync.Once
	dummySalt string
	dummyHash string
}

func NewCredentialService(repo repositories.Repository, hasher *auth.PasswordHasher, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) CredentialService {
	return &credentialService{
		repo:      repo,
		hasher:    hasher,
		publisher: publisher,
		logger:    NewServiceLogger(logger, LogConfig{Service: "mbtmi", Component: "credentials"}),
		validator: validator,
	}
}

func (s *credentialService) Register(ctx context.Context, req *RegisterRequest) (user *models.User, err error) {
	op := s.logger.WithOperation(ctx, "register")
	defer func() {
		id := ""
		if user != nil {
			id = user.ID
		}
		op.LogResult(id, "user", err)
	}()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	exists, err := s.repo.User().ExistsByUsername(ctx, nil, username)
	if err != nil {
		return nil, classify(err, ErrUserNotFound)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	salt := s.hasher.NewSalt()
	hash, err := s.hasher.Hash(req.Password, salt)
	if err != nil {
		return nil, err
	}

	user = &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Password:     hash,
		PasswordSalt: salt,
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		// Lost a race with a concurrent registration
		if repositories.IsDuplicateKeyError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, classify(err, ErrUserNotFound)
	}

	publish(ctx, s.publisher, s.logger.Logger(), events.NewEvent(events.EventUserRegistered, events.UserRegisteredEvent{
		UserID:   user.ID,
		Username: user.Username,
	}))

	return user, nil
}

func (s *credentialService) Authenticate(ctx context.Context, req *LoginRequest) (userID string, err error) {
	op := s.logger.WithOperation(ctx, "authenticate")
	defer func() { op.LogResult(userID, "user", err) }()

	if err := s.validator.Validate(req); err != nil {
		return "", err
	}
	username := strings.TrimSpace(req.Username)

	user, err := s.repo.User().GetByUsername(ctx, nil, username)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same KDF cost as a real check so timing does not reveal the account exists
			s.burnDummyHash(req.Password)
			s.logger.LogSecurityEvent(ctx, "login_unknown_user", username, nil)
			return "", ErrUserNotFound
		}
		return "", classify(err, ErrUserNotFound)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordSalt, user.Password)
	if err != nil {
		return "", err
	}
	if !ok {
		s.logger.LogSecurityEvent(ctx, "login_bad_password", username, map[string]interface{}{"user_id": user.ID})
		return "", ErrInvalidCredentials
	}

	return user.ID, nil
}

func (s *credentialService) burnDummyHash(password string) {
	s.dummyOnce.Do(func() {
		s.dummySalt = s.hasher.NewSalt()
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString(), s.dummySalt)
	})
	_, _ = s.hasher.Verify(password, s.dummySalt, s.dummyHash)
}
