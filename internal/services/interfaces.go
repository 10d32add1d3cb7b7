package services

import (
	"context"
	"io"
	"time"

	"github.com/mbtmi/mbtmi/internal/models"
)

// ===== SERVICE INTERFACES =====

// CredentialService registers users and checks their passwords
type CredentialService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req *LoginRequest) (string, error)
}

// TestService serves the read-only test catalogue
type TestService interface {
	ListTests(ctx context.Context) ([]*models.Test, error)
	GetTest(ctx context.Context, testID uint, includeQuestions bool) (*models.Test, error)
	CountQuestions(ctx context.Context, testID uint) (int64, error)
}

// SessionService runs a respondent through one test
type SessionService interface {
	CreateSession(ctx context.Context, testID uint, userID *string) (*models.Session, error)
	RecordAnswer(ctx context.Context, sessionID string, questionID uint, side string) error
	SubmitAnswers(ctx context.Context, req *SubmitAnswersRequest, userID *string) (*models.Session, error)
	ScoreSession(ctx context.Context, sessionID string) (string, error)
	GetResult(ctx context.Context, sessionID string) (*models.Result, error)
	GetSession(ctx context.Context, sessionID string) (*SessionResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// ImportService loads and dumps the test catalogue as xlsx workbooks
type ImportService interface {
	ImportWorkbook(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)
	ExportWorkbook(ctx context.Context, testID uint) ([]byte, error)
}

// ===== REQUEST TYPES =====

type RegisterRequest struct {
	Username string `json:"username" validate:"required,notblank,max=150"`
	Password string `json:"password" validate:"required,notblank,max=256"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SubmitAnswersRequest creates, fills and scores a session in one go.
// Answers maps question id to side ("l" or "r").
type SubmitAnswersRequest struct {
	TestID  uint            `json:"test_id" validate:"required"`
	Answers map[uint]string `json:"answers" validate:"required,min=1,dive,answer_side"`
}

// ===== RESPONSE TYPES =====

type SessionResponse struct {
	*models.Session
	Status models.SessionStatus `json:"status"`
}

func NewSessionResponse(session *models.Session) *SessionResponse {
	return &SessionResponse{Session: session, Status: session.Status()}
}

type LoginResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
