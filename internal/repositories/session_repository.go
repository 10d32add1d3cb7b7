package repositories

import (
	"context"
	"time"

	"github.com/mbtmi/mbtmi/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionRepository interface for quiz sessions and their answers
type SessionRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, session *models.Session) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Session, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Session, error) // row lock where supported
	GetByIDWithAnswers(ctx context.Context, tx *gorm.DB, id string) (*models.Session, error)
	Delete(ctx context.Context, tx *gorm.DB, id string) (int64, error) // removes answers then the session

	// Answers
	UpsertAnswer(ctx context.Context, tx *gorm.DB, answer *models.SessionAnswer) error
	CountAnswers(ctx context.Context, tx *gorm.DB, sessionID string) (int64, error)

	// Scoring
	GetAxisTotals(ctx context.Context, tx *gorm.DB, sessionID string) ([]AxisTotal, error)
	UpdateScore(ctx context.Context, tx *gorm.DB, id string, mbti string, axisScores datatypes.JSON, scoredAt time.Time) error
}
