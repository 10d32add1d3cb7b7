package repositories

import (
	"context"

	"github.com/mbtmi/mbtmi/internal/models"
	"gorm.io/gorm"
)

// TestRepository interface for the read-mostly test catalogue
type TestRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]*models.Test, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error)
	GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) // questions ordered by id
	CountQuestions(ctx context.Context, tx *gorm.DB, testID uint) (int64, error)
	GetQuestion(ctx context.Context, tx *gorm.DB, questionID uint) (*models.Question, error)

	// Provisioning, used by the catalogue import
	Upsert(ctx context.Context, tx *gorm.DB, test *models.Test) error
	UpsertQuestions(ctx context.Context, tx *gorm.DB, questions []*models.Question) error
}
