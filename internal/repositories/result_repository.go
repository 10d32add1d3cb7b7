package repositories

import (
	"context"

	"github.com/mbtmi/mbtmi/internal/models"
	"gorm.io/gorm"
)

// ResultRepository interface for narrative results keyed by (test, type code)
type ResultRepository interface {
	GetByTestAndCode(ctx context.Context, tx *gorm.DB, testID uint, mbti string) (*models.Result, error)
	ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Result, error)
	Upsert(ctx context.Context, tx *gorm.DB, results []*models.Result) error
}
