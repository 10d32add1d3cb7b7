package postgres

import (
	"context"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResultPostgreSQL struct {
	db *gorm.DB
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{db: db}
}

func (r ResultPostgreSQL) GetByTestAndCode(ctx context.Context, tx *gorm.DB, testID uint, mbti string) (*models.Result, error) {
	db := getDB(r.db, tx)
	var result models.Result
	if err := db.WithContext(ctx).Where("test_id = ? AND mbti = ?", testID, mbti).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r ResultPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, results []*models.Result) error {
	if len(results) == 0 {
		return nil
	}
	db := getDB(r.db, tx)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "test_id"}, {Name: "mbti"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content"}),
		}).
		Create(&results).Error
}

func (r ResultPostgreSQL) ListByTest(ctx context.Context, tx *gorm.DB, testID uint) ([]*models.Result, error) {
	db := getDB(r.db, tx)
	results := make([]*models.Result, 0)
	if err := db.WithContext(ctx).Where("test_id = ?", testID).Order("mbti").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
