package postgres

import (
	"context"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TestPostgreSQL struct {
	db *gorm.DB
}

func NewTestPostgreSQL(db *gorm.DB) repositories.TestRepository {
	return &TestPostgreSQL{db: db}
}

func (t TestPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Test, error) {
	db := getDB(t.db, tx)
	tests := make([]*models.Test, 0)
	if err := db.WithContext(ctx).Order("id").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (t TestPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	db := getDB(t.db, tx)
	var test models.Test
	if err := db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (t TestPostgreSQL) GetByIDWithQuestions(ctx context.Context, tx *gorm.DB, id uint) (*models.Test, error) {
	db := getDB(t.db, tx)
	var test models.Test
	if err := db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id")
		}).
		First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (t TestPostgreSQL) CountQuestions(ctx context.Context, tx *gorm.DB, testID uint) (int64, error) {
	db := getDB(t.db, tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Question{}).Where("test_id = ?", testID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (t TestPostgreSQL) GetQuestion(ctx context.Context, tx *gorm.DB, questionID uint) (*models.Question, error) {
	db := getDB(t.db, tx)
	var question models.Question
	if err := db.WithContext(ctx).First(&question, questionID).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (t TestPostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, test *models.Test) error {
	db := getDB(t.db, tx)
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "managed_by", "updated_at"}),
		}).
		Create(test).Error
}

func (t TestPostgreSQL) UpsertQuestions(ctx context.Context, tx *gorm.DB, questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}
	db := getDB(t.db, tx)
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"test_id", "content", "question_content", "answer_min_content", "answer_max_content",
				"scale_min", "scale_max", "answer_affects_mbti", "updated_at",
			}),
		}).
		Create(&questions).Error
}
