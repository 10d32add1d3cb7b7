package postgres

import (
	"context"
	"time"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionPostgreSQL struct {
	db *gorm.DB
}

func NewSessionPostgreSQL(db *gorm.DB) repositories.SessionRepository {
	return &SessionPostgreSQL{db: db}
}

func (s SessionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, session *models.Session) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).Omit(clause.Associations).Create(session).Error
}

func (s SessionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Session, error) {
	db := getDB(s.db, tx)
	var session models.Session
	if err := db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s SessionPostgreSQL) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id string) (*models.Session, error) {
	db := getDB(s.db, tx)
	var session models.Session
	if err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s SessionPostgreSQL) GetByIDWithAnswers(ctx context.Context, tx *gorm.DB, id string) (*models.Session, error) {
	db := getDB(s.db, tx)
	var session models.Session
	if err := db.WithContext(ctx).
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("question_id")
		}).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (s SessionPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) (int64, error) {
	db := getDB(s.db, tx).WithContext(ctx)
	if err := db.Where("session_id = ?", id).Delete(&models.SessionAnswer{}).Error; err != nil {
		return 0, err
	}
	res := db.Where("id = ?", id).Delete(&models.Session{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s SessionPostgreSQL) UpsertAnswer(ctx context.Context, tx *gorm.DB, answer *models.SessionAnswer) error {
	db := getDB(s.db, tx)
	return db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "updated_at"}),
		}).
		Create(answer).Error
}

func (s SessionPostgreSQL) CountAnswers(ctx context.Context, tx *gorm.DB, sessionID string) (int64, error) {
	db := getDB(s.db, tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.SessionAnswer{}).Where("session_id = ?", sessionID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s SessionPostgreSQL) GetAxisTotals(ctx context.Context, tx *gorm.DB, sessionID string) ([]repositories.AxisTotal, error) {
	db := getDB(s.db, tx)
	var totals []repositories.AxisTotal
	if err := db.WithContext(ctx).
		Table("mbtmi_session_answer AS a").
		Select("q.answer_affects_mbti AS axis, SUM(a.answer) AS total, COUNT(*) AS answers").
		Joins("JOIN mbtmi_question AS q ON q.id = a.question_id").
		Where("a.session_id = ?", sessionID).
		Group("q.answer_affects_mbti").
		Order("q.answer_affects_mbti").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

func (s SessionPostgreSQL) UpdateScore(ctx context.Context, tx *gorm.DB, id string, mbti string, axisScores datatypes.JSON, scoredAt time.Time) error {
	db := getDB(s.db, tx)
	res := db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"mbti":        mbti,
			"axis_scores": axisScores,
			"scored_at":   scoredAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
