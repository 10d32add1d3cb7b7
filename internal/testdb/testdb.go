// Package testdb opens throwaway SQLite stores with the schema and a small
// question catalogue, for package tests.
package testdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories/postgres"
	"github.com/mbtmi/mbtmi/internal/scoring"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestID      uint = 1
	OtherTestID uint = 2

	// Question ids in the fixture catalogue
	QuestionEI1   uint = 1
	QuestionEI2   uint = 2
	QuestionSN    uint = 3
	QuestionTF    uint = 4
	QuestionJP    uint = 5
	QuestionOther uint = 6
)

// New returns a migrated, empty SQLite database that lives for the test.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "mbtmi.db") + "?_foreign_keys=on&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, postgres.NewRepository(db).AutoMigrate(context.Background()))
	return db
}

// Seed loads two tests. TestID has two e_or_i questions and one question on
// every other axis, each scaled -2/+2 except QuestionEI2 which is -1/+1.
func Seed(t testing.TB, db *gorm.DB) {
	t.Helper()

	tests := []models.Test{
		{ID: TestID, Title: "Personality"},
		{ID: OtherTestID, Title: "Other"},
	}
	require.NoError(t, db.Create(&tests).Error)

	questions := []models.Question{
		question(QuestionEI1, TestID, scoring.AxisEI, -2, 2),
		question(QuestionEI2, TestID, scoring.AxisEI, -1, 1),
		question(QuestionSN, TestID, scoring.AxisSN, -2, 2),
		question(QuestionTF, TestID, scoring.AxisTF, -2, 2),
		question(QuestionJP, TestID, scoring.AxisJP, -2, 2),
		question(QuestionOther, OtherTestID, scoring.AxisEI, -2, 2),
	}
	require.NoError(t, db.Create(&questions).Error)

	results := []models.Result{
		{TestID: TestID, MBTI: "ESTJ", Title: "The Executive", Content: "Organised and decisive."},
		{TestID: TestID, MBTI: "INFP", Title: "The Mediator", Content: "Idealistic and curious."},
		{TestID: TestID, MBTI: "ENTP", Title: "The Debater", Content: "Quick and inventive."},
		{TestID: OtherTestID, MBTI: "ISTJ", Title: "Other result", Content: "Belongs to the other test."},
	}
	require.NoError(t, db.Create(&results).Error)
}

func question(id, testID uint, axis scoring.Axis, min, max int) models.Question {
	return models.Question{
		ID:                id,
		TestID:            testID,
		Content:           "Question",
		QuestionContent:   "Which fits you better?",
		AnswerMinContent:  "The first",
		AnswerMaxContent:  "The second",
		ScaleMin:          min,
		ScaleMax:          max,
		AnswerAffectsMBTI: axis,
	}
}
