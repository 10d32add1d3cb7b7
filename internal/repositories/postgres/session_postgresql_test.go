package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/repositories/postgres"
	"github.com/mbtmi/mbtmi/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setup(t *testing.T) (repositories.Repository, *gorm.DB) {
	db := testdb.New(t)
	testdb.Seed(t, db)
	return postgres.NewRepository(db), db
}

func TestSessionPostgreSQL_UpsertAnswerOverwrites(t *testing.T) {
	repo, db := setup(t)
	ctx := context.Background()

	session := &models.Session{ID: "s-1", TestID: testdb.TestID}
	require.NoError(t, repo.Session().Create(ctx, nil, session))

	require.NoError(t, repo.Session().UpsertAnswer(ctx, nil, &models.SessionAnswer{
		SessionID: "s-1", QuestionID: testdb.QuestionEI1, Answer: -2,
	}))
	require.NoError(t, repo.Session().UpsertAnswer(ctx, nil, &models.SessionAnswer{
		SessionID: "s-1", QuestionID: testdb.QuestionEI1, Answer: 2,
	}))

	var answers []models.SessionAnswer
	require.NoError(t, db.Where("session_id = ?", "s-1").Find(&answers).Error)
	require.Len(t, answers, 1)
	assert.Equal(t, 2, answers[0].Answer)
}

func TestSessionPostgreSQL_GetAxisTotals(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.Session().Create(ctx, nil, &models.Session{ID: "s-1", TestID: testdb.TestID}))
	for qid, value := range map[uint]int{
		testdb.QuestionEI1: -2,
		testdb.QuestionEI2: -1,
		testdb.QuestionSN:  2,
		testdb.QuestionTF:  -2,
	} {
		require.NoError(t, repo.Session().UpsertAnswer(ctx, nil, &models.SessionAnswer{
			SessionID: "s-1", QuestionID: qid, Answer: value,
		}))
	}

	totals, err := repo.Session().GetAxisTotals(ctx, nil, "s-1")
	require.NoError(t, err)

	byAxis := make(map[string]repositories.AxisTotal)
	for _, total := range totals {
		byAxis[total.Axis] = total
	}
	assert.Len(t, byAxis, 3)
	assert.Equal(t, int64(-3), byAxis["e_or_i"].Total)
	assert.Equal(t, int64(2), byAxis["e_or_i"].Answers)
	assert.Equal(t, int64(2), byAxis["s_or_n"].Total)
	assert.Equal(t, int64(-2), byAxis["t_or_f"].Total)
}

func TestSessionPostgreSQL_DeleteRemovesAnswers(t *testing.T) {
	repo, db := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.Session().Create(ctx, nil, &models.Session{ID: "s-1", TestID: testdb.TestID}))
	require.NoError(t, repo.Session().UpsertAnswer(ctx, nil, &models.SessionAnswer{SessionID: "s-1", QuestionID: testdb.QuestionSN, Answer: 2}))
	require.NoError(t, repo.Session().UpsertAnswer(ctx, nil, &models.SessionAnswer{SessionID: "s-1", QuestionID: testdb.QuestionTF, Answer: 2}))

	deleted, err := repo.Session().Delete(ctx, nil, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	require.NoError(t, db.Model(&models.SessionAnswer{}).Where("session_id = ?", "s-1").Count(&count).Error)
	assert.Zero(t, count)

	_, err = repo.Session().GetByID(ctx, nil, "s-1")
	assert.True(t, repositories.IsNotFoundError(err))

	deleted, err = repo.Session().Delete(ctx, nil, "s-1")
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestSessionPostgreSQL_UpdateScore(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.Session().Create(ctx, nil, &models.Session{ID: "s-1", TestID: testdb.TestID}))
	scoredAt := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.Session().UpdateScore(ctx, nil, "s-1", "ENTP", datatypes.JSON(`{"e_or_i":-3}`), scoredAt))

	session, err := repo.Session().GetByIDWithAnswers(ctx, nil, "s-1")
	require.NoError(t, err)
	require.NotNil(t, session.MBTI)
	assert.Equal(t, "ENTP", *session.MBTI)
	assert.Equal(t, models.SessionScored, session.Status())
	assert.JSONEq(t, `{"e_or_i":-3}`, string(session.AxisScores))

	err = repo.Session().UpdateScore(ctx, nil, "missing", "ENTP", nil, scoredAt)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestRepository_TransactionRollsBack(t *testing.T) {
	repo, db := setup(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := repo.Session().Create(ctx, tx, &models.Session{ID: "s-1", TestID: testdb.TestID}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	assert.ErrorIs(t, err, gorm.ErrInvalidData)

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Zero(t, count)
}
