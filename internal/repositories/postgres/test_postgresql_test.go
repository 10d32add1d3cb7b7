package postgres_test

import (
	"context"
	"testing"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/scoring"
	"github.com/mbtmi/mbtmi/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestPostgreSQL_Reads(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	tests, err := repo.Test().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, tests, 2)
	assert.Equal(t, testdb.TestID, tests[0].ID)
	assert.Empty(t, tests[0].Questions)

	test, err := repo.Test().GetByIDWithQuestions(ctx, nil, testdb.TestID)
	require.NoError(t, err)
	require.Len(t, test.Questions, 5)
	for i := 1; i < len(test.Questions); i++ {
		assert.Less(t, test.Questions[i-1].ID, test.Questions[i].ID)
	}
	assert.Equal(t, scoring.AxisEI, test.Questions[0].AnswerAffectsMBTI)

	count, err := repo.Test().CountQuestions(ctx, nil, testdb.TestID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)

	_, err = repo.Test().GetByID(ctx, nil, 99)
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestTestPostgreSQL_EmptyList(t *testing.T) {
	repo := postgresRepo(t)

	tests, err := repo.Test().List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, tests)
	assert.Empty(t, tests)
}

func TestTestPostgreSQL_CorruptAxisFailsLoad(t *testing.T) {
	repo, db := setup(t)
	require.NoError(t, db.Exec("UPDATE mbtmi_question SET answer_affects_mbti = ? WHERE id = ?", "x_or_y", testdb.QuestionSN).Error)

	_, err := repo.Test().GetByIDWithQuestions(context.Background(), nil, testdb.TestID)
	var unknown *scoring.UnknownAxisError
	assert.ErrorAs(t, err, &unknown)
}

func TestTestPostgreSQL_Upserts(t *testing.T) {
	repo, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, repo.Test().Upsert(ctx, nil, &models.Test{ID: testdb.TestID, Title: "Renamed"}))
	require.NoError(t, repo.Test().UpsertQuestions(ctx, nil, []*models.Question{
		{ID: testdb.QuestionSN, TestID: testdb.TestID, ScaleMin: -3, ScaleMax: 3, AnswerAffectsMBTI: scoring.AxisSN},
		{ID: 50, TestID: testdb.TestID, ScaleMin: -1, ScaleMax: 1, AnswerAffectsMBTI: scoring.AxisJP},
	}))
	require.NoError(t, repo.Result().Upsert(ctx, nil, []*models.Result{
		{TestID: testdb.TestID, MBTI: "ENTP", Title: "Updated", Content: "New"},
	}))

	test, err := repo.Test().GetByID(ctx, nil, testdb.TestID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", test.Title)

	q, err := repo.Test().GetQuestion(ctx, nil, testdb.QuestionSN)
	require.NoError(t, err)
	assert.Equal(t, 3, q.ScaleMax)

	count, err := repo.Test().CountQuestions(ctx, nil, testdb.TestID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	result, err := repo.Result().GetByTestAndCode(ctx, nil, testdb.TestID, "ENTP")
	require.NoError(t, err)
	assert.Equal(t, "Updated", result.Title)

	_, err = repo.Result().GetByTestAndCode(ctx, nil, testdb.OtherTestID, "ENTP")
	assert.True(t, repositories.IsNotFoundError(err))
}
