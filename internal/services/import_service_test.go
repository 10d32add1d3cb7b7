package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/scoring"
	"github.com/mbtmi/mbtmi/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheets map[string][][]interface{}) *bytes.Reader {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func TestImportService_ImportWorkbook(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Warm the cache so the import has something to invalidate
	_, err := f.services.Test().ListTests(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.cache.len())

	file := workbook(t, map[string][][]interface{}{
		SheetTests: {
			{"id", "title"},
			{3, "Imported"},
		},
		SheetQuestions: {
			{"id", "test_id", "content", "question_content", "answer_min_content", "answer_max_content", "scale_min", "scale_max", "answer_affects_mbti"},
			{30, 3, "c", "q", "min", "max", -3, 3, "e_or_i"},
			{31, 3, "c", "q", "min", "max", -3, 3, "S_OR_N"},
			{32, 3, "c", "q", "min", "max", -3, 3, "x_or_y"},
			{33, 3, "c", "q", "min", "max", "low", 3, "t_or_f"},
			{34, 77, "c", "q", "min", "max", -1, 1, "j_or_p"},
		},
		SheetResults: {
			{"test_id", "mbti", "title", "content"},
			{3, "entp", "Debater", "text"},
			{3, "ENTX", "Broken", "text"},
			{testdb.TestID, "ENTP", "Renamed Debater", "text"},
		},
	})

	summary, err := f.services.Import().ImportWorkbook(ctx, file)
	require.NoError(t, err)

	assert.Equal(t, models.ImportPartial, summary.Status)
	assert.Equal(t, 1, summary.Tests)
	assert.Equal(t, 2, summary.Questions)
	assert.Equal(t, 2, summary.Results)
	assert.Equal(t, 4, summary.ErrorCount)

	rejected := map[string]bool{}
	for _, e := range summary.Errors {
		rejected[e.Sheet+":"+e.Column] = true
	}
	assert.True(t, rejected["questions:answer_affects_mbti"])
	assert.True(t, rejected["questions:scale_min"])
	assert.True(t, rejected["questions:test_id"])
	assert.True(t, rejected["results:mbti"])

	count, err := f.repo.Test().CountQuestions(ctx, nil, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	q, err := f.repo.Test().GetQuestion(ctx, nil, 31)
	require.NoError(t, err)
	assert.Equal(t, scoring.AxisSN, q.AnswerAffectsMBTI)

	result, err := f.repo.Result().GetByTestAndCode(ctx, nil, testdb.TestID, "ENTP")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Debater", result.Title)

	assert.Zero(t, f.cache.len())
}

func TestImportService_RejectsUnusableFiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.services.Import().ImportWorkbook(ctx, strings.NewReader("not a workbook"))
	assert.True(t, IsValidation(err))

	_, err = f.services.Import().ImportWorkbook(ctx, workbook(t, map[string][][]interface{}{
		"Unrelated": {{"a"}},
	}))
	assert.True(t, IsValidation(err))

	summary, err := f.services.Import().ImportWorkbook(ctx, workbook(t, map[string][][]interface{}{
		SheetTests: {{"id"}, {5}},
	}))
	require.NoError(t, err)
	assert.Equal(t, models.ImportValidationFailed, summary.Status)
	require.Len(t, summary.Errors, 1)
	assert.Equal(t, "title", summary.Errors[0].Column)
}

func TestImportService_ExportRoundTrip(t *testing.T) {
	source := newFixture(t)
	ctx := context.Background()

	data, err := source.services.Import().ExportWorkbook(ctx, testdb.TestID)
	require.NoError(t, err)

	target := newFixture(t)
	require.NoError(t, target.db.Exec("DELETE FROM mbtmi_result").Error)
	require.NoError(t, target.db.Exec("DELETE FROM mbtmi_question").Error)
	require.NoError(t, target.db.Exec("DELETE FROM mbtmi_test").Error)

	summary, err := target.services.Import().ImportWorkbook(ctx, bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, models.ImportCompleted, summary.Status)
	assert.Equal(t, 1, summary.Tests)
	assert.Equal(t, 5, summary.Questions)
	assert.Equal(t, 3, summary.Results)

	want, err := source.repo.Test().GetByIDWithQuestions(ctx, nil, testdb.TestID)
	require.NoError(t, err)
	got, err := target.repo.Test().GetByIDWithQuestions(ctx, nil, testdb.TestID)
	require.NoError(t, err)

	assert.Equal(t, want.Title, got.Title)
	require.Len(t, got.Questions, len(want.Questions))
	for i := range want.Questions {
		assert.Equal(t, want.Questions[i].ScaleMin, got.Questions[i].ScaleMin)
		assert.Equal(t, want.Questions[i].ScaleMax, got.Questions[i].ScaleMax)
		assert.Equal(t, want.Questions[i].AnswerAffectsMBTI, got.Questions[i].AnswerAffectsMBTI)
	}

	_, err = source.services.Import().ExportWorkbook(ctx, 42)
	assert.ErrorIs(t, err, ErrTestNotFound)
}
