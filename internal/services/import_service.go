package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/mbtmi/mbtmi/internal/cache"
	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/scoring"
	"github.com/mbtmi/mbtmi/internal/validator"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Workbook sheet names
const (
	SheetTests     = "tests"
	SheetQuestions = "questions"
	SheetResults   = "results"
)

var (
	testColumns     = []string{"id", "title"}
	questionColumns = []string{"id", "test_id", "content", "question_content", "answer_min_content", "answer_max_content", "scale_min", "scale_max", "answer_affects_mbti"}
	resultColumns   = []string{"test_id", "mbti", "title", "content"}
)

type importService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewImportService(repo repositories.Repository, cacheService cache.CacheService, logger *slog.Logger, validator *validator.Validator) ImportService {
	if cacheService == nil {
		cacheService = cache.NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &importService{
		repo:      repo,
		cache:     cacheService,
		logger:    logger.With("component", "import"),
		validator: validator,
	}
}

// ===== ROW TYPES =====

type testRow struct {
	ID    uint   `json:"id" validate:"required"`
	Title string `json:"title" validate:"required,notblank,max=200"`
}

type questionRow struct {
	ID               uint   `json:"id" validate:"required"`
	TestID           uint   `json:"test_id" validate:"required"`
	Content          string `json:"content"`
	QuestionContent  string `json:"question_content"`
	AnswerMinContent string `json:"answer_min_content"`
	AnswerMaxContent string `json:"answer_max_content"`
	ScaleMin         int    `json:"scale_min"`
	ScaleMax         int    `json:"scale_max"`
	Axis             string `json:"answer_affects_mbti" validate:"required,mbti_axis"`
}

type resultRow struct {
	TestID  uint   `json:"test_id" validate:"required"`
	MBTI    string `json:"mbti" validate:"required,mbti_code"`
	Title   string `json:"title" validate:"required,notblank,max=200"`
	Content string `json:"content"`
}

// sheetReader walks the data rows of one sheet and collects row errors
type sheetReader struct {
	sheet   string
	headers map[string]int
	row     []string
	rowNum  int
	errors  []models.ImportRowError
	rowErrs int
}

func (r *sheetReader) text(column string) string {
	idx, ok := r.headers[column]
	if !ok || idx >= len(r.row) {
		return ""
	}
	return strings.TrimSpace(r.row[idx])
}

func (r *sheetReader) id(column string) uint {
	raw := r.text(column)
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		r.fail(column, "must be a positive integer", raw)
		return 0
	}
	return uint(v)
}

func (r *sheetReader) integer(column string) int {
	raw := r.text(column)
	v, err := strconv.Atoi(raw)
	if err != nil {
		r.fail(column, "must be an integer", raw)
		return 0
	}
	return v
}

func (r *sheetReader) fail(column, message, value string) {
	r.errors = append(r.errors, models.ImportRowError{
		Sheet:   r.sheet,
		Row:     r.rowNum,
		Column:  column,
		Message: message,
		Value:   value,
	})
	r.rowErrs++
}

func (r *sheetReader) failValidation(err error) {
	errs, ok := err.(ValidationErrors)
	if !ok {
		r.fail("", err.Error(), "")
		return
	}
	for _, e := range errs {
		r.fail(e.Field, e.Message, fmt.Sprint(e.Value))
	}
}

// ===== IMPORT =====

// ImportWorkbook upserts the tests, questions and results found in an xlsx
// workbook. Invalid rows are reported and skipped; valid rows are written in
// one transaction.
func (s *importService) ImportWorkbook(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	start := time.Now()

	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, NewValidationError("file", "not a readable xlsx workbook", err.Error())
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, name := range f.GetSheetList() {
		present[strings.ToLower(name)] = true
	}
	if !present[SheetTests] && !present[SheetQuestions] && !present[SheetResults] {
		return nil, NewValidationError("file", fmt.Sprintf("workbook needs at least one of the sheets %s, %s or %s", SheetTests, SheetQuestions, SheetResults), f.GetSheetList())
	}

	var rowErrors []models.ImportRowError
	collect := func(r *sheetReader) { rowErrors = append(rowErrors, r.errors...) }

	tests, r, err := readSheet(f, SheetTests, testColumns, func(r *sheetReader) *models.Test {
		row := testRow{ID: r.id("id"), Title: r.text("title")}
		if r.rowErrs > 0 {
			return nil
		}
		if err := s.validator.Validate(&row); err != nil {
			r.failValidation(err)
			return nil
		}
		return &models.Test{ID: row.ID, Title: row.Title}
	})
	if err != nil {
		return nil, err
	}
	collect(r)

	questions, r, err := readSheet(f, SheetQuestions, questionColumns, func(r *sheetReader) *models.Question {
		row := questionRow{
			ID:               r.id("id"),
			TestID:           r.id("test_id"),
			Content:          r.text("content"),
			QuestionContent:  r.text("question_content"),
			AnswerMinContent: r.text("answer_min_content"),
			AnswerMaxContent: r.text("answer_max_content"),
			ScaleMin:         r.integer("scale_min"),
			ScaleMax:         r.integer("scale_max"),
			Axis:             strings.ToLower(r.text("answer_affects_mbti")),
		}
		if r.rowErrs > 0 {
			return nil
		}
		if err := s.validator.Validate(&row); err != nil {
			r.failValidation(err)
			return nil
		}
		axis, err := scoring.ParseAxis(row.Axis)
		if err != nil {
			r.fail("answer_affects_mbti", err.Error(), row.Axis)
			return nil
		}
		return &models.Question{
			ID:                row.ID,
			TestID:            row.TestID,
			Content:           row.Content,
			QuestionContent:   row.QuestionContent,
			AnswerMinContent:  row.AnswerMinContent,
			AnswerMaxContent:  row.AnswerMaxContent,
			ScaleMin:          row.ScaleMin,
			ScaleMax:          row.ScaleMax,
			AnswerAffectsMBTI: axis,
		}
	})
	if err != nil {
		return nil, err
	}
	collect(r)

	results, r, err := readSheet(f, SheetResults, resultColumns, func(r *sheetReader) *models.Result {
		row := resultRow{
			TestID:  r.id("test_id"),
			MBTI:    strings.ToUpper(r.text("mbti")),
			Title:   r.text("title"),
			Content: r.text("content"),
		}
		if r.rowErrs > 0 {
			return nil
		}
		if err := s.validator.Validate(&row); err != nil {
			r.failValidation(err)
			return nil
		}
		return &models.Result{TestID: row.TestID, MBTI: row.MBTI, Title: row.Title, Content: row.Content}
	})
	if err != nil {
		return nil, err
	}
	collect(r)

	summary := &models.ImportSummary{}
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		known := make(map[uint]bool, len(tests))
		for _, test := range tests {
			if err := s.repo.Test().Upsert(ctx, tx, test.value); err != nil {
				return err
			}
			known[test.value.ID] = true
			summary.Tests++
		}

		// Rows pointing at a test neither in the workbook nor in the store are rejected
		exists := func(testID uint) (bool, error) {
			if ok, seen := known[testID]; seen {
				return ok, nil
			}
			_, err := s.repo.Test().GetByID(ctx, tx, testID)
			switch {
			case err == nil:
				known[testID] = true
			case repositories.IsNotFoundError(err):
				known[testID] = false
			default:
				return false, err
			}
			return known[testID], nil
		}

		validQuestions := make([]*models.Question, 0, len(questions))
		for _, q := range questions {
			ok, err := exists(q.value.TestID)
			if err != nil {
				return err
			}
			if !ok {
				rowErrors = append(rowErrors, unknownTestError(SheetQuestions, q.row, q.value.TestID))
				continue
			}
			validQuestions = append(validQuestions, q.value)
		}
		if err := s.repo.Test().UpsertQuestions(ctx, tx, validQuestions); err != nil {
			return err
		}
		summary.Questions = len(validQuestions)

		validResults := make([]*models.Result, 0, len(results))
		for _, res := range results {
			ok, err := exists(res.value.TestID)
			if err != nil {
				return err
			}
			if !ok {
				rowErrors = append(rowErrors, unknownTestError(SheetResults, res.row, res.value.TestID))
				continue
			}
			validResults = append(validResults, res.value)
		}
		if err := s.repo.Result().Upsert(ctx, tx, validResults); err != nil {
			return err
		}
		summary.Results = len(validResults)
		return nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Workbook import failed", "error", err)
		return nil, classify(err, ErrNotFound)
	}

	if err := s.cache.DeletePattern(ctx, cache.TestsPattern); err != nil {
		s.logger.WarnContext(ctx, "Failed to invalidate test cache", "error", err)
	}

	summary.Errors = rowErrors
	summary.ErrorCount = len(rowErrors)
	written := summary.Tests + summary.Questions + summary.Results
	switch {
	case summary.ErrorCount == 0:
		summary.Status = models.ImportCompleted
	case written > 0:
		summary.Status = models.ImportPartial
	default:
		summary.Status = models.ImportValidationFailed
	}
	summary.ProcessingTime = time.Since(start)

	s.logger.InfoContext(ctx, "Workbook import completed",
		"status", summary.Status,
		"tests", summary.Tests,
		"questions", summary.Questions,
		"results", summary.Results,
		"error_count", summary.ErrorCount,
		"duration", summary.ProcessingTime)

	return summary, nil
}

type parsedRow[T any] struct {
	row   int
	value T
}

// readSheet parses every data row of sheet with parse. A missing sheet
// yields no rows; a sheet missing required columns yields one error.
func readSheet[T any](f *excelize.File, sheet string, required []string, parse func(*sheetReader) *T) ([]parsedRow[*T], *sheetReader, error) {
	reader := &sheetReader{sheet: sheet}

	name := ""
	for _, candidate := range f.GetSheetList() {
		if strings.EqualFold(candidate, sheet) {
			name = candidate
			break
		}
	}
	if name == "" {
		return nil, reader, nil
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, reader, nil
	}

	reader.headers = make(map[string]int)
	for i, header := range rows[0] {
		reader.headers[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, column := range required {
		if _, ok := reader.headers[column]; !ok {
			reader.rowNum = 1
			reader.fail(column, "missing required column", "")
			return nil, reader, nil
		}
	}

	var parsed []parsedRow[*T]
	for i, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		reader.row = row
		reader.rowNum = i + 2
		reader.rowErrs = 0
		if value := parse(reader); value != nil {
			parsed = append(parsed, parsedRow[*T]{row: reader.rowNum, value: value})
		}
	}
	return parsed, reader, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func unknownTestError(sheet string, row int, testID uint) models.ImportRowError {
	return models.ImportRowError{
		Sheet:   sheet,
		Row:     row,
		Column:  "test_id",
		Message: "unknown test",
		Value:   strconv.FormatUint(uint64(testID), 10),
	}
}

// ===== EXPORT =====

// ExportWorkbook writes one test, its questions and results in the layout
// ImportWorkbook reads.
func (s *importService) ExportWorkbook(ctx context.Context, testID uint) ([]byte, error) {
	test, err := s.repo.Test().GetByIDWithQuestions(ctx, nil, testID)
	if err != nil {
		return nil, classify(err, ErrTestNotFound)
	}
	results, err := s.repo.Result().ListByTest(ctx, nil, testID)
	if err != nil {
		return nil, classify(err, ErrResultNotFound)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetTests); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	for _, sheet := range []string{SheetQuestions, SheetResults} {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to create sheet: %w", err)
		}
	}

	tests := [][]interface{}{{test.ID, test.Title}}
	questions := make([][]interface{}, 0, len(test.Questions))
	for _, q := range test.Questions {
		questions = append(questions, []interface{}{
			q.ID, q.TestID, q.Content, q.QuestionContent, q.AnswerMinContent, q.AnswerMaxContent,
			q.ScaleMin, q.ScaleMax, q.AnswerAffectsMBTI.Tag(),
		})
	}
	resultRows := make([][]interface{}, 0, len(results))
	for _, r := range results {
		resultRows = append(resultRows, []interface{}{r.TestID, r.MBTI, r.Title, r.Content})
	}

	for _, sheet := range []struct {
		name    string
		columns []string
		rows    [][]interface{}
	}{
		{SheetTests, testColumns, tests},
		{SheetQuestions, questionColumns, questions},
		{SheetResults, resultColumns, resultRows},
	} {
		if err := writeSheet(f, sheet.name, sheet.columns, sheet.rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, columns []string, rows [][]interface{}) error {
	header := make([]interface{}, len(columns))
	for i, column := range columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
