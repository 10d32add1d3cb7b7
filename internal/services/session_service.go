package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/scoring"
	"github.com/mbtmi/mbtmi/internal/validator"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type sessionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *ServiceLogger
	validator *validator.Validator
}

func NewSessionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) SessionService {
	return &sessionService{
		repo:      repo,
		publisher: publisher,
		logger:    NewServiceLogger(logger, LogConfig{Service: "mbtmi", Component: "sessions"}),
		validator: validator,
	}
}

// scoreOutcome is what a scoring pass wrote to the session row
type scoreOutcome struct {
	code     string
	sums     map[string]int64
	encoded  datatypes.JSON
	scoredAt time.Time
}

// ===== SESSION LIFECYCLE =====

func (s *sessionService) CreateSession(ctx context.Context, testID uint, userID *string) (session *models.Session, err error) {
	op := s.logger.WithOperation(ctx, "create_session")
	defer func() { op.LogResult(sessionIDOf(session), "session", err) }()

	if _, err := s.repo.Test().GetByID(ctx, nil, testID); err != nil {
		return nil, classify(err, ErrTestNotFound)
	}

	session = &models.Session{
		ID:     uuid.NewString(),
		TestID: testID,
		UserID: userID,
	}
	if err := s.repo.Session().Create(ctx, nil, session); err != nil {
		return nil, classify(err, ErrSessionNotFound)
	}

	publish(ctx, s.publisher, s.logger.Logger(), events.NewEvent(events.EventSessionCreated, events.SessionCreatedEvent{
		SessionID: session.ID,
		TestID:    session.TestID,
		UserID:    session.UserID,
	}))

	return session, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID string) (*SessionResponse, error) {
	session, err := s.repo.Session().GetByIDWithAnswers(ctx, nil, sessionID)
	if err != nil {
		return nil, classify(err, ErrSessionNotFound)
	}
	return NewSessionResponse(session), nil
}

// DeleteSession removes the session and all of its answers
func (s *sessionService) DeleteSession(ctx context.Context, sessionID string) (err error) {
	op := s.logger.WithOperation(ctx, "delete_session")
	defer func() { op.LogResult(sessionID, "session", err) }()

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		deleted, err := s.repo.Session().Delete(ctx, tx, sessionID)
		if err != nil {
			return classify(err, ErrSessionNotFound)
		}
		if deleted == 0 {
			return ErrSessionNotFound
		}
		return nil
	})
	if err != nil {
		return classify(err, ErrSessionNotFound)
	}

	publish(ctx, s.publisher, s.logger.Logger(), events.NewEvent(events.EventSessionDeleted, events.SessionDeletedEvent{
		SessionID: sessionID,
	}))
	return nil
}

// ===== ANSWERS =====

// RecordAnswer stores the scale value of the chosen side, replacing any
// earlier answer to the same question.
func (s *sessionService) RecordAnswer(ctx context.Context, sessionID string, questionID uint, side string) (err error) {
	op := s.logger.WithOperation(ctx, "record_answer")
	defer func() { op.LogResult(sessionID, "session", err) }()

	if err := s.validateSide(questionID, side); err != nil {
		return err
	}

	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		session, err := s.repo.Session().GetByIDForUpdate(ctx, tx, sessionID)
		if err != nil {
			return classify(err, ErrSessionNotFound)
		}
		if session.IsScored() {
			return ErrSessionAlreadyScored
		}
		return s.recordAnswerTx(ctx, tx, session, questionID, models.AnswerSide(side))
	})
	return classify(err, ErrSessionNotFound)
}

// SubmitAnswers creates a session, records every answer and scores it in a
// single transaction. Nothing is written if any step fails.
func (s *sessionService) SubmitAnswers(ctx context.Context, req *SubmitAnswersRequest, userID *string) (session *models.Session, err error) {
	op := s.logger.WithOperation(ctx, "submit_answers")
	defer func() { op.LogResult(sessionIDOf(session), "session", err) }()

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	questionIDs := make([]uint, 0, len(req.Answers))
	for id := range req.Answers {
		questionIDs = append(questionIDs, id)
	}
	sort.Slice(questionIDs, func(i, j int) bool { return questionIDs[i] < questionIDs[j] })

	var outcome *scoreOutcome
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.repo.Test().GetByID(ctx, tx, req.TestID); err != nil {
			return classify(err, ErrTestNotFound)
		}

		session = &models.Session{
			ID:     uuid.NewString(),
			TestID: req.TestID,
			UserID: userID,
		}
		if err := s.repo.Session().Create(ctx, tx, session); err != nil {
			return classify(err, ErrSessionNotFound)
		}

		for _, questionID := range questionIDs {
			if err := s.recordAnswerTx(ctx, tx, session, questionID, models.AnswerSide(req.Answers[questionID])); err != nil {
				return err
			}
		}

		var scoreErr error
		outcome, scoreErr = s.scoreTx(ctx, tx, session.ID)
		return scoreErr
	})
	if err != nil {
		session = nil
		return nil, classify(err, ErrSessionNotFound)
	}

	session.MBTI = &outcome.code
	session.ScoredAt = &outcome.scoredAt
	session.AxisScores = outcome.encoded

	s.publishScored(ctx, session, outcome)
	return session, nil
}

func (s *sessionService) validateSide(questionID uint, side string) error {
	if models.AnswerSide(side).IsValid() {
		return nil
	}
	return ValidationErrors{{
		Field:   "answer",
		Message: fmt.Sprintf("must be %q or %q", models.SideMin, models.SideMax),
		Value:   side,
		Rule:    "answer_side",
	}}
}

func (s *sessionService) recordAnswerTx(ctx context.Context, tx *gorm.DB, session *models.Session, questionID uint, side models.AnswerSide) error {
	value, err := s.answerValue(ctx, tx, session.TestID, questionID, side)
	if err != nil {
		return err
	}

	return classify(s.repo.Session().UpsertAnswer(ctx, tx, &models.SessionAnswer{
		SessionID:  session.ID,
		QuestionID: questionID,
		Answer:     value,
	}), ErrSessionNotFound)
}

func (s *sessionService) answerValue(ctx context.Context, tx *gorm.DB, testID uint, questionID uint, side models.AnswerSide) (int, error) {
	question, err := s.repo.Test().GetQuestion(ctx, tx, questionID)
	if err != nil {
		return 0, classify(err, ErrQuestionNotFound)
	}
	if question.TestID != testID {
		return 0, ErrQuestionNotFound
	}

	value, ok := question.ValueFor(side)
	if !ok {
		return 0, s.validateSide(questionID, string(side))
	}
	return value, nil
}

// ===== SCORING =====

// ScoreSession sums the recorded answers per axis, derives the four letter
// code and stores it on the session. Calling it again recomputes from the
// current answers.
func (s *sessionService) ScoreSession(ctx context.Context, sessionID string) (code string, err error) {
	op := s.logger.WithOperation(ctx, "score_session")
	defer func() { op.LogResult(sessionID, "session", err) }()

	var (
		session *models.Session
		outcome *scoreOutcome
	)
	err = s.repo.Transaction(ctx, func(tx *gorm.DB) error {
		var err error
		session, err = s.repo.Session().GetByIDForUpdate(ctx, tx, sessionID)
		if err != nil {
			return classify(err, ErrSessionNotFound)
		}
		outcome, err = s.scoreTx(ctx, tx, sessionID)
		return err
	})
	if err != nil {
		return "", classify(err, ErrSessionNotFound)
	}

	s.publishScored(ctx, session, outcome)
	return outcome.code, nil
}

func (s *sessionService) scoreTx(ctx context.Context, tx *gorm.DB, sessionID string) (*scoreOutcome, error) {
	totals, err := s.repo.Session().GetAxisTotals(ctx, tx, sessionID)
	if err != nil {
		return nil, classify(err, ErrSessionNotFound)
	}

	var tally scoring.Tally
	for _, total := range totals {
		axis, err := scoring.ParseAxis(total.Axis)
		if err != nil {
			return nil, fmt.Errorf("%w: session %s: %w", ErrCorruptData, sessionID, err)
		}
		tally.AddTotal(axis, total.Total, total.Answers)
	}

	code, err := tally.Code()
	if err != nil {
		return nil, err
	}

	sums := tally.Sums()
	encoded, err := json.Marshal(sums)
	if err != nil {
		return nil, fmt.Errorf("encode axis scores: %w", err)
	}

	scoredAt := time.Now().UTC()
	if err := s.repo.Session().UpdateScore(ctx, tx, sessionID, code, datatypes.JSON(encoded), scoredAt); err != nil {
		return nil, classify(err, ErrSessionNotFound)
	}

	return &scoreOutcome{code: code, sums: sums, encoded: datatypes.JSON(encoded), scoredAt: scoredAt}, nil
}

func (s *sessionService) publishScored(ctx context.Context, session *models.Session, outcome *scoreOutcome) {
	publish(ctx, s.publisher, s.logger.Logger(), events.NewEvent(events.EventSessionScored, events.SessionScoredEvent{
		SessionID:  session.ID,
		TestID:     session.TestID,
		UserID:     session.UserID,
		MBTI:       outcome.code,
		AxisScores: outcome.sums,
		ScoredAt:   outcome.scoredAt,
	}))
}

// ===== RESULTS =====

// GetResult looks up the narrative for the session's stored code
func (s *sessionService) GetResult(ctx context.Context, sessionID string) (*models.Result, error) {
	session, err := s.repo.Session().GetByID(ctx, nil, sessionID)
	if err != nil {
		return nil, classify(err, ErrSessionNotFound)
	}
	if !session.IsScored() {
		return nil, ErrSessionNotScored
	}

	result, err := s.repo.Result().GetByTestAndCode(ctx, nil, session.TestID, *session.MBTI)
	if err != nil {
		err = classify(err, ErrResultNotFound)
		if IsNotFound(err) {
			s.logger.Logger().InfoContext(ctx, "No result for code",
				"session_id", sessionID,
				"test_id", session.TestID,
				"mbti", *session.MBTI)
		}
		return nil, err
	}
	return result, nil
}

func sessionIDOf(session *models.Session) string {
	if session == nil {
		return ""
	}
	return session.ID
}
