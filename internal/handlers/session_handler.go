package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mbtmi/mbtmi/internal/services"
	"github.com/mbtmi/mbtmi/internal/utils"
)

type SessionHandler struct {
	BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(sessionService services.SessionService, logger utils.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    NewBaseHandler(logger),
		sessionService: sessionService,
	}
}

// CreateSessionRequest starts a session. When Answers is set the session is
// filled and scored in the same request.
type CreateSessionRequest struct {
	TestID  uint            `json:"test_id" binding:"required"`
	Answers map[uint]string `json:"answers,omitempty"`
}

type RecordAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// CreateSession starts a quiz session for a test
// @Router /sessions [post]
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	ctx := c.Request.Context()
	if len(req.Answers) > 0 {
		session, err := h.sessionService.SubmitAnswers(ctx, &services.SubmitAnswersRequest{
			TestID:  req.TestID,
			Answers: req.Answers,
		}, currentUserID(c))
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, services.NewSessionResponse(session))
		return
	}

	session, err := h.sessionService.CreateSession(ctx, req.TestID, currentUserID(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, services.NewSessionResponse(session))
}

// GetSession returns the session with its recorded answers
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// RecordAnswer stores the side chosen for one question
// @Router /sessions/{id}/answers/{question_id} [put]
func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID, ok := h.parseIDParam(c, "question_id")
	if !ok {
		return
	}

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "Invalid request payload", err, err.Error())
		return
	}

	if err := h.sessionService.RecordAnswer(c.Request.Context(), id, questionID, req.Answer); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ScoreSession computes and stores the session's type code
// @Router /sessions/{id}/score [post]
func (h *SessionHandler) ScoreSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	code, err := h.sessionService.ScoreSession(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session_id": id, "mbti": code})
}

// GetResult returns the narrative for the session's type code
// @Router /sessions/{id}/result [get]
func (h *SessionHandler) GetResult(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	result, err := h.sessionService.GetResult(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteSession removes a session and its answers
// @Router /sessions/{id} [delete]
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Session deleted", gin.H{"session_id": id})
}
