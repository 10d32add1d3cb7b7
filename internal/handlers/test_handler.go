package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mbtmi/mbtmi/internal/services"
	"github.com/mbtmi/mbtmi/internal/utils"
)

type TestHandler struct {
	BaseHandler
	testService services.TestService
}

func NewTestHandler(testService services.TestService, logger utils.Logger) *TestHandler {
	return &TestHandler{
		BaseHandler: NewBaseHandler(logger),
		testService: testService,
	}
}

// ListTests returns the catalogue without questions
// @Router /tests [get]
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.ListTests(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tests)
}

// GetTest returns one test. questions=false leaves the questions out.
// @Router /tests/{id} [get]
func (h *TestHandler) GetTest(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	includeQuestions := true
	if raw := c.Query("questions"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			h.RespondWithError(c, http.StatusBadRequest, "Invalid questions flag", err, err.Error())
			return
		}
		includeQuestions = parsed
	}

	test, err := h.testService.GetTest(c.Request.Context(), id, includeQuestions)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// CountQuestions returns how many questions a test has
// @Router /tests/{id}/question-count [get]
func (h *TestHandler) CountQuestions(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	count, err := h.testService.CountQuestions(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"test_id": id, "count": count})
}
