package errors

import (
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("username", "must not be blank", "  ")

	assert.Equal(t, "invalid username: must not be blank", err.Error())
	assert.Equal(t, "  ", err.Value)
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("side", "must be l or r", "x"))
	assert.Equal(t, "validation failed: side must be l or r", errs.Error())

	errs = append(errs, *NewValidationError("test_id", "is required", nil))
	assert.Equal(t, "validation failed: side, test_id", errs.Error())
	assert.Equal(t, []string{"side", "test_id"}, errs.Fields())
}

type sessionForm struct {
	TestID uint   `json:"test_id" validate:"required"`
	Title  string `json:"title" validate:"max=3"`
}

func TestToValidationErrors(t *testing.T) {
	err := validator.New().Struct(sessionForm{Title: "too long"})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "TestID", errs[0].Field)
	assert.Equal(t, "required", errs[0].Rule)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "Title", errs[1].Field)
	assert.Equal(t, "must be at most 3", errs[1].Message)

	assert.Nil(t, ToValidationErrors(fmt.Errorf("boom")))
}
