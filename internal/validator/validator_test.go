package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type answerForm struct {
	Side string `json:"side" validate:"required,answer_side"`
}

type questionRow struct {
	Axis string `json:"answer_affects_mbti" validate:"required,mbti_axis"`
	Code string `json:"mbti" validate:"omitempty,mbti_code"`
}

type credentials struct {
	Username string `json:"username" validate:"notblank"`
}

func TestValidator_CustomTags(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(answerForm{Side: "l"}))
	assert.NoError(t, v.Validate(answerForm{Side: "r"}))
	assert.NoError(t, v.Validate(questionRow{Axis: "t_or_f", Code: "INTJ"}))
	assert.NoError(t, v.Validate(credentials{Username: "alice"}))

	err := v.Validate(answerForm{Side: "middle"})
	require.Error(t, err)
	errs, ok := err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, errs, 1)
	assert.Equal(t, "side", errs[0].Field)
	assert.Equal(t, "answer_side", errs[0].Rule)

	err = v.Validate(questionRow{Axis: "x_or_y", Code: "ABCD"})
	errs, ok = err.(ValidationErrors)
	require.True(t, ok)
	require.Len(t, errs, 2)
	assert.Equal(t, "answer_affects_mbti", errs[0].Field)
	assert.Equal(t, "mbti", errs[1].Field)

	err = v.Validate(credentials{Username: "   "})
	errs, ok = err.(ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "must not be blank", errs[0].Message)
}

func TestValidator_Var(t *testing.T) {
	v := New()
	assert.NoError(t, v.Var("e_or_i", "mbti_axis"))
	assert.Error(t, v.Var("", "mbti_axis"))
}
