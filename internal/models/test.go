package models

import (
	"time"

	"github.com/mbtmi/mbtmi/internal/scoring"
)

type Test struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Title     string  `json:"title" gorm:"not null;size:200" validate:"required,min=1,max=200"`
	ManagedBy *string `json:"managed_by,omitempty" gorm:"size:36"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations, only loaded on request
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:TestID"`
}

func (Test) TableName() string {
	return "mbtmi_test"
}

// Question is one bipolar item. Choosing the min side records ScaleMin,
// choosing the max side records ScaleMax, against the tagged axis.
type Question struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	TestID uint `json:"test_id" gorm:"not null;index"`

	Content          string `json:"content" gorm:"type:text"`
	QuestionContent  string `json:"question_content" gorm:"type:text"`
	AnswerMinContent string `json:"answer_min_content" gorm:"type:text"`
	AnswerMaxContent string `json:"answer_max_content" gorm:"type:text"`

	ScaleMin          int          `json:"scale_min" gorm:"not null"`
	ScaleMax          int          `json:"scale_max" gorm:"not null"`
	AnswerAffectsMBTI scoring.Axis `json:"answer_affects_mbti" gorm:"column:answer_affects_mbti;type:varchar(16);not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "mbtmi_question"
}

// ValueFor resolves an answer side to the scale value it stands for.
func (q *Question) ValueFor(side AnswerSide) (int, bool) {
	switch side {
	case SideMin:
		return q.ScaleMin, true
	case SideMax:
		return q.ScaleMax, true
	}
	return 0, false
}
