package models

import (
	"time"

	"gorm.io/datatypes"
)

type SessionStatus string

const (
	SessionCreated   SessionStatus = "created"
	SessionAnswering SessionStatus = "answering"
	SessionScored    SessionStatus = "scored"
)

// AnswerSide is the token a respondent submits for a question.
type AnswerSide string

const (
	SideMin AnswerSide = "l"
	SideMax AnswerSide = "r"
)

func (s AnswerSide) IsValid() bool {
	return s == SideMin || s == SideMax
}

type Session struct {
	ID     string  `json:"id" gorm:"primaryKey;size:36"`
	TestID uint    `json:"test_id" gorm:"not null;index"`
	UserID *string `json:"user_id,omitempty" gorm:"size:36;index"`

	// Set by scoring
	MBTI       *string        `json:"mbti" gorm:"column:mbti;size:4"`
	AxisScores datatypes.JSON `json:"axis_scores,omitempty"`
	ScoredAt   *time.Time     `json:"scored_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Test    *Test           `json:"-" gorm:"foreignKey:TestID"`
	User    *User           `json:"-" gorm:"foreignKey:UserID"`
	Answers []SessionAnswer `json:"answers,omitempty" gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "mbtmi_session"
}

// Status derives the lifecycle state. Answers must be loaded to tell
// created and answering apart.
func (s *Session) Status() SessionStatus {
	switch {
	case s.MBTI != nil:
		return SessionScored
	case len(s.Answers) > 0:
		return SessionAnswering
	default:
		return SessionCreated
	}
}

func (s *Session) IsScored() bool {
	return s.MBTI != nil
}

// SessionAnswer holds the scale value chosen for a question, captured when the
// answer was recorded so later question edits do not change it.
type SessionAnswer struct {
	SessionID  string `json:"session_id" gorm:"primaryKey;size:36"`
	QuestionID uint   `json:"question_id" gorm:"primaryKey"`
	Answer     int    `json:"answer" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Question *Question `json:"-" gorm:"foreignKey:QuestionID"`
}

func (SessionAnswer) TableName() string {
	return "mbtmi_session_answer"
}
