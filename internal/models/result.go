package models

type Result struct {
	TestID  uint   `json:"test_id" gorm:"primaryKey"`
	MBTI    string `json:"mbti" gorm:"column:mbti;primaryKey;size:4"`
	Title   string `json:"title" gorm:"not null;size:200"`
	Content string `json:"content" gorm:"type:text"`
}

func (Result) TableName() string {
	return "mbtmi_result"
}
