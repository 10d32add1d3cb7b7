package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repository is the composition point services depend on. Each method on the
// sub-repositories takes an optional *gorm.DB transaction; nil means the base
// connection.
type Repository interface {
	User() UserRepository
	Test() TestRepository
	Session() SessionRepository
	Result() ResultRepository

	// Transaction runs fn inside a single store transaction
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error

	// AutoMigrate creates or updates the tables backing the models
	AutoMigrate(ctx context.Context) error
}

// ===== SHARED HELPER STRUCTS =====

// AxisTotal is one row of the per-axis aggregation of a session's answers.
// Axis is the raw stored tag; callers must validate it.
type AxisTotal struct {
	Axis    string `json:"axis" gorm:"column:axis"`
	Total   int64  `json:"total" gorm:"column:total"`
	Answers int64  `json:"answers" gorm:"column:answers"`
}
