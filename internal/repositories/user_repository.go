package repositories

import (
	"context"

	"github.com/mbtmi/mbtmi/internal/models"
	"gorm.io/gorm"
)

// UserRepository interface for credential records
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, tx *gorm.DB, username string) (bool, error)
}
