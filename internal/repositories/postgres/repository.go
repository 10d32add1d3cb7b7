package postgres

import (
	"context"

	"github.com/mbtmi/mbtmi/internal/models"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db      *gorm.DB
	user    repositories.UserRepository
	test    repositories.TestRepository
	session repositories.SessionRepository
	result  repositories.ResultRepository
}

// NewRepository builds every sub-repository over the same connection.
func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:      db,
		user:    NewUserPostgreSQL(db),
		test:    NewTestPostgreSQL(db),
		session: NewSessionPostgreSQL(db),
		result:  NewResultPostgreSQL(db),
	}
}

func (r *Repository) User() repositories.UserRepository       { return r.user }
func (r *Repository) Test() repositories.TestRepository       { return r.test }
func (r *Repository) Session() repositories.SessionRepository { return r.session }
func (r *Repository) Result() repositories.ResultRepository   { return r.result }

func (r *Repository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Test{},
		&models.Question{},
		&models.Session{},
		&models.SessionAnswer{},
		&models.Result{},
	)
}

// getDB returns tx when a transaction is in flight, otherwise the base connection
func getDB(db *gorm.DB, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return db
}
