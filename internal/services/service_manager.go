package services

import (
	"log/slog"
	"time"

	"github.com/mbtmi/mbtmi/internal/auth"
	"github.com/mbtmi/mbtmi/internal/cache"
	"github.com/mbtmi/mbtmi/internal/events"
	"github.com/mbtmi/mbtmi/internal/repositories"
	"github.com/mbtmi/mbtmi/internal/validator"
)

// ServiceManager hands the HTTP layer and the CLI their services
type ServiceManager interface {
	Credential() CredentialService
	Test() TestService
	Session() SessionService
	Import() ImportService
}

type Dependencies struct {
	Repo      repositories.Repository
	Cache     cache.CacheService
	CacheTTL  time.Duration
	Publisher events.EventPublisher
	Hasher    *auth.PasswordHasher
	Validator *validator.Validator
	Logger    *slog.Logger
}

type serviceManager struct {
	credential CredentialService
	test       TestService
	session    SessionService
	imports    ImportService
}

func NewServiceManager(deps Dependencies) ServiceManager {
	if deps.Cache == nil {
		deps.Cache = cache.NoopCache{}
	}
	if deps.Hasher == nil {
		deps.Hasher = auth.NewPasswordHasher(auth.DefaultScryptN)
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	return &serviceManager{
		credential: NewCredentialService(deps.Repo, deps.Hasher, deps.Publisher, deps.Logger, deps.Validator),
		test:       NewTestService(deps.Repo, deps.Cache, deps.CacheTTL, deps.Logger),
		session:    NewSessionService(deps.Repo, deps.Publisher, deps.Logger, deps.Validator),
		imports:    NewImportService(deps.Repo, deps.Cache, deps.Logger, deps.Validator),
	}
}

func (m *serviceManager) Credential() CredentialService { return m.credential }
func (m *serviceManager) Test() TestService             { return m.test }
func (m *serviceManager) Session() SessionService       { return m.session }
func (m *serviceManager) Import() ImportService         { return m.imports }
