package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mbtmi/mbtmi/internal/auth"
	"github.com/mbtmi/mbtmi/internal/services"
	"github.com/mbtmi/mbtmi/internal/utils"
)

type HandlerManager struct {
	authHandler    *AuthHandler
	testHandler    *TestHandler
	sessionHandler *SessionHandler
	tokens         *auth.TokenManager
	logger         utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	tokens *auth.TokenManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Credential(), tokens, logger),
		testHandler:    NewTestHandler(serviceManager.Test(), logger),
		sessionHandler: NewSessionHandler(serviceManager.Session(), logger),
		tokens:         tokens,
		logger:         logger,
	}
}

// NewRouter builds a gin engine with the middleware stack and all routes.
// Browser origins listed in allowedOrigins get CORS headers.
func (hm *HandlerManager) NewRouter(allowedOrigins ...string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), utils.LoggerMiddleware(hm.logger))
	if len(allowedOrigins) > 0 {
		router.Use(CORS(allowedOrigins))
	}
	hm.SetupRoutes(router)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	optionalAuth := AuthMiddleware(hm.tokens, false)
	requireAuth := AuthMiddleware(hm.tokens, true)

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", hm.authHandler.Register)
			authRoutes.POST("/login", hm.authHandler.Login)
		}

		tests := v1.Group("/tests")
		{
			tests.GET("", hm.testHandler.ListTests)
			tests.GET("/:id", requireAuth, hm.testHandler.GetTest)
			tests.GET("/:id/question-count", hm.testHandler.CountQuestions)
		}

		sessions := v1.Group("/sessions", optionalAuth)
		{
			sessions.POST("", hm.sessionHandler.CreateSession)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.DELETE("/:id", hm.sessionHandler.DeleteSession)
			sessions.PUT("/:id/answers/:question_id", hm.sessionHandler.RecordAnswer)
			sessions.POST("/:id/score", hm.sessionHandler.ScoreSession)
			sessions.GET("/:id/result", hm.sessionHandler.GetResult)
		}
	}
}

// HealthCheck reports liveness
func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "healthy",
		"service": "mbtmi",
	})
}
