package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitalog/internal/docstore"
	"vitalog/internal/domain"
	"vitalog/internal/logger"
)

// Dependencies carries everything the HTTP surface needs.
type Dependencies struct {
	Users      domain.UserService
	BloodTests domain.BloodTestService
	MealLogs   domain.MealLogService
	Menu       domain.MenuService
	History    domain.HistoryService
	Store      docstore.Store
}

// Server is the REST and websocket surface for the SPA.
type Server struct {
	jwtSecret  string
	users      domain.UserService
	bloodTests domain.BloodTestService
	mealLogs   domain.MealLogService
	menu       domain.MenuService
	history    domain.HistoryService
	store      docstore.Store
}

func New(jwtSecret string, deps Dependencies) *Server {
	return &Server{
		jwtSecret:  jwtSecret,
		users:      deps.Users,
		bloodTests: deps.BloodTests,
		mealLogs:   deps.MealLogs,
		menu:       deps.Menu,
		history:    deps.History,
		store:      deps.Store,
	}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.GET("/health", s.handleHealth)

	api := router.Group("/api/v1")
	api.Use(AuthMiddleware(s.jwtSecret))
	{
		api.GET("/profile", s.handleGetProfile)
		api.PUT("/profile", s.handleUpdateProfile)

		api.GET("/blood-tests", s.handleListBloodTests)
		api.POST("/blood-tests", s.handleAddBloodTest)
		api.POST("/blood-tests/extract", s.handleExtractBloodTest)
		api.DELETE("/blood-tests/:id", s.handleDeleteBloodTest)

		api.GET("/days/:date", s.handleGetDay)
		api.POST("/days/:date/meals", s.handleAddMeal)
		api.DELETE("/days/:date/meals/:index", s.handleDeleteMeal)

		api.GET("/history", s.handleHistory)
		api.GET("/menu/suggestions", s.handleMenuSuggestions)

		api.GET("/ws", s.handleWS)
	}

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("HTTP server listening", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
