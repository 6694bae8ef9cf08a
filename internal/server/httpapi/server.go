// Package httpapi exposes the mutation and query surface over HTTP/JSON.
// It resolves an optional identity per request from a bearer token and
// hands it to the services; it never makes authorization decisions itself.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmorris/notedly/internal/logging"
	"github.com/dmorris/notedly/internal/server/auth"
	"github.com/dmorris/notedly/internal/server/models"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type userService interface {
	SignUp(ctx context.Context, username, email, password string) (string, error)
	SignIn(ctx context.Context, username, email, password string) (string, error)
}

type noteService interface {
	Create(ctx context.Context, identity, content string) (*models.Note, error)
	Get(ctx context.Context, id string) (*models.Note, error)
	List(ctx context.Context) ([]*models.Note, error)
	Update(ctx context.Context, identity, id, content string) (*models.Note, error)
	Delete(ctx context.Context, identity, id string) (bool, error)
	ToggleFavorite(ctx context.Context, identity, id string) (*models.Note, error)
}

type Server struct {
	address string
	logger  logging.Logger
	users   userService
	notes   noteService
	tokens  *auth.TokenService
	engine  *gin.Engine
}

// NewServer builds the router. credPerMinute/credBurst bound sign-up and
// sign-in attempts per client IP.
func NewServer(address string, l logging.Logger, us userService, ns noteService,
	tokens *auth.TokenService, credPerMinute, credBurst int) *Server {

	s := &Server{
		address: address,
		logger:  l.With("module", "httpapi"),
		users:   us,
		notes:   ns,
		tokens:  tokens,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	r.Use(s.identity())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })

	api := r.Group("/api")

	creds := api.Group("", rateLimit(newKeyedLimiter(credPerMinute, credBurst)))
	creds.POST("/signup", s.signUp)
	creds.POST("/signin", s.signIn)

	api.GET("/notes", s.listNotes)
	api.GET("/notes/:id", s.getNote)
	api.POST("/notes", s.newNote)
	api.PUT("/notes/:id", s.updateNote)
	api.DELETE("/notes/:id", s.deleteNote)
	api.POST("/notes/:id/favorite", s.toggleFavorite)

	s.engine = r
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.engine,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "stopping http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "starting http server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
