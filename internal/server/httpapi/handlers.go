package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmorris/notedly/internal/common"
	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type noteRequest struct {
	Content string `json:"content"`
}

// writeError translates the service error taxonomy into HTTP statuses.
// Authentication (401) and ownership (403) failures must stay distinct.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": common.ErrorUnauthenticated.Error()})
	case errors.Is(err, common.ErrorForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not own this note"})
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
	case errors.Is(err, common.ErrorAccountCreation):
		// Deliberately generic: never reveal which field collided.
		c.JSON(http.StatusBadRequest, gin.H{"error": common.ErrorAccountCreation.Error()})
	default:
		s.logger.Error(c.Request.Context(), "internal error", "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) signUp(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	token, err := s.users.SignUp(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

func (s *Server) signIn(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	token, err := s.users.SignIn(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) listNotes(c *gin.Context) {
	notes, err := s.notes.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

func (s *Server) getNote(c *gin.Context) {
	note, err := s.notes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) newNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	note, err := s.notes.Create(c.Request.Context(), identityFrom(c), req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, note)
}

func (s *Server) updateNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	note, err := s.notes.Update(c.Request.Context(), identityFrom(c), c.Param("id"), req.Content)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}

func (s *Server) deleteNote(c *gin.Context) {
	deleted, err := s.notes.Delete(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	note, err := s.notes.ToggleFavorite(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, note)
}
