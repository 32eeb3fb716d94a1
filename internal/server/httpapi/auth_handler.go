package httpapi

import (
	"errors"
	"net/http"

	"authservice/internal/common"
	"authservice/internal/server/auth"

	"github.com/gin-gonic/gin"
)

type registerInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshInput struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func (s *Server) register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := s.auth.Register(c.Request.Context(), in.Email, in.Password, in.Name, clientMeta(c))
	if err != nil {
		if errors.Is(err, common.ErrEmailExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		s.internalError(c, "register failed", err)
		return
	}

	c.JSON(http.StatusCreated, pair)
}

func (s *Server) login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	pair, err := s.auth.Login(c.Request.Context(), in.Email, in.Password, clientMeta(c))
	if err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		s.internalError(c, "login failed", err)
		return
	}

	c.JSON(http.StatusCreated, pair)
}

// refresh verifies the presented token against the refresh secret to recover
// the subject, then lets the service consume and rotate the stored row.
func (s *Server) refresh(c *gin.Context) {
	var in refreshInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	claims, err := auth.ParseToken(in.RefreshToken, s.refreshTokenSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	pair, err := s.auth.Refresh(c.Request.Context(), claims.Subject, in.RefreshToken, clientMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidRefreshToken):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		case errors.Is(err, common.ErrorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			s.internalError(c, "refresh failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, pair)
}

func (s *Server) internalError(c *gin.Context, msg string, err error) {
	s.logger.Error(c.Request.Context(), msg, "error", err.Error())
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
