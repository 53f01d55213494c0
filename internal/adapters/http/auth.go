package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/linkup/linkup-server/internal/auth"
	"github.com/linkup/linkup-server/internal/storage"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func (d *Deps) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "please provide name, email, and a password of at least 6 characters"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	user, err := d.Store.Users().Create(c.Request.Context(), req.Name, req.Email, hash)
	if errors.Is(err, storage.ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "user with this email already exists"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("register")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	token, err := d.Tokens.Issue(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "user registered successfully",
		"token":   token,
		"user":    user,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (d *Deps) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "please provide email and password"})
		return
	}

	rec, err := d.Store.Users().FindByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) || (err == nil && !auth.CheckPassword(rec.PasswordHash, req.Password)) {
		// same answer for both, no account probing
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid email or password"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("login")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	token, err := d.Tokens.Issue(rec.User.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    rec.User,
	})
}

func (d *Deps) handleMe(c *gin.Context) {
	user, err := d.Store.Users().FindByID(c.Request.Context(), currentUserID(c))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
