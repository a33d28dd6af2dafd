package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/models"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a new user account and returns a session token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		respondError(c, http.StatusConflict, "email already registered")
		return
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create token")
		return
	}

	respondData(c, http.StatusCreated, gin.H{"user": user, "access_token": token, "token_type": "bearer"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "email = ?", strings.ToLower(strings.TrimSpace(req.Email))).Error; err != nil {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not create token")
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": user, "access_token": token, "token_type": "bearer"})
}

// GetMe returns the caller's profile.
func (h *Handler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.DB.First(&user, "id = ?", currentUserID(c)).Error; err != nil {
		respondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, user)
}

type updateMeRequest struct {
	Name      *string    `json:"name" binding:"omitempty,max=100"`
	Phone     *string    `json:"phone" binding:"omitempty,max=30"`
	Bio       *string    `json:"bio"`
	Gender    *string    `json:"gender" binding:"omitempty,max=20"`
	Birthdate *time.Time `json:"birthdate"`
}

// UpdateMe updates the caller's profile fields; absent fields are kept.
func (h *Handler) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", currentUserID(c)).Error; err != nil {
		respondDomainError(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			respondError(c, http.StatusBadRequest, "name cannot be empty")
			return
		}
		user.Name = name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}
	if req.Birthdate != nil {
		user.Birthdate = req.Birthdate
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, http.StatusNotFound, "not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "could not update profile")
		return
	}
	respondData(c, http.StatusOK, user)
}
