package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/insure-assist/insure-assist/internal/auth"
	"github.com/insure-assist/insure-assist/internal/common"
	"github.com/insure-assist/insure-assist/internal/models"
)

const tokenTTL = 24 * time.Hour

type signupReq struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userPayload(u *models.User) gin.H {
	return gin.H{
		"user_id": u.ID,
		"name":    u.Name,
		"email":   u.Email,
	}
}

func (h *Handler) Signup(c *gin.Context) {
	var req signupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid signup payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := h.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if count > 0 {
		common.Fail(c, http.StatusBadRequest, 10002, "email already registered")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		common.Fail(c, http.StatusBadRequest, 10003, "failed to create user")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, tokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userPayload(&user),
	})
}

func (h *Handler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid login payload")
		return
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.DB.Where("email = ?", email).First(&user).Error; err != nil {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		common.Fail(c, http.StatusUnauthorized, 40110, "invalid email or password")
		return
	}

	token, err := auth.SignJWT(user.ID, h.Cfg.JWTSecret, tokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20003, "failed to sign token")
		return
	}

	common.OK(c, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         userPayload(&user),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	uid, ok := userIDFromContext(c)
	if !ok {
		common.Fail(c, http.StatusUnauthorized, 40101, "authentication required")
		return
	}

	cleared := false
	if h.Redis != nil {
		if err := h.Redis.ClearChatHistory(c.Request.Context(), uid); err == nil {
			cleared = true
		}
	}
	common.OK(c, gin.H{"chat_history_cleared": cleared})
}

func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, 40101, "authentication required")
		return
	}
	common.OK(c, gin.H{"user": userPayload(user)})
}

type updateProfileReq struct {
	Name  string `json:"name" binding:"required,min=2,max=120"`
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, 40101, "authentication required")
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid profile payload")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("email = ? AND id <> ?", email, user.ID).
		Count(&count).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if count > 0 {
		common.Fail(c, http.StatusBadRequest, 10002, "email already registered")
		return
	}

	user.Name = strings.TrimSpace(req.Name)
	user.Email = email
	if err := h.DB.Save(user).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"user": userPayload(user)})
}

type changePasswordReq struct {
	CurrentPassword string `json:"current_password" binding:"required,min=6,max=128"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=128"`
}

func (h *Handler) ChangePassword(c *gin.Context) {
	user, err := h.currentUser(c)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	if user == nil {
		common.Fail(c, http.StatusUnauthorized, 40101, "authentication required")
		return
	}

	var req changePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid password payload")
		return
	}

	if !auth.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		common.Fail(c, http.StatusBadRequest, 10010, "current password is incorrect")
		return
	}
	if req.CurrentPassword == req.NewPassword {
		common.Fail(c, http.StatusBadRequest, 10011, "new password must be different from current password")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 20002, "failed to hash password")
		return
	}
	user.PasswordHash = hash
	if err := h.DB.Save(user).Error; err != nil {
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
		return
	}
	common.OK(c, gin.H{"message": "password changed successfully"})
}
