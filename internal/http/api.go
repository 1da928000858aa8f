package http

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"account-api/internal/auth"
	"account-api/internal/domain"
	"account-api/internal/service"
	"account-api/internal/storage"
)

const dateLayout = "2006-01-02"

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts  service.AccountService
	profiles  service.ProfileService
	storage   storage.Service
	issuer    *auth.Issuer
	keyPrefix string
	logger    *logrus.Logger
}

func NewHandler(accounts service.AccountService, profiles service.ProfileService, store storage.Service, issuer *auth.Issuer, keyPrefix string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		accounts:  accounts,
		profiles:  profiles,
		storage:   store,
		issuer:    issuer,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/token/refresh", h.refreshToken)
	router.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	authed := router.Group("/", authMiddleware(h.issuer))
	{
		authed.GET("/profile", h.getProfile)
		authed.PATCH("/profile", h.updateProfile)
		authed.PUT("/change-password", h.changePassword)
		authed.POST("/avatar-upload", h.uploadAvatar)
		authed.POST("/delete-account", h.deleteAccount)
	}
}

type registerRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type profileUpdateRequest struct {
	Username    *string `json:"username"`
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	PhoneCode   *string `json:"phone_code"`
	PhoneNumber *string `json:"phone_number"`
	Country     *string `json:"country"`
	DOB         *string `json:"dob"`
	Gender      *string `json:"gender"`
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type ProfileResponse struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DisplayName string  `json:"display_name"`
	Bio         string  `json:"bio"`
	PhoneCode   string  `json:"phone_code"`
	PhoneNumber string  `json:"phone_number"`
	Country     string  `json:"country"`
	Avatar      *string `json:"avatar"`
	DOB         *string `json:"dob"`
	Gender      string  `json:"gender"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	pair, err := h.issuer.IssuePair(user.ID, user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": pair.Access, "refresh": pair.Refresh})
}

func (h *Handler) refreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	access, err := h.issuer.Refresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *Handler) getProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	user, profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.profileToResponse(user, profile))
}

func (h *Handler) updateProfile(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := service.ProfileUpdate{
		Username:    req.Username,
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
		PhoneCode:   req.PhoneCode,
		PhoneNumber: req.PhoneNumber,
		Country:     req.Country,
		Gender:      req.Gender,
	}
	if req.DOB != nil {
		dob, err := time.Parse(dateLayout, *req.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dob must be formatted YYYY-MM-DD"})
			return
		}
		update.DOB = &dob
	}

	user, profile, err := h.profiles.Update(c.Request.Context(), userID, update)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.profileToResponse(user, profile))
}

func (h *Handler) changePassword(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Success"})
}

func (h *Handler) uploadAvatar(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	fileHeader, err := c.FormFile("upload")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file attached."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read attached file"})
		return
	}
	defer file.Close()

	key := fmt.Sprintf("%s/%s%s", h.keyPrefix, uuid.NewString(), filepath.Ext(fileHeader.Filename))
	contentType := fileHeader.Header.Get("Content-Type")
	if err := h.storage.Upload(c.Request.Context(), key, file, contentType); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	oldKey, err := h.profiles.UpdateAvatar(c.Request.Context(), userID, key)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if oldKey != "" {
		if err := h.storage.Delete(c.Request.Context(), oldKey); err != nil {
			h.logger.Warnf("delete replaced avatar %s: %v", oldKey, err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "server",
		"name":   fileHeader.Filename,
		"url":    h.storage.ObjectURL(key),
	})
}

func (h *Handler) deleteAccount(c *gin.Context) {
	userID, ok := userIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
		return
	}

	avatarKey, err := h.accounts.Delete(c.Request.Context(), userID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if avatarKey != "" {
		if err := h.storage.Delete(c.Request.Context(), avatarKey); err != nil {
			h.logger.Warnf("delete avatar for removed account: %v", err)
		}
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		h.logger.Errorf("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) profileToResponse(user *domain.User, profile *domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:          profile.ID,
		Username:    user.Username,
		Email:       user.Email,
		DisplayName: profile.DisplayName,
		Bio:         profile.Bio,
		PhoneCode:   profile.PhoneCode,
		PhoneNumber: profile.PhoneNumber,
		Country:     profile.Country,
		Gender:      profile.Gender,
	}
	if profile.AvatarKey != "" && h.storage != nil {
		url := h.storage.ObjectURL(profile.AvatarKey)
		resp.Avatar = &url
	}
	if profile.DOB != nil {
		dob := profile.DOB.Format(dateLayout)
		resp.DOB = &dob
	}
	return resp
}
