package auth

import (
	"errors"
	"time"

	"certhub/internal/auth"
	"certhub/internal/config"
	"certhub/internal/httpx"
	"certhub/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRequest represents register request body
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	DisplayName string `json:"displayName" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents login response data
type LoginResponse struct {
	Token    string   `json:"token"`
	ExpireAt string   `json:"expireAt"`
	User     UserInfo `json:"user"`
}

// UserInfo represents user information in response
type UserInfo struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// RegisterHandler handles new user registration
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		var count int64
		if err := db.Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
			return
		}
		if count > 0 {
			httpx.FailErr(c, httpx.ErrAlreadyExists("email already registered"))
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to hash password", err))
			return
		}

		user := model.User{
			Email:        req.Email,
			DisplayName:  req.DisplayName,
			PasswordHash: hash,
			Phone:        req.Phone,
			Role:         "member",
			Status:       model.UserStatusActive,
		}
		if err := db.Create(&user).Error; err != nil {
			httpx.FailErr(c, httpx.ErrDatabaseError("failed to create user", err))
			return
		}

		httpx.OK(c, UserInfo{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
		})
	}
}

// LoginHandler handles user login
func LoginHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.FailErr(c, httpx.ErrParamInvalid("invalid request body"))
			return
		}

		// Query user by email
		var user model.User
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// User not found or wrong password - return same error for security
				httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
			return
		}

		// Check user status
		if user.Status == model.UserStatusInactive {
			httpx.FailErr(c, httpx.ErrForbidden("user is inactive"))
			return
		}

		// Verify password
		if err := auth.ComparePassword(user.PasswordHash, req.Password); err != nil {
			httpx.FailErr(c, httpx.ErrInvalidToken("invalid credentials"))
			return
		}

		// Generate JWT token
		expireAt := time.Now().Add(time.Duration(cfg.JWT.ExpireMinutes) * time.Minute)
		token, err := auth.GenerateToken(user.ID, user.Email, user.DisplayName, user.Role, expireAt, cfg.JWT.Issuer)
		if err != nil {
			httpx.FailErr(c, httpx.ErrInternalError("failed to generate token", err))
			return
		}

		httpx.OK(c, LoginResponse{
			Token:    token,
			ExpireAt: expireAt.Format(time.RFC3339),
			User: UserInfo{
				ID:          user.ID,
				Email:       user.Email,
				DisplayName: user.DisplayName,
				Role:        user.Role,
			},
		})
	}
}

// MeHandler returns the current authenticated user
func MeHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetInt("uid")

		var user model.User
		if err := db.First(&user, uid).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httpx.FailErr(c, httpx.ErrNotFound("user not found"))
				return
			}
			httpx.FailErr(c, httpx.ErrDatabaseError("database error", err))
			return
		}

		httpx.OK(c, UserInfo{
			ID:          user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
		})
	}
}
