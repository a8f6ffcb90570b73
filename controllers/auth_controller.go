package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/config"
	"github.com/hobbyhub/hobbyhub/middleware"
	"github.com/hobbyhub/hobbyhub/models"
	"github.com/hobbyhub/hobbyhub/utils"
)

// AuthController handles registration, login and account management.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register handles local account registration with bcrypt hashing.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6,max=72"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username cannot be empty")
		return
	}

	var existing models.User
	if err := a.db.Where("user_name = ? OR email = ?", req.Username, req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username or email already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{
		UserName:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := a.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.Error(ctx, http.StatusConflict, 40901, "username or email already taken")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50003, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  sanitizeUserResponse(user),
	})
}

// Login validates credentials and returns a signed JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	// The login identifier may be either the username or the email address.
	ident := strings.TrimSpace(req.Username)
	var user models.User
	if err := a.db.Where("user_name = ? OR email = ?", ident, strings.ToLower(ident)).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{
		"token": token,
		"user":  sanitizeUserResponse(user),
	})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(time.Duration(config.Get().TokenTTLHours) * time.Hour)
	if claims.RegisteredClaims.ExpiresAt != nil {
		expiresAt = claims.RegisteredClaims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile together with follow and post counts.
func (a *AuthController) Me(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}

	var followCount int64
	a.db.Table("user_hobbies").Where("user_id = ?", userID).Count(&followCount)
	var postCount int64
	a.db.Model(&models.ForumPost{}).Where("user_id = ?", userID).Count(&postCount)

	utils.Success(ctx, gin.H{
		"user":           sanitizeUserResponse(user),
		"followedCount":  followCount,
		"forumPostCount": postCount,
	})
}

// DeleteAccount removes the caller's account along with their forum posts and
// hobby follows. Admin accounts cannot be removed through this endpoint.
func (a *AuthController) DeleteAccount(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	if userID == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}
	if user.IsAdmin() {
		utils.Error(ctx, http.StatusForbidden, 40302, "admin accounts cannot be deleted")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		// Replies first so the parent restriction never trips.
		if err := tx.Where("user_id = ? AND parent_post_id IS NOT NULL", userID).Delete(&models.ForumPost{}).Error; err != nil {
			return err
		}
		var topIDs []uint
		if err := tx.Model(&models.ForumPost{}).Where("user_id = ? AND parent_post_id IS NULL", userID).Pluck("id", &topIDs).Error; err != nil {
			return err
		}
		if len(topIDs) > 0 {
			if err := tx.Where("parent_post_id IN ?", topIDs).Delete(&models.ForumPost{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", topIDs).Delete(&models.ForumPost{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM user_hobbies WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", userID).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "failed to delete account")
		return
	}

	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 {
			utils.BlacklistToken(strings.TrimSpace(parts[1]), time.Now().Add(time.Duration(config.Get().TokenTTLHours)*time.Hour))
		}
	}

	utils.Success(ctx, gin.H{"message": "account deleted"})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
	roles := []string{"user"}
	if user.IsAdmin() {
		roles = append(roles, models.RoleAdmin)
	}
	ttl := time.Duration(config.Get().TokenTTLHours) * time.Hour
	return utils.GenerateToken(user.ID, user.UserName, roles, ttl)
}

func sanitizeUserResponse(user models.User) gin.H {
	return gin.H{
		"id":        user.ID,
		"userName":  user.UserName,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	}
}
