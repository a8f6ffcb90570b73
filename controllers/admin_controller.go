package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/models"
	"github.com/hobbyhub/hobbyhub/services"
	"github.com/hobbyhub/hobbyhub/utils"
)

// AdminController manages the hobby catalog, users and operational tooling.
type AdminController struct {
	db        *gorm.DB
	forum     *services.ForumService
	discovery *services.DiscoveryService
	seeder    *services.Seeder
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB, seeder *services.Seeder) *AdminController {
	return &AdminController{
		db:        db,
		forum:     services.NewForumService(db),
		discovery: services.NewDiscoveryService(db),
		seeder:    seeder,
	}
}

// ListHobbies returns the entire catalog with follower counts for management UIs.
func (a *AdminController) ListHobbies(ctx *gin.Context) {
	var hobbies []models.Hobby
	if err := a.db.Preload("Followers").Order("name ASC").Find(&hobbies).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list hobbies")
		return
	}

	type row struct {
		models.Hobby
		FollowersCount int `json:"followersCount"`
	}
	rows := make([]row, 0, len(hobbies))
	for _, h := range hobbies {
		rows = append(rows, row{Hobby: h, FollowersCount: len(h.Followers)})
	}
	utils.Success(ctx, gin.H{"items": rows})
}

type hobbyPayload struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Link        string `json:"link"`
	ImageURL    string `json:"imageUrl"`
}

// CreateHobby adds a catalog entry. Name is mandatory.
func (a *AdminController) CreateHobby(ctx *gin.Context) {
	var req hobbyPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40025, "name is required")
		return
	}

	hobby := models.Hobby{
		Name:        utils.Sanitize(req.Name),
		Type:        utils.Sanitize(strings.TrimSpace(req.Type)),
		Description: utils.Sanitize(req.Description),
		Link:        strings.TrimSpace(req.Link),
		ImageURL:    strings.TrimSpace(req.ImageURL),
	}
	if err := a.db.Create(&hobby).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create hobby")
		return
	}

	invalidateCatalogCaches()
	utils.Success(ctx, gin.H{"hobby": hobby})
}

// UpdateHobby overwrites the mutable fields of a catalog entry.
func (a *AdminController) UpdateHobby(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}

	var req hobbyPayload
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.Error(ctx, http.StatusBadRequest, 40025, "name is required")
		return
	}

	var hobby models.Hobby
	if err := a.db.First(&hobby, hobbyID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "hobby not found")
		return
	}

	updates := map[string]interface{}{
		"name":        utils.Sanitize(req.Name),
		"type":        utils.Sanitize(strings.TrimSpace(req.Type)),
		"description": utils.Sanitize(req.Description),
		"link":        strings.TrimSpace(req.Link),
		"image_url":   strings.TrimSpace(req.ImageURL),
	}
	if err := a.db.Model(&hobby).Updates(updates).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update hobby")
		return
	}

	invalidateCatalogCaches()
	utils.Success(ctx, gin.H{"hobby": hobby})
}

// DeleteHobby removes a catalog entry together with its forum thread and
// follow edges in one transaction.
func (a *AdminController) DeleteHobby(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}

	var hobby models.Hobby
	if err := a.db.First(&hobby, hobbyID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40411, "hobby not found")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hobby_id = ? AND parent_post_id IS NOT NULL", hobbyID).Delete(&models.ForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hobby_id = ?", hobbyID).Delete(&models.ForumPost{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM user_hobbies WHERE hobby_id = ?", hobbyID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Hobby{}, hobbyID).Error
	})
	if err != nil {
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40030, "failed to delete hobby", gin.H{"reason": err.Error()})
		return
	}

	invalidateCatalogCaches()
	utils.Success(ctx, gin.H{"message": "hobby deleted"})
}

// DeleteForumPost removes a post and its replies from a hobby's thread.
func (a *AdminController) DeleteForumPost(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}
	postID, ok := parsePostID(ctx)
	if !ok {
		return
	}

	if _, err := a.forum.DeletePost(ctx.Request.Context(), hobbyID, postID); err != nil {
		switch {
		case errors.Is(err, services.ErrPostNotFound):
			utils.Error(ctx, http.StatusNotFound, 40413, "post not found")
		case services.IsConstraint(err):
			utils.ErrorWithData(ctx, http.StatusBadRequest, 40030, "operation violates a data constraint", gin.H{"reason": err.Error()})
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete post")
		}
		return
	}
	utils.Success(ctx, gin.H{"message": "post deleted"})
}

// ListUsers returns all accounts with their follow and post counts.
func (a *AdminController) ListUsers(ctx *gin.Context) {
	var users []models.User
	if err := a.db.Order("created_at ASC").Find(&users).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to list users")
		return
	}

	type row struct {
		ID             string `json:"id"`
		UserName       string `json:"userName"`
		Email          string `json:"email"`
		Role           string `json:"role"`
		FollowedCount  int64  `json:"followedCount"`
		ForumPostCount int64  `json:"forumPostCount"`
	}
	rows := make([]row, 0, len(users))
	for _, u := range users {
		var followed, posts int64
		a.db.Table("user_hobbies").Where("user_id = ?", u.ID).Count(&followed)
		a.db.Model(&models.ForumPost{}).Where("user_id = ?", u.ID).Count(&posts)
		rows = append(rows, row{
			ID:             u.ID,
			UserName:       u.UserName,
			Email:          u.Email,
			Role:           u.Role,
			FollowedCount:  followed,
			ForumPostCount: posts,
		})
	}
	utils.Success(ctx, gin.H{"items": rows})
}

// DeleteUser removes a non-admin account with its posts and follows.
func (a *AdminController) DeleteUser(ctx *gin.Context) {
	userID := strings.TrimSpace(ctx.Param("id"))
	if userID == "" {
		utils.Error(ctx, http.StatusBadRequest, 40012, "invalid user id")
		return
	}

	var user models.User
	if err := a.db.First(&user, "id = ?", userID).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
		return
	}
	if user.IsAdmin() {
		utils.Error(ctx, http.StatusForbidden, 40303, "admin accounts cannot be deleted")
		return
	}

	err := a.db.Transaction(func(tx *gorm.DB) error {
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
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40030, "failed to delete user", gin.H{"reason": err.Error()})
		return
	}

	utils.Success(ctx, gin.H{"message": "user deleted"})
}

// Statistics reports catalog totals, the five most followed hobbies and the
// category distribution.
func (a *AdminController) Statistics(ctx *gin.Context) {
	var userCount, hobbyCount, postCount, followCount int64
	a.db.Model(&models.User{}).Count(&userCount)
	a.db.Model(&models.Hobby{}).Count(&hobbyCount)
	a.db.Model(&models.ForumPost{}).Count(&postCount)
	a.db.Table("user_hobbies").Count(&followCount)

	type topHobby struct {
		ID             uint   `json:"id"`
		Name           string `json:"name"`
		FollowersCount int64  `json:"followersCount"`
	}
	var top []topHobby
	if err := a.db.Table("hobbies").
		Select("hobbies.id, hobbies.name, COUNT(user_hobbies.user_id) AS followers_count").
		Joins("LEFT JOIN user_hobbies ON user_hobbies.hobby_id = hobbies.id").
		Group("hobbies.id, hobbies.name").
		Order("followers_count DESC, hobbies.name ASC").
		Limit(5).
		Scan(&top).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to compute statistics")
		return
	}

	categories, err := a.discovery.Categories(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to compute statistics")
		return
	}

	utils.Success(ctx, gin.H{
		"totals": gin.H{
			"users":      userCount,
			"hobbies":    hobbyCount,
			"forumPosts": postCount,
			"follows":    followCount,
		},
		"topHobbies": top,
		"categories": categories,
	})
}

// Seed populates the catalog fixtures and the admin account when missing.
func (a *AdminController) Seed(ctx *gin.Context) {
	result, err := a.seeder.Seed(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "seeding failed")
		return
	}

	invalidateCatalogCaches()
	utils.Success(ctx, gin.H{
		"seededHobbies": result.SeededHobbies,
		"hobbyCount":    result.HobbyCount,
		"seededAdmin":   result.SeededAdmin,
	})
}

func invalidateCatalogCaches() {
	utils.InvalidateByPrefix("cache:hobbies:")
}
