package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/middleware"
	"github.com/hobbyhub/hobbyhub/services"
	"github.com/hobbyhub/hobbyhub/utils"
)

// ForumController exposes per-hobby discussion threads.
type ForumController struct {
	db    *gorm.DB
	forum *services.ForumService
}

// NewForumController creates a new ForumController instance.
func NewForumController(db *gorm.DB) *ForumController {
	return &ForumController{db: db, forum: services.NewForumService(db)}
}

// ListThread returns the hobby's top-level posts with their replies.
func (f *ForumController) ListThread(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}

	posts, err := f.forum.ListThread(ctx.Request.Context(), hobbyID)
	if err != nil {
		f.renderForumError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"posts": posts})
}

// CreatePost starts a new top-level discussion in the hobby's forum.
func (f *ForumController) CreatePost(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	post, err := f.forum.CreatePost(ctx.Request.Context(), hobbyID, userID, req.Content)
	if err != nil {
		f.renderForumError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": post})
}

// CreateReply posts a reply under an existing top-level post of the same hobby.
func (f *ForumController) CreateReply(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}
	parentID, ok := parsePostID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	reply, err := f.forum.CreateReply(ctx.Request.Context(), hobbyID, parentID, userID, req.Content)
	if err != nil {
		f.renderForumError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"post": reply})
}

func (f *ForumController) renderForumError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrContentRequired):
		utils.Error(ctx, http.StatusBadRequest, 40023, "content cannot be empty")
	case errors.Is(err, services.ErrContentTooLong):
		utils.Error(ctx, http.StatusBadRequest, 40024, "content exceeds maximum length")
	case errors.Is(err, services.ErrHobbyNotFound):
		utils.Error(ctx, http.StatusNotFound, 40411, "hobby not found")
	case errors.Is(err, services.ErrParentPostNotFound):
		utils.Error(ctx, http.StatusNotFound, 40412, "parent post not found")
	case errors.Is(err, services.ErrPostNotFound):
		utils.Error(ctx, http.StatusNotFound, 40413, "post not found")
	case services.IsConstraint(err):
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40030, "operation violates a data constraint", gin.H{"reason": err.Error()})
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50020, "internal server error")
	}
}

func parsePostID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("postId")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "invalid post id")
		return 0, false
	}
	return uint(id), true
}
