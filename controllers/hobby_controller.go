package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/middleware"
	"github.com/hobbyhub/hobbyhub/services"
	"github.com/hobbyhub/hobbyhub/utils"
)

// HobbyController exposes the discovery engine over HTTP.
type HobbyController struct {
	db        *gorm.DB
	discovery *services.DiscoveryService
	activity  *services.ActivityService
}

// NewHobbyController creates a new HobbyController instance.
func NewHobbyController(db *gorm.DB) *HobbyController {
	return &HobbyController{
		db:        db,
		discovery: services.NewDiscoveryService(db),
		activity:  services.NewActivityService(db),
	}
}

// Discover returns the public, alphabetically ordered catalog page.
func (h *HobbyController) Discover(ctx *gin.Context) {
	filter := parseDiscoverFilter(ctx)

	// Cache only search-free pages to avoid cache key explosion.
	cacheKey := ""
	if filter.Search == "" {
		cacheKey = fmt.Sprintf("cache:hobbies:discover:cat=%s:page=%d:size=%d", filter.Category, filter.Page, filter.PageSize)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", b)
			return
		}
	}

	items, pagination, err := h.discovery.Discover(ctx.Request.Context(), filter)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load hobbies")
		return
	}

	payload := gin.H{"items": items, "pagination": pagination}
	if cacheKey != "" {
		utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, utils.DefaultCacheTTL)
	}
	utils.Success(ctx, payload)
}

// Categories returns the distinct hobby categories with counts.
func (h *HobbyController) Categories(ctx *gin.Context) {
	const cacheKey = "cache:hobbies:categories"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	categories, err := h.discovery.Categories(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to load categories")
		return
	}

	payload := gin.H{"categories": categories}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, utils.DefaultCacheTTL)
	utils.Success(ctx, payload)
}

// Random returns a shuffled page of hobbies the viewer does not follow yet,
// or a single uniform pick when ?single=true.
func (h *HobbyController) Random(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	filter := parseDiscoverFilter(ctx)

	if strings.EqualFold(ctx.Query("single"), "true") {
		card, err := h.discovery.PickRandom(ctx.Request.Context(), userID, filter)
		if err != nil {
			h.renderDiscoveryError(ctx, err)
			return
		}
		utils.Success(ctx, gin.H{"hobby": card})
		return
	}

	items, pagination, err := h.discovery.ListDiscoverable(ctx.Request.Context(), userID, filter)
	if err != nil {
		h.renderDiscoveryError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"items": items, "pagination": pagination})
}

// Recommendations ranks unfollowed hobbies by the viewer's favorite categories.
func (h *HobbyController) Recommendations(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)
	filter := parseDiscoverFilter(ctx)

	items, pagination, favorites, err := h.discovery.Recommend(ctx.Request.Context(), userID, filter)
	if err != nil {
		h.renderDiscoveryError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{
		"items":              items,
		"pagination":         pagination,
		"favoriteCategories": favorites,
	})
}

// My lists the hobbies the viewer follows.
func (h *HobbyController) My(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	items, err := h.discovery.ListFollowed(ctx.Request.Context(), userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load followed hobbies")
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

// Get returns a single hobby card with the viewer's follow state.
func (h *HobbyController) Get(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	card, err := h.discovery.GetHobby(ctx.Request.Context(), userID, hobbyID)
	if err != nil {
		h.renderDiscoveryError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"hobby": card})
}

// Follow adds the hobby to the viewer's follow set. Idempotent.
func (h *HobbyController) Follow(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	count, err := h.discovery.Follow(ctx.Request.Context(), userID, hobbyID)
	if err != nil {
		h.renderDiscoveryError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"hobbyId": hobbyID, "isFollowing": true, "followersCount": count})
}

// Unfollow removes the hobby from the viewer's follow set. Idempotent.
func (h *HobbyController) Unfollow(ctx *gin.Context) {
	hobbyID, ok := parseHobbyID(ctx)
	if !ok {
		return
	}
	userID := middleware.CurrentUserID(ctx)

	count, err := h.discovery.Unfollow(ctx.Request.Context(), userID, hobbyID)
	if err != nil {
		h.renderDiscoveryError(ctx, err)
		return
	}
	utils.Success(ctx, gin.H{"hobbyId": hobbyID, "isFollowing": false, "followersCount": count})
}

// Activity returns the viewer's recent activity feed.
func (h *HobbyController) Activity(ctx *gin.Context) {
	userID := middleware.CurrentUserID(ctx)

	limit := services.DefaultActivityLimit
	if raw := ctx.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}

	items, err := h.activity.Recent(ctx.Request.Context(), userID, limit)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to load activity")
		return
	}
	utils.Success(ctx, gin.H{"items": items})
}

func (h *HobbyController) renderDiscoveryError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoHobbies):
		utils.Error(ctx, http.StatusNotFound, 40410, "no hobbies available")
	case errors.Is(err, services.ErrHobbyNotFound):
		utils.Error(ctx, http.StatusNotFound, 40411, "hobby not found")
	case errors.Is(err, services.ErrUserNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, "user not found")
	case services.IsConstraint(err):
		utils.ErrorWithData(ctx, http.StatusBadRequest, 40030, "operation violates a data constraint", gin.H{"reason": err.Error()})
	default:
		utils.Error(ctx, http.StatusInternalServerError, 50014, "internal server error")
	}
}

func parseDiscoverFilter(ctx *gin.Context) services.DiscoverFilter {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("pageSize"))
	return services.DiscoverFilter{
		Category: strings.TrimSpace(ctx.Query("category")),
		Search:   strings.TrimSpace(ctx.Query("search")),
		Page:     page,
		PageSize: pageSize,
	}
}

func parseHobbyID(ctx *gin.Context) (uint, bool) {
	raw := ctx.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid hobby id")
		return 0, false
	}
	return uint(id), true
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page, _ := strconv.Atoi(pageStr)
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(sizeStr)
	if size < 1 || size > 100 {
		size = services.DefaultPageSize
	}
	return page, size
}
