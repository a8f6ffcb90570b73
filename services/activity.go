package services

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/models"
)

// DefaultActivityLimit caps the feed when the caller gives no limit.
const DefaultActivityLimit = 5

// Activity item types.
const (
	ActivityForumPost   = "ForumPost"
	ActivityHobbyFollow = "HobbyFollow"
)

// ActivityItem is one entry of the merged recent-activity feed.
type ActivityItem struct {
	Type      string    `json:"type"`
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	HobbyID   uint      `json:"hobbyId"`
	HobbyName string    `json:"hobbyName"`
	CreatedAt time.Time `json:"createdAt"`
}

// ActivityService aggregates recent forum and follow activity for a viewer.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService creates an ActivityService instance.
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Recent merges the viewer's recent forum activity (own posts plus posts in
// followed hobbies) with their follows, newest first, capped to limit. Follow
// events carry the query time as timestamp because no follow timestamp is
// persisted; their relative order is therefore not meaningful.
func (s *ActivityService) Recent(ctx context.Context, viewerID string, limit int) ([]ActivityItem, error) {
	if limit < 1 {
		limit = DefaultActivityLimit
	}

	var posts []models.ForumPost
	err := s.db.WithContext(ctx).
		Preload("Hobby").
		Where("user_id = ? OR hobby_id IN (?)",
			viewerID,
			s.db.Table("user_hobbies").Select("hobby_id").Where("user_id = ?", viewerID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	var followed []models.Hobby
	err = s.db.WithContext(ctx).
		Joins("JOIN user_hobbies ON user_hobbies.hobby_id = hobbies.id AND user_hobbies.user_id = ?", viewerID).
		Limit(limit).
		Find(&followed).Error
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	items := make([]ActivityItem, 0, len(posts)+len(followed))
	for _, p := range posts {
		items = append(items, ActivityItem{
			Type:      ActivityForumPost,
			ID:        p.ID,
			Content:   p.Content,
			HobbyID:   p.HobbyID,
			HobbyName: p.Hobby.Name,
			CreatedAt: p.CreatedAt,
		})
	}
	for _, h := range followed {
		items = append(items, ActivityItem{
			Type:      ActivityHobbyFollow,
			ID:        h.ID,
			Content:   "Followed hobby: " + h.Name,
			HobbyID:   h.ID,
			HobbyName: h.Name,
			CreatedAt: now,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}
