package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/models"
	"github.com/hobbyhub/hobbyhub/utils"
)

// MaxPostContentLength bounds forum post content.
const MaxPostContentLength = 1000

// ForumService manages the two-level threaded discussion of a hobby.
type ForumService struct {
	db *gorm.DB
}

// NewForumService creates a ForumService instance.
func NewForumService(db *gorm.DB) *ForumService {
	return &ForumService{db: db}
}

// ValidateContent checks the 1..1000 character contract on trimmed content.
func ValidateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", ErrContentRequired
	}
	if len([]rune(content)) > MaxPostContentLength {
		return "", ErrContentTooLong
	}
	return content, nil
}

// ListThread returns the hobby's top-level posts newest first, each with its
// replies oldest first.
func (s *ForumService) ListThread(ctx context.Context, hobbyID uint) ([]ThreadPost, error) {
	if err := s.requireHobby(ctx, hobbyID); err != nil {
		return nil, err
	}

	var posts []models.ForumPost
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Replies.User").
		Where("hobby_id = ? AND parent_post_id IS NULL", hobbyID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	thread := make([]ThreadPost, len(posts))
	for i, p := range posts {
		replies := make([]ThreadReply, len(p.Replies))
		for j, r := range p.Replies {
			replies[j] = ThreadReply{
				ID:        r.ID,
				Content:   r.Content,
				CreatedAt: r.CreatedAt,
				UserID:    r.UserID,
				UserName:  r.User.UserName,
			}
		}
		thread[i] = ThreadPost{
			ID:        p.ID,
			Content:   p.Content,
			CreatedAt: p.CreatedAt,
			UserID:    p.UserID,
			UserName:  p.User.UserName,
			Replies:   replies,
		}
	}
	return thread, nil
}

// CreatePost persists a new top-level post in the hobby's thread.
func (s *ForumService) CreatePost(ctx context.Context, hobbyID uint, userID, content string) (*models.ForumPost, error) {
	content, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.requireHobby(ctx, hobbyID); err != nil {
		return nil, err
	}

	post := models.ForumPost{
		Content:   utils.Sanitize(content),
		UserID:    userID,
		HobbyID:   hobbyID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&post).Error; err != nil {
		return nil, &ConstraintError{Op: "create forum post", Err: err}
	}
	return &post, nil
}

// CreateReply persists a direct reply to parentID. The parent must exist and
// belong to hobbyID; a parent from another hobby is reported as not found.
// The validation and the insert share one transaction so the parent cannot
// vanish in between.
func (s *ForumService) CreateReply(ctx context.Context, hobbyID, parentID uint, userID, content string) (*models.ForumPost, error) {
	content, err := ValidateContent(content)
	if err != nil {
		return nil, err
	}

	var reply models.ForumPost
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hobby models.Hobby
		if err := tx.First(&hobby, hobbyID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrHobbyNotFound
			}
			return err
		}
		// Threads are two levels deep: only a top-level post can be a parent.
		var parent models.ForumPost
		if err := tx.Where("id = ? AND hobby_id = ? AND parent_post_id IS NULL", parentID, hobbyID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParentPostNotFound
			}
			return err
		}

		pid := parentID
		reply = models.ForumPost{
			Content:      utils.Sanitize(content),
			UserID:       userID,
			HobbyID:      hobbyID,
			ParentPostID: &pid,
			CreatedAt:    time.Now().UTC(),
		}
		if err := tx.Create(&reply).Error; err != nil {
			return &ConstraintError{Op: "create forum reply", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// DeletePost removes a post and every direct reply to it. The parent link is
// not cascaded by the store, so replies go first, then the post, inside one
// transaction. Deleting a reply touches neither its siblings nor the parent.
func (s *ForumService) DeletePost(ctx context.Context, hobbyID, postID uint) (*models.ForumPost, error) {
	var post models.ForumPost
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND hobby_id = ?", postID, hobbyID).First(&post).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		if err := tx.Where("parent_post_id = ?", postID).Delete(&models.ForumPost{}).Error; err != nil {
			return &ConstraintError{Op: "delete forum replies", Err: err}
		}
		if err := tx.Delete(&post).Error; err != nil {
			return &ConstraintError{Op: "delete forum post", Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *ForumService) requireHobby(ctx context.Context, hobbyID uint) error {
	var hobby models.Hobby
	if err := s.db.WithContext(ctx).Select("id").First(&hobby, hobbyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHobbyNotFound
		}
		return err
	}
	return nil
}
