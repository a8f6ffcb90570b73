package models

import "time"

// ForumPost is a message in a hobby's discussion thread. A nil ParentPostID
// marks a top-level post; otherwise the post is a direct reply. Threads are
// exactly two levels deep: replies never have replies of their own.
//
// The self-referencing parent link deliberately carries no store-level
// cascade; deleting a post must remove its replies explicitly first.
type ForumPost struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Content      string      `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time   `json:"createdAt"`
	UserID       string      `gorm:"index;size:36;not null" json:"userId"`
	HobbyID      uint        `gorm:"index;not null" json:"hobbyId"`
	ParentPostID *uint       `gorm:"index" json:"parentPostId,omitempty"`
	User         User        `json:"-"`
	Hobby        Hobby       `json:"-"`
	Replies      []ForumPost `gorm:"foreignKey:ParentPostID;constraint:OnDelete:RESTRICT" json:"replies,omitempty"`
}
