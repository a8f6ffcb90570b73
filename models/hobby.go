package models

import "time"

// Hobby is a catalog entry representing an activity. Type is its category;
// an empty Type means uncategorized.
type Hobby struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"size:255;not null" json:"name"`
	Type        string      `gorm:"size:64" json:"type"`
	Description string      `gorm:"type:text" json:"description"`
	Link        string      `gorm:"size:512" json:"link"`
	ImageURL    string      `gorm:"size:512" json:"imageUrl"`
	CreatedAt   time.Time   `json:"createdAt"`
	Followers   []User      `gorm:"many2many:user_hobbies" json:"-"`
	ForumPosts  []ForumPost `json:"-"`
}
