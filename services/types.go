package services

import "time"

// HobbyCard is the projection of a hobby handed to discovery clients.
type HobbyCard struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Link           string `json:"link"`
	Type           string `json:"type"`
	ImageURL       string `json:"imageUrl"`
	FollowersCount int    `json:"followersCount"`
	IsFollowing    bool   `json:"isFollowing"`
}

// RecommendedHobby is a HobbyCard annotated with the preference signal.
type RecommendedHobby struct {
	HobbyCard
	IsFavoriteCategory bool `json:"isFavoriteCategory"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	CurrentPage     int  `json:"currentPage"`
	TotalPages      int  `json:"totalPages"`
	TotalCount      int  `json:"totalCount"`
	PageSize        int  `json:"pageSize"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPagination computes the window for a total of totalCount items.
func NewPagination(page, pageSize, totalCount int) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return Pagination{
		CurrentPage:     page,
		TotalPages:      totalPages,
		TotalCount:      totalCount,
		PageSize:        pageSize,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// CategoryCount is one entry of the category index.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ThreadReply is a direct reply inside a thread listing.
type ThreadReply struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
}

// ThreadPost is a top-level post with its replies, oldest reply first.
type ThreadPost struct {
	ID        uint          `json:"id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	UserID    string        `json:"userId"`
	UserName  string        `json:"userName"`
	Replies   []ThreadReply `json:"replies"`
}
