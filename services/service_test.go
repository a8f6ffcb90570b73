package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hobbyhub/hobbyhub/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Hobby{}, &models.ForumPost{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{
		UserName:     name,
		Email:        name + "@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createHobby(t *testing.T, db *gorm.DB, name, category string) models.Hobby {
	t.Helper()
	hobby := models.Hobby{
		Name:        name,
		Type:        category,
		Description: name + " description",
	}
	require.NoError(t, db.Create(&hobby).Error)
	return hobby
}

func follow(t *testing.T, db *gorm.DB, user models.User, hobby models.Hobby) {
	t.Helper()
	require.NoError(t, db.Model(&hobby).Association("Followers").Append(&user))
}

func createPost(t *testing.T, db *gorm.DB, user models.User, hobby models.Hobby, content string, createdAt time.Time, parentID *uint) models.ForumPost {
	t.Helper()
	post := models.ForumPost{
		Content:      content,
		UserID:       user.ID,
		HobbyID:      hobby.ID,
		ParentPostID: parentID,
		CreatedAt:    createdAt,
	}
	require.NoError(t, db.Create(&post).Error)
	return post
}
