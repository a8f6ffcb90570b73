package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hobbyhub/hobbyhub/models"
	"github.com/hobbyhub/hobbyhub/utils"
)

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	seeder := NewSeeder(db, "admin@example.com", "secret123")
	ctx := context.Background()

	result, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.True(t, result.SeededAdmin)
	assert.True(t, result.SeededHobbies)
	assert.Equal(t, 30, result.HobbyCount)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.True(t, admin.IsAdmin())
	assert.True(t, utils.CheckPassword(admin.PasswordHash, "secret123"))

	// Second run touches nothing.
	result, err = seeder.Seed(ctx)
	require.NoError(t, err)
	assert.False(t, result.SeededAdmin)
	assert.False(t, result.SeededHobbies)
	assert.Equal(t, 30, result.HobbyCount)

	var hobbyCount int64
	require.NoError(t, db.Model(&models.Hobby{}).Count(&hobbyCount).Error)
	assert.EqualValues(t, 30, hobbyCount)
}

func TestSeedPromotesExistingAccount(t *testing.T) {
	db := newTestDB(t)
	existing := models.User{
		UserName:     "admin",
		Email:        "admin@example.com",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&existing).Error)

	seeder := NewSeeder(db, "admin@example.com", "secret123")
	result, err := seeder.Seed(context.Background())
	require.NoError(t, err)
	assert.True(t, result.SeededAdmin)

	var promoted models.User
	require.NoError(t, db.First(&promoted, "id = ?", existing.ID).Error)
	assert.True(t, promoted.IsAdmin())
	// The existing password is kept.
	assert.Equal(t, "x", promoted.PasswordHash)
}
