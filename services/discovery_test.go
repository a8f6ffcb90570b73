package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedRand(seed int64) func() *rand.Rand {
	return func() *rand.Rand {
		return rand.New(rand.NewSource(seed))
	}
}

func TestFavoriteCategories(t *testing.T) {
	assert.Nil(t, FavoriteCategories(nil))
	assert.Nil(t, FavoriteCategories([]string{"", ""}))

	favorites := FavoriteCategories([]string{"Creative", "creative", "Sports"})
	assert.Equal(t, []string{"creative"}, favorites)

	// Ties keep every tied category, sorted.
	favorites = FavoriteCategories([]string{"Sports", "Creative", "creative", "sports", "Music"})
	assert.Equal(t, []string{"creative", "sports"}, favorites)
}

func TestListDiscoverableExcludesFollowed(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	painting := createHobby(t, db, "Painting", "Creative")
	createHobby(t, db, "Hiking", "Outdoor")
	createHobby(t, db, "Chess", "Learning")
	follow(t, db, user, painting)

	cards, pagination, err := svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, pagination.TotalCount)
	for _, c := range cards {
		assert.NotEqual(t, painting.ID, c.ID)
		assert.False(t, c.IsFollowing)
	}
}

func TestListDiscoverableFallsBackToFullCatalog(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	first := createHobby(t, db, "Painting", "Creative")
	second := createHobby(t, db, "Hiking", "Outdoor")
	follow(t, db, user, first)
	follow(t, db, user, second)

	cards, pagination, err := svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, pagination.TotalCount)
	assert.Len(t, cards, 2)
}

func TestListDiscoverableEmptyCatalog(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)

	user := createUser(t, db, "alice")
	_, _, err := svc.ListDiscoverable(context.Background(), user.ID, DiscoverFilter{})
	assert.ErrorIs(t, err, ErrNoHobbies)
}

func TestListDiscoverableDeterministicWithSeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	createHobby(t, db, "Painting", "Creative")
	createHobby(t, db, "Hiking", "Outdoor")
	createHobby(t, db, "Chess", "Learning")
	createHobby(t, db, "Cooking", "Cooking")
	createHobby(t, db, "Coding", "Technology")

	svc := NewDiscoveryServiceWithRand(db, fixedRand(42))
	first, _, err := svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{})
	require.NoError(t, err)
	second, _, err := svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListDiscoverableCategoryAndSearchFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	createHobby(t, db, "Painting", "Creative")
	createHobby(t, db, "Pottery", "Creative")
	createHobby(t, db, "Hiking", "Outdoor")

	cards, _, err := svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{Category: "CREATIVE"})
	require.NoError(t, err)
	assert.Len(t, cards, 2)

	// "all" means no category filter.
	cards, _, err = svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{Category: CategoryAll})
	require.NoError(t, err)
	assert.Len(t, cards, 3)

	cards, _, err = svc.ListDiscoverable(ctx, user.ID, DiscoverFilter{Search: "hik"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Hiking", cards[0].Name)
}

func TestPickRandomComputesFollowStateOnFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")
	follow(t, db, user, hobby)

	card, err := svc.PickRandom(ctx, user.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Equal(t, hobby.ID, card.ID)
	assert.True(t, card.IsFollowing)
	assert.Equal(t, 1, card.FollowersCount)
}

func TestRecommendOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "alice")
	fan1 := createUser(t, db, "bob")
	fan2 := createUser(t, db, "carol")

	followedCreative := createHobby(t, db, "Painting", "Creative")
	follow(t, db, viewer, followedCreative)

	pottery := createHobby(t, db, "Pottery", "Creative")
	sculpting := createHobby(t, db, "Sculpting", "Creative")
	hiking := createHobby(t, db, "Hiking", "Outdoor")
	chess := createHobby(t, db, "Chess", "Learning")

	// Popularity: hiking 2, sculpting 1.
	follow(t, db, fan1, hiking)
	follow(t, db, fan2, hiking)
	follow(t, db, fan1, sculpting)

	items, pagination, favorites, err := svc.Recommend(ctx, viewer.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"creative"}, favorites)
	assert.Equal(t, 4, pagination.TotalCount)
	require.Len(t, items, 4)

	// Favorite category first (followers desc then name asc inside the band),
	// then the rest by followers desc, then name.
	assert.Equal(t, sculpting.ID, items[0].ID)
	assert.True(t, items[0].IsFavoriteCategory)
	assert.Equal(t, pottery.ID, items[1].ID)
	assert.True(t, items[1].IsFavoriteCategory)
	assert.Equal(t, hiking.ID, items[2].ID)
	assert.False(t, items[2].IsFavoriteCategory)
	assert.Equal(t, chess.ID, items[3].ID)

	// The followed hobby never appears.
	for _, item := range items {
		assert.NotEqual(t, followedCreative.ID, item.ID)
	}
}

func TestRecommendWithoutFollowsHasNoFavorites(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "alice")
	fan := createUser(t, db, "bob")
	popular := createHobby(t, db, "Hiking", "Outdoor")
	createHobby(t, db, "Chess", "Learning")
	follow(t, db, fan, popular)

	items, _, favorites, err := svc.Recommend(ctx, viewer.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Nil(t, favorites)
	require.Len(t, items, 2)
	assert.Equal(t, popular.ID, items[0].ID)
	assert.False(t, items[0].IsFavoriteCategory)
}

func TestRecommendHasNoCatalogFallback(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	viewer := createUser(t, db, "alice")
	only := createHobby(t, db, "Painting", "Creative")
	follow(t, db, viewer, only)

	items, pagination, _, err := svc.Recommend(ctx, viewer.ID, DiscoverFilter{})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, pagination.TotalCount)
}

func TestFollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")

	count, err := svc.Follow(ctx, user.ID, hobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.Follow(ctx, user.ID, hobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUnfollowIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")
	follow(t, db, user, hobby)

	count, err := svc.Unfollow(ctx, user.ID, hobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	count, err = svc.Unfollow(ctx, user.ID, hobby.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestFollowUnknownHobbyOrUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")

	_, err := svc.Follow(ctx, user.ID, hobby.ID+99)
	assert.ErrorIs(t, err, ErrHobbyNotFound)

	_, err = svc.Follow(ctx, "missing-user", hobby.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetHobby(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)
	ctx := context.Background()

	user := createUser(t, db, "alice")
	hobby := createHobby(t, db, "Painting", "Creative")
	follow(t, db, user, hobby)

	card, err := svc.GetHobby(ctx, user.ID, hobby.ID)
	require.NoError(t, err)
	assert.True(t, card.IsFollowing)

	other := createUser(t, db, "bob")
	card, err = svc.GetHobby(ctx, other.ID, hobby.ID)
	require.NoError(t, err)
	assert.False(t, card.IsFollowing)

	_, err = svc.GetHobby(ctx, user.ID, hobby.ID+99)
	assert.ErrorIs(t, err, ErrHobbyNotFound)
}

func TestCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)

	createHobby(t, db, "Painting", "Creative")
	createHobby(t, db, "Pottery", "Creative")
	createHobby(t, db, "Hiking", "Outdoor")
	createHobby(t, db, "Mystery", "")

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Creative", categories[0].Name)
	assert.Equal(t, 2, categories[0].Count)
	assert.Equal(t, "Outdoor", categories[1].Name)
	assert.Equal(t, 1, categories[1].Count)
}

func TestDiscoverOrdersByName(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiscoveryService(db)

	createHobby(t, db, "Pottery", "Creative")
	createHobby(t, db, "Chess", "Learning")
	createHobby(t, db, "Hiking", "Outdoor")

	cards, pagination, err := svc.Discover(context.Background(), DiscoverFilter{PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, pagination.TotalCount)
	assert.Equal(t, 2, pagination.TotalPages)
	assert.True(t, pagination.HasNextPage)
	require.Len(t, cards, 2)
	assert.Equal(t, "Chess", cards[0].Name)
	assert.Equal(t, "Hiking", cards[1].Name)
}

func TestPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNextPage)
	assert.True(t, p.HasPreviousPage)

	p = NewPagination(1, 10, 0)
	assert.Equal(t, 0, p.TotalPages)
	assert.False(t, p.HasNextPage)
	assert.False(t, p.HasPreviousPage)
}
