package services

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/models"
)

const (
	// DefaultPageSize is applied when a request carries no page size.
	DefaultPageSize = 12
	// CategoryAll is the sentinel meaning "no category filter".
	CategoryAll = "all"
)

// DiscoverFilter narrows a discovery candidate set.
type DiscoverFilter struct {
	Category string
	Search   string
	Page     int
	PageSize int
}

func (f DiscoverFilter) normalized() DiscoverFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	f.Category = strings.TrimSpace(f.Category)
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// DiscoveryService selects and ranks hobbies a viewer does not follow yet.
// Randomized orderings draw from newRand, so tests can pin a seed.
type DiscoveryService struct {
	db      *gorm.DB
	newRand func() *rand.Rand
}

// NewDiscoveryService creates a DiscoveryService with a time-seeded random
// source, fresh per call.
func NewDiscoveryService(db *gorm.DB) *DiscoveryService {
	return &DiscoveryService{
		db: db,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// NewDiscoveryServiceWithRand creates a DiscoveryService drawing randomness
// from newRand.
func NewDiscoveryServiceWithRand(db *gorm.DB, newRand func() *rand.Rand) *DiscoveryService {
	return &DiscoveryService{db: db, newRand: newRand}
}

// FavoriteCategories returns the lowercased category values with the highest
// occurrence among followedTypes. Empty types count as uncategorized and are
// ignored; ties keep every tied category. The result is sorted for stable
// output and is nil when the viewer follows nothing categorized.
func FavoriteCategories(followedTypes []string) []string {
	counts := make(map[string]int)
	for _, t := range followedTypes {
		if t == "" {
			continue
		}
		counts[strings.ToLower(t)]++
	}
	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}
	if maxCount == 0 {
		return nil
	}
	var favorites []string
	for t, c := range counts {
		if c == maxCount {
			favorites = append(favorites, t)
		}
	}
	sort.Strings(favorites)
	return favorites
}

// followedHobbyIDs returns the ids of hobbies the viewer follows.
func (s *DiscoveryService) followedHobbyIDs(ctx context.Context, viewerID string) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).
		Table("user_hobbies").
		Where("user_id = ?", viewerID).
		Pluck("hobby_id", &ids).Error
	return ids, err
}

// applyFilter adds the category and search predicates to q.
func applyFilter(q *gorm.DB, f DiscoverFilter) *gorm.DB {
	if f.Category != "" && !strings.EqualFold(f.Category, CategoryAll) {
		q = q.Where("LOWER(type) = ?", strings.ToLower(f.Category))
	}
	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	return q
}

// candidates loads the viewer's discovery candidate set: hobbies the viewer
// does not follow, narrowed by the filter. When that set is empty the whole
// catalog becomes the candidate set (a viewer who follows everything still
// sees results); an empty catalog is ErrNoHobbies.
func (s *DiscoveryService) candidates(ctx context.Context, viewerID string, f DiscoverFilter) ([]models.Hobby, map[uint]bool, error) {
	followedIDs, err := s.followedHobbyIDs(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}
	followed := make(map[uint]bool, len(followedIDs))
	for _, id := range followedIDs {
		followed[id] = true
	}

	q := applyFilter(s.db.WithContext(ctx).Model(&models.Hobby{}), f).Preload("Followers")
	if len(followedIDs) > 0 {
		q = q.Where("id NOT IN ?", followedIDs)
	}
	var hobbies []models.Hobby
	if err := q.Find(&hobbies).Error; err != nil {
		return nil, nil, err
	}
	if len(hobbies) == 0 {
		if err := s.db.WithContext(ctx).Preload("Followers").Find(&hobbies).Error; err != nil {
			return nil, nil, err
		}
	}
	if len(hobbies) == 0 {
		return nil, nil, ErrNoHobbies
	}
	return hobbies, followed, nil
}

// ListDiscoverable returns one shuffled page of the viewer's candidate set.
// The order is fresh per call; pages of the same request lifecycle are not
// mutually consistent.
func (s *DiscoveryService) ListDiscoverable(ctx context.Context, viewerID string, f DiscoverFilter) ([]HobbyCard, Pagination, error) {
	f = f.normalized()
	hobbies, _, err := s.candidates(ctx, viewerID, f)
	if err != nil {
		return nil, Pagination{}, err
	}

	cards := make([]HobbyCard, len(hobbies))
	for i, h := range hobbies {
		cards[i] = toCard(h, false)
	}
	rng := s.newRand()
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})

	pagination := NewPagination(f.Page, f.PageSize, len(cards))
	return pageOf(cards, f.Page, f.PageSize), pagination, nil
}

// PickRandom returns one uniformly random candidate. IsFollowing can only be
// true on the fallback path, where the catalog includes followed hobbies.
func (s *DiscoveryService) PickRandom(ctx context.Context, viewerID string, f DiscoverFilter) (HobbyCard, error) {
	f = f.normalized()
	hobbies, followed, err := s.candidates(ctx, viewerID, f)
	if err != nil {
		return HobbyCard{}, err
	}
	rng := s.newRand()
	h := hobbies[rng.Intn(len(hobbies))]
	return toCard(h, followed[h.ID]), nil
}

// Recommend ranks the viewer's not-yet-followed candidates by category
// preference: hobbies in a favorite category first, then follower count
// descending, then name ascending. Without follows the favorite key is
// vacuous and only the latter two apply. There is no catalog fallback here.
func (s *DiscoveryService) Recommend(ctx context.Context, viewerID string, f DiscoverFilter) ([]RecommendedHobby, Pagination, []string, error) {
	f = f.normalized()

	followedIDs, err := s.followedHobbyIDs(ctx, viewerID)
	if err != nil {
		return nil, Pagination{}, nil, err
	}
	var followedTypes []string
	if len(followedIDs) > 0 {
		if err := s.db.WithContext(ctx).
			Model(&models.Hobby{}).
			Where("id IN ?", followedIDs).
			Pluck("type", &followedTypes).Error; err != nil {
			return nil, Pagination{}, nil, err
		}
	}
	favorites := FavoriteCategories(followedTypes)
	favoriteSet := make(map[string]bool, len(favorites))
	for _, c := range favorites {
		favoriteSet[c] = true
	}

	q := applyFilter(s.db.WithContext(ctx).Model(&models.Hobby{}), f).Preload("Followers")
	if len(followedIDs) > 0 {
		q = q.Where("id NOT IN ?", followedIDs)
	}
	var hobbies []models.Hobby
	if err := q.Find(&hobbies).Error; err != nil {
		return nil, Pagination{}, nil, err
	}

	isFavorite := func(h models.Hobby) bool {
		return h.Type != "" && favoriteSet[strings.ToLower(h.Type)]
	}
	sort.SliceStable(hobbies, func(i, j int) bool {
		fi, fj := isFavorite(hobbies[i]), isFavorite(hobbies[j])
		if fi != fj {
			return fi
		}
		if len(hobbies[i].Followers) != len(hobbies[j].Followers) {
			return len(hobbies[i].Followers) > len(hobbies[j].Followers)
		}
		return hobbies[i].Name < hobbies[j].Name
	})

	pagination := NewPagination(f.Page, f.PageSize, len(hobbies))
	window := pageOf(hobbies, f.Page, f.PageSize)
	items := make([]RecommendedHobby, len(window))
	for i, h := range window {
		items[i] = RecommendedHobby{
			HobbyCard:          toCard(h, false),
			IsFavoriteCategory: isFavorite(h),
		}
	}
	return items, pagination, favorites, nil
}

// ListFollowed returns every hobby the viewer follows.
func (s *DiscoveryService) ListFollowed(ctx context.Context, viewerID string) ([]HobbyCard, error) {
	var hobbies []models.Hobby
	err := s.db.WithContext(ctx).
		Preload("Followers").
		Joins("JOIN user_hobbies ON user_hobbies.hobby_id = hobbies.id AND user_hobbies.user_id = ?", viewerID).
		Find(&hobbies).Error
	if err != nil {
		return nil, err
	}
	cards := make([]HobbyCard, len(hobbies))
	for i, h := range hobbies {
		cards[i] = toCard(h, true)
	}
	return cards, nil
}

// GetHobby returns a single hobby card with IsFollowing computed for viewer.
func (s *DiscoveryService) GetHobby(ctx context.Context, viewerID string, hobbyID uint) (HobbyCard, error) {
	var hobby models.Hobby
	err := s.db.WithContext(ctx).Preload("Followers").First(&hobby, hobbyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return HobbyCard{}, ErrHobbyNotFound
		}
		return HobbyCard{}, err
	}
	following := false
	for _, u := range hobby.Followers {
		if u.ID == viewerID {
			following = true
			break
		}
	}
	return toCard(hobby, following), nil
}

// Follow records the viewer's interest in a hobby. Following an already
// followed hobby is a no-op; the current follower count is returned either
// way. The check and the insert share one transaction.
func (s *DiscoveryService) Follow(ctx context.Context, viewerID string, hobbyID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hobby, user, err := followPair(tx, viewerID, hobbyID)
		if err != nil {
			return err
		}
		var existing int64
		if err := tx.Table("user_hobbies").
			Where("user_id = ? AND hobby_id = ?", viewerID, hobbyID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing == 0 {
			if err := tx.Model(hobby).Association("Followers").Append(user); err != nil {
				return &ConstraintError{Op: "follow hobby", Err: err}
			}
		}
		return tx.Table("user_hobbies").Where("hobby_id = ?", hobbyID).Count(&count).Error
	})
	return int(count), err
}

// Unfollow removes the viewer's follow of a hobby. Unfollowing a hobby the
// viewer never followed is a no-op.
func (s *DiscoveryService) Unfollow(ctx context.Context, viewerID string, hobbyID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hobby, user, err := followPair(tx, viewerID, hobbyID)
		if err != nil {
			return err
		}
		if err := tx.Model(hobby).Association("Followers").Delete(user); err != nil {
			return &ConstraintError{Op: "unfollow hobby", Err: err}
		}
		return tx.Table("user_hobbies").Where("hobby_id = ?", hobbyID).Count(&count).Error
	})
	return int(count), err
}

// Categories lists the distinct non-empty categories with hobby counts.
func (s *DiscoveryService) Categories(ctx context.Context) ([]CategoryCount, error) {
	var categories []CategoryCount
	err := s.db.WithContext(ctx).
		Model(&models.Hobby{}).
		Select("type AS name, COUNT(*) AS count").
		Where("type <> ''").
		Group("type").
		Order("type ASC").
		Scan(&categories).Error
	return categories, err
}

// Discover is the public catalog browse: every hobby, filtered, name
// ascending. No viewer is involved, so no follow exclusion applies.
func (s *DiscoveryService) Discover(ctx context.Context, f DiscoverFilter) ([]HobbyCard, Pagination, error) {
	f = f.normalized()
	q := applyFilter(s.db.WithContext(ctx).Model(&models.Hobby{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, Pagination{}, err
	}
	var hobbies []models.Hobby
	err := q.Preload("Followers").
		Order("name ASC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&hobbies).Error
	if err != nil {
		return nil, Pagination{}, err
	}
	cards := make([]HobbyCard, len(hobbies))
	for i, h := range hobbies {
		cards[i] = toCard(h, false)
	}
	return cards, NewPagination(f.Page, f.PageSize, int(total)), nil
}

// followPair loads the hobby and the viewer inside tx.
func followPair(tx *gorm.DB, viewerID string, hobbyID uint) (*models.Hobby, *models.User, error) {
	var hobby models.Hobby
	if err := tx.First(&hobby, hobbyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrHobbyNotFound
		}
		return nil, nil, err
	}
	var user models.User
	if err := tx.First(&user, "id = ?", viewerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	return &hobby, &user, nil
}

func toCard(h models.Hobby, following bool) HobbyCard {
	return HobbyCard{
		ID:             h.ID,
		Name:           h.Name,
		Description:    h.Description,
		Link:           h.Link,
		Type:           h.Type,
		ImageURL:       h.ImageURL,
		FollowersCount: len(h.Followers),
		IsFollowing:    following,
	}
}

// pageOf slices items down to the requested page window.
func pageOf[T any](items []T, page, pageSize int) []T {
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
