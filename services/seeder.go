package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hobbyhub/hobbyhub/models"
	"github.com/hobbyhub/hobbyhub/utils"
)

// SeedResult reports what a seeding run actually did.
type SeedResult struct {
	SeededHobbies bool `json:"seededHobbies"`
	HobbyCount    int  `json:"hobbyCount"`
	SeededAdmin   bool `json:"seededAdmin"`
}

// Seeder provisions the default admin account and the starter catalog.
// Runs are idempotent: hobbies are only inserted into an empty catalog and
// the admin account is created or promoted at most once.
type Seeder struct {
	db            *gorm.DB
	adminEmail    string
	adminPassword string
}

// NewSeeder creates a Seeder provisioning adminEmail as the admin account.
func NewSeeder(db *gorm.DB, adminEmail, adminPassword string) *Seeder {
	return &Seeder{db: db, adminEmail: adminEmail, adminPassword: adminPassword}
}

// Seed provisions the admin user and the hobby fixtures.
func (s *Seeder) Seed(ctx context.Context) (SeedResult, error) {
	var res SeedResult

	seededAdmin, err := s.seedAdmin(ctx)
	if err != nil {
		return res, err
	}
	res.SeededAdmin = seededAdmin

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Hobby{}).Count(&count).Error; err != nil {
		return res, err
	}
	if count > 0 {
		if utils.Sugar != nil {
			utils.Sugar.Infof("catalog already contains %d hobbies, skipping seed", count)
		}
		res.HobbyCount = int(count)
		return res, nil
	}

	hobbies := seedHobbies()
	if err := s.db.WithContext(ctx).Create(&hobbies).Error; err != nil {
		return res, err
	}
	if utils.Sugar != nil {
		utils.Sugar.Infof("seeded %d hobbies", len(hobbies))
	}
	res.SeededHobbies = true
	res.HobbyCount = len(hobbies)
	return res, nil
}

// seedAdmin creates the configured admin account, or promotes it when the
// account exists without the admin role.
func (s *Seeder) seedAdmin(ctx context.Context) (bool, error) {
	var admin models.User
	err := s.db.WithContext(ctx).Where("email = ?", s.adminEmail).First(&admin).Error
	if err == nil {
		if admin.IsAdmin() {
			return false, nil
		}
		admin.Role = models.RoleAdmin
		return true, s.db.WithContext(ctx).Save(&admin).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := utils.HashPassword(s.adminPassword)
	if err != nil {
		return false, err
	}
	admin = models.User{
		UserName:     s.adminEmail,
		Email:        s.adminEmail,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&admin).Error; err != nil {
		return false, err
	}
	if utils.Sugar != nil {
		utils.Sugar.Infof("created default admin user %s", s.adminEmail)
	}
	return true, nil
}

func seedHobbies() []models.Hobby {
	return []models.Hobby{
		{Name: "Painting", Description: "Express your creativity with colors and brushes", Type: "Creative", Link: "https://www.artistsnetwork.com/", ImageURL: "https://images.unsplash.com/photo-1513475382585-d06e58bcb0e0?w=400"},
		{Name: "Photography", Description: "Capture beautiful moments and create lasting memories", Type: "Creative", Link: "https://www.photography.com/", ImageURL: "https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=400"},
		{Name: "Drawing", Description: "Create art with pencils, pens, and digital tools", Type: "Creative", Link: "https://www.drawing.com/", ImageURL: "https://images.unsplash.com/photo-1583225214464-929602ebb0aa?w=400"},
		{Name: "Writing", Description: "Tell stories, write poetry, or keep a journal", Type: "Creative", Link: "https://www.writersdigest.com/", ImageURL: "https://images.unsplash.com/photo-1455390582262-044cdeadadfa"},
		{Name: "Sculpting", Description: "Shape clay, stone, or other materials into art", Type: "Creative", Link: "https://www.sculpture.org/", ImageURL: "https://images.unsplash.com/photo-1578662996442-48f60103fc96"},
		{Name: "Running", Description: "Stay fit and explore your neighborhood", Type: "Sports", Link: "https://www.runnersworld.com/", ImageURL: "https://images.unsplash.com/photo-1571019613454-1cb2f99b2d8b"},
		{Name: "Yoga", Description: "Improve flexibility and find inner peace", Type: "Sports", Link: "https://www.yogajournal.com/", ImageURL: "https://images.unsplash.com/photo-1544367567-0f2fcb009e0b"},
		{Name: "Swimming", Description: "Full-body workout in the water", Type: "Sports", Link: "https://www.usaswimming.org/", ImageURL: "https://images.unsplash.com/photo-1530549387789-4c1017266635"},
		{Name: "Cycling", Description: "Explore the outdoors on two wheels", Type: "Sports", Link: "https://www.bicycling.com/", ImageURL: "https://images.unsplash.com/photo-1571068316344-75bc76f77890"},
		{Name: "Rock Climbing", Description: "Challenge yourself on natural and artificial walls", Type: "Sports", Link: "https://www.climbing.com/", ImageURL: "https://images.unsplash.com/photo-1522163182402-834f871fd851"},
		{Name: "Hiking", Description: "Explore nature trails and mountain paths", Type: "Outdoor", Link: "https://www.alltrails.com/", ImageURL: "https://images.unsplash.com/photo-1551698618-1dfe5d97d256"},
		{Name: "Camping", Description: "Sleep under the stars and connect with nature", Type: "Outdoor", Link: "https://www.rei.com/learn/expert-advice/camping-for-beginners.html", ImageURL: "https://images.unsplash.com/photo-1504851149312-7a075b496cc7"},
		{Name: "Fishing", Description: "Relax by the water and catch your dinner", Type: "Outdoor", Link: "https://www.fieldandstream.com/", ImageURL: "https://images.unsplash.com/photo-1445112098124-3e76dd67983c"},
		{Name: "Gardening", Description: "Grow your own flowers, herbs, and vegetables", Type: "Outdoor", Link: "https://www.gardenersworld.com/", ImageURL: "https://images.unsplash.com/photo-1416879595882-3373a0480b5b"},
		{Name: "Programming", Description: "Build apps, websites, and solve problems with code", Type: "Technology", Link: "https://www.codecademy.com/", ImageURL: "https://images.unsplash.com/photo-1461749280684-dccba630e2f6"},
		{Name: "3D Printing", Description: "Create physical objects from digital designs", Type: "Technology", Link: "https://www.thingiverse.com/", ImageURL: "https://images.unsplash.com/photo-1581833971358-2c8b550f87b3"},
		{Name: "Electronics", Description: "Build circuits and electronic devices", Type: "Technology", Link: "https://www.arduino.cc/", ImageURL: "https://images.unsplash.com/photo-1518770660439-4636190af475"},
		{Name: "Guitar", Description: "Learn to play one of the most popular instruments", Type: "Music", Link: "https://www.justinguitar.com/", ImageURL: "https://images.unsplash.com/photo-1510915361894-db8b60106cb1"},
		{Name: "Piano", Description: "Master the keys and play beautiful melodies", Type: "Music", Link: "https://www.pianonanny.com/", ImageURL: "https://images.unsplash.com/photo-1520523839897-bd0b52f945a0"},
		{Name: "Singing", Description: "Express yourself through the power of voice", Type: "Music", Link: "https://www.singingcarrots.com/", ImageURL: "https://images.unsplash.com/photo-1493225457124-a3eb161ffa5f"},
		{Name: "Knitting", Description: "Create cozy sweaters, scarves, and blankets", Type: "Crafts", Link: "https://www.knittingpatterncentral.com/", ImageURL: "https://images.unsplash.com/photo-1434725039720-aaad6dd32dfe"},
		{Name: "Woodworking", Description: "Build furniture and decorative items from wood", Type: "Crafts", Link: "https://www.woodmagazine.com/", ImageURL: "https://images.unsplash.com/photo-1504148455328-c376907d081c"},
		{Name: "Pottery", Description: "Shape clay into bowls, vases, and art pieces", Type: "Crafts", Link: "https://www.pottery.org/", ImageURL: "https://images.unsplash.com/photo-1578662996442-48f60103fc96"},
		{Name: "Language Learning", Description: "Master a new language and culture", Type: "Learning", Link: "https://www.duolingo.com/", ImageURL: "https://images.unsplash.com/photo-1434030216411-0b793f4b4173"},
		{Name: "Chess", Description: "Improve your strategic thinking with the royal game", Type: "Learning", Link: "https://www.chess.com/", ImageURL: "https://images.unsplash.com/photo-1528819622765-d6bcf132f793"},
		{Name: "Reading", Description: "Explore new worlds through books and literature", Type: "Learning", Link: "https://www.goodreads.com/", ImageURL: "https://images.unsplash.com/photo-1481627834876-b7833e8f5570"},
		{Name: "Baking", Description: "Create delicious breads, cakes, and pastries", Type: "Cooking", Link: "https://www.kingarthurbaking.com/", ImageURL: "https://images.unsplash.com/photo-1509440159596-0249088772ff"},
		{Name: "Cooking", Description: "Master the art of preparing delicious meals", Type: "Cooking", Link: "https://www.allrecipes.com/", ImageURL: "https://images.unsplash.com/photo-1556909114-f6e7ad7d3136"},
		{Name: "Coin Collecting", Description: "Discover history through rare and unique coins", Type: "Collection", Link: "https://www.usmint.gov/", ImageURL: "https://images.unsplash.com/photo-1621504450181-5d356f61d307"},
		{Name: "Stamp Collecting", Description: "Explore the world through postal history", Type: "Collection", Link: "https://about.usps.com/who/leadership/pmg/", ImageURL: "https://images.unsplash.com/photo-1578662996442-48f60103fc96"},
	}
}
