package main

import (
	"context"

	"github.com/hobbyhub/hobbyhub/config"
	"github.com/hobbyhub/hobbyhub/models"
	"github.com/hobbyhub/hobbyhub/routes"
	"github.com/hobbyhub/hobbyhub/services"
	"github.com/hobbyhub/hobbyhub/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Hobby{}, &models.ForumPost{})

	// Idempotent bootstrap: admin account plus hobby fixtures on an empty catalog
	seeder := services.NewSeeder(db, cfg.AdminEmail, cfg.AdminPassword)
	if result, err := seeder.Seed(context.Background()); err != nil {
		utils.Sugar.Warnf("startup seeding failed: %v", err)
	} else if result.SeededHobbies {
		utils.Sugar.Infof("seeded hobby catalog with %d entries", result.HobbyCount)
	}

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
