// Command bootstrap seeds the administrator account outside the server
// startup path, for deployments that provision the database ahead of time.
// It is idempotent: running it against an already-bootstrapped database is a
// no-op.
package main

import (
	"context"
	"log"

	"biblioteca/internal/config"
	"biblioteca/internal/db"
	"biblioteca/internal/hash"
	"biblioteca/internal/logger"
	"biblioteca/internal/model"
	"biblioteca/internal/repository"
	"biblioteca/internal/service"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer logger.Sync()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	userRepo := repository.NewUserRepository(gormDB)
	userService := service.NewUserService(userRepo, hash.NewBcrypt(), nil)

	if err := userService.EnsureAdmin(context.Background(), cfg.BootstrapAdminPassword); err != nil {
		log.Fatalf("admin bootstrap: %v", err)
	}

	log.Println("admin bootstrap completed")
}
