package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/config"
	"github.com/arnavshah/volunteer-hub-go/pkg/database"
	"github.com/arnavshah/volunteer-hub-go/pkg/handlers"
	"github.com/arnavshah/volunteer-hub-go/pkg/logger"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	if err := logger.Init(os.Getenv("GIN_MODE") == "debug"); err != nil {
		panic(err)
	}
	log := logger.L()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Load()
	auth.Configure(cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	auth.ConfigureInvites(cfg.Invite.Secret)

	db, err := database.Open(cfg.DB)
	if err != nil {
		log.Fatal("could not open database", zap.Error(err))
	}

	h := handlers.New(db)

	r := gin.New()
	r.Use(logger.RequestLogger(), gin.Recovery())
	handlers.Register(r, h)

	log.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("could not run server", zap.Error(err))
	}
}
