package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/arnavshah/volunteer-hub-go/pkg/auth"
	"github.com/arnavshah/volunteer-hub-go/pkg/config"
	"github.com/arnavshah/volunteer-hub-go/pkg/database"
	"github.com/arnavshah/volunteer-hub-go/pkg/handlers"
	"github.com/arnavshah/volunteer-hub-go/pkg/logger"
)

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	_ = logger.Init(false)

	cfg := config.Load()
	auth.Configure(cfg.JWT.Secret, cfg.JWT.ExpirationHours)
	auth.ConfigureInvites(cfg.Invite.Secret)

	db, err := database.Open(cfg.DB)
	if err != nil {
		panic(err)
	}

	h := handlers.New(db)

	gin.SetMode(gin.ReleaseMode)
	r = gin.New()
	r.Use(logger.RequestLogger(), gin.Recovery())
	handlers.Register(r, h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
