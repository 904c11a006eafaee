package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yagocr2/FilmWhere-sub000/config"
	"github.com/yagocr2/FilmWhere-sub000/database"
	routes "github.com/yagocr2/FilmWhere-sub000/internal/app/http"
	"github.com/yagocr2/FilmWhere-sub000/internal/discovery"
	"github.com/yagocr2/FilmWhere-sub000/internal/infra/tmdb"
)

func main() {
	// gin.SetMode(gin.ReleaseMode) uncomment only in production
	cfg := config.Load()
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db := database.Open(cfg)
	tmdbClient := tmdb.NewClient(cfg.TMDB, logger)
	discoveryService := discovery.NewService(db, tmdbClient, logger)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		Cfg:       cfg,
		Discovery: discoveryService,
		Logger:    logger,
	})

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
