package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/config"
	adminapi "github.com/yagocr2/FilmWhere-sub000/internal/api/admin"
	authapi "github.com/yagocr2/FilmWhere-sub000/internal/api/auth"
	favoritesapi "github.com/yagocr2/FilmWhere-sub000/internal/api/favorites"
	followsapi "github.com/yagocr2/FilmWhere-sub000/internal/api/follows"
	moviesapi "github.com/yagocr2/FilmWhere-sub000/internal/api/movies"
	reportsapi "github.com/yagocr2/FilmWhere-sub000/internal/api/reports"
	reviewsapi "github.com/yagocr2/FilmWhere-sub000/internal/api/reviews"
	usersapi "github.com/yagocr2/FilmWhere-sub000/internal/api/users"
	"github.com/yagocr2/FilmWhere-sub000/internal/app/http/middleware"
	"github.com/yagocr2/FilmWhere-sub000/internal/discovery"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Deps struct {
	DB        *gorm.DB
	Cfg       config.Config
	Discovery *discovery.Service
	Logger    zerolog.Logger
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	mailer := authapi.NewMailer(deps.Cfg, deps.Logger)
	authHandler := authapi.NewHandler(deps.DB, deps.Cfg, mailer)
	moviesHandler := moviesapi.NewHandler(deps.Discovery)
	reviewsHandler := reviewsapi.NewHandler(deps.DB, deps.Discovery)
	favoritesHandler := favoritesapi.NewHandler(deps.DB, deps.Discovery)
	followsHandler := followsapi.NewHandler(deps.DB)
	reportsHandler := reportsapi.NewHandler(deps.DB)
	usersHandler := usersapi.NewHandler(deps.DB)
	adminHandler := adminapi.NewHandler(deps.DB, deps.Discovery)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	public := r.Group("/")
	public.Use(middleware.SanitizeInput())

	public.POST("/register", authHandler.Register)
	public.POST("/login", authHandler.Login)
	public.GET("/verify", authHandler.VerifyEmail)
	public.POST("/resend-verification", authHandler.ResendVerification)
	public.POST("/request-password-reset", authHandler.RequestPasswordReset)
	public.POST("/reset-password", authHandler.ResetPassword)

	public.GET("/auth/google", authHandler.GoogleStart)
	public.GET("/auth/google/callback", authHandler.GoogleCallback)

	// Movie discovery is readable without an account.
	public.GET("/api/movies/search", moviesHandler.Search)
	public.GET("/api/movies/popular", moviesHandler.Popular)
	public.GET("/api/movies/top-rated", moviesHandler.TopRated)
	public.GET("/api/movies/genre/:name", moviesHandler.ByGenre)
	public.GET("/api/movies/estrenos", moviesHandler.Recent)
	public.GET("/api/movies/:id", moviesHandler.Detail)
	public.GET("/api/movies/:id/platforms", moviesHandler.Platforms)
	public.GET("/api/movies/:id/reviews", reviewsHandler.ListByMovie)

	public.GET("/api/users/:username", usersHandler.PublicProfile)
	public.GET("/api/users/:username/reviews", reviewsHandler.ListByUser)

	// Authenticated
	auth := r.Group("/")
	auth.Use(middleware.Auth(deps.DB, deps.Cfg.JWTSecret), middleware.SanitizeInput())

	auth.GET("/me", usersHandler.Me)
	auth.PUT("/me", usersHandler.UpdateMe)
	auth.POST("/change-password", authHandler.ChangePassword)

	auth.POST("/api/reviews", reviewsHandler.Create)
	auth.PUT("/api/reviews/:id", reviewsHandler.Update)
	auth.DELETE("/api/reviews/:id", reviewsHandler.Delete)

	auth.GET("/api/favorites", favoritesHandler.List)
	auth.POST("/api/favorites/:movieId", favoritesHandler.Add)
	auth.DELETE("/api/favorites/:movieId", favoritesHandler.Remove)

	auth.GET("/api/follows/followers", followsHandler.Followers)
	auth.GET("/api/follows/following", followsHandler.Following)
	auth.POST("/api/follows/:username", followsHandler.Follow)
	auth.DELETE("/api/follows/:username", followsHandler.Unfollow)

	auth.POST("/api/reports", reportsHandler.Create)

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.Auth(deps.DB, deps.Cfg.JWTSecret), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/users", adminHandler.ListUsers)
	admin.GET("/users/:id", adminHandler.GetUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.POST("/users/:id/ban", adminHandler.BanUser)
	admin.POST("/users/:id/unban", adminHandler.UnbanUser)
	admin.GET("/reports", adminHandler.ListReports)
	admin.PUT("/reports/:id", adminHandler.UpdateReport)
	admin.DELETE("/movies/year/:year", adminHandler.PurgeMoviesByYear)
	admin.POST("/movies/sync/:tmdbId", adminHandler.SyncMovie)
	admin.GET("/stats", adminHandler.Stats)
}
