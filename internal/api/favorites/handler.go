package favorites

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/api/respond"
	"github.com/yagocr2/FilmWhere-sub000/internal/discovery"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
)

type Handler struct {
	db  *gorm.DB
	svc *discovery.Service
}

func NewHandler(db *gorm.DB, svc *discovery.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

type FavoriteDTO struct {
	MovieID   uint      `json:"movieId"`
	Title     string    `json:"title"`
	PosterURL string    `json:"posterUrl,omitempty"`
	Year      int       `json:"year,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// POST /api/favorites/:movieId
// Unknown TMDB ids get synced locally first, so favoriting straight from an
// external search result works.
func (h *Handler) Add(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	movie, err := h.svc.ResolveMovie(c.Request.Context(), c.Param("movieId"))
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve movie"})
		return
	}

	var existing social.Favorite
	err = h.db.Where("user_id = ? AND movie_id = ?", userID, movie.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Movie is already in your favorites"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check favorites"})
		return
	}

	favorite := social.Favorite{UserID: userID, MovieID: movie.ID}
	if err := h.db.Create(&favorite).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Movie is already in your favorites"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Added to favorites", "movieId": movie.ID})
}

// DELETE /api/favorites/:movieId
func (h *Handler) Remove(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	movieID, err := strconv.Atoi(c.Param("movieId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	result := h.db.Where("user_id = ? AND movie_id = ?", userID, movieID).Delete(&social.Favorite{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove favorite"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie is not in your favorites"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from favorites"})
}

// GET /api/favorites?page=&pageSize=
func (h *Handler) List(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	h.db.Model(&social.Favorite{}).Where("user_id = ?", userID).Count(&total)

	var rows []struct {
		MovieID    uint
		Title      string
		PosterPath string
		Year       *int
		CreatedAt  time.Time
	}
	err := h.db.Table("favorites").
		Select("favorites.movie_id, movies.title, movies.poster_path, movies.year, favorites.created_at").
		Joins("JOIN movies ON movies.id = favorites.movie_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load favorites"})
		return
	}

	items := make([]FavoriteDTO, 0, len(rows))
	for _, r := range rows {
		dto := FavoriteDTO{
			MovieID:   r.MovieID,
			Title:     r.Title,
			PosterURL: h.svc.ImageURL(r.PosterPath),
			AddedAt:   r.CreatedAt,
		}
		if r.Year != nil {
			dto.Year = *r.Year
		}
		items = append(items, dto)
	}

	c.JSON(http.StatusOK, respond.NewPaged(items, total, page, pageSize))
}
