package reviews

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/api/respond"
	"github.com/yagocr2/FilmWhere-sub000/internal/discovery"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/reviews"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Handler struct {
	db  *gorm.DB
	svc *discovery.Service
}

func NewHandler(db *gorm.DB, svc *discovery.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

type ReviewDTO struct {
	ID         uint      `json:"id"`
	MovieID    uint      `json:"movieId"`
	MovieTitle string    `json:"movieTitle,omitempty"`
	UserName   string    `json:"userName,omitempty"`
	Score      int       `json:"score"`
	Body       string    `json:"body,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toDTO(r reviews.Review) ReviewDTO {
	dto := ReviewDTO{
		ID:        r.ID,
		MovieID:   r.MovieID,
		Score:     r.Score,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User.ID != 0 {
		dto.UserName = r.User.UserName
	}
	if r.Movie.ID != 0 {
		dto.MovieTitle = r.Movie.Title
	}
	return dto
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// POST /api/reviews
// The movie id may be a local id, a TMDB id or even a title; unknown TMDB
// ids are synced locally before the review row is created.
func (h *Handler) Create(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req struct {
		MovieID string `json:"movieId" binding:"required"`
		Score   int    `json:"score" binding:"required"`
		Body    string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score < reviews.MinScore || req.Score > reviews.MaxScore {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 10"})
		return
	}

	movie, err := h.svc.ResolveMovie(c.Request.Context(), req.MovieID)
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve movie"})
		return
	}

	var existing reviews.Review
	err = h.db.Where("user_id = ? AND movie_id = ?", userID, movie.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this movie"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing review"})
		return
	}

	review := reviews.Review{
		UserID:  userID,
		MovieID: movie.ID,
		Score:   req.Score,
		Body:    req.Body,
	}
	if err := h.db.Create(&review).Error; err != nil {
		// Concurrent duplicate hits the unique index instead of the check.
		c.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this movie"})
		return
	}

	c.JSON(http.StatusCreated, toDTO(review))
}

// PUT /api/reviews/:id
func (h *Handler) Update(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	var review reviews.Review
	if err := h.db.First(&review, reviewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own reviews"})
		return
	}

	var req struct {
		Score int    `json:"score" binding:"required"`
		Body  string `json:"body"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Score < reviews.MinScore || req.Score > reviews.MaxScore {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Score must be between 1 and 10"})
		return
	}

	review.Score = req.Score
	review.Body = req.Body
	if err := h.db.Save(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update review"})
		return
	}

	c.JSON(http.StatusOK, toDTO(review))
}

// DELETE /api/reviews/:id
func (h *Handler) Delete(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	reviewID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	var review reviews.Review
	if err := h.db.First(&review, reviewID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}
	if review.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own reviews"})
		return
	}

	if err := h.db.Delete(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete review"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}

// GET /api/movies/:id/reviews?page=&pageSize=
func (h *Handler) ListByMovie(c *gin.Context) {
	movie, err := h.svc.ResolveMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve movie"})
		return
	}

	page, pageSize := pagination(c)

	var total int64
	h.db.Model(&reviews.Review{}).Where("movie_id = ?", movie.ID).Count(&total)

	var rows []reviews.Review
	err = h.db.Preload("User").
		Where("movie_id = ?", movie.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	items := make([]ReviewDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, toDTO(r))
	}
	c.JSON(http.StatusOK, respond.NewPaged(items, total, page, pageSize))
}

// GET /api/users/:username/reviews?page=&pageSize=
func (h *Handler) ListByUser(c *gin.Context) {
	var user users.User
	if err := h.db.Where("user_name = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	page, pageSize := pagination(c)

	var total int64
	h.db.Model(&reviews.Review{}).Where("user_id = ?", user.ID).Count(&total)

	var rows []reviews.Review
	err := h.db.Preload("Movie").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reviews"})
		return
	}

	items := make([]ReviewDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, toDTO(r))
	}
	c.JSON(http.StatusOK, respond.NewPaged(items, total, page, pageSize))
}

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
