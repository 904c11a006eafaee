package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/api/respond"
	"github.com/yagocr2/FilmWhere-sub000/internal/discovery"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/movies"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/reviews"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Handler struct {
	db  *gorm.DB
	svc *discovery.Service
}

func NewHandler(db *gorm.DB, svc *discovery.Service) *Handler {
	return &Handler{db: db, svc: svc}
}

type AdminUser struct {
	ID           uint      `json:"id"`
	UserName     string    `json:"userName"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"authProvider"`
	IsVerified   bool      `json:"isVerified"`
	IsBanned     bool      `json:"isBanned"`
	CreatedAt    time.Time `json:"createdAt"`
}

type AdminReport struct {
	ID        uint      `json:"id"`
	Reporter  string    `json:"reporter"`
	Reported  string    `json:"reported"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

type AdminStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	TotalMovies  int64 `json:"totalMovies"`
	TotalReviews int64 `json:"totalReviews"`
	OpenReports  int64 `json:"openReports"`
	BannedUsers  int64 `json:"bannedUsers"`
}

// GET /admin/users?page=&pageSize=
func (h *Handler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	var total int64
	h.db.Model(&users.User{}).Count(&total)

	var rows []users.User
	err := h.db.Order("id").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	items := make([]AdminUser, 0, len(rows))
	for _, u := range rows {
		items = append(items, AdminUser{
			ID:           u.ID,
			UserName:     u.UserName,
			Email:        u.Email,
			Role:         u.Role,
			AuthProvider: u.AuthProvider,
			IsVerified:   u.IsVerified,
			IsBanned:     u.IsBanned,
			CreatedAt:    u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, respond.NewPaged(items, total, page, pageSize))
}

// GET /admin/users/:id
func (h *Handler) GetUser(c *gin.Context) {
	var user users.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var reviewCount, reportCount int64
	h.db.Model(&reviews.Review{}).Where("user_id = ?", user.ID).Count(&reviewCount)
	h.db.Model(&social.Report{}).Where("reported_id = ?", user.ID).Count(&reportCount)

	c.JSON(http.StatusOK, gin.H{
		"user": AdminUser{
			ID:           user.ID,
			UserName:     user.UserName,
			Email:        user.Email,
			Role:         user.Role,
			AuthProvider: user.AuthProvider,
			IsVerified:   user.IsVerified,
			IsBanned:     user.IsBanned,
			CreatedAt:    user.CreatedAt,
		},
		"reviewCount":        reviewCount,
		"reportsAgainstUser": reportCount,
	})
}

// DELETE /admin/users/:id
// Removes the account and everything it owns in one transaction.
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user users.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role == users.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts cannot be deleted"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&reviews.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&social.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", user.ID, user.ID).Delete(&social.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reporter_id = ? OR reported_id = ?", user.ID, user.ID).Delete(&social.Report{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&users.VerificationToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// POST /admin/users/:id/ban
func (h *Handler) BanUser(c *gin.Context) {
	h.setBanned(c, true)
}

// POST /admin/users/:id/unban
func (h *Handler) UnbanUser(c *gin.Context) {
	h.setBanned(c, false)
}

func (h *Handler) setBanned(c *gin.Context, banned bool) {
	var user users.User
	if err := h.db.First(&user, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.Role == users.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin accounts cannot be banned"})
		return
	}

	if err := h.db.Model(&user).Update("is_banned", banned).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	if banned {
		c.JSON(http.StatusOK, gin.H{"message": "User banned"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "User unbanned"})
	}
}

// GET /admin/reports?status=&page=&pageSize=
func (h *Handler) ListReports(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	query := h.db.Model(&social.Report{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var rows []social.Report
	err := query.Preload("Reporter").Preload("Reported").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load reports"})
		return
	}

	items := make([]AdminReport, 0, len(rows))
	for _, r := range rows {
		items = append(items, AdminReport{
			ID:        r.ID,
			Reporter:  r.Reporter.UserName,
			Reported:  r.Reported.UserName,
			Reason:    r.Reason,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, respond.NewPaged(items, total, page, pageSize))
}

// PUT /admin/reports/:id
func (h *Handler) UpdateReport(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status != social.ReportResolved && req.Status != social.ReportDismissed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be resolved or dismissed"})
		return
	}

	var report social.Report
	if err := h.db.First(&report, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found"})
		return
	}

	if err := h.db.Model(&report).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update report"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Report " + req.Status})
}

// DELETE /admin/movies/year/:year
// Deletes every movie of a release year along with its join rows, reviews
// and favorites. All-or-nothing: any failure rolls the whole purge back.
func (h *Handler) PurgeMoviesByYear(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1880 || year > time.Now().Year()+5 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}

	var purged int64
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&movies.Movie{}).Where("year = ?", year).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("movie_id IN ?", ids).Delete(&reviews.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id IN ?", ids).Delete(&social.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("movie_id IN ?", ids).Delete(&movies.MoviePlatform{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM movie_genres WHERE movie_id IN ?", ids).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&movies.Movie{})
		if result.Error != nil {
			return result.Error
		}
		purged = result.RowsAffected
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Purge failed, nothing was deleted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Purge complete", "deleted": purged, "year": year})
}

// POST /admin/movies/sync/:tmdbId
func (h *Handler) SyncMovie(c *gin.Context) {
	tmdbID, err := strconv.Atoi(c.Param("tmdbId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid TMDB id"})
		return
	}

	movie, err := h.svc.SyncByTmdbID(c.Request.Context(), tmdbID)
	if err != nil {
		if errors.Is(err, discovery.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found on TMDB"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Sync failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Movie synced", "movieId": movie.ID, "title": movie.Title})
}

// GET /admin/stats
func (h *Handler) Stats(c *gin.Context) {
	var stats AdminStats
	h.db.Model(&users.User{}).Count(&stats.TotalUsers)
	h.db.Model(&movies.Movie{}).Count(&stats.TotalMovies)
	h.db.Model(&reviews.Review{}).Count(&stats.TotalReviews)
	h.db.Model(&social.Report{}).Where("status = ?", social.ReportOpen).Count(&stats.OpenReports)
	h.db.Model(&users.User{}).Where("is_banned = ?", true).Count(&stats.BannedUsers)

	c.JSON(http.StatusOK, stats)
}
