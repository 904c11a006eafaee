package follows

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/api/respond"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type FollowDTO struct {
	UserName  string    `json:"userName"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Since     time.Time `json:"since"`
}

func mustUserID(c *gin.Context) (uint, bool) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID, true
}

// POST /api/follows/:username
func (h *Handler) Follow(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var target users.User
	if err := h.db.Where("user_name = ?", c.Param("username")).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot follow yourself"})
		return
	}

	var existing social.Follow
	err := h.db.Where("follower_id = ? AND followed_id = ?", userID, target.ID).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already follow this user"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check follow state"})
		return
	}

	follow := social.Follow{FollowerID: userID, FollowedID: target.ID}
	if err := h.db.Create(&follow).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already follow this user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Now following " + target.UserName})
}

// DELETE /api/follows/:username
func (h *Handler) Unfollow(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var target users.User
	if err := h.db.Where("user_name = ?", c.Param("username")).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	result := h.db.Where("follower_id = ? AND followed_id = ?", userID, target.ID).Delete(&social.Follow{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfollow"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "You do not follow this user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unfollowed " + target.UserName})
}

// GET /api/follows/followers
func (h *Handler) Followers(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	h.listEdges(c, "follows.followed_id = ?", "follows.follower_id", userID)
}

// GET /api/follows/following
func (h *Handler) Following(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	h.listEdges(c, "follows.follower_id = ?", "follows.followed_id", userID)
}

func (h *Handler) listEdges(c *gin.Context, whereClause, joinColumn string, userID uint) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	h.db.Model(&social.Follow{}).Where(whereClause, userID).Count(&total)

	var rows []struct {
		UserName  string
		AvatarURL string
		CreatedAt time.Time
	}
	err := h.db.Table("follows").
		Select("users.user_name, users.avatar_url, follows.created_at").
		Joins("JOIN users ON users.id = "+joinColumn).
		Where(whereClause, userID).
		Order("follows.created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load follows"})
		return
	}

	items := make([]FollowDTO, 0, len(rows))
	for _, r := range rows {
		items = append(items, FollowDTO{UserName: r.UserName, AvatarURL: r.AvatarURL, Since: r.CreatedAt})
	}
	c.JSON(http.StatusOK, respond.NewPaged(items, total, page, pageSize))
}
