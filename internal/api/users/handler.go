package users

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/reviews"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

type ProfileDTO struct {
	UserName       string     `json:"userName"`
	Bio            string     `json:"bio,omitempty"`
	AvatarURL      string     `json:"avatarUrl,omitempty"`
	ReviewCount    int64      `json:"reviewCount"`
	FavoriteCount  int64      `json:"favoriteCount"`
	FollowerCount  int64      `json:"followerCount"`
	FollowingCount int64      `json:"followingCount"`
	MemberSince    time.Time  `json:"memberSince"`
	BirthDate      *time.Time `json:"birthDate,omitempty"`
	Email          string     `json:"email,omitempty"`
	Role           string     `json:"role,omitempty"`
}

func (h *Handler) counts(userID uint) (reviewCount, favoriteCount, followerCount, followingCount int64) {
	h.db.Model(&reviews.Review{}).Where("user_id = ?", userID).Count(&reviewCount)
	h.db.Model(&social.Favorite{}).Where("user_id = ?", userID).Count(&favoriteCount)
	h.db.Model(&social.Follow{}).Where("followed_id = ?", userID).Count(&followerCount)
	h.db.Model(&social.Follow{}).Where("follower_id = ?", userID).Count(&followingCount)
	return
}

// GET /me
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var user users.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	reviewCount, favoriteCount, followerCount, followingCount := h.counts(user.ID)
	c.JSON(http.StatusOK, ProfileDTO{
		UserName:       user.UserName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		ReviewCount:    reviewCount,
		FavoriteCount:  favoriteCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		MemberSince:    user.CreatedAt,
		BirthDate:      user.BirthDate,
		Email:          user.Email,
		Role:           user.Role,
	})
}

// PUT /me
func (h *Handler) UpdateMe(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Bio       *string `json:"bio"`
		AvatarURL *string `json:"avatarUrl"`
		BirthDate *string `json:"birthDate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}
	if req.BirthDate != nil {
		if *req.BirthDate == "" {
			updates["birth_date"] = nil
		} else {
			parsed, err := time.Parse("2006-01-02", *req.BirthDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "birthDate must be YYYY-MM-DD"})
				return
			}
			updates["birth_date"] = parsed
		}
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := h.db.Model(&users.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// GET /api/users/:username — public profile, hidden for banned accounts.
func (h *Handler) PublicProfile(c *gin.Context) {
	var user users.User
	if err := h.db.Where("user_name = ?", c.Param("username")).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if user.IsBanned {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	reviewCount, favoriteCount, followerCount, followingCount := h.counts(user.ID)
	c.JSON(http.StatusOK, ProfileDTO{
		UserName:       user.UserName,
		Bio:            user.Bio,
		AvatarURL:      user.AvatarURL,
		ReviewCount:    reviewCount,
		FavoriteCount:  favoriteCount,
		FollowerCount:  followerCount,
		FollowingCount: followingCount,
		MemberSince:    user.CreatedAt,
	})
}
