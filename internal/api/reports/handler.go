package reports

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yagocr2/FilmWhere-sub000/internal/domain/social"
	"github.com/yagocr2/FilmWhere-sub000/internal/domain/users"
)

type Handler struct {
	db *gorm.DB
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// POST /api/reports
func (h *Handler) Create(c *gin.Context) {
	userID := c.GetUint("user_id")
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		ReportedUserName string `json:"reportedUserName" binding:"required"`
		Reason           string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var target users.User
	if err := h.db.Where("user_name = ?", req.ReportedUserName).First(&target).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.ID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot report yourself"})
		return
	}

	var existing social.Report
	err := h.db.Where("reporter_id = ? AND reported_id = ? AND status = ?",
		userID, target.ID, social.ReportOpen).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an open report for this user"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check reports"})
		return
	}

	report := social.Report{
		ReporterID: userID,
		ReportedID: target.ID,
		Reason:     req.Reason,
		Status:     social.ReportOpen,
	}
	if err := h.db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create report"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Report submitted", "reportId": report.ID})
}
