package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lingobazaar/lingobazaar-api/middleware"
	"github.com/lingobazaar/lingobazaar-api/models"
	"gorm.io/gorm"
)

// ProfileController handles profile reads. Profiles are owned by the
// external identity system, so there are no write endpoints here.
type ProfileController struct {
	db *gorm.DB
}

// NewProfileController creates a profile controller with its dependencies
func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// GetMyProfile handles GET /profiles/me - returns the caller's profile
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var profile models.Profile
	if err := pc.db.First(&profile, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}
