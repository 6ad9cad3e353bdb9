package handlers

import (
	"net/http"
	"strings"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
)

func GetAppName(c *gin.Context) {
	var settings models.ApplicationSettings
	if err := database.DB.First(&settings).Error; err != nil || settings.AppName == "" {
		c.JSON(http.StatusOK, gin.H{"appName": models.DefaultAppName})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appName": settings.AppName})
}

type appNameRequest struct {
	AppName string `json:"appName"`
}

func UpdateAppName(c *gin.Context) {
	var req appNameRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	req.AppName = strings.TrimSpace(req.AppName)
	if req.AppName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nom d'application invalide"})
		return
	}

	settings := models.ApplicationSettings{ID: 1}
	if err := database.DB.FirstOrCreate(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}
	settings.AppName = req.AppName
	if err := database.DB.Save(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"appName": settings.AppName})
}
