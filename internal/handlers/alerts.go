package handlers

import (
	"net/http"

	"smart-dpo/internal/alerting"
	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
)

type alertListItem struct {
	models.Alert
	TreatmentName string `json:"nom_traitement"`
	UserName      string `json:"nom_utilisateur"`
}

func ListAlerts(c *gin.Context) {
	var alerts []models.Alert
	if err := database.DB.
		Preload("Treatment").
		Preload("User").
		Order("created_at desc").
		Find(&alerts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	items := make([]alertListItem, 0, len(alerts))
	for _, a := range alerts {
		item := alertListItem{Alert: a}
		if a.Treatment != nil {
			item.TreatmentName = a.Treatment.Name
		}
		if a.User != nil {
			item.UserName = a.User.Name
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

// MarkAlertRead flips the read flag. Idempotent: marking an already-read
// alert succeeds and changes nothing. Read is terminal.
func MarkAlertRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	if err := database.DB.Model(&models.Alert{}).
		Where("id = ?", id).
		Update("lu", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "alerte marquée comme lue"})
}

// ScanAlerts triggers the sweep outside the hourly schedule. Safe to call at
// any time: the 24-hour dedup window makes repeat runs no-ops.
func ScanAlerts(c *gin.Context) {
	alerting.NewScanner(database.DB).CheckAlerts()
	c.JSON(http.StatusOK, gin.H{"msg": "vérification des alertes effectuée"})
}
