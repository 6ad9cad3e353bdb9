package handlers

import (
	"net/http"
	"time"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
)

type statusCount struct {
	Status string `json:"statut"`
	Count  int64  `json:"count"`
}

type levelCount struct {
	Level string `json:"niveau"`
	Count int64  `json:"count"`
}

type poleCount struct {
	Pole  string `json:"pole"`
	Count int64  `json:"count"`
}

// DashboardStats aggregates the register for the chart widgets: conformity
// split, risk-level buckets (40/60/80 over the stored score), measure
// statuses, unread alerts, pole split.
func DashboardStats(c *gin.Context) {
	var totalTreatments int64
	if err := database.DB.Model(&models.Treatment{}).Count(&totalTreatments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	var conformity []statusCount
	database.DB.Model(&models.Treatment{}).
		Select("compliance_status as status, count(*) as count").
		Group("compliance_status").
		Scan(&conformity)

	var riskLevels []levelCount
	database.DB.Model(&models.Risk{}).
		Select(`CASE
			WHEN score_risque >= 80 THEN 'Critique'
			WHEN score_risque >= 60 THEN 'Élevé'
			WHEN score_risque >= 40 THEN 'Moyen'
			ELSE 'Faible'
		END as level, count(*) as count`).
		Group("level").
		Scan(&riskLevels)

	var measureStatuses []statusCount
	database.DB.Model(&models.CorrectiveMeasure{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&measureStatuses)

	var unreadAlerts int64
	database.DB.Model(&models.Alert{}).Where("lu = ?", false).Count(&unreadAlerts)

	var poles []poleCount
	database.DB.Model(&models.Treatment{}).
		Select("pole, count(*) as count").
		Where("pole <> ''").
		Group("pole").
		Scan(&poles)

	c.JSON(http.StatusOK, gin.H{
		"totalTraitements": totalTreatments,
		"conformite":       conformity,
		"risques":          riskLevels,
		"mesures":          measureStatuses,
		"alertesNonLues":   unreadAlerts,
		"poles":            poles,
	})
}

type monthCount struct {
	Month string `json:"mois"`
	Count int64  `json:"nouveaux_traitements"`
}

// DashboardEvolution returns new treatments per month over the last year.
func DashboardEvolution(c *gin.Context) {
	cutoff := time.Now().AddDate(-1, 0, 0)

	var evolution []monthCount
	if err := database.DB.Model(&models.Treatment{}).
		Select("to_char(created_at, 'YYYY-MM') as month, count(*) as count").
		Where("created_at >= ?", cutoff).
		Group("month").
		Order("month").
		Scan(&evolution).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	c.JSON(http.StatusOK, evolution)
}
