package handlers

import (
	"net/http"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
)

type journalListItem struct {
	models.JournalAction
	UserName      string `json:"nom_utilisateur"`
	TreatmentName string `json:"nom_traitement"`
}

func ListJournal(c *gin.Context) {
	var actions []models.JournalAction
	if err := database.DB.
		Preload("User").
		Preload("Treatment").
		Order("created_at desc").
		Limit(100).
		Find(&actions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	items := make([]journalListItem, 0, len(actions))
	for _, a := range actions {
		item := journalListItem{JournalAction: a, UserName: a.User.Name}
		if a.Treatment != nil {
			item.TreatmentName = a.Treatment.Name
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}
