package handlers

import (
	"net/http"
	"strings"
	"time"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
)

type measureListItem struct {
	models.CorrectiveMeasure
	TreatmentID     uint   `json:"traitement_id"`
	TreatmentName   string `json:"nom_traitement"`
	ResponsibleName string `json:"nom_responsable"`
}

func ListMeasures(c *gin.Context) {
	var measures []models.CorrectiveMeasure
	if err := database.DB.
		Preload("Risk.Treatment").
		Preload("Responsible").
		Order("priority desc, due_date asc").
		Find(&measures).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	items := make([]measureListItem, 0, len(measures))
	for _, m := range measures {
		item := measureListItem{
			CorrectiveMeasure: m,
			TreatmentID:       m.Risk.TreatmentID,
			TreatmentName:     m.Risk.Treatment.Name,
		}
		if m.Responsible != nil {
			item.ResponsibleName = m.Responsible.Name
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

type measureRequest struct {
	RiskID        uint       `json:"risque_id"`
	Description   string     `json:"description"`
	Type          string     `json:"type_mesure"`
	Priority      string     `json:"priorite"`
	Status        string     `json:"statut"`
	ResponsibleID *uint      `json:"responsable_id"`
	DueDate       *time.Time `json:"date_echeance"`
	EstimatedCost *float64   `json:"cout_estime"`
}

func (req *measureRequest) validate() string {
	req.Description = strings.TrimSpace(req.Description)
	if len(req.Description) < 3 {
		return "la description doit faire au moins 3 caractères"
	}
	if !models.MeasureType(req.Type).Valid() {
		return "type de mesure invalide"
	}
	if !models.MeasurePriority(req.Priority).Valid() {
		return "priorité invalide"
	}
	if req.Status != "" && !models.MeasureStatus(req.Status).Valid() {
		return "statut invalide"
	}
	if req.EstimatedCost != nil && *req.EstimatedCost < 0 {
		return "coût estimé invalide"
	}
	return ""
}

func CreateMeasure(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentification requise"})
		return
	}

	var req measureRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var parentRisk models.Risk
	if err := database.DB.First(&parentRisk, req.RiskID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "risque non trouvé"})
		return
	}

	m := models.CorrectiveMeasure{
		RiskID:        parentRisk.ID,
		Description:   req.Description,
		Type:          models.MeasureType(req.Type),
		Priority:      models.MeasurePriority(req.Priority),
		Status:        models.MeasureStatus(req.Status),
		ResponsibleID: req.ResponsibleID,
		DueDate:       req.DueDate,
		EstimatedCost: req.EstimatedCost,
	}
	if err := database.DB.Create(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	treatmentID := parentRisk.TreatmentID
	riskID := parentRisk.ID
	database.RecordAction(user.ID, &treatmentID, &riskID, "Création mesure", "Nouvelle mesure corrective ajoutée")

	c.JSON(http.StatusCreated, m)
}

func UpdateMeasure(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentification requise"})
		return
	}

	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	var m models.CorrectiveMeasure
	if err := database.DB.First(&m, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "mesure non trouvée"})
		return
	}

	var req measureRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	m.Description = req.Description
	m.Type = models.MeasureType(req.Type)
	m.Priority = models.MeasurePriority(req.Priority)
	if req.Status != "" {
		m.Status = models.MeasureStatus(req.Status)
	}
	m.ResponsibleID = req.ResponsibleID
	m.DueDate = req.DueDate
	m.EstimatedCost = req.EstimatedCost

	if err := database.DB.Save(&m).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	var parentRisk models.Risk
	if err := database.DB.First(&parentRisk, m.RiskID).Error; err == nil {
		treatmentID := parentRisk.TreatmentID
		riskID := parentRisk.ID
		database.RecordAction(user.ID, &treatmentID, &riskID, "Modification mesure", "Mesure corrective mise à jour")
	}

	c.JSON(http.StatusOK, m)
}
