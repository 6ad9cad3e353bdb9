package handlers

import (
	"net/http"
	"time"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
)

type riskListItem struct {
	models.Risk
	TreatmentName string `json:"nom_traitement"`
	Pole          string `json:"pole"`
}

func ListRisks(c *gin.Context) {
	var risks []models.Risk
	if err := database.DB.Preload("Treatment").
		Order("score_risque desc").
		Find(&risks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	items := make([]riskListItem, 0, len(risks))
	for _, r := range risks {
		items = append(items, riskListItem{
			Risk:          r,
			TreatmentName: r.Treatment.Name,
			Pole:          r.Treatment.Pole,
		})
	}

	c.JSON(http.StatusOK, items)
}

type riskRequest struct {
	TreatmentID     uint   `json:"traitement_id"`
	Type            string `json:"type_risque"`
	Criticality     int    `json:"criticite"`
	Probability     int    `json:"probabilite"`
	Impact          int    `json:"impact"`
	Status          string `json:"statut"`
	Vulnerabilities string `json:"vulnerabilites"`
	Comment         string `json:"commentaire"`
}

func (req *riskRequest) validate() string {
	if !models.RiskType(req.Type).Valid() {
		return "type de risque invalide"
	}
	if !models.ValidScale(req.Criticality) || !models.ValidScale(req.Probability) || !models.ValidScale(req.Impact) {
		return "criticité, probabilité et impact doivent être entre 1 et 5"
	}
	if req.Status != "" && !models.RiskStatus(req.Status).Valid() {
		return "statut invalide"
	}
	return ""
}

func CreateRisk(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentification requise"})
		return
	}

	var req riskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	var treatment models.Treatment
	if err := database.DB.First(&treatment, req.TreatmentID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "traitement non trouvé"})
		return
	}

	r := models.Risk{
		TreatmentID:     treatment.ID,
		Type:            models.RiskType(req.Type),
		Criticality:     req.Criticality,
		Probability:     req.Probability,
		Impact:          req.Impact,
		Status:          models.RiskStatus(req.Status),
		Vulnerabilities: req.Vulnerabilities,
		Comment:         req.Comment,
		AnalysisDate:    time.Now(),
	}
	if err := database.DB.Create(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	treatmentID := treatment.ID
	riskID := r.ID
	database.RecordAction(user.ID, &treatmentID, &riskID, "Création risque", "Nouveau risque identifié")

	c.JSON(http.StatusCreated, r)
}

func UpdateRisk(c *gin.Context) {
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

	var r models.Risk
	if err := database.DB.First(&r, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "risque non trouvé"})
		return
	}

	var req riskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	r.Type = models.RiskType(req.Type)
	r.Criticality = req.Criticality
	r.Probability = req.Probability
	r.Impact = req.Impact
	if req.Status != "" {
		r.Status = models.RiskStatus(req.Status)
	}
	r.Vulnerabilities = req.Vulnerabilities
	r.Comment = req.Comment

	// Save goes through BeforeSave, which recomputes the stored score
	if err := database.DB.Save(&r).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	treatmentID := r.TreatmentID
	riskID := r.ID
	database.RecordAction(user.ID, &treatmentID, &riskID, "Modification risque", "Risque mis à jour")

	c.JSON(http.StatusOK, r)
}
