package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"
	"smart-dpo/internal/risk"

	"github.com/gin-gonic/gin"
)

type treatmentListItem struct {
	models.Treatment
	UserName     string   `json:"nom_utilisateur"`
	RiskCount    int64    `json:"nombre_risques"`
	AvgRiskScore *float64 `json:"score_moyen_risque"`
}

type riskAggregate struct {
	TreatmentID uint
	Count       int64
	AvgScore    float64
}

// ListTreatments returns the register, optionally filtered by pole, statut de
// conformité, base légale or a free-text search on name and purpose. Each row
// carries its risk count and average risk score.
func ListTreatments(c *gin.Context) {
	q := database.DB.Model(&models.Treatment{}).Preload("User")

	if pole := c.Query("pole"); pole != "" {
		q = q.Where("pole = ?", pole)
	}
	if statut := c.Query("statut"); statut != "" {
		q = q.Where("compliance_status = ?", statut)
	}
	if basis := c.Query("base_legale"); basis != "" {
		q = q.Where("legal_basis = ?", basis)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("name LIKE ? OR purpose LIKE ?", like, like)
	}

	var treatments []models.Treatment
	if err := q.Order("created_at desc").Find(&treatments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	// one grouped query for the per-treatment risk figures
	var aggs []riskAggregate
	if err := database.DB.Model(&models.Risk{}).
		Select("treatment_id, count(*) as count, avg(score_risque) as avg_score").
		Group("treatment_id").
		Scan(&aggs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}
	byTreatment := make(map[uint]riskAggregate, len(aggs))
	for _, a := range aggs {
		byTreatment[a.TreatmentID] = a
	}

	items := make([]treatmentListItem, 0, len(treatments))
	for _, t := range treatments {
		item := treatmentListItem{Treatment: t, UserName: t.User.Name}
		if a, ok := byTreatment[t.ID]; ok {
			item.RiskCount = a.Count
			avg := a.AvgScore
			item.AvgRiskScore = &avg
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, items)
}

type riskWithMeasureCount struct {
	models.Risk
	MeasureCount int64 `json:"nombre_mesures"`
}

type treatmentDetail struct {
	models.Treatment
	UserName string                 `json:"nom_utilisateur"`
	Risks    []riskWithMeasureCount `json:"risques"`
}

func GetTreatment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifiant invalide"})
		return
	}

	var treatment models.Treatment
	if err := database.DB.Preload("User").First(&treatment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "traitement non trouvé"})
		return
	}

	var risks []models.Risk
	if err := database.DB.Where("treatment_id = ?", treatment.ID).Find(&risks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	type measureAgg struct {
		RiskID uint
		Count  int64
	}
	var measureCounts []measureAgg
	database.DB.Model(&models.CorrectiveMeasure{}).
		Select("risk_id, count(*) as count").
		Group("risk_id").
		Scan(&measureCounts)
	counts := make(map[uint]int64, len(measureCounts))
	for _, m := range measureCounts {
		counts[m.RiskID] = m.Count
	}

	detail := treatmentDetail{
		Treatment: treatment,
		UserName:  treatment.User.Name,
		Risks:     make([]riskWithMeasureCount, 0, len(risks)),
	}
	for _, r := range risks {
		detail.Risks = append(detail.Risks, riskWithMeasureCount{Risk: r, MeasureCount: counts[r.ID]})
	}

	c.JSON(http.StatusOK, detail)
}

type treatmentRequest struct {
	Name                string  `json:"nom"`
	Pole                string  `json:"pole"`
	LegalBasis          string  `json:"base_legale"`
	Purpose             string  `json:"finalite"`
	RetentionYears      int     `json:"duree_conservation"`
	DataCategory        string  `json:"type_dcp"`
	SubjectCount        int     `json:"nombre_personnes_concernees"`
	CrossBorderTransfer bool    `json:"transfert_hors_ue"`
	SecurityMeasures    string  `json:"mesures_securite"`
	ComplianceStatus    *string `json:"statut_conformite"`
}

func (req *treatmentRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if len(req.Name) < 3 {
		return "le nom du traitement doit faire au moins 3 caractères"
	}
	// an empty base légale is allowed: the scanner flags it
	if req.LegalBasis != "" && !models.LegalBasis(req.LegalBasis).Valid() {
		return "base légale invalide"
	}
	if req.RetentionYears < 0 {
		return "durée de conservation invalide"
	}
	if req.SubjectCount < 0 {
		return "nombre de personnes concernées invalide"
	}
	if req.ComplianceStatus != nil && !models.ComplianceStatus(*req.ComplianceStatus).Valid() {
		return "statut de conformité invalide"
	}
	return ""
}

// CreateTreatment registers a new treatment, runs the automatic risk
// assessment once, and journals the action. The treatment is still created
// when the assessment yields no result.
func CreateTreatment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentification requise"})
		return
	}

	var req treatmentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	treatment := models.Treatment{
		Name:                req.Name,
		Pole:                strings.TrimSpace(req.Pole),
		LegalBasis:          models.LegalBasis(req.LegalBasis),
		Purpose:             req.Purpose,
		RetentionYears:      req.RetentionYears,
		DataCategory:        req.DataCategory,
		SubjectCount:        req.SubjectCount,
		CrossBorderTransfer: req.CrossBorderTransfer,
		SecurityMeasures:    req.SecurityMeasures,
		UserID:              user.ID,
	}
	if err := database.DB.Create(&treatment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	// automatic initial assessment; a missing result is tolerated
	evaluator := risk.NewEvaluator(database.DB)
	if assessment, ok := evaluator.Evaluate(treatment.ID); ok {
		seeded := models.Risk{
			TreatmentID:  treatment.ID,
			Type:         models.RiskCompliance,
			Criticality:  assessment.Criticality,
			Probability:  assessment.Probability,
			Impact:       assessment.Impact,
			AnalysisDate: time.Now(),
		}
		if err := database.DB.Create(&seeded).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
			return
		}
	}

	treatmentID := treatment.ID
	database.RecordAction(user.ID, &treatmentID, nil, "Création", "Nouveau traitement créé")

	c.JSON(http.StatusCreated, treatment)
}

func UpdateTreatment(c *gin.Context) {
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

	var treatment models.Treatment
	if err := database.DB.First(&treatment, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "traitement non trouvé"})
		return
	}

	var req treatmentRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requête invalide"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	treatment.Name = req.Name
	treatment.Pole = strings.TrimSpace(req.Pole)
	treatment.LegalBasis = models.LegalBasis(req.LegalBasis)
	treatment.Purpose = req.Purpose
	treatment.RetentionYears = req.RetentionYears
	treatment.DataCategory = req.DataCategory
	treatment.SubjectCount = req.SubjectCount
	treatment.CrossBorderTransfer = req.CrossBorderTransfer
	treatment.SecurityMeasures = req.SecurityMeasures
	if req.ComplianceStatus != nil {
		treatment.ComplianceStatus = models.ComplianceStatus(*req.ComplianceStatus)
	}

	if err := database.DB.Save(&treatment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	treatmentID := treatment.ID
	database.RecordAction(user.ID, &treatmentID, nil, "Modification", "Traitement mis à jour")

	c.JSON(http.StatusOK, treatment)
}

func DeleteTreatment(c *gin.Context) {
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

	if err := database.DB.Delete(&models.Treatment{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erreur serveur"})
		return
	}

	// the treatment row is gone, so the journal entry carries the ID in the details
	database.RecordAction(user.ID, nil, nil, "Suppression", fmt.Sprintf("Traitement supprimé (ID: %d)", id))

	c.JSON(http.StatusOK, gin.H{"msg": "traitement supprimé"})
}
