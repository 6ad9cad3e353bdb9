// Package alerting runs the periodic compliance sweep: three independent
// predicates over the register, each match materialized as an Alerte unless an
// identical one was raised within the last 24 hours.
package alerting

import (
	"fmt"
	"log"
	"time"

	"smart-dpo/internal/models"

	"gorm.io/gorm"
)

// A risk with a stored score at or above this threshold, still in statut
// "Identifié", is considered critical and untreated.
const CriticalScoreThreshold = 60

const dedupWindow = 24 * time.Hour

type Scanner struct {
	db  *gorm.DB
	now func() time.Time
}

func NewScanner(db *gorm.DB) *Scanner {
	return &Scanner{db: db, now: time.Now}
}

// CheckAlerts runs the full sweep. The predicates are independent: a read
// failure in one is logged and the others still run. Never panics and never
// reports an error to the scheduler; the next tick is the only retry.
func (s *Scanner) CheckAlerts() {
	s.checkNonCompliantTreatments()
	s.checkOverdueMeasures()
	s.checkCriticalRisks()
}

// Treatments with no legal basis, or explicitly marked non conforme.
func (s *Scanner) checkNonCompliantTreatments() {
	var treatments []models.Treatment
	err := s.db.
		Where("legal_basis IS NULL OR legal_basis = '' OR compliance_status = ?", models.StatusNonCompliant).
		Find(&treatments).Error
	if err != nil {
		log.Printf("alert scan: non-compliant treatments query failed: %v", err)
		return
	}

	for _, t := range treatments {
		treatmentID := t.ID
		ownerID := t.UserID
		s.createAlert(
			"Traitement non conforme détecté",
			fmt.Sprintf("Le traitement « %s » nécessite une attention immédiate", t.Name),
			models.SeverityCritical,
			&treatmentID,
			nil,
			&ownerID,
		)
	}
}

type overdueMeasureRow struct {
	ID            uint
	Description   string
	RiskID        uint
	ResponsibleID *uint
	TreatmentID   uint
}

// Corrective measures past their due date and not yet terminée. The parent
// risk supplies the treatment reference.
func (s *Scanner) checkOverdueMeasures() {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var rows []overdueMeasureRow
	err := s.db.Model(&models.CorrectiveMeasure{}).
		Select("corrective_measures.id, corrective_measures.description, corrective_measures.risk_id, corrective_measures.responsible_id, risks.treatment_id").
		Joins("JOIN risks ON risks.id = corrective_measures.risk_id").
		Where("corrective_measures.due_date < ? AND corrective_measures.status <> ?", today, models.MeasureDone).
		Scan(&rows).Error
	if err != nil {
		log.Printf("alert scan: overdue measures query failed: %v", err)
		return
	}

	for _, m := range rows {
		treatmentID := m.TreatmentID
		riskID := m.RiskID
		s.createAlert(
			"Mesure corrective en retard",
			fmt.Sprintf("La mesure « %s » est en retard", m.Description),
			models.SeverityWarning,
			&treatmentID,
			&riskID,
			m.ResponsibleID,
		)
	}
}

// Risks scored critical but never moved past "Identifié".
func (s *Scanner) checkCriticalRisks() {
	var risks []models.Risk
	err := s.db.
		Where("score_risque >= ? AND status = ?", CriticalScoreThreshold, models.RiskIdentified).
		Find(&risks).Error
	if err != nil {
		log.Printf("alert scan: critical risks query failed: %v", err)
		return
	}

	for _, r := range risks {
		treatmentID := r.TreatmentID
		riskID := r.ID
		s.createAlert(
			"Risque critique non traité",
			"Un risque critique a été identifié et nécessite une action immédiate",
			models.SeverityCritical,
			&treatmentID,
			&riskID,
			nil,
		)
	}
}

// createAlert inserts unless an alert with the same (titre, traitement,
// risque) key exists inside the dedup window. A suppressed duplicate is a
// designed no-op, not an error. The read-then-insert is best effort; a rare
// duplicate from two concurrent scans is accepted.
func (s *Scanner) createAlert(title, message string, severity models.AlertSeverity, treatmentID, riskID, userID *uint) {
	since := s.now().Add(-dedupWindow)

	q := s.db.Model(&models.Alert{}).
		Where("title = ? AND created_at > ?", title, since)
	if treatmentID != nil {
		q = q.Where("treatment_id = ?", *treatmentID)
	} else {
		q = q.Where("treatment_id IS NULL")
	}
	if riskID != nil {
		q = q.Where("risk_id = ?", *riskID)
	} else {
		q = q.Where("risk_id IS NULL")
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		log.Printf("alert scan: dedup check failed for %q: %v", title, err)
		return
	}
	if count > 0 {
		return
	}

	alert := models.Alert{
		Title:       title,
		Message:     message,
		Severity:    severity,
		TreatmentID: treatmentID,
		RiskID:      riskID,
		UserID:      userID,
	}
	if err := s.db.Create(&alert).Error; err != nil {
		log.Printf("alert scan: failed to create alert %q: %v", title, err)
	}
}
