package models

import (
	"time"

	"gorm.io/gorm"
)

type RiskType string
type RiskStatus string

const (
	RiskConfidentiality RiskType = "Confidentialité"
	RiskIntegrity       RiskType = "Intégrité"
	RiskAvailability    RiskType = "Disponibilité"
	RiskCompliance      RiskType = "Conformité"

	RiskIdentified RiskStatus = "Identifié"
	RiskInProgress RiskStatus = "En cours"
	RiskTreated    RiskStatus = "Traité"
	RiskResidual   RiskStatus = "Résiduel"
)

func (t RiskType) Valid() bool {
	switch t {
	case RiskConfidentiality, RiskIntegrity, RiskAvailability, RiskCompliance:
		return true
	}
	return false
}

func (s RiskStatus) Valid() bool {
	switch s {
	case RiskIdentified, RiskInProgress, RiskTreated, RiskResidual:
		return true
	}
	return false
}

// ValidScale reports whether a criticité/probabilité/impact value is on the 1..5 scale.
func ValidScale(n int) bool { return n >= 1 && n <= 5 }

// Risque attached to one treatment, scored on criticité × probabilité × impact.
type Risk struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TreatmentID     uint       `gorm:"not null;index" json:"traitement_id"`
	Treatment       Treatment  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type            RiskType   `gorm:"size:50" json:"type_risque"`
	Criticality     int        `json:"criticite"`
	Probability     int        `json:"probabilite"`
	Impact          int        `json:"impact"`
	Score           int        `gorm:"column:score_risque" json:"score_risque"`
	Status          RiskStatus `gorm:"size:20" json:"statut"`
	Vulnerabilities string     `gorm:"type:text" json:"vulnerabilites"`
	Comment         string     `gorm:"type:text" json:"commentaire"`
	AnalysisDate    time.Time  `json:"date_analyse"`
	CreatedAt       time.Time  `json:"cree_le"`
}

// The stored score is always derived from the three axes; it is never set directly.
func (r *Risk) BeforeSave(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = RiskIdentified
	}
	r.Score = r.Criticality * r.Probability * r.Impact
	return nil
}
