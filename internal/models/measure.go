package models

import (
	"time"

	"gorm.io/gorm"
)

type MeasureType string
type MeasurePriority string
type MeasureStatus string

const (
	MeasureTechnical      MeasureType = "Technique"
	MeasureOrganizational MeasureType = "Organisationnelle"
	MeasureLegal          MeasureType = "Juridique"

	PriorityLow      MeasurePriority = "Faible"
	PriorityMedium   MeasurePriority = "Moyenne"
	PriorityHigh     MeasurePriority = "Élevée"
	PriorityCritical MeasurePriority = "Critique"

	MeasureTodo       MeasureStatus = "À faire"
	MeasureInProgress MeasureStatus = "En cours"
	MeasureDone       MeasureStatus = "Terminée"
	MeasurePostponed  MeasureStatus = "Reportée"
)

func (t MeasureType) Valid() bool {
	switch t {
	case MeasureTechnical, MeasureOrganizational, MeasureLegal:
		return true
	}
	return false
}

func (p MeasurePriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

func (s MeasureStatus) Valid() bool {
	switch s {
	case MeasureTodo, MeasureInProgress, MeasureDone, MeasurePostponed:
		return true
	}
	return false
}

// Mesure corrective — a remediation action tied to one risk.
type CorrectiveMeasure struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	RiskID        uint            `gorm:"not null;index" json:"risque_id"`
	Risk          Risk            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Description   string          `gorm:"type:text;not null" json:"description"`
	Type          MeasureType     `gorm:"size:30" json:"type_mesure"`
	Priority      MeasurePriority `gorm:"size:20" json:"priorite"`
	Status        MeasureStatus   `gorm:"size:20" json:"statut"`
	ResponsibleID *uint           `json:"responsable_id"`
	Responsible   *User           `json:"-"`
	DueDate       *time.Time      `json:"date_echeance"`
	EstimatedCost *float64        `json:"cout_estime"`
	CreatedAt     time.Time       `json:"cree_le"`
}

func (m *CorrectiveMeasure) BeforeCreate(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = MeasureTodo
	}
	return nil
}

// Overdue is derived, not stored: past due date and not yet done.
func (m *CorrectiveMeasure) Overdue(today time.Time) bool {
	return m.DueDate != nil && m.DueDate.Before(today) && m.Status != MeasureDone
}
