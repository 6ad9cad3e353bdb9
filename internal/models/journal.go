package models

import "time"

// JournalAction is the append-only audit trail: one row per mutating action.
// Rows are never updated or deleted.
type JournalAction struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `json:"utilisateur_id"`
	User        User       `json:"-"`
	TreatmentID *uint      `json:"traitement_id"`
	Treatment   *Treatment `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	RiskID      *uint      `json:"risque_id"`
	Action      string     `gorm:"size:50;not null" json:"action"` // "Création", "Modification", ...
	Details     string     `gorm:"type:text" json:"details"`
	CreatedAt   time.Time  `json:"date_action"`
}
