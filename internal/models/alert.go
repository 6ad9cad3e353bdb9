package models

import "time"

type AlertSeverity string

const (
	SeverityCritical AlertSeverity = "Critique"
	SeverityWarning  AlertSeverity = "Attention"
	SeverityInfo     AlertSeverity = "Info"
)

func (s AlertSeverity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityWarning, SeverityInfo:
		return true
	}
	return false
}

// Alerte raised by the periodic scan. (titre, traitement_id, risque_id) is the
// dedup key over the trailing 24 hours.
type Alert struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"size:255;not null" json:"titre"`
	Message     string        `gorm:"type:text" json:"message"`
	Severity    AlertSeverity `gorm:"column:type_alerte;size:20;not null" json:"type_alerte"`
	TreatmentID *uint         `gorm:"index" json:"traitement_id"`
	Treatment   *Treatment    `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	RiskID      *uint         `gorm:"index" json:"risque_id"`
	Risk        *Risk         `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	UserID      *uint         `json:"utilisateur_id"`
	User        *User         `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Read        bool          `gorm:"column:lu;default:false" json:"lu"`
	CreatedAt   time.Time     `json:"cree_le"`
}
