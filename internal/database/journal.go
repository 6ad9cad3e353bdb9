package database

import (
	"log"

	"smart-dpo/internal/models"
)

// RecordAction appends one row to the JournalAction audit trail. Best effort:
// a failed journal write never fails the action that triggered it.
func RecordAction(userID uint, treatmentID, riskID *uint, action, details string) {
	if DB == nil {
		return
	}
	entry := models.JournalAction{
		UserID:      userID,
		TreatmentID: treatmentID,
		RiskID:      riskID,
		Action:      action,
		Details:     details,
	}
	if err := DB.Create(&entry).Error; err != nil {
		log.Printf("failed to record journal action %q: %v", action, err)
	}
}
