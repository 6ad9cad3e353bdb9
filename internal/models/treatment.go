package models

import (
	"time"

	"gorm.io/gorm"
)

type LegalBasis string
type ComplianceStatus string

const (
	BasisConsent            LegalBasis = "Consentement"
	BasisContract           LegalBasis = "Contrat"
	BasisLegalObligation    LegalBasis = "Obligation légale"
	BasisVitalInterest      LegalBasis = "Intérêt vital"
	BasisPublicMission      LegalBasis = "Mission publique"
	BasisLegitimateInterest LegalBasis = "Intérêt légitime"

	StatusCompliant    ComplianceStatus = "Conforme"
	StatusNonCompliant ComplianceStatus = "Non conforme"
	StatusToVerify     ComplianceStatus = "À vérifier"
)

func (b LegalBasis) Valid() bool {
	switch b {
	case BasisConsent, BasisContract, BasisLegalObligation,
		BasisVitalInterest, BasisPublicMission, BasisLegitimateInterest:
		return true
	}
	return false
}

func (s ComplianceStatus) Valid() bool {
	switch s {
	case StatusCompliant, StatusNonCompliant, StatusToVerify:
		return true
	}
	return false
}

// Traitement — a registered data-processing activity (registre RGPD).
type Treatment struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	Name                string           `gorm:"size:255;not null" json:"nom"`
	Pole                string           `gorm:"size:100" json:"pole"`
	LegalBasis          LegalBasis       `gorm:"size:50" json:"base_legale"`
	Purpose             string           `gorm:"type:text" json:"finalite"`
	RetentionYears      int              `json:"duree_conservation"`
	DataCategory        string           `gorm:"size:255" json:"type_dcp"`
	SubjectCount        int              `json:"nombre_personnes_concernees"`
	CrossBorderTransfer bool             `json:"transfert_hors_ue"`
	SecurityMeasures    string           `gorm:"type:text" json:"mesures_securite"`
	ComplianceStatus    ComplianceStatus `gorm:"size:20" json:"statut_conformite"`
	UserID              uint             `json:"utilisateur_id"`
	User                User             `json:"-"`
	CreatedAt           time.Time        `json:"cree_le"`
}

// New treatments stay "À vérifier" until the compliance status is set explicitly.
func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.ComplianceStatus == "" {
		t.ComplianceStatus = StatusToVerify
	}
	return nil
}
