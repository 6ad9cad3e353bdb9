// Package risk computes the automatic risk assessment seeded onto every new
// treatment, from the RGPD criteria stored on the treatment itself.
package risk

import (
	"errors"
	"log"
	"strings"

	"smart-dpo/internal/models"

	"gorm.io/gorm"
)

// Assessment is one scored evaluation: each axis is on the 1..5 scale.
type Assessment struct {
	Criticality int
	Probability int
	Impact      int
}

// Assess scores a treatment from its attributes alone. Deterministic: the
// same attributes always produce the same assessment.
func Assess(t models.Treatment) Assessment {
	criticality, probability, impact := 1, 1, 1

	// Type of personal data. The two checks are independent: a category
	// mentioning both "sensible" and "santé" accumulates both bonuses.
	category := strings.ToLower(t.DataCategory)
	if strings.Contains(category, "sensible") {
		criticality += 2
		impact += 2
	}
	if strings.Contains(category, "santé") {
		criticality += 3
		impact += 3
	}

	// Scale of the processing.
	if t.SubjectCount > 1000 {
		impact += 2
		probability += 1
	} else if t.SubjectCount > 100 {
		impact += 1
	}

	// Retention beyond five years.
	if t.RetentionYears > 5 {
		criticality += 1
		probability += 1
	}

	// Transfers outside the EU.
	if t.CrossBorderTransfer {
		criticality += 2
		impact += 1
	}

	// Consent can be withdrawn at any time.
	if t.LegalBasis == models.BasisConsent {
		probability += 1
	}

	return Assessment{
		Criticality: clamp(criticality),
		Probability: clamp(probability),
		Impact:      clamp(impact),
	}
}

func clamp(n int) int {
	if n < 1 {
		return 1
	}
	if n > 5 {
		return 5
	}
	return n
}

// Evaluator reads a treatment and assesses it. Read-only: persisting the
// resulting risk is the caller's job.
type Evaluator struct {
	db *gorm.DB
}

func NewEvaluator(db *gorm.DB) *Evaluator {
	return &Evaluator{db: db}
}

// Evaluate returns false when the treatment does not exist or the read
// fails; the caller proceeds without a seeded risk in either case.
func (e *Evaluator) Evaluate(treatmentID uint) (Assessment, bool) {
	var t models.Treatment
	if err := e.db.First(&t, treatmentID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("risk evaluation failed for treatment %d: %v", treatmentID, err)
		}
		return Assessment{}, false
	}
	return Assess(t), true
}
