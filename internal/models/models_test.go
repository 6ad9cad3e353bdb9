package models

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&User{}, &Treatment{}, &Risk{}, &CorrectiveMeasure{}, &Alert{}, &JournalAction{}, &ApplicationSettings{},
	))
	return db
}

func TestTreatmentDefaultsToVerify(t *testing.T) {
	require := require.New(t)
	db := testDB(t)

	tr := Treatment{Name: "Newsletter"}
	require.NoError(db.Create(&tr).Error)

	var stored Treatment
	require.NoError(db.First(&stored, tr.ID).Error)
	require.Equal(StatusToVerify, stored.ComplianceStatus)

	// an explicit status is kept
	explicit := Treatment{Name: "Paie", ComplianceStatus: StatusCompliant}
	require.NoError(db.Create(&explicit).Error)
	stored = Treatment{}
	require.NoError(db.First(&stored, explicit.ID).Error)
	require.Equal(StatusCompliant, stored.ComplianceStatus)
}

func TestRiskScoreDerivedOnSave(t *testing.T) {
	require := require.New(t)
	db := testDB(t)

	tr := Treatment{Name: "CRM"}
	require.NoError(db.Create(&tr).Error)

	r := Risk{TreatmentID: tr.ID, Type: RiskCompliance, Criticality: 3, Probability: 4, Impact: 5}
	require.NoError(db.Create(&r).Error)
	require.Equal(60, r.Score)
	require.Equal(RiskIdentified, r.Status)

	// the score follows the axes on update, even if set directly
	r.Impact = 2
	r.Score = 999
	require.NoError(db.Save(&r).Error)

	var stored Risk
	require.NoError(db.First(&stored, r.ID).Error)
	require.Equal(24, stored.Score)
}

func TestMeasureOverdue(t *testing.T) {
	require := require.New(t)

	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	m := CorrectiveMeasure{DueDate: &yesterday, Status: MeasureInProgress}
	require.True(m.Overdue(today))

	m.Status = MeasureDone
	require.False(m.Overdue(today))

	m = CorrectiveMeasure{DueDate: &tomorrow, Status: MeasureTodo}
	require.False(m.Overdue(today))

	m = CorrectiveMeasure{Status: MeasureTodo}
	require.False(m.Overdue(today))
}

func TestEnumValidation(t *testing.T) {
	require := require.New(t)

	require.True(BasisConsent.Valid())
	require.False(LegalBasis("Curiosité").Valid())

	require.True(StatusNonCompliant.Valid())
	require.False(ComplianceStatus("Peut-être").Valid())

	require.True(RiskConfidentiality.Valid())
	require.False(RiskType("Météo").Valid())

	require.True(MeasureDone.Valid())
	require.False(MeasureStatus("Abandonnée").Valid())

	require.True(PriorityCritical.Valid())
	require.False(MeasurePriority("Urgentissime").Valid())

	require.True(SeverityWarning.Valid())
	require.False(AlertSeverity("Panique").Valid())

	require.True(RoleDPO.Valid())
	require.False(UserRole("Stagiaire").Valid())

	require.True(ValidScale(1))
	require.True(ValidScale(5))
	require.False(ValidScale(0))
	require.False(ValidScale(6))
}
