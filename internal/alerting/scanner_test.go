package alerting

import (
	"testing"
	"time"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	u := models.User{
		Name:         name,
		Email:        name + "@smartdpo.local",
		PasswordHash: "x",
		Role:         models.RoleDPO,
		Active:       true,
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// a treatment no predicate matches
func createCleanTreatment(t *testing.T, db *gorm.DB, owner models.User, name string) models.Treatment {
	t.Helper()
	tr := models.Treatment{
		Name:             name,
		LegalBasis:       models.BasisContract,
		ComplianceStatus: models.StatusCompliant,
		UserID:           owner.ID,
	}
	require.NoError(t, db.Create(&tr).Error)
	return tr
}

func alertsByTitle(t *testing.T, db *gorm.DB, title string) []models.Alert {
	t.Helper()
	var alerts []models.Alert
	require.NoError(t, db.Where("title = ?", title).Find(&alerts).Error)
	return alerts
}

func TestNonCompliantTreatmentAlert(t *testing.T) {
	require := require.New(t)
	db := testDB(t)
	owner := createUser(t, db, "dpo")

	// no legal basis: default statut "À vérifier" but still flagged
	noBasis := models.Treatment{Name: "Prospection sauvage", UserID: owner.ID}
	require.NoError(db.Create(&noBasis).Error)

	// explicitly non conforme despite having a basis
	nonCompliant := models.Treatment{
		Name:             "Vidéosurveillance",
		LegalBasis:       models.BasisLegitimateInterest,
		ComplianceStatus: models.StatusNonCompliant,
		UserID:           owner.ID,
	}
	require.NoError(db.Create(&nonCompliant).Error)

	createCleanTreatment(t, db, owner, "Paie")

	NewScanner(db).CheckAlerts()

	alerts := alertsByTitle(t, db, "Traitement non conforme détecté")
	require.Len(alerts, 2)
	for _, a := range alerts {
		require.Equal(models.SeverityCritical, a.Severity)
		require.NotNil(a.TreatmentID)
		require.Nil(a.RiskID)
		require.NotNil(a.UserID)
		require.Equal(owner.ID, *a.UserID)
		require.False(a.Read)
	}

	var cited models.Alert
	require.NoError(db.Where("treatment_id = ?", noBasis.ID).First(&cited).Error)
	require.Contains(cited.Message, "Prospection sauvage")
}

func TestOverdueMeasureAlert(t *testing.T) {
	require := require.New(t)
	db := testDB(t)
	owner := createUser(t, db, "dpo")
	responsible := createUser(t, db, "resp")
	tr := createCleanTreatment(t, db, owner, "CRM")

	r := models.Risk{TreatmentID: tr.ID, Type: models.RiskCompliance, Criticality: 2, Probability: 2, Impact: 2, Status: models.RiskTreated}
	require.NoError(db.Create(&r).Error)

	yesterday := time.Now().AddDate(0, 0, -1)

	overdue := models.CorrectiveMeasure{
		RiskID:        r.ID,
		Description:   "Chiffrer la base CRM",
		Type:          models.MeasureTechnical,
		Priority:      models.PriorityHigh,
		Status:        models.MeasureInProgress,
		ResponsibleID: &responsible.ID,
		DueDate:       &yesterday,
	}
	require.NoError(db.Create(&overdue).Error)

	// same due date but terminée: not overdue
	done := models.CorrectiveMeasure{
		RiskID:      r.ID,
		Description: "Former les équipes",
		Type:        models.MeasureOrganizational,
		Priority:    models.PriorityMedium,
		Status:      models.MeasureDone,
		DueDate:     &yesterday,
	}
	require.NoError(db.Create(&done).Error)

	NewScanner(db).CheckAlerts()

	alerts := alertsByTitle(t, db, "Mesure corrective en retard")
	require.Len(alerts, 1)
	a := alerts[0]
	require.Equal(models.SeverityWarning, a.Severity)
	require.Contains(a.Message, "Chiffrer la base CRM")
	require.NotNil(a.TreatmentID)
	require.Equal(tr.ID, *a.TreatmentID)
	require.NotNil(a.RiskID)
	require.Equal(r.ID, *a.RiskID)
	require.NotNil(a.UserID)
	require.Equal(responsible.ID, *a.UserID)
}

func TestCriticalRiskAlert(t *testing.T) {
	require := require.New(t)
	db := testDB(t)
	owner := createUser(t, db, "dpo")
	tr := createCleanTreatment(t, db, owner, "Scoring client")

	// 5×4×3 = 60: exactly at the threshold
	atThreshold := models.Risk{TreatmentID: tr.ID, Type: models.RiskConfidentiality, Criticality: 5, Probability: 4, Impact: 3, Status: models.RiskIdentified}
	require.NoError(db.Create(&atThreshold).Error)

	// 4×4×3 = 48: below the threshold
	below := models.Risk{TreatmentID: tr.ID, Type: models.RiskIntegrity, Criticality: 4, Probability: 4, Impact: 3, Status: models.RiskIdentified}
	require.NoError(db.Create(&below).Error)

	// critical but already treated
	treated := models.Risk{TreatmentID: tr.ID, Type: models.RiskAvailability, Criticality: 5, Probability: 5, Impact: 5, Status: models.RiskTreated}
	require.NoError(db.Create(&treated).Error)

	NewScanner(db).CheckAlerts()

	alerts := alertsByTitle(t, db, "Risque critique non traité")
	require.Len(alerts, 1)
	a := alerts[0]
	require.Equal(models.SeverityCritical, a.Severity)
	require.NotNil(a.TreatmentID)
	require.Equal(tr.ID, *a.TreatmentID)
	require.NotNil(a.RiskID)
	require.Equal(atThreshold.ID, *a.RiskID)
	require.Nil(a.UserID)
}

func TestScanIsDedupedWithinWindow(t *testing.T) {
	require := require.New(t)
	db := testDB(t)
	owner := createUser(t, db, "dpo")

	tr := models.Treatment{Name: "Sans base légale", UserID: owner.ID}
	require.NoError(db.Create(&tr).Error)

	s := NewScanner(db)
	s.CheckAlerts()

	var countAfterFirst int64
	require.NoError(db.Model(&models.Alert{}).Count(&countAfterFirst).Error)
	require.EqualValues(1, countAfterFirst)

	// unchanged data, same hour: the whole second run is a no-op
	s.CheckAlerts()

	var countAfterSecond int64
	require.NoError(db.Model(&models.Alert{}).Count(&countAfterSecond).Error)
	require.Equal(countAfterFirst, countAfterSecond)
}

func TestScanRaisesAgainAfterWindow(t *testing.T) {
	require := require.New(t)
	db := testDB(t)
	owner := createUser(t, db, "dpo")

	tr := models.Treatment{Name: "Toujours non conforme", UserID: owner.ID}
	require.NoError(db.Create(&tr).Error)

	s := NewScanner(db)
	s.CheckAlerts()
	require.Len(alertsByTitle(t, db, "Traitement non conforme détecté"), 1)

	// the condition persists past the dedup window
	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }
	s.CheckAlerts()

	alerts := alertsByTitle(t, db, "Traitement non conforme détecté")
	require.Len(alerts, 2)
	require.Equal(*alerts[0].TreatmentID, *alerts[1].TreatmentID)
}

func TestDedupKeyIgnoresMessage(t *testing.T) {
	require := require.New(t)
	db := testDB(t)
	owner := createUser(t, db, "dpo")

	tr := models.Treatment{Name: "Ancien nom", UserID: owner.ID}
	require.NoError(db.Create(&tr).Error)

	s := NewScanner(db)
	s.CheckAlerts()

	// renaming changes the message but not the dedup key
	require.NoError(db.Model(&models.Treatment{}).Where("id = ?", tr.ID).Update("name", "Nouveau nom").Error)
	s.CheckAlerts()

	require.Len(alertsByTitle(t, db, "Traitement non conforme détecté"), 1)
}
