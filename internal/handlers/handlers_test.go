package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"smart-dpo/internal/database"
	"smart-dpo/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// handlers go through the package-level connection, the way the server wires it
func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
	return db
}

func testContext(t *testing.T, method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, err := http.NewRequest(method, path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	u := models.User{Name: "DPO Test", Email: "dpo@test.local", PasswordHash: "x", Role: models.RoleDPO, Active: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func TestCreateTreatmentSeedsRiskAndJournal(t *testing.T) {
	require := require.New(t)
	db := setupDB(t)
	user := seedUser(t, db)

	body := []byte(`{
		"nom": "Dossier médical du personnel",
		"pole": "RH",
		"base_legale": "Consentement",
		"finalite": "Suivi médical",
		"duree_conservation": 10,
		"type_dcp": "Données de santé",
		"nombre_personnes_concernees": 2000,
		"transfert_hors_ue": true,
		"mesures_securite": "Chiffrement au repos"
	}`)

	c, w := testContext(t, http.MethodPost, "/api/traitements", body)
	c.Set("CurrentUser", user)
	CreateTreatment(c)

	require.Equal(http.StatusCreated, w.Code)

	var treatment models.Treatment
	require.NoError(db.Where("name = ?", "Dossier médical du personnel").First(&treatment).Error)
	require.Equal(models.StatusToVerify, treatment.ComplianceStatus)
	require.Equal(user.ID, treatment.UserID)

	// the automatic assessment seeded exactly one Conformité risk
	var seeded models.Risk
	require.NoError(db.Where("treatment_id = ?", treatment.ID).First(&seeded).Error)
	require.Equal(models.RiskCompliance, seeded.Type)
	require.Equal(5, seeded.Criticality)
	require.Equal(4, seeded.Probability)
	require.Equal(5, seeded.Impact)
	require.Equal(100, seeded.Score)
	require.Equal(models.RiskIdentified, seeded.Status)

	var journal models.JournalAction
	require.NoError(db.Where("action = ?", "Création").First(&journal).Error)
	require.Equal(user.ID, journal.UserID)
	require.NotNil(journal.TreatmentID)
	require.Equal(treatment.ID, *journal.TreatmentID)
}

func TestCreateTreatmentRejectsInvalidBasis(t *testing.T) {
	require := require.New(t)
	db := setupDB(t)
	user := seedUser(t, db)

	body := []byte(`{"nom": "Traitement douteux", "base_legale": "Envie"}`)

	c, w := testContext(t, http.MethodPost, "/api/traitements", body)
	c.Set("CurrentUser", user)
	CreateTreatment(c)

	require.Equal(http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Treatment{}).Count(&count)
	require.EqualValues(0, count)
}

func TestCreateRiskRejectsOutOfScale(t *testing.T) {
	require := require.New(t)
	db := setupDB(t)
	user := seedUser(t, db)

	tr := models.Treatment{Name: "CRM", UserID: user.ID}
	require.NoError(db.Create(&tr).Error)

	body := []byte(`{"traitement_id": 1, "type_risque": "Intégrité", "criticite": 6, "probabilite": 1, "impact": 1}`)

	c, w := testContext(t, http.MethodPost, "/api/risques", body)
	c.Set("CurrentUser", user)
	CreateRisk(c)

	require.Equal(http.StatusBadRequest, w.Code)
}

func TestMarkAlertReadIsIdempotent(t *testing.T) {
	require := require.New(t)
	db := setupDB(t)

	alert := models.Alert{Title: "Test", Message: "m", Severity: models.SeverityInfo}
	require.NoError(db.Create(&alert).Error)
	require.False(alert.Read)

	markRead := func() int {
		c, w := testContext(t, http.MethodPut, "/api/alertes/1/read", nil)
		c.Params = gin.Params{{Key: "id", Value: "1"}}
		MarkAlertRead(c)
		return w.Code
	}

	require.Equal(http.StatusOK, markRead())

	var stored models.Alert
	require.NoError(db.First(&stored, alert.ID).Error)
	require.True(stored.Read)

	// second call: still 200, still read
	require.Equal(http.StatusOK, markRead())
	require.NoError(db.First(&stored, alert.ID).Error)
	require.True(stored.Read)
}
