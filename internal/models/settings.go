package models

// ApplicationSettings is a single-row table (id = 1).
type ApplicationSettings struct {
	ID      uint   `gorm:"primaryKey" json:"-"`
	AppName string `gorm:"size:255" json:"app_name"`
}

const DefaultAppName = "Smart DPO"
