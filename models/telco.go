package models

// Telco is a mobile network operator within a country.
type Telco struct {
	ID int `gorm:"primaryKey"`
	Auditable
	Active    bool     `gorm:"default:true;not null"`
	Name      string   `gorm:"size:127;not null"`
	MNC       string   `gorm:"size:8;not null"`
	CountryID int      `gorm:"index;not null"`
	Country   *Country `gorm:"foreignKey:CountryID"`
}
