package models

// Country groups telcos by mobile country code and dialing prefix.
type Country struct {
	ID int `gorm:"primaryKey"`
	Auditable
	Active      bool   `gorm:"default:true;not null"`
	Name        string `gorm:"size:127;not null;unique"`
	MCC         string `gorm:"size:8;not null"`
	RegionCode  string `gorm:"size:8;not null"`
	CountryCode int    `gorm:"not null"`
}
