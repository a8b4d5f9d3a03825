package models

// Profile carries a user's contact details (one-to-one with User). Created
// automatically at registration.
type Profile struct {
	ID int `gorm:"primaryKey"`
	Auditable
	Active     bool   `gorm:"default:true;not null"`
	UserID     int    `gorm:"uniqueIndex;not null"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name       string `gorm:"size:255;not null"`
	Address    string `gorm:"size:512"`
	Phone      string `gorm:"size:64"`
	Occupation string `gorm:"size:255"`
}

// OwnerID reports the user the profile belongs to, for ownership rules.
func (p *Profile) OwnerID() int {
	return p.UserID
}
