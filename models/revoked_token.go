package models

// RevokedToken joins a no-longer-valid auth token to the user who held it.
// Rows are append-only and only ever membership-tested; they are removed when
// the owning user is deleted.
type RevokedToken struct {
	ID int `gorm:"primaryKey"`
	Auditable
	Token  string `gorm:"index;not null"`
	UserID int    `gorm:"index;not null"`
	User   User   `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
