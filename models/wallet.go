package models

// WelcomeCredit is the balance a wallet opens with at registration.
const WelcomeCredit = 2.0

// Wallet holds an account's balance (one-to-one with User). Created at
// registration with the welcome credit.
type Wallet struct {
	ID int `gorm:"primaryKey"`
	Auditable
	Active    bool    `gorm:"default:true;not null"`
	AccountID int     `gorm:"uniqueIndex;not null"`
	Account   User    `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount    float64 `gorm:"not null;default:0"`
}

// OwnerID reports the account the wallet belongs to, for ownership rules.
func (w *Wallet) OwnerID() int {
	return w.AccountID
}
