package models

import "time"

// AnonymousID is the reserved principal id used when no authenticated user is
// in context. A matching inactive placeholder row is created at bootstrap so
// audit foreign keys stay valid.
const AnonymousID = -1

// Auditable gives records awareness of when they were written and by whom.
// The storage helpers stamp it with the acting principal before every insert
// and update; modified_by is always overwritten so a caller-supplied value can
// never forge the audit trail.
type Auditable struct {
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt   time.Time `gorm:"column:modified_at;autoUpdateTime"`
	CreatedByID  int       `gorm:"column:created_by_id;index"`
	ModifiedByID int       `gorm:"column:modified_by_id"`
}

// Stamp records the acting principal. The creator is only set on the first
// write; the modifier is re-stamped unconditionally.
func (a *Auditable) Stamp(principalID int) {
	if a.CreatedByID == 0 {
		a.CreatedByID = principalID
	}
	a.ModifiedByID = principalID
}

// Audited is satisfied by any record embedding Auditable.
type Audited interface {
	Stamp(principalID int)
}
