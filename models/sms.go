package models

import (
	"strconv"
	"time"
)

// Delivery report statuses as carried on DLR callbacks.
const (
	StatusDelivered   = "DELIVRD"
	StatusExpired     = "EXPIRED"
	StatusUndelivered = "UNDELIV"
)

// SMS is a message sent on behalf of an account through a telco.
type SMS struct {
	ID int `gorm:"primaryKey"`
	Auditable
	Active    bool   `gorm:"default:true;not null"`
	To        string `gorm:"size:32;not null"`
	Text      string `gorm:"size:1024"`
	Sender    string `gorm:"size:64"`
	Status    string `gorm:"size:16;index"`
	ReportID  string `gorm:"size:64;index"`
	TelcoID   *int
	Telco     *Telco `gorm:"foreignKey:TelcoID"`
	AccountID int    `gorm:"index;not null"`
	Account   User   `gorm:"foreignKey:AccountID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// OwnerID reports the account the message belongs to, for ownership rules.
func (s *SMS) OwnerID() int {
	return s.AccountID
}

func (s *SMS) SelfPath() string {
	return "/sms/" + strconv.Itoa(s.ID)
}

func (s *SMS) Relationships() []string {
	return nil
}

func (s *SMS) Schema() Schema {
	return Schema{
		{Name: "id", Kind: KindInt, Required: true, Ignore: true,
			Get: func() any { return s.ID },
			Set: func(v any) { s.ID, _ = v.(int) }},
		{Name: "to", Kind: KindString, Required: true,
			Get: func() any { return s.To },
			Set: func(v any) { s.To, _ = v.(string) }},
		{Name: "text", Kind: KindString,
			Get: func() any { return blankNull(s.Text) },
			Set: func(v any) { s.Text, _ = v.(string) }},
		{Name: "sender", Kind: KindString,
			Get: func() any { return blankNull(s.Sender) },
			Set: func(v any) { s.Sender, _ = v.(string) }},
		{Name: "status", Kind: KindString,
			Get: func() any { return blankNull(s.Status) },
			Set: func(v any) { s.Status, _ = v.(string) }},
		{Name: "report_id", Kind: KindString,
			Get: func() any { return blankNull(s.ReportID) },
			Set: func(v any) { s.ReportID, _ = v.(string) }},
		{Name: "created_at", Kind: KindDateTime,
			Get: func() any { return s.CreatedAt },
			Set: func(v any) { s.CreatedAt, _ = v.(time.Time) }},
	}
}
