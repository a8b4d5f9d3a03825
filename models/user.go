package models

import (
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is the identity and credential holder. Inactive users are excluded
// from default reads and listings; the anonymous placeholder (id -1) is kept
// inactive for exactly that reason.
type User struct {
	ID                int        `gorm:"primaryKey"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime"`
	ModifiedAt        time.Time  `gorm:"column:modified_at;autoUpdateTime"`
	Username          *string    `gorm:"size:127;unique"`
	Email             string     `gorm:"size:255;not null;unique"`
	Password          string     `gorm:"size:255;not null"` // bcrypt hash, never the raw value
	Active            bool       `gorm:"default:true"`
	Force             bool       `gorm:"default:false"` // superuser flag
	ConfirmedAt       *time.Time `gorm:"column:confirmed_at"`
	LastLoginAt       *time.Time
	CurrentLoginAt    *time.Time
	LastLoginIP       string `gorm:"size:45"`
	CurrentLoginIP    string `gorm:"size:45"`
	RevokedTokenCount int    `gorm:"default:0"`
	LoginCount        int    `gorm:"default:0"`
}

// SetPassword stores a salted one-way hash of the raw password.
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// VerifyPassword compares the raw password against the stored hash.
func (u *User) VerifyPassword(raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}

func (u *User) IsSuper() bool {
	return u.Force
}

func (u *User) IsConfirmed() bool {
	return u.ConfirmedAt != nil
}

func (u *User) SelfPath() string {
	return "/users/" + strconv.Itoa(u.ID)
}

func (u *User) Relationships() []string {
	return []string{"sms"}
}

// Schema declares the user's codec fields. The id and password columns are
// never exported; the password field hashes on the way in.
func (u *User) Schema() Schema {
	return Schema{
		{Name: "id", Kind: KindInt, Required: true, Ignore: true,
			Get: func() any { return u.ID },
			Set: func(v any) { u.ID, _ = v.(int) }},
		{Name: "username", Kind: KindString,
			Get: func() any { return optStr(u.Username) },
			Set: func(v any) { u.Username = strPtr(v) }},
		{Name: "email", Kind: KindString, Required: true,
			Get: func() any { return u.Email },
			Set: func(v any) { u.Email, _ = v.(string) }},
		{Name: "password", Kind: KindPassword, Required: true, Ignore: true,
			Get: func() any { return u.Password },
			Set: func(v any) {
				if s, ok := v.(string); ok {
					_ = u.SetPassword(s)
				} else {
					u.Password = ""
				}
			}},
		{Name: "active", Kind: KindBool,
			Get: func() any { return u.Active },
			Set: func(v any) { u.Active, _ = v.(bool) }},
		{Name: "force", Kind: KindBool,
			Get: func() any { return u.Force },
			Set: func(v any) { u.Force, _ = v.(bool) }},
		{Name: "confirmed_at", Kind: KindDateTime,
			Get: func() any { return optTime(u.ConfirmedAt) },
			Set: func(v any) { u.ConfirmedAt = timePtr(v) }},
		{Name: "last_login_at", Kind: KindDateTime,
			Get: func() any { return optTime(u.LastLoginAt) },
			Set: func(v any) { u.LastLoginAt = timePtr(v) }},
		{Name: "current_login_at", Kind: KindDateTime,
			Get: func() any { return optTime(u.CurrentLoginAt) },
			Set: func(v any) { u.CurrentLoginAt = timePtr(v) }},
		{Name: "last_login_ip", Kind: KindString,
			Get: func() any { return blankNull(u.LastLoginIP) },
			Set: func(v any) { u.LastLoginIP, _ = v.(string) }},
		{Name: "current_login_ip", Kind: KindString,
			Get: func() any { return blankNull(u.CurrentLoginIP) },
			Set: func(v any) { u.CurrentLoginIP, _ = v.(string) }},
		{Name: "revoked_token_count", Kind: KindInt,
			Get: func() any { return u.RevokedTokenCount },
			Set: func(v any) { u.RevokedTokenCount, _ = v.(int) }},
		{Name: "login_count", Kind: KindInt,
			Get: func() any { return u.LoginCount },
			Set: func(v any) { u.LoginCount, _ = v.(int) }},
		{Name: "created_at", Kind: KindDateTime,
			Get: func() any { return u.CreatedAt },
			Set: func(v any) { u.CreatedAt, _ = v.(time.Time) }},
		{Name: "modified_at", Kind: KindDateTime,
			Get: func() any { return u.ModifiedAt },
			Set: func(v any) { u.ModifiedAt, _ = v.(time.Time) }},
	}
}

func optStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func strPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func optTime(p *time.Time) any {
	if p == nil {
		return nil
	}
	return *p
}

func timePtr(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}

func blankNull(s string) any {
	if s == "" {
		return nil
	}
	return s
}
