package main

import (
	"log"
	"os"
	"strings"

	"userapi/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func connectDB() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN is not set. This service requires a Postgres DSN in DB_DSN.")
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
}

func initDB() {
	connectDB()
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		if err := migrateDB(db); err != nil {
			log.Printf("migration warning: %v", err)
		}
	}
}

func migrateDB(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RevokedToken{},
		&models.Profile{},
		&models.Wallet{},
		&models.Country{},
		&models.Telco{},
		&models.SMS{},
	)
}

// activeOnly scopes a query to live records; inactive rows stay out of
// default reads and listings.
func activeOnly(q *gorm.DB) *gorm.DB {
	return q.Where("active = ?", true)
}

// createRecord stamps the audit block with the acting principal and inserts
// the record.
func createRecord(principal *models.User, rec any) error {
	if a, ok := rec.(models.Audited); ok {
		a.Stamp(principalID(principal))
	}
	return db.Create(rec).Error
}

// saveRecord re-stamps the modifier and writes the record. The stamp happens
// on every write regardless of what the caller set.
func saveRecord(principal *models.User, rec any) error {
	if a, ok := rec.(models.Audited); ok {
		a.Stamp(principalID(principal))
	}
	return db.Save(rec).Error
}

func principalID(p *models.User) int {
	if p == nil {
		return models.AnonymousID
	}
	return p.ID
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "UNIQUE constraint") ||
		strings.Contains(s, "already exists")
}
