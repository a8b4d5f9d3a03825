package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"userapi/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// initdb seeds the database: exactly one superuser plus the inactive
// anonymous placeholder every unauthenticated write is attributed to.
func main() {
	if len(os.Args) < 4 {
		fmt.Println("usage: go run ./cmd/initdb <username> <email> <password>")
		os.Exit(2)
	}
	username := os.Args[1]
	email := os.Args[2]
	password := os.Args[3]

	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var supers int64
	db.Model(&models.User{}).Where("force = ?", true).Count(&supers)
	if supers > 0 {
		log.Fatal("superuser already exists in the database")
	}

	now := time.Now().UTC()
	super := models.User{Username: &username, Email: email, Force: true, ConfirmedAt: &now}
	if err := super.SetPassword(password); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&super).Error; err != nil {
		log.Fatalf("failed to create superuser: %v", err)
	}
	fmt.Printf("created superuser %s id=%d\n", username, super.ID)

	var anon models.User
	if err := db.First(&anon, "id = ?", models.AnonymousID).Error; err == nil {
		fmt.Println("anonymous user already present")
		return
	}
	anonName := "anon"
	anon = models.User{ID: models.AnonymousID, Username: &anonName, Email: "anon@example.com"}
	if err := anon.SetPassword("anonymous"); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}
	if err := db.Create(&anon).Error; err != nil {
		log.Fatalf("failed to create anonymous user: %v", err)
	}
	// column default forces active=true on insert; flip it after the fact
	db.Model(&anon).Update("active", false)
	fmt.Println("created anonymous user id=-1")
}
