package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	secretKey      []byte // loaded from env SECRET_KEY (fallback to dev default)
	securitySalt   string // env SECURITY_PASSWORD_SALT, mixed into timed-token keys
	maxPerPage     = 25
	confirmMaxAge  = time.Hour
	recoveryMaxAge = time.Hour
)

func loadConfig() {
	loadDotEnv()
	secret := os.Getenv("SECRET_KEY")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	secretKey = []byte(secret)
	securitySalt = os.Getenv("SECURITY_PASSWORD_SALT")
	if v := os.Getenv("MAX_PER_PAGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxPerPage = n
		}
	}
}

func main() {
	loadConfig()

	// Support a lightweight migrate command: `./userapi migrate`
	// It runs AutoMigrate then exits, regardless of the DB_AUTO_MIGRATE
	// toggle. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		connectDB()
		if err := migrateDB(db); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		fmt.Println("migration completed")
		return
	}

	initDB()

	r := gin.Default()

	setupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}
	r.Run(":" + port)
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
