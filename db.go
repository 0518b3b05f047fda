package main

import (
	"log"
	"os"
	"strings"

	"cardforge/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

// initDB connects the optional operations ledger. Without DB_DSN the
// service runs with the ledger disabled; renders still work.
func initDB() {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Print("DB_DSN is not set; operation ledger disabled")
		return
	}
	var err error
	db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect postgres database:", err)
	}
	// Control schema migrations with env DB_AUTO_MIGRATE (default true).
	shouldMigrate := true
	if v := os.Getenv("DB_AUTO_MIGRATE"); v != "" {
		lv := strings.ToLower(v)
		if lv == "false" || lv == "0" || lv == "no" {
			shouldMigrate = false
		}
	}
	if shouldMigrate {
		if err := db.AutoMigrate(&models.Operation{}); err != nil {
			log.Printf("migration warning (operations): %v", err)
		}
	}
}

// recordOperation writes one ledger row for a completed render. A ledger
// failure must not fail the render that already produced the artifact.
func recordOperation(op models.Operation) {
	if db == nil {
		return
	}
	if err := db.Create(&op).Error; err != nil {
		log.Printf("ledger warning: failed to record operation %s: %v", op.OpID, err)
	}
}
