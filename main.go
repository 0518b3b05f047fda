package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"cardforge/pkg/card"

	"github.com/gin-gonic/gin"
)

var jwtSecret []byte // loaded from env JWT_SECRET (fallback to dev default)

var (
	registry *card.Registry
	renderer *card.Renderer

	configPath string
	outDir     string
)

func main() {
	// Auto-load ./.env if present (no external dependency) before reading vars
	loadDotEnv()
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-insecure-secret-change" // development fallback
	}
	jwtSecret = []byte(secret)

	configPath = envOr("CARD_CONFIG", "config.json")
	assetsDir := envOr("CARD_ASSETS", "assets")
	fontsDir := envOr("CARD_FONTS", "fonts")
	outDir = envOr("CARD_OUT", "out")

	cfg := card.LoadConfig(configPath)
	token := cfg.Token
	if token == "" {
		token = strings.TrimSpace(os.Getenv("API_TOKEN"))
	}
	if token == "" {
		log.Fatal("no API token found: set api_token in the config file or the API_TOKEN env var")
	}
	if err := setAPIToken(token); err != nil {
		log.Fatal("failed to install API token:", err)
	}

	registry = card.NewRegistry()
	// Applied calibration is written on every apply/download; whether it is
	// re-loaded on start is a deployment choice (COORDS_LOAD_ON_START).
	if cfg.Coords != nil && boolEnv("COORDS_LOAD_ON_START", true) {
		registry.Restore(cfg.Coords)
	}

	renderer = &card.Renderer{
		TemplatePath: filepath.Join(assetsDir, "template.png"),
		FontsDir:     fontsDir,
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatal("failed to create output dir:", err)
	}

	// Support a lightweight migrate command: `./cardforge migrate`
	// It runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		initDB()
		fmt.Println("migration completed")
		return
	}

	initDB()

	if boolEnv("COORDS_WATCH", true) {
		go watchConfig(context.Background(), configPath)
	}

	r := gin.Default()

	setupRoutes(r)

	r.Run(":8081")
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

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// boolEnv reads a boolean env var; "false", "0" and "no" disable it.
func boolEnv(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	return !(v == "false" || v == "0" || v == "no")
}
