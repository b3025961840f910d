package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadENV loads environment variables from .env when GO_ENV is unset or
// development.
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		err := godotenv.Load()
		if err != nil {
			return err
		}
	}

	return nil
}

type EnviornmentVariable struct {
	GO_ENV string
	PORT   int
	// Record store configuration
	AIRTABLE_API_KEY string
	AIRTABLE_BASE_ID string
	// Logical table name -> Airtable table ID
	AIRTABLE_TABLES map[string]string
	// Identity provider token verification
	AUTH_SECRET   string
	AUTH_ISSUER   string
	AUTH_AUDIENCE string
	// Redis Configuration
	REDIS_URL string
	CACHE_TTL time.Duration
	// Spaces (S3-compatible) blob storage
	SPACES_ACCESS_KEY string
	SPACES_SECRET_KEY string
	SPACES_BUCKET     string
	SPACES_REGION     string
	SPACES_ENDPOINT   string
	SPACES_CDN_URL    string
	// Machine-to-machine routes
	SERVICE_API_KEY_HASH string
	CRON_ENABLED         bool
	ALLOWED_ORIGINS      string
}

// tableEnvVars maps logical table names to the env vars carrying their
// Airtable table IDs.
var tableEnvVars = map[string]string{
	"contacts":       "AIRTABLE_TABLE_CONTACTS",
	"education":      "AIRTABLE_TABLE_EDUCATION",
	"institutions":   "AIRTABLE_TABLE_INSTITUTIONS",
	"initiatives":    "AIRTABLE_TABLE_INITIATIVES",
	"cohorts":        "AIRTABLE_TABLE_COHORTS",
	"teams":          "AIRTABLE_TABLE_TEAMS",
	"participations": "AIRTABLE_TABLE_PARTICIPATIONS",
	"milestones":     "AIRTABLE_TABLE_MILESTONES",
	"submissions":    "AIRTABLE_TABLE_SUBMISSIONS",
	"resources":      "AIRTABLE_TABLE_RESOURCES",
	"events":         "AIRTABLE_TABLE_EVENTS",
	"points":         "AIRTABLE_TABLE_POINTS",
	"rewards":        "AIRTABLE_TABLE_REWARDS",
}

func Get() (*EnviornmentVariable, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8080
	}

	ttl := 5 * time.Minute
	if seconds, err := strconv.Atoi(os.Getenv("CACHE_TTL_SECONDS")); err == nil && seconds > 0 {
		ttl = time.Duration(seconds) * time.Second
	}

	tables := make(map[string]string, len(tableEnvVars))
	for name, envVar := range tableEnvVars {
		if id := os.Getenv(envVar); id != "" {
			tables[name] = id
		}
	}

	envVariables := &EnviornmentVariable{
		GO_ENV: os.Getenv("GO_ENV"),
		PORT:   port,
		// Record store
		AIRTABLE_API_KEY: os.Getenv("AIRTABLE_API_KEY"),
		AIRTABLE_BASE_ID: os.Getenv("AIRTABLE_BASE_ID"),
		AIRTABLE_TABLES:  tables,
		// Auth
		AUTH_SECRET:   os.Getenv("AUTH_SECRET"),
		AUTH_ISSUER:   os.Getenv("AUTH_ISSUER"),
		AUTH_AUDIENCE: os.Getenv("AUTH_AUDIENCE"),
		// Redis
		REDIS_URL: os.Getenv("REDIS_URL"),
		CACHE_TTL: ttl,
		// Spaces
		SPACES_ACCESS_KEY: os.Getenv("SPACES_ACCESS_KEY"),
		SPACES_SECRET_KEY: os.Getenv("SPACES_SECRET_KEY"),
		SPACES_BUCKET:     os.Getenv("SPACES_BUCKET"),
		SPACES_REGION:     os.Getenv("SPACES_REGION"),
		SPACES_ENDPOINT:   os.Getenv("SPACES_ENDPOINT"),
		SPACES_CDN_URL:    os.Getenv("SPACES_CDN_URL"),
		// Service routes and jobs
		SERVICE_API_KEY_HASH: os.Getenv("SERVICE_API_KEY_HASH"),
		CRON_ENABLED:         os.Getenv("CRON_ENABLED") != "false",
		ALLOWED_ORIGINS:      os.Getenv("ALLOWED_ORIGINS"),
	}

	return envVariables, nil
}
