package app

import (
	"fmt"
	"log"

	"github.com/propelhq/propel-api/airtable"
	"github.com/propelhq/propel-api/api"
	"github.com/propelhq/propel-api/config"
	"github.com/propelhq/propel-api/router"
	"github.com/propelhq/propel-api/services/cron"
	"github.com/propelhq/propel-api/services/storage"
	"github.com/propelhq/propel-api/store"
	"github.com/propelhq/propel-api/utils/auth"
	"github.com/propelhq/propel-api/utils/cache"
	"github.com/propelhq/propel-api/utils/middleware"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	if getEnv.AIRTABLE_API_KEY == "" || getEnv.AIRTABLE_BASE_ID == "" {
		return fmt.Errorf("AIRTABLE_API_KEY and AIRTABLE_BASE_ID must be set")
	}
	if getEnv.AUTH_SECRET == "" {
		return fmt.Errorf("AUTH_SECRET must be set")
	}

	// Record store client
	recordClient := airtable.NewClient(airtable.Config{
		APIKey: getEnv.AIRTABLE_API_KEY,
		BaseID: getEnv.AIRTABLE_BASE_ID,
		Tables: getEnv.AIRTABLE_TABLES,
	})

	// Cache: Redis when configured, in-process memory otherwise
	var cacheBackend cache.Cache
	if getEnv.REDIS_URL != "" {
		redisCache, err := cache.NewRedis(getEnv.REDIS_URL)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis: %v. Falling back to in-memory cache.", err)
			cacheBackend = cache.NewMemory()
		} else {
			cacheBackend = redisCache
		}
	} else {
		cacheBackend = cache.NewMemory()
	}
	defer cacheBackend.Close()

	dataStore := store.New(recordClient, cacheBackend, getEnv.CACHE_TTL)

	// Identity provider token verification
	verifier := auth.NewVerifier(auth.VerifierConfig{
		Secret:   getEnv.AUTH_SECRET,
		Issuer:   getEnv.AUTH_ISSUER,
		Audience: getEnv.AUTH_AUDIENCE,
	})

	// Blob storage for deliverable uploads (optional)
	var spacesClient *storage.SpacesClient
	if getEnv.SPACES_ACCESS_KEY != "" && getEnv.SPACES_BUCKET != "" {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: getEnv.SPACES_ACCESS_KEY,
			SecretKey: getEnv.SPACES_SECRET_KEY,
			Bucket:    getEnv.SPACES_BUCKET,
			Region:    getEnv.SPACES_REGION,
			Endpoint:  getEnv.SPACES_ENDPOINT,
			CDNURL:    getEnv.SPACES_CDN_URL,
		})
		if err != nil {
			log.Printf("Warning: blob storage unavailable, uploads disabled: %v", err)
		}
	}

	// Background jobs
	var cronManager *cron.CronManager
	if getEnv.CRON_ENABLED {
		cronManager = cron.NewCronManager(dataStore)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: Failed to start cron jobs: %v", err)
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
	}()

	// Init API
	var server *api.APIServer = api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT))
	app := server.GetEngine()

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins: getEnv.ALLOWED_ORIGINS,
	})

	// Setup Routes
	router.SetupRoutes(app, router.Dependencies{
		Store:          dataStore,
		Verifier:       verifier,
		Storage:        spacesClient,
		ServiceKeyHash: getEnv.SERVICE_API_KEY_HASH,
	})

	// Get the PORT & Start the Server
	return server.Run()

}
