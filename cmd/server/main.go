package main

import (
	"log"
	"os"

	"speech-forge-api/config"
	"speech-forge-api/internal/admin"
	"speech-forge-api/internal/artifact"
	"speech-forge-api/internal/credentials"
	"speech-forge-api/internal/logs"
	"speech-forge-api/internal/middlewares"
	"speech-forge-api/internal/speech"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(&logs.SynthesisLog{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	r := gin.Default()
	r.Use(middlewares.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	audioDir := cfg.AudioDir
	if audioDir == "" {
		audioDir = "audio_outputs"
	}

	speechService := &speech.SpeechService{
		Resolver: &credentials.Resolver{
			Primary:   cfg.GeminiKey,
			Secondary: cfg.GeminiFallbackKey,
		},
		Store: &artifact.Store{Dir: audioDir, Bucket: cfg.AudioBucket},
		Logs:  logService,
		Model: cfg.TTSModel,
	}
	speech.RegisterRoutes(r, speechService)

	adminService := &admin.AdminService{DB: db}
	admin.RegisterRoutes(r, adminService)

	// --- Cloud Run expects plain HTTP, on $PORT, bind to 0.0.0.0 ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}

// openDB connects to postgres when DB_HOST is set and otherwise falls back
// to an embedded sqlite file for local development.
func openDB(cfg config.Config) (*gorm.DB, error) {
	if cfg.DBHost == "" {
		return gorm.Open(sqlite.Open("speech_forge.db"), &gorm.Config{})
	}

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
