package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"practice-service/internal/adaptive"
	"practice-service/internal/cache"
	"practice-service/internal/db"
	"practice-service/internal/event"
	"practice-service/internal/handlers"
	"practice-service/internal/repository"
	"practice-service/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system env")
	}
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		log.Fatal("MONGO_URI is required")
	}
	db.InitMongo(mongoURI)
	database := db.Client.Database("practice_service")

	// RabbitMQ event publisher (optional)
	rabbitURL := os.Getenv("RABBITMQ_URI")
	eventExchange := os.Getenv("RABBITMQ_EXCHANGE")
	var publisher *event.Publisher
	if rabbitURL != "" && eventExchange != "" {
		var err error
		publisher, err = event.NewPublisher(rabbitURL, eventExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("RabbitMQ not configured, practice events will not be published")
	}

	// Redis leaderboard cache (optional)
	var statsCache *cache.Cache
	if redisURI := os.Getenv("REDIS_URI"); redisURI != "" {
		var err error
		statsCache, err = cache.New(context.Background(), redisURI)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer statsCache.Close()
	} else {
		log.Println("Redis not configured, leaderboard reads go straight to the store")
	}

	// Repositories
	skillRepo := repository.NewSkillRepository(database)
	questionRepo := repository.NewQuestionRepository(database)
	progressRepo := repository.NewProgressRepository(database)
	attemptRepo := repository.NewAttemptRepository(database)
	sessionRepo := repository.NewSessionRepository(database)

	if err := progressRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("Failed to ensure skill_progress indexes: %v", err)
	}

	// Engine and services
	engine := adaptive.NewEngine(progressRepo, questionRepo, skillRepo)

	var pub service.EventPublisher
	if publisher != nil {
		pub = publisher
	}
	practiceService := service.NewPracticeService(engine, questionRepo, attemptRepo, sessionRepo, progressRepo, pub)
	skillService := service.NewSkillService(skillRepo)
	statsService := service.NewStatsService(progressRepo, statsCache)

	// Handlers
	practiceHandler := handlers.NewPracticeHandler(practiceService)
	skillHandler := handlers.NewSkillHandler(skillService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept", "origin", "Cache-Control", "X-Requested-With", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service":   "practice-service",
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Public catalog reads
	api := r.Group("/api")
	{
		api.GET("/skills", skillHandler.GetAllSkills)
		api.GET("/topics/:topicId/skills", skillHandler.GetSkillsByTopic)
		api.GET("/leaderboard", statsHandler.Leaderboard)
	}

	// Authenticated practice routes: the gateway injects X-User-ID.
	practice := r.Group("/api")
	practice.Use(requireUserID())
	practice.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("[PRACTICE] %v | %3d | %13v | %15s | %-7s %#v\n%s",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			param.ErrorMessage,
		)
	}))
	{
		practice.GET("/skills/:id", skillHandler.GetSkillByID)
		practice.POST("/skills/:id/session", practiceHandler.StartSession)
		practice.POST("/skills/:id/answer", practiceHandler.SubmitAnswer)
		practice.GET("/skills/:id/next-question", practiceHandler.NextQuestion)
		practice.GET("/skills/:id/adaptive-questions", practiceHandler.AdaptiveQuestions)
		practice.GET("/skills/:id/mastery-status", practiceHandler.MasteryStatus)
		practice.GET("/skills/:id/progress", practiceHandler.GetProgress)
		practice.GET("/users/:id/progress", practiceHandler.ListUserProgress)
		practice.POST("/practice-sessions", practiceHandler.RecordSession)
		practice.GET("/practice-sessions", practiceHandler.ListSessions)
		practice.GET("/analytics/summary", statsHandler.Summary)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}

// requireUserID rejects requests missing the gateway-supplied identity.
func requireUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("X-User-ID") == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
