package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/api/handlers"
	"github.com/somema/somema-api/internal/api/middleware"
	"github.com/somema/somema-api/internal/database"
	job "github.com/somema/somema-api/internal/jobs"
	"github.com/somema/somema-api/internal/queue"
	"github.com/somema/somema-api/internal/repository"
	"github.com/somema/somema-api/internal/service"
	"github.com/somema/somema-api/pkg/ratelimit"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := database.Connect(cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
	client := asynq.NewClient(redisConn)
	defer client.Close()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
	defer rdb.Close()

	limiter := ratelimit.New(rdb, cfg.RateLimitPerMinute, time.Minute)

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    10 * 1024 * 1024, // 10 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	postRepo := repository.NewPostRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	razorpayClient := service.NewRazorpayClient(*cfg)
	publisher := service.NewMetaService()
	postService := service.NewPostService(db, postRepo, queueRepo)
	profileService := service.NewProfileService(profileRepo)
	schedulerService := service.NewSchedulerService(*cfg, queueRepo)
	subscriptionService := service.NewSubscriptionService(*cfg, profileRepo, subscriptionRepo, paymentRepo, razorpayClient)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)

	queueW := queue.NewQueue(*cfg, queueRepo, postRepo, profileRepo, publisher)

	cronH := handlers.NewCronHandler(*cfg, schedulerService)
	cronLimit := middleware.RateLimit(limiter, "cron")
	app.Get("/api/cron/post-scheduler", cronLimit, cronH.PostScheduler)
	app.Post("/api/cron/post-scheduler", cronLimit, cronH.PostScheduler)

	webhook := handlers.NewWebhookHandler(*cfg, subscriptionService, webhookEventRepo)
	app.Post("/api/payments/razorpay-webhook", middleware.RateLimit(limiter, "webhook"), webhook.RazorpayWebhook)

	queueH := handlers.NewQueueHandler(*cfg, queueW)
	app.Post("/internal/queue/process", queueH.ProcessQueue)

	api := app.Group("/api")
	api.Use(middleware.RateLimit(limiter, "api"))
	api.Use(authMiddleware.AuthMiddleware())

	user := handlers.NewUserHandler(profileService)
	api.Get("/user/info", user.GetUserInfo)

	post := handlers.NewPostHandler(postService, client)
	api.Post("/posts/create", post.CreatePost)
	api.Get("/posts", post.ListPosts)
	api.Post("/posts/remove", post.RemovePost)

	// cron jobs
	schedulerJob := job.NewSchedulerJob(schedulerService)

	c := cron.New()
	c.AddFunc("@every 00h05m00s", schedulerJob.Run)
	c.Start()

	go func() {
		server := asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 10,
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypeSchedulePost, queueW.HandleSchedulePostTask)

		log.Println("Starting the Asynq server...")
		if err := server.Run(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}()

	go func() {
		if err := app.Listen(":3000"); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Println("Server is running on http://localhost:3000")

	gracefulShutdown(app, db)
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	closeDB(db)
	log.Println("Server shutdown complete.")
}
