package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/mentor-match/internal/config"
	"github.com/iliyamo/mentor-match/internal/database"
	"github.com/iliyamo/mentor-match/internal/handler"
	"github.com/iliyamo/mentor-match/internal/middleware"
	"github.com/iliyamo/mentor-match/internal/queue"
	"github.com/iliyamo/mentor-match/internal/realtime"
	"github.com/iliyamo/mentor-match/internal/repository"
	"github.com/iliyamo/mentor-match/internal/router"
	"github.com/iliyamo/mentor-match/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	requests := repository.NewRequestRepo(db)
	availability := repository.NewAvailabilityRepo(db)
	sessions := repository.NewSessionRepo(db)
	notifications := repository.NewNotificationRepo(db)
	conversations := repository.NewConversationRepo(db)
	goals := repository.NewGoalRepo(db)

	hub := realtime.NewHub()
	notifier := service.NewNotifier(notifications, hub)
	assistant := service.NewAssistant(cfg.AssistantURL, cfg.AssistantKey, cfg.AssistantModel)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	profileH := handler.NewProfileHandler(profiles)
	browseH := handler.NewBrowseHandler(profiles, users, availability)
	requestH := handler.NewRequestHandler(requests, users, conversations, notifier)
	availabilityH := handler.NewAvailabilityHandler(availability)
	sessionH := handler.NewSessionHandler(db, cfg, sessions, requests, availability, notifier)
	circleH := handler.NewCircleHandler(db, sessions, notifier)
	insightH := handler.NewInsightHandler(sessions, assistant)
	goalH := handler.NewGoalHandler(goals, requests)
	notificationH := handler.NewNotificationHandler(notifications)
	conversationH := handler.NewConversationHandler(conversations, notifier)
	assistantH := handler.NewAssistantHandler(conversations, assistant)
	eventsH := handler.NewEventsHandler(hub)
	adminH := handler.NewAdminHandler(users, requests, sessions)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterHealth(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, browseH, circleH, config.LoadCacheConfig(), rdb)
	router.RegisterMentee(e, requestH, sessionH, circleH, profiles, cfg.JWTSecret)
	router.RegisterMentor(e, requestH, availabilityH, circleH, cfg.JWTSecret)
	router.RegisterShared(e, profileH, requestH, sessionH, insightH, goalH,
		notificationH, conversationH, assistantH, eventsH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Booking audit consumer; reconnects on its own and never returns in
	// normal operation.
	go func() {
		if err := queue.StartSessionConsumer(); err != nil {
			log.Printf("session consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
