package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/chaincast/chaincast-backend/internal/botcheck"
	"github.com/chaincast/chaincast-backend/internal/controller"
	"github.com/chaincast/chaincast-backend/internal/db"
	"github.com/chaincast/chaincast-backend/internal/dispatch"
	"github.com/chaincast/chaincast-backend/internal/handler"
	"github.com/chaincast/chaincast-backend/internal/payment"
	"github.com/chaincast/chaincast-backend/internal/queue"
	"github.com/chaincast/chaincast-backend/internal/repository"
	"github.com/chaincast/chaincast-backend/internal/scheduler"
	"github.com/chaincast/chaincast-backend/internal/service"
	"github.com/chaincast/chaincast-backend/internal/session"
	"github.com/chaincast/chaincast-backend/internal/telegram"
	"github.com/chaincast/chaincast-backend/internal/validator"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on OS environment variables")
	}

	// Init DB
	db.Init()

	announcementRepo := &repository.AnnouncementRepository{DB: db.DB}
	communityRepo := &repository.CommunityRepository{DB: db.DB}
	linkRepo := &repository.LinkRepository{DB: db.DB}
	paymentRepo := &repository.PaymentRepository{DB: db.DB}
	settingsRepo := &repository.SettingsRepository{DB: db.DB}
	profileRepo := &repository.ProfileRepository{DB: db.DB}

	// Telegram bot: token from env, falling back to the settings record
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		if settings, err := settingsRepo.Get(); err == nil {
			token = settings.BotToken
		}
	}
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}
	bot, err := telegram.NewClient(token)
	if err != nil {
		log.Fatal("failed to initialize Telegram bot:", err)
	}

	gateway := payment.NewHTTPGateway(os.Getenv("PAYMENT_GATEWAY_URL"), os.Getenv("PAYMENT_GATEWAY_KEY"))
	aiClient := validator.NewHTTPAIClient(os.Getenv("AI_SERVICE_URL"))

	var sessions session.Store
	if store, err := session.NewRedisStore(); err != nil {
		log.Println("⚠️ Redis unavailable, checkout totals will be recomputed:", err)
	} else {
		sessions = store
	}

	// Dispatch queue: AMQP when configured, in-memory otherwise
	var q queue.Queue
	var inMemory *queue.InMemoryQueue
	if amqpURL := os.Getenv("AMQP_URL"); amqpURL != "" {
		amqpQueue, err := queue.NewAMQPQueue(amqpURL)
		if err != nil {
			log.Fatal("failed to connect to AMQP:", err)
		}
		q = amqpQueue
		log.Println("✅ Dispatch jobs go to RabbitMQ")
	} else {
		inMemory = queue.NewInMemoryQueue()
		q = inMemory
	}

	dispatcher := &dispatch.Dispatcher{Bot: bot, Links: linkRepo}
	checker := &botcheck.Checker{Bot: bot, Communities: communityRepo}

	announcementService := &service.AnnouncementService{
		AnnouncementRepo: announcementRepo,
		CommunityRepo:    communityRepo,
		LinkRepo:         linkRepo,
		PaymentRepo:      paymentRepo,
		SettingsRepo:     settingsRepo,
		Validator:        validator.New(aiClient),
		Gateway:          gateway,
		Sessions:         sessions,
		Queue:            q,
		Dispatcher:       dispatcher,
	}

	communityService := &service.CommunityService{
		CommunityRepo: communityRepo,
		PaymentRepo:   paymentRepo,
		Checker:       checker,
	}

	if inMemory != nil {
		queue.StartDispatchSubscriber(inMemory, announcementService)
	}

	reconciler := &scheduler.Reconciler{
		PaymentRepo: paymentRepo,
		Gateway:     gateway,
		Confirmer:   announcementService,
	}
	go reconciler.Start(5 * time.Minute)

	announcementController := &controller.AnnouncementController{
		AnnouncementService: announcementService,
	}
	communityController := &controller.CommunityController{
		CommunityService: communityService,
	}
	paymentController := &controller.PaymentController{
		AnnouncementService: announcementService,
	}
	adminHandler := &handler.AdminHandler{
		AnnouncementService: announcementService,
		CommunityService:    communityService,
		SettingsRepo:        settingsRepo,
	}
	profileHandler := &handler.ProfileHandler{
		ProfileRepo: profileRepo,
	}

	r := chi.NewRouter()

	// Announcement routes
	r.Post("/announcements", announcementController.CreateAnnouncement)
	r.Get("/announcements", announcementController.ListAnnouncements)
	r.Get("/announcements/{id}", announcementController.GetAnnouncement)
	r.Put("/announcements/{id}", announcementController.UpdateAnnouncement)
	r.Post("/announcements/{id}/validate", announcementController.ValidateAnnouncement)
	r.Post("/announcements/{id}/enhance", announcementController.EnhanceAnnouncement)
	r.Post("/announcements/{id}/communities", announcementController.SelectCommunities)
	r.Post("/announcements/{id}/checkout", announcementController.CreateCheckout)
	r.Post("/announcements/{id}/dispatch", announcementController.DispatchAnnouncement)
	r.Post("/announcements/{id}/track", announcementController.TrackEvent)
	r.Post("/announcements/{id}/approve", adminHandler.ApproveAnnouncement)
	r.Post("/announcements/{id}/reject", adminHandler.RejectAnnouncement)

	// Payment routes
	r.Post("/payments/confirm", paymentController.ConfirmPayment)

	// Community routes
	r.Post("/communities", communityController.CreateCommunity)
	r.Get("/communities", communityController.ListCommunities)
	r.Get("/communities/{id}", communityController.GetCommunity)
	r.Put("/communities/{id}", communityController.UpdateCommunity)
	r.Post("/communities/{id}/bot-status", communityController.CheckBotStatus)
	r.Get("/communities/{id}/earnings", communityController.ListEarnings)
	r.Post("/communities/{id}/approve", adminHandler.ApproveCommunity)
	r.Post("/communities/{id}/reject", adminHandler.RejectCommunity)

	// Admin settings
	r.Get("/admin/settings", adminHandler.GetSettings)
	r.Put("/admin/settings", adminHandler.UpdateSettings)

	// Profiles
	r.Put("/profiles/{id}/wallet", profileHandler.UpdateWallet)

	log.Println("🚀 Server running on :8080")
	log.Fatal(http.ListenAndServe(":8080", r))
}
