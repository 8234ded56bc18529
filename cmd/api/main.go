package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/huslr-app/huslr-api/internal/config"
	"github.com/huslr-app/huslr-api/internal/db"
	"github.com/huslr-app/huslr-api/internal/moderation"
	"github.com/huslr-app/huslr-api/internal/services/assistant"
	"github.com/huslr-app/huslr-api/internal/services/listing"
	"github.com/huslr-app/huslr-api/internal/services/message"
	"github.com/huslr-app/huslr-api/internal/services/transaction"
	"github.com/huslr-app/huslr-api/internal/services/user"
	ws "github.com/huslr-app/huslr-api/internal/websocket"
)

func main() {
	cfg := config.LoadConfig()

	if err := db.InitDB(cfg); err != nil {
		log.Fatalf("❌ initializing database: %v", err)
	}
	defer db.CloseDB()

	ctx, cancel := db.GetContext()
	defer cancel()
	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ applying schema: %v", err)
	}
	if err := db.SeedDemoData(ctx); err != nil {
		log.Fatalf("❌ seeding demo data: %v", err)
	}

	gateway, err := moderation.New(context.Background(), cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("❌ initializing moderation gateway: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "Huslr API",
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowCredentials: false,
	}))

	// The registry is owned here and handed to the dispatcher; it is the
	// only in-memory shared mutable state in the process.
	registry := ws.NewManager()
	store := message.NewStore()
	dispatcher := ws.NewDispatcher(store, registry)

	userService := user.NewUserService(cfg, gateway)
	listingService := listing.NewListingService(cfg, gateway)
	transactionService := transaction.NewTransactionService(cfg)
	messageService := message.NewMessageService(cfg, registry, dispatcher)
	assistantService := assistant.NewAssistantService(cfg, gateway)

	userService.SetupRoutes(app)
	listingService.SetupRoutes(app)
	transactionService.SetupRoutes(app)
	messageService.SetupRoutes(app)
	assistantService.SetupRoutes(app)

	log.Printf("✅ Huslr API listening on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}

// errorHandler converts unhandled faults into a generic JSON error without
// leaking internals.
func errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		msg = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": msg,
	})
}
