package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/skinsge/marketplace/pkg/api"
	"github.com/skinsge/marketplace/pkg/events"
	"github.com/skinsge/marketplace/pkg/gateway/steam"
	"github.com/skinsge/marketplace/pkg/handlers"
	"github.com/skinsge/marketplace/pkg/middleware"
	"github.com/skinsge/marketplace/pkg/notify"
	dydbstore "github.com/skinsge/marketplace/pkg/storage/dynamodb"
	"github.com/skinsge/marketplace/pkg/trade"
)

const defaultFeeRate = 0.05

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// AWS Session
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	dbClient := dynamodb.NewFromConfig(cfg)
	itemsTable := os.Getenv("DYNAMODB_ITEMS_TABLE_NAME")
	offersTable := os.Getenv("DYNAMODB_OFFERS_TABLE_NAME")
	tradesTable := os.Getenv("DYNAMODB_TRADES_TABLE_NAME")
	walletsTable := os.Getenv("DYNAMODB_WALLETS_TABLE_NAME")
	ledgerTable := os.Getenv("DYNAMODB_LEDGER_TABLE_NAME")
	connectionsTable := os.Getenv("DYNAMODB_CONNECTIONS_TABLE_NAME")

	if itemsTable == "" || offersTable == "" || tradesTable == "" || walletsTable == "" || ledgerTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	// Create our storage implementation
	store := dydbstore.New(dbClient, itemsTable, offersTable, tradesTable, walletsTable, ledgerTable, connectionsTable)

	// External trading platform client
	gw := steam.New(os.Getenv("STEAM_API_URL"), os.Getenv("STEAM_API_KEY"))

	// Webhook events go through SQS when a queue is configured; otherwise they
	// are applied inline by the webhook handler.
	var enqueuer events.Enqueuer
	if sqsQueueURL := os.Getenv("SQS_QUEUE_URL"); sqsQueueURL != "" {
		enqueuer = events.NewSQSEnqueuer(sqs.NewFromConfig(cfg), sqsQueueURL)
	} else {
		log.Println("SQS_QUEUE_URL not set, applying gateway webhooks inline")
	}

	// Notifications: API Gateway WebSocket push in AWS, a local socket
	// endpoint otherwise.
	var publisher notify.Publisher = &notify.NoOpPublisher{}
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher, err = notify.NewApiGatewayPublisher(context.TODO(), endpoint, store)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	feeRate := defaultFeeRate
	if raw := os.Getenv("FEE_RATE"); raw != "" {
		feeRate, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatalf("invalid FEE_RATE %q: %v", raw, err)
		}
	}

	tradeService := trade.NewService(store, gw, publisher, feeRate)

	// Create our handler
	handler := handlers.NewApiHandler(store, tradeService, enqueuer)

	// Create a new Chi router
	router := chi.NewRouter()
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewStructuredLogger(slog.Default()))

	// Mount our handler on the router
	api.HandlerFromMux(handler, router)

	// Local WebSocket endpoint for development pushes.
	if connectionsTable != "" {
		router.Handle("/ws", notify.NewLocalSocketHandler(store))
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080" // Default port if not specified
	}

	log.Printf("Starting server on port %s", port)

	// Start the server
	err = http.ListenAndServe(":"+port, router)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
