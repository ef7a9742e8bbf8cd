package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"

	awsevents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/skinsge/marketplace/pkg/events"
	"github.com/skinsge/marketplace/pkg/gateway/steam"
	"github.com/skinsge/marketplace/pkg/notify"
	"github.com/skinsge/marketplace/pkg/storage"
	dydbstore "github.com/skinsge/marketplace/pkg/storage/dynamodb"
	"github.com/skinsge/marketplace/pkg/trade"
)

var tradeService *trade.Service

func init() {
	// Load environment variables from .env file (useful for local testing).
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize dependencies once.
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

	store := dydbstore.New(dbClient, itemsTable, offersTable, tradesTable, walletsTable, ledgerTable, connectionsTable)

	var publisher notify.Publisher = &notify.NoOpPublisher{}
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher, err = notify.NewApiGatewayPublisher(context.TODO(), endpoint, store)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	// The consumer never calls back out to the platform, but the service
	// expects a gateway for its other operations.
	gw := steam.New(os.Getenv("STEAM_API_URL"), os.Getenv("STEAM_API_KEY"))

	tradeService = trade.NewService(store, gw, publisher, 0)
}

// HandleRequest processes queued gateway webhook events and applies them to
// their trades.
func HandleRequest(ctx context.Context, sqsEvent awsevents.SQSEvent) error {
	for _, message := range sqsEvent.Records {
		log.Printf("Processing message %s", message.MessageId)

		var ev events.GatewayEvent
		if err := json.Unmarshal([]byte(message.Body), &ev); err != nil {
			log.Printf("ERROR: failed to unmarshal gateway event from SQS message %s: %v", message.MessageId, err)
			// Returning an error will cause SQS to retry the message, which is appropriate here.
			return err
		}

		log.Printf("Applying gateway event for trade offer %s (%s)", ev.TradeOfferID, ev.Status)

		if err := tradeService.ApplyGatewayEvent(ctx, &ev); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// A trade offer we never issued; retrying will not help.
				log.Printf("Dropping event for unknown trade offer %s", ev.TradeOfferID)
				continue
			}
			log.Printf("ERROR: failed to apply gateway event for trade offer %s: %v", ev.TradeOfferID, err)
			// In a production system, persistent failures would be sent to a DLQ.
			return err
		}

		log.Printf("Successfully applied gateway event for trade offer %s", ev.TradeOfferID)
	}

	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
