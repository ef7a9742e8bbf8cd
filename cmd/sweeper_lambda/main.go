package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/skinsge/marketplace/pkg/gateway/steam"
	"github.com/skinsge/marketplace/pkg/notify"
	dydbstore "github.com/skinsge/marketplace/pkg/storage/dynamodb"
	"github.com/skinsge/marketplace/pkg/trade"
)

var tradeService *trade.Service

// Trades the seller has ignored for this long are cancelled and their items
// relisted.
const staleTradeThreshold = 24 * time.Hour

func init() {
	// Load environment variables for local testing.
	godotenv.Load()

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

	store := dydbstore.New(dbClient, itemsTable, offersTable, tradesTable, walletsTable, ledgerTable, connectionsTable)

	var publisher notify.Publisher = &notify.NoOpPublisher{}
	if endpoint := os.Getenv("WEBSOCKET_API_ENDPOINT"); endpoint != "" {
		publisher, err = notify.NewApiGatewayPublisher(context.TODO(), endpoint, store)
		if err != nil {
			log.Fatalf("failed to create websocket publisher: %v", err)
		}
	}

	gw := steam.New(os.Getenv("STEAM_API_URL"), os.Getenv("STEAM_API_KEY"))

	tradeService = trade.NewService(store, gw, publisher, 0)
}

// HandleRequest is triggered by an EventBridge Schedule.
func HandleRequest(ctx context.Context) error {
	log.Println("Starting sweep for stale trades...")

	closed, err := tradeService.ExpireStale(ctx, staleTradeThreshold)
	if err != nil {
		log.Printf("ERROR: failed to sweep stale trades: %v", err)
		return err
	}

	if closed == 0 {
		log.Println("No stale trades found.")
		return nil
	}

	log.Printf("Cancelled %d stale trades.", closed)
	return nil
}

func main() {
	lambda.Start(HandleRequest)
}
