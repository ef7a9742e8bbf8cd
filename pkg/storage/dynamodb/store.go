package dynamodb

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/skinsge/marketplace/pkg/notify"
	"github.com/skinsge/marketplace/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the Store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client               DynamoDBAPI
	ItemsTableName       string
	OffersTableName      string
	TradesTableName      string
	WalletsTableName     string
	LedgerTableName      string
	ConnectionsTableName string
}

// New creates a new Store.
func New(client DynamoDBAPI, itemsTable, offersTable, tradesTable, walletsTable, ledgerTable, connectionsTable string) *Store {
	return &Store{
		Client:               client,
		ItemsTableName:       itemsTable,
		OffersTableName:      offersTable,
		TradesTableName:      tradesTable,
		WalletsTableName:     walletsTable,
		LedgerTableName:      ledgerTable,
		ConnectionsTableName: connectionsTable,
	}
}

// Make sure we conform to the interfaces
var _ storage.Storage = (*Store)(nil)
var _ notify.ConnectionManager = (*Store)(nil)

// conditionFailed reports whether err is a single-item conditional check failure.
func conditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// transactConditionFailedAt reports whether a TransactWriteItems call was
// cancelled because the operation at the given index failed its condition.
func transactConditionFailedAt(err error, idx int) bool {
	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return false
	}
	if idx >= len(tce.CancellationReasons) {
		return false
	}
	code := tce.CancellationReasons[idx].Code
	return code != nil && *code == "ConditionalCheckFailed"
}
