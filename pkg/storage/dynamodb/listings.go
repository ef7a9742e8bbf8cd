package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/storage"
)

// listingLock is a marker row in the items table that pins the (owner, asset)
// pair while a listing for it exists. It is what makes duplicate listings of
// the same asset impossible under concurrency.
type listingLock struct {
	Id     string `dynamodbav:"id"`
	ItemId string `dynamodbav:"item_id"`
}

func listingLockID(ownerID, assetID string) string {
	return fmt.Sprintf("LISTING#%s#%s", ownerID, assetID)
}

// CreateListing atomically creates the item record and its (owner, asset)
// lock row. A second listing of the same asset by the same owner fails the
// lock's condition and surfaces as ErrDuplicateListing.
func (s *Store) CreateListing(ctx context.Context, item *models.Item) (*models.Item, error) {
	// 1. Complete the item with server-side details.
	now := time.Now()
	if item.Id == "" {
		item.Id = uuid.New().String()
	}
	item.IsListed = true
	item.TradeStatus = models.ItemTradeNone
	item.PriceHistory = []models.PricePoint{{PriceUSD: item.PriceUSD, PriceGEL: item.PriceGEL, At: now}}
	item.CreatedAt = now
	item.UpdatedAt = now

	itemAV, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	lockAV, err := attributevalue.MarshalMap(listingLock{
		Id:     listingLockID(item.OwnerId, item.AssetId),
		ItemId: item.Id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing lock: %w", err)
	}

	// 2. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the (owner, asset) lock.
				Put: &types.Put{
					TableName:           aws.String(s.ItemsTableName),
					Item:                lockAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
			{
				// Operation 2: Create the item record.
				Put: &types.Put{
					TableName:           aws.String(s.ItemsTableName),
					Item:                itemAV,
					ConditionExpression: aws.String("attribute_not_exists(id)"),
				},
			},
		},
	}

	// 3. Execute the transaction.
	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			return nil, storage.ErrDuplicateListing
		}
		return nil, fmt.Errorf("failed to execute listing transaction: %w", err)
	}

	return item, nil
}

// GetItem retrieves an item from DynamoDB by its ID.
func (s *Store) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": itemID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.ItemsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("item %s: %w", itemID, storage.ErrNotFound)
	}

	var item models.Item
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}

	return &item, nil
}

// ListListings retrieves all items currently for sale. Lock rows carry no
// is_listed attribute, so the filter excludes them naturally.
func (s *Store) ListListings(ctx context.Context) ([]models.Item, error) {
	input := &dynamodb.ScanInput{
		TableName:        aws.String(s.ItemsTableName),
		FilterExpression: aws.String("is_listed = :true"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":true": &types.AttributeValueMemberBOOL{Value: true},
		},
	}

	result, err := s.Client.Scan(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to scan items table: %w", err)
	}

	var items []models.Item
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal items: %w", err)
	}

	return items, nil
}

// CancelListing takes an item off sale and releases its (owner, asset) lock.
// An item that is mid-trade has is_listed already false, so the status guard
// also protects in-flight trades from losing their item.
func (s *Store) CancelListing(ctx context.Context, itemID string) error {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to get item for delisting: %w", err)
	}
	if !item.IsListed {
		return storage.ErrNotListed
	}

	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp for delisting: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Take the item off sale.
				Update: &types.Update{
					TableName:           aws.String(s.ItemsTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: itemID}},
					UpdateExpression:    aws.String("SET is_listed = :false, updated_at = :now"),
					ConditionExpression: aws.String("is_listed = :true"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":false": &types.AttributeValueMemberBOOL{Value: false},
						":true":  &types.AttributeValueMemberBOOL{Value: true},
						":now":   nowAV,
					},
				},
			},
			{
				// Operation 2: Release the (owner, asset) lock.
				Delete: &types.Delete{
					TableName: aws.String(s.ItemsTableName),
					Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: listingLockID(item.OwnerId, item.AssetId)}},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			return storage.ErrNotListed
		}
		return fmt.Errorf("failed to execute delisting transaction: %w", err)
	}

	return nil
}

// UpdateListingPrice updates both prices and the frozen rate, appending the
// new price to the item's price history.
func (s *Store) UpdateListingPrice(ctx context.Context, itemID string, priceUSD, priceGEL int64, rate float64) (*models.Item, error) {
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item for price update: %w", err)
	}

	now := time.Now()
	point := models.PricePoint{PriceUSD: priceUSD, PriceGEL: priceGEL, At: now}
	pointAV, err := attributevalue.Marshal([]models.PricePoint{point})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal price point: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp for price update: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.ItemsTableName),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: itemID}},
		UpdateExpression:    aws.String("SET price_usd = :usd, price_gel = :gel, rate = :rate, price_history = list_append(price_history, :point), updated_at = :now"),
		ConditionExpression: aws.String("is_listed = :true"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":usd":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", priceUSD)},
			":gel":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", priceGEL)},
			":rate":  &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", rate)},
			":point": pointAV,
			":true":  &types.AttributeValueMemberBOOL{Value: true},
			":now":   nowAV,
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		if conditionFailed(err) {
			return nil, storage.ErrNotListed
		}
		return nil, fmt.Errorf("failed to update listing price: %w", err)
	}

	item.PriceUSD = priceUSD
	item.PriceGEL = priceGEL
	item.Rate = rate
	item.PriceHistory = append(item.PriceHistory, point)
	item.UpdatedAt = now
	return item, nil
}
