package dynamodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/storage"
)

const (
	tradeOfferIDIndex = "trade_offer_id-index"
	sellerIDIndex     = "seller_id-index"
	buyerIDIndex      = "buyer_id-index"
	stuckTradesGSI    = "status-created_at-index"
)

// GetTrade retrieves a trade from DynamoDB by its ID.
func (s *Store) GetTrade(ctx context.Context, tradeID string) (*models.Trade, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": tradeID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trade ID: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.TradesTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get trade from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("trade %s: %w", tradeID, storage.ErrNotFound)
	}

	var trade models.Trade
	if err := attributevalue.UnmarshalMap(result.Item, &trade); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trade: %w", err)
	}

	return &trade, nil
}

// GetTradeByOfferID retrieves the trade holding the given external trade-offer
// ID. This is how inbound webhook events find their trade.
func (s *Store) GetTradeByOfferID(ctx context.Context, tradeOfferID string) (*models.Trade, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TradesTableName),
		IndexName:              aws.String(tradeOfferIDIndex),
		KeyConditionExpression: aws.String("trade_offer_id = :id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":id": &types.AttributeValueMemberS{Value: tradeOfferID},
		},
		Limit: aws.Int32(1),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade by offer ID: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, fmt.Errorf("trade for offer %s: %w", tradeOfferID, storage.ErrNotFound)
	}

	var trade models.Trade
	if err := attributevalue.UnmarshalMap(result.Items[0], &trade); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trade: %w", err)
	}

	return &trade, nil
}

// ListTradesByUser retrieves all trades in which the user participates, as
// buyer or seller, newest first.
func (s *Store) ListTradesByUser(ctx context.Context, userID string) ([]models.Trade, error) {
	asSeller, err := s.queryTradesByIndex(ctx, sellerIDIndex, "seller_id", userID)
	if err != nil {
		return nil, err
	}
	asBuyer, err := s.queryTradesByIndex(ctx, buyerIDIndex, "buyer_id", userID)
	if err != nil {
		return nil, err
	}

	trades := append(asSeller, asBuyer...)
	sort.Slice(trades, func(i, j int) bool {
		return trades[i].CreatedAt.After(trades[j].CreatedAt)
	})
	return trades, nil
}

func (s *Store) queryTradesByIndex(ctx context.Context, index, attr, userID string) ([]models.Trade, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TradesTableName),
		IndexName:              aws.String(index),
		KeyConditionExpression: aws.String(fmt.Sprintf("%s = :userID", attr)),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades by %s: %w", attr, err)
	}

	var trades []models.Trade
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &trades); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trades: %w", err)
	}

	return trades, nil
}

// GetStuckTrades retrieves trades sitting in the given status for longer than maxAge.
func (s *Store) GetStuckTrades(ctx context.Context, status models.TradeStatus, maxAge time.Duration) ([]models.Trade, error) {
	// Calculate the cutoff time.
	cutoffTime := time.Now().Add(-maxAge)
	cutoffTimeStr, err := cutoffTime.MarshalText()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	// Prepare the query input.
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TradesTableName),
		IndexName:              aws.String(stuckTradesGSI),
		KeyConditionExpression: aws.String("#status = :status"),
		FilterExpression:       aws.String("created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":cutoff": &types.AttributeValueMemberS{Value: string(cutoffTimeStr)},
		},
	}

	// Execute the query.
	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stuck trades: %w", err)
	}

	// Unmarshal the results.
	var trades []models.Trade
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &trades); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stuck trades: %w", err)
	}

	return trades, nil
}
