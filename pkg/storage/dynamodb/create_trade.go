package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/storage"
)

// CreateTrade atomically delists the item, writes the buyer's advisory
// reservation entry and creates the trade record. The item update's condition
// guarantees at most one in-flight trade per item.
func (s *Store) CreateTrade(ctx context.Context, trade *models.Trade) (*models.Trade, error) {
	now := time.Now()

	tradeAV, err := attributevalue.MarshalMap(trade)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal trade: %w", err)
	}
	reservationAV, err := attributevalue.MarshalMap(reservationEntry(trade, now))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal reservation entry: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Delist the item and mark its trade pending.
			Update: &types.Update{
				TableName:           aws.String(s.ItemsTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.ItemId}},
				UpdateExpression:    aws.String("SET is_listed = :false, trade_status = :pending, updated_at = :now"),
				ConditionExpression: aws.String("is_listed = :true AND trade_status <> :pending"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":false":   &types.AttributeValueMemberBOOL{Value: false},
					":true":    &types.AttributeValueMemberBOOL{Value: true},
					":pending": &types.AttributeValueMemberS{Value: string(models.ItemTradePending)},
					":now":     nowAV,
				},
			},
		},
		{
			// Operation 2: Record the buyer's advisory reservation.
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                reservationAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		},
		{
			// Operation 3: Create the trade record.
			Put: &types.Put{
				TableName:           aws.String(s.TradesTableName),
				Item:                tradeAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if transactConditionFailedAt(err, 0) {
			// The item was sold or delisted between the read and this write.
			return nil, storage.ErrNotListed
		}
		return nil, fmt.Errorf("failed to execute trade creation transaction: %w", err)
	}

	return trade, nil
}

// reservationEntry builds the pending purchase entry that reserves the
// buyer's funds in name only. No balance moves until settlement.
func reservationEntry(trade *models.Trade, now time.Time) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:     trade.ReservationId,
		TradeID:     trade.Id,
		UserID:      trade.BuyerId,
		Type:        models.EntryPurchase,
		Amount:      -trade.Price,
		Currency:    trade.Currency,
		Status:      models.EntryPending,
		Description: fmt.Sprintf("Reservation for trade %s", trade.Id),
		Timestamp:   now,
		GSI1PK:      "LEDGER_ENTRIES",
	}
}
