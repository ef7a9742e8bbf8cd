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

// CloseTrade terminates a trade as cancelled or failed. The item is relisted,
// the buyer's reservation entry is voided and the trade gets its final status
// and history event, all atomically. No wallet is touched: the reservation
// never moved any balance.
func (s *Store) CloseTrade(ctx context.Context, trade *models.Trade, to models.TradeStatus, note string) error {
	if to != models.TradeCancelled && to != models.TradeFailed {
		return fmt.Errorf("close status must be cancelled or failed, got %s", to)
	}

	now := time.Now()
	eventAV, err := historyEventAV(to, now, note)
	if err != nil {
		return fmt.Errorf("failed to marshal history event: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	itemStatus := models.ItemTradeCancelled
	entryStatus := models.EntryCancelled
	if to == models.TradeFailed {
		itemStatus = models.ItemTradeFailed
		entryStatus = models.EntryFailed
	}

	items := []types.TransactWriteItem{
		{
			// Operation 1: Terminate the trade, guarded on its current status.
			Update: &types.Update{
				TableName:           aws.String(s.TradesTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.Id}},
				UpdateExpression:    aws.String("SET #status = :to, history = list_append(history, :event), updated_at = :now"),
				ConditionExpression: aws.String("#status = :from"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":to":    &types.AttributeValueMemberS{Value: string(to)},
					":from":  &types.AttributeValueMemberS{Value: string(trade.Status)},
					":event": eventAV,
					":now":   nowAV,
				},
			},
		},
		{
			// Operation 2: Relist the item for the seller.
			Update: &types.Update{
				TableName:           aws.String(s.ItemsTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.ItemId}},
				UpdateExpression:    aws.String("SET is_listed = :true, trade_status = :itemStatus, updated_at = :now REMOVE trade_offer_id"),
				ConditionExpression: aws.String("attribute_exists(id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":true":       &types.AttributeValueMemberBOOL{Value: true},
					":itemStatus": &types.AttributeValueMemberS{Value: string(itemStatus)},
					":now":        nowAV,
				},
			},
		},
	}

	if trade.ReservationId != "" {
		items = append(items, types.TransactWriteItem{
			// Operation 3: Void the buyer's advisory reservation.
			Update: &types.Update{
				TableName:           aws.String(s.LedgerTableName),
				Key:                 map[string]types.AttributeValue{"entry_id": &types.AttributeValueMemberS{Value: trade.ReservationId}},
				UpdateExpression:    aws.String("SET #status = :entryStatus"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":entryStatus": &types.AttributeValueMemberS{Value: string(entryStatus)},
					":pending":     &types.AttributeValueMemberS{Value: string(models.EntryPending)},
				},
			},
		})
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if transactConditionFailedAt(err, 0) {
			return fmt.Errorf("trade %s left %s concurrently: %w", trade.Id, trade.Status, storage.ErrStateConflict)
		}
		return fmt.Errorf("failed to execute trade close transaction: %w", err)
	}

	trade.Status = to
	trade.History = append(trade.History, models.TradeEvent{Status: to, At: now, Note: note})
	trade.UpdatedAt = now
	return nil
}
