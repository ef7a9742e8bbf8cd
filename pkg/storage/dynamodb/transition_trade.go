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

// historyEventAV marshals a single history event as a one-element list for
// use with list_append.
func historyEventAV(status models.TradeStatus, at time.Time, note string) (types.AttributeValue, error) {
	return attributevalue.Marshal([]models.TradeEvent{{Status: status, At: at, Note: note}})
}

// TransitionTrade moves the trade from its current status to the given one,
// appending a history event. The status guard turns every lost race into
// ErrStateConflict instead of a double transition.
func (s *Store) TransitionTrade(ctx context.Context, trade *models.Trade, to models.TradeStatus, note string) error {
	now := time.Now()
	eventAV, err := historyEventAV(to, now, note)
	if err != nil {
		return fmt.Errorf("failed to marshal history event: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
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
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		if conditionFailed(err) {
			return fmt.Errorf("trade %s left %s concurrently: %w", trade.Id, trade.Status, storage.ErrStateConflict)
		}
		return fmt.Errorf("failed to transition trade: %w", err)
	}

	trade.Status = to
	trade.History = append(trade.History, models.TradeEvent{Status: to, At: now, Note: note})
	trade.UpdatedAt = now
	return nil
}

// MarkDispatched records the external trade-offer ID on the trade and its
// item and moves the trade from offer_sent to awaiting_confirmation.
func (s *Store) MarkDispatched(ctx context.Context, trade *models.Trade, tradeOfferID, note string) error {
	now := time.Now()
	eventAV, err := historyEventAV(models.TradeAwaitingConfirmation, now, note)
	if err != nil {
		return fmt.Errorf("failed to marshal history event: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Advance the trade and store the trade-offer ID.
				Update: &types.Update{
					TableName:           aws.String(s.TradesTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.Id}},
					UpdateExpression:    aws.String("SET #status = :to, trade_offer_id = :offerID, history = list_append(history, :event), updated_at = :now"),
					ConditionExpression: aws.String("#status = :from"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":to":      &types.AttributeValueMemberS{Value: string(models.TradeAwaitingConfirmation)},
						":from":    &types.AttributeValueMemberS{Value: string(models.TradeOfferSent)},
						":offerID": &types.AttributeValueMemberS{Value: tradeOfferID},
						":event":   eventAV,
						":now":     nowAV,
					},
				},
			},
			{
				// Operation 2: Mirror the trade-offer ID onto the item.
				Update: &types.Update{
					TableName:           aws.String(s.ItemsTableName),
					Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.ItemId}},
					UpdateExpression:    aws.String("SET trade_offer_id = :offerID, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(id)"),
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":offerID": &types.AttributeValueMemberS{Value: tradeOfferID},
						":now":     nowAV,
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			return fmt.Errorf("trade %s is not awaiting dispatch: %w", trade.Id, storage.ErrStateConflict)
		}
		return fmt.Errorf("failed to execute dispatch transaction: %w", err)
	}

	trade.Status = models.TradeAwaitingConfirmation
	trade.TradeOfferId = tradeOfferID
	trade.History = append(trade.History, models.TradeEvent{Status: models.TradeAwaitingConfirmation, At: now, Note: note})
	trade.UpdatedAt = now
	return nil
}

// RecordWebhook stores the raw payload of the latest gateway webhook on the
// trade. The trade's status is untouched.
func (s *Store) RecordWebhook(ctx context.Context, trade *models.Trade, payload string) error {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:           aws.String(s.TradesTableName),
		Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.Id}},
		UpdateExpression:    aws.String("SET webhook_payload = :payload, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":payload": &types.AttributeValueMemberS{Value: payload},
			":now":     nowAV,
		},
	}

	if _, err := s.Client.UpdateItem(ctx, input); err != nil {
		if conditionFailed(err) {
			return fmt.Errorf("trade %s: %w", trade.Id, storage.ErrNotFound)
		}
		return fmt.Errorf("failed to record webhook payload: %w", err)
	}

	trade.WebhookPayload = payload
	return nil
}
