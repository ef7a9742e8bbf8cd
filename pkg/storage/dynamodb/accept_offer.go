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

// AcceptOfferAndCreateTrade is the accepted-offer path into the trade
// lifecycle. In one atomic write it marks the accepted offer, declines every
// other pending offer on the item, delists the item, records the buyer's
// reservation and creates the trade.
func (s *Store) AcceptOfferAndCreateTrade(ctx context.Context, accepted *models.Offer, otherPending []models.Offer, trade *models.Trade) (*models.Trade, error) {
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
			// Operation 2: Accept the winning offer, guarded on its pending status.
			Update: &types.Update{
				TableName: aws.String(s.OffersTableName),
				Key: map[string]types.AttributeValue{
					"item_id":  &types.AttributeValueMemberS{Value: accepted.ItemId},
					"offer_id": &types.AttributeValueMemberS{Value: accepted.Id},
				},
				UpdateExpression:    aws.String("SET #status = :accepted, updated_at = :now"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":accepted": &types.AttributeValueMemberS{Value: string(models.OfferAccepted)},
					":pending":  &types.AttributeValueMemberS{Value: string(models.OfferPending)},
					":now":      nowAV,
				},
			},
		},
		{
			// Operation 3: Release the winner's pending lock.
			Delete: &types.Delete{
				TableName: aws.String(s.OffersTableName),
				Key: map[string]types.AttributeValue{
					"item_id":  &types.AttributeValueMemberS{Value: accepted.ItemId},
					"offer_id": &types.AttributeValueMemberS{Value: offerLockID(accepted.BidderId)},
				},
			},
		},
	}

	// Decline the losing offers. No status guard: the item is sold, so a
	// concurrent change to a rival offer must not abort the sale.
	for _, o := range otherPending {
		items = append(items,
			types.TransactWriteItem{
				Update: &types.Update{
					TableName: aws.String(s.OffersTableName),
					Key: map[string]types.AttributeValue{
						"item_id":  &types.AttributeValueMemberS{Value: o.ItemId},
						"offer_id": &types.AttributeValueMemberS{Value: o.Id},
					},
					UpdateExpression:    aws.String("SET #status = :declined, updated_at = :now"),
					ConditionExpression: aws.String("attribute_exists(offer_id)"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":declined": &types.AttributeValueMemberS{Value: string(models.OfferDeclined)},
						":now":      nowAV,
					},
				},
			},
			types.TransactWriteItem{
				Delete: &types.Delete{
					TableName: aws.String(s.OffersTableName),
					Key: map[string]types.AttributeValue{
						"item_id":  &types.AttributeValueMemberS{Value: o.ItemId},
						"offer_id": &types.AttributeValueMemberS{Value: offerLockID(o.BidderId)},
					},
				},
			},
		)
	}

	items = append(items,
		types.TransactWriteItem{
			// Record the buyer's advisory reservation.
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                reservationAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		},
		types.TransactWriteItem{
			// Create the trade record.
			Put: &types.Put{
				TableName:           aws.String(s.TradesTableName),
				Item:                tradeAV,
				ConditionExpression: aws.String("attribute_not_exists(id)"),
			},
		},
	)

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if transactConditionFailedAt(err, 0) {
			return nil, storage.ErrNotListed
		}
		if transactConditionFailedAt(err, 1) {
			return nil, storage.ErrOfferNotPending
		}
		return nil, fmt.Errorf("failed to execute offer acceptance transaction: %w", err)
	}

	return trade, nil
}
