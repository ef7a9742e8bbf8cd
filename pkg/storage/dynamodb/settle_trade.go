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

// SettleTrade performs the final atomic settlement of a confirmed trade:
// debit the buyer, credit the seller net of the platform fee, complete the
// reservation entry, append the sale and fee entries, transfer item ownership
// and mark the trade completed.
//
// The buyer's balance condition re-validates the advisory reservation made at
// trade creation. If the buyer spent the money elsewhere in the meantime,
// the whole settlement fails with ErrInsufficientFunds and the trade stays in
// awaiting_confirmation.
func (s *Store) SettleTrade(ctx context.Context, trade *models.Trade) error {
	// 1. Get the current state of both wallets for optimistic locking. The
	// seller may never have held a wallet in the trade's currency.
	buyerWallet, err := s.GetWallet(ctx, trade.BuyerId, trade.Currency)
	if err != nil {
		return fmt.Errorf("failed to get buyer's wallet for settlement: %w", err)
	}
	sellerWallet, err := s.ensureWallet(ctx, trade.SellerId, trade.Currency)
	if err != nil {
		return fmt.Errorf("failed to get seller's wallet for settlement: %w", err)
	}

	// 2. Prepare common values.
	now := time.Now()
	net := trade.Price - trade.Fee

	saleEntry := models.LedgerEntry{
		EntryID:     uuid.New().String(),
		TradeID:     trade.Id,
		UserID:      trade.SellerId,
		Type:        models.EntrySale,
		Amount:      trade.Price,
		Currency:    trade.Currency,
		Status:      models.EntryCompleted,
		Description: fmt.Sprintf("Sale proceeds for trade %s", trade.Id),
		Timestamp:   now,
		GSI1PK:      "LEDGER_ENTRIES",
	}
	feeEntry := models.LedgerEntry{
		EntryID:     uuid.New().String(),
		TradeID:     trade.Id,
		UserID:      trade.SellerId,
		Type:        models.EntryFee,
		Amount:      -trade.Fee,
		Currency:    trade.Currency,
		Status:      models.EntryCompleted,
		Description: fmt.Sprintf("Platform fee for trade %s", trade.Id),
		Timestamp:   now,
		GSI1PK:      "LEDGER_ENTRIES",
	}
	saleAV, err := attributevalue.MarshalMap(saleEntry)
	if err != nil {
		return fmt.Errorf("failed to marshal sale entry: %w", err)
	}
	feeAV, err := attributevalue.MarshalMap(feeEntry)
	if err != nil {
		return fmt.Errorf("failed to marshal fee entry: %w", err)
	}
	eventAV, err := historyEventAV(models.TradeCompleted, now, "buyer confirmed receipt")
	if err != nil {
		return fmt.Errorf("failed to marshal history event: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	// 3. Construct the TransactWriteItems input.
	items := []types.TransactWriteItem{
		{
			// Operation 1: Debit the buyer, re-validating the balance.
			Update: &types.Update{
				TableName: aws.String(s.WalletsTableName),
				Key: map[string]types.AttributeValue{
					"user_id":  &types.AttributeValueMemberS{Value: trade.BuyerId},
					"currency": &types.AttributeValueMemberS{Value: string(trade.Currency)},
				},
				UpdateExpression:    aws.String("SET balance = balance - :price, version = version + :inc"),
				ConditionExpression: aws.String("balance >= :price AND version = :version"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":price":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", trade.Price)},
					":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", buyerWallet.Version)},
					":inc":     &types.AttributeValueMemberN{Value: "1"},
				},
			},
		},
		{
			// Operation 2: Credit the seller net of the platform fee.
			Update: &types.Update{
				TableName: aws.String(s.WalletsTableName),
				Key: map[string]types.AttributeValue{
					"user_id":  &types.AttributeValueMemberS{Value: trade.SellerId},
					"currency": &types.AttributeValueMemberS{Value: string(trade.Currency)},
				},
				UpdateExpression:    aws.String("SET balance = balance + :net, version = version + :inc"),
				ConditionExpression: aws.String("version = :version"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":net":     &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", net)},
					":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", sellerWallet.Version)},
					":inc":     &types.AttributeValueMemberN{Value: "1"},
				},
			},
		},
		{
			// Operation 3: Complete the buyer's reservation entry.
			Update: &types.Update{
				TableName:           aws.String(s.LedgerTableName),
				Key:                 map[string]types.AttributeValue{"entry_id": &types.AttributeValueMemberS{Value: trade.ReservationId}},
				UpdateExpression:    aws.String("SET #status = :completed"),
				ConditionExpression: aws.String("#status = :pending"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed": &types.AttributeValueMemberS{Value: string(models.EntryCompleted)},
					":pending":   &types.AttributeValueMemberS{Value: string(models.EntryPending)},
				},
			},
		},
		{
			// Operation 4: Create the sale ledger entry.
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                saleAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		},
		{
			// Operation 5: Create the fee ledger entry.
			Put: &types.Put{
				TableName:           aws.String(s.LedgerTableName),
				Item:                feeAV,
				ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
			},
		},
		{
			// Operation 6: Mark the trade completed.
			Update: &types.Update{
				TableName:           aws.String(s.TradesTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.Id}},
				UpdateExpression:    aws.String("SET #status = :completed, completed_at = :now, history = list_append(history, :event), updated_at = :now"),
				ConditionExpression: aws.String("#status = :awaiting"),
				ExpressionAttributeNames: map[string]string{
					"#status": "status",
				},
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":completed": &types.AttributeValueMemberS{Value: string(models.TradeCompleted)},
					":awaiting":  &types.AttributeValueMemberS{Value: string(models.TradeAwaitingConfirmation)},
					":event":     eventAV,
					":now":       nowAV,
				},
			},
		},
		{
			// Operation 7: Transfer the item to the buyer, off sale.
			Update: &types.Update{
				TableName:           aws.String(s.ItemsTableName),
				Key:                 map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: trade.ItemId}},
				UpdateExpression:    aws.String("SET owner_id = :buyer, is_listed = :false, trade_status = :completedStatus, updated_at = :now REMOVE trade_offer_id"),
				ConditionExpression: aws.String("attribute_exists(id)"),
				ExpressionAttributeValues: map[string]types.AttributeValue{
					":buyer":           &types.AttributeValueMemberS{Value: trade.BuyerId},
					":false":           &types.AttributeValueMemberBOOL{Value: false},
					":completedStatus": &types.AttributeValueMemberS{Value: string(models.ItemTradeCompleted)},
					":now":             nowAV,
				},
			},
		},
		{
			// Operation 8: Release the seller's (owner, asset) listing lock.
			Delete: &types.Delete{
				TableName: aws.String(s.ItemsTableName),
				Key:       map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: listingLockID(trade.SellerId, trade.AssetId)}},
			},
		},
	}

	// 4. Execute the transaction.
	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		if transactConditionFailedAt(err, 0) {
			return storage.ErrInsufficientFunds
		}
		if transactConditionFailedAt(err, 5) {
			return fmt.Errorf("trade %s is not awaiting confirmation: %w", trade.Id, storage.ErrStateConflict)
		}
		return fmt.Errorf("failed to execute settlement transaction: %w", err)
	}

	trade.Status = models.TradeCompleted
	trade.CompletedAt = &now
	trade.History = append(trade.History, models.TradeEvent{Status: models.TradeCompleted, At: now, Note: "buyer confirmed receipt"})
	trade.UpdatedAt = now
	return nil
}
