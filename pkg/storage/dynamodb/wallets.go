package dynamodb

import (
	"context"
	"errors"
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

// GetWallet retrieves a user's wallet for one currency.
func (s *Store) GetWallet(ctx context.Context, userID string, currency models.Currency) (*models.Wallet, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"user_id": userID, "currency": string(currency)})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.WalletsTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("wallet for user %s in %s: %w", userID, currency, storage.ErrNotFound)
	}

	var wallet models.Wallet
	if err := attributevalue.UnmarshalMap(result.Item, &wallet); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallet: %w", err)
	}

	return &wallet, nil
}

// CreateWallet creates a new wallet record in DynamoDB.
func (s *Store) CreateWallet(ctx context.Context, wallet *models.Wallet) (*models.Wallet, error) {
	wallet.CreatedAt = time.Now()
	walletAV, err := attributevalue.MarshalMap(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wallet: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.WalletsTableName),
		Item:                walletAV,
		ConditionExpression: aws.String("attribute_not_exists(user_id)"), // Prevent overwriting existing wallets.
	}

	if _, err := s.Client.PutItem(ctx, input); err != nil {
		if conditionFailed(err) {
			return nil, fmt.Errorf("wallet for user %s in %s already exists", wallet.UserId, wallet.Currency)
		}
		return nil, fmt.Errorf("failed to create wallet in DynamoDB: %w", err)
	}

	return wallet, nil
}

// ListWalletsByUser retrieves all of a user's wallets.
func (s *Store) ListWalletsByUser(ctx context.Context, userID string) ([]models.Wallet, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.WalletsTableName),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query wallets by user: %w", err)
	}

	var wallets []models.Wallet
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &wallets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal wallets: %w", err)
	}

	return wallets, nil
}

// ensureWallet returns the user's wallet, creating an empty one if none exists.
func (s *Store) ensureWallet(ctx context.Context, userID string, currency models.Currency) (*models.Wallet, error) {
	wallet, err := s.GetWallet(ctx, userID, currency)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	return s.CreateWallet(ctx, &models.Wallet{UserId: userID, Currency: currency})
}

// Deposit credits the wallet and appends a completed deposit ledger entry in
// the same atomic write.
func (s *Store) Deposit(ctx context.Context, userID string, currency models.Currency, amount int64) (*models.Wallet, error) {
	wallet, err := s.ensureWallet(ctx, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for deposit: %w", err)
	}

	entry := models.LedgerEntry{
		EntryID:     uuid.New().String(),
		UserID:      userID,
		Type:        models.EntryDeposit,
		Amount:      amount,
		Currency:    currency,
		Status:      models.EntryCompleted,
		Description: "Deposit",
		Timestamp:   time.Now(),
		GSI1PK:      "LEDGER_ENTRIES",
	}

	if err := s.moveBalance(ctx, wallet, amount, "", entry); err != nil {
		return nil, err
	}

	wallet.Balance += amount
	wallet.Version++
	return wallet, nil
}

// Withdraw debits the wallet and appends a completed withdrawal ledger entry
// atomically.
func (s *Store) Withdraw(ctx context.Context, userID string, currency models.Currency, amount int64) (*models.Wallet, error) {
	wallet, err := s.GetWallet(ctx, userID, currency)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for withdrawal: %w", err)
	}
	if wallet.Balance < amount {
		return nil, storage.ErrInsufficientFunds
	}

	entry := models.LedgerEntry{
		EntryID:     uuid.New().String(),
		UserID:      userID,
		Type:        models.EntryWithdrawal,
		Amount:      -amount,
		Currency:    currency,
		Status:      models.EntryCompleted,
		Description: "Withdrawal",
		Timestamp:   time.Now(),
		GSI1PK:      "LEDGER_ENTRIES",
	}

	if err := s.moveBalance(ctx, wallet, -amount, "balance >= :abs AND ", entry); err != nil {
		return nil, err
	}

	wallet.Balance -= amount
	wallet.Version++
	return wallet, nil
}

// moveBalance applies a signed balance delta and writes the ledger entry in
// one transaction, guarded by the wallet's version.
func (s *Store) moveBalance(ctx context.Context, wallet *models.Wallet, delta int64, balanceGuard string, entry models.LedgerEntry) error {
	entryAV, err := attributevalue.MarshalMap(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry: %w", err)
	}

	values := map[string]types.AttributeValue{
		":delta":   &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
		":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", wallet.Version)},
		":inc":     &types.AttributeValueMemberN{Value: "1"},
	}
	if balanceGuard != "" {
		abs := delta
		if abs < 0 {
			abs = -abs
		}
		values[":abs"] = &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", abs)}
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Apply the balance delta.
				Update: &types.Update{
					TableName: aws.String(s.WalletsTableName),
					Key: map[string]types.AttributeValue{
						"user_id":  &types.AttributeValueMemberS{Value: wallet.UserId},
						"currency": &types.AttributeValueMemberS{Value: string(wallet.Currency)},
					},
					UpdateExpression:          aws.String("SET balance = balance + :delta, version = version + :inc"),
					ConditionExpression:       aws.String(balanceGuard + "version = :version"),
					ExpressionAttributeValues: values,
				},
			},
			{
				// Operation 2: Record the ledger entry.
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                entryAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			if delta < 0 {
				return storage.ErrInsufficientFunds
			}
			return fmt.Errorf("wallet for user %s changed concurrently: %w", wallet.UserId, storage.ErrStateConflict)
		}
		return fmt.Errorf("failed to execute wallet transaction: %w", err)
	}

	return nil
}
