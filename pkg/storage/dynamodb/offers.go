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
	"github.com/google/uuid"
	"github.com/skinsge/marketplace/pkg/models"
	"github.com/skinsge/marketplace/pkg/storage"
)

// offerLock is a marker row in the offers table that pins the (item, bidder)
// pair while the bidder has a pending offer. DynamoDB reaps it via the ttl
// attribute once the offer's expiry passes, so lazily-expired offers do not
// block the bidder forever.
type offerLock struct {
	ItemId  string `dynamodbav:"item_id"`
	OfferId string `dynamodbav:"offer_id"`
	TTL     int64  `dynamodbav:"ttl"`
}

func offerLockID(bidderID string) string {
	return fmt.Sprintf("PENDING#%s", bidderID)
}

// CreateOffer stores a new pending offer together with its (item, bidder)
// lock. A bidder with a live pending offer on the item fails the lock's
// condition and gets ErrDuplicatePendingOffer.
func (s *Store) CreateOffer(ctx context.Context, offer *models.Offer) (*models.Offer, error) {
	// 1. Complete the offer with server-side details.
	now := time.Now()
	if offer.Id == "" {
		offer.Id = uuid.New().String()
	}
	offer.Status = models.OfferPending
	offer.ExpiresAt = now.Add(models.OfferTTL)
	offer.CreatedAt = now
	offer.UpdatedAt = now

	offerAV, err := attributevalue.MarshalMap(offer)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer: %w", err)
	}
	lockAV, err := attributevalue.MarshalMap(offerLock{
		ItemId:  offer.ItemId,
		OfferId: offerLockID(offer.BidderId),
		TTL:     offer.ExpiresAt.Unix(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer lock: %w", err)
	}

	// 2. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Claim the (item, bidder) pending lock.
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                lockAV,
					ConditionExpression: aws.String("attribute_not_exists(offer_id)"),
				},
			},
			{
				// Operation 2: Create the offer record.
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                offerAV,
					ConditionExpression: aws.String("attribute_not_exists(offer_id)"),
				},
			},
		},
	}

	// 3. Execute the transaction.
	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			return nil, storage.ErrDuplicatePendingOffer
		}
		return nil, fmt.Errorf("failed to execute offer transaction: %w", err)
	}

	return offer, nil
}

// GetOffer retrieves a single offer from DynamoDB.
func (s *Store) GetOffer(ctx context.Context, itemID, offerID string) (*models.Offer, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"item_id": itemID, "offer_id": offerID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal offer key: %w", err)
	}

	result, err := s.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.OffersTableName),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get offer from DynamoDB: %w", err)
	}
	if result.Item == nil {
		return nil, fmt.Errorf("offer %s on item %s: %w", offerID, itemID, storage.ErrNotFound)
	}

	var offer models.Offer
	if err := attributevalue.UnmarshalMap(result.Item, &offer); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offer: %w", err)
	}

	return &offer, nil
}

// ListOffersByItem retrieves all offers on an item, newest first. Lock rows
// carry no bidder_id and are filtered out.
func (s *Store) ListOffersByItem(ctx context.Context, itemID string) ([]models.Offer, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.OffersTableName),
		KeyConditionExpression: aws.String("item_id = :itemID"),
		FilterExpression:       aws.String("attribute_exists(bidder_id)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":itemID": &types.AttributeValueMemberS{Value: itemID},
		},
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query offers by item: %w", err)
	}

	var offers []models.Offer
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &offers); err != nil {
		return nil, fmt.Errorf("failed to unmarshal offers: %w", err)
	}

	sort.Slice(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
	return offers, nil
}

// UpdateOfferStatus moves an offer out of pending and releases its lock.
func (s *Store) UpdateOfferStatus(ctx context.Context, offer *models.Offer, to models.OfferStatus) error {
	nowAV, err := attributevalue.Marshal(time.Now())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp for offer update: %w", err)
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Update the offer, guarded on its pending status.
				Update: &types.Update{
					TableName: aws.String(s.OffersTableName),
					Key: map[string]types.AttributeValue{
						"item_id":  &types.AttributeValueMemberS{Value: offer.ItemId},
						"offer_id": &types.AttributeValueMemberS{Value: offer.Id},
					},
					UpdateExpression:    aws.String("SET #status = :to, updated_at = :now"),
					ConditionExpression: aws.String("#status = :pending"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":to":      &types.AttributeValueMemberS{Value: string(to)},
						":pending": &types.AttributeValueMemberS{Value: string(models.OfferPending)},
						":now":     nowAV,
					},
				},
			},
			{
				// Operation 2: Release the (item, bidder) pending lock.
				Delete: &types.Delete{
					TableName: aws.String(s.OffersTableName),
					Key: map[string]types.AttributeValue{
						"item_id":  &types.AttributeValueMemberS{Value: offer.ItemId},
						"offer_id": &types.AttributeValueMemberS{Value: offerLockID(offer.BidderId)},
					},
				},
			},
		},
	}

	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			return storage.ErrOfferNotPending
		}
		return fmt.Errorf("failed to execute offer status transaction: %w", err)
	}

	offer.Status = to
	return nil
}

// CounterOffer atomically declines the original offer and creates the counter
// in its place. The (item, bidder) lock carries over to the counter with a
// refreshed expiry.
func (s *Store) CounterOffer(ctx context.Context, original *models.Offer, counter *models.Offer) (*models.Offer, error) {
	// 1. Complete the counter with server-side details.
	now := time.Now()
	if counter.Id == "" {
		counter.Id = uuid.New().String()
	}
	counter.ItemId = original.ItemId
	counter.BidderId = original.BidderId
	counter.Status = models.OfferPending
	counter.CounterOf = original.Id
	counter.ExpiresAt = now.Add(models.OfferTTL)
	counter.CreatedAt = now
	counter.UpdatedAt = now

	counterAV, err := attributevalue.MarshalMap(counter)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal counter offer: %w", err)
	}
	nowAV, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp for counter offer: %w", err)
	}

	// 2. Construct the TransactWriteItems input.
	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Decline the original, guarded on its pending status.
				Update: &types.Update{
					TableName: aws.String(s.OffersTableName),
					Key: map[string]types.AttributeValue{
						"item_id":  &types.AttributeValueMemberS{Value: original.ItemId},
						"offer_id": &types.AttributeValueMemberS{Value: original.Id},
					},
					UpdateExpression:    aws.String("SET #status = :declined, updated_at = :now"),
					ConditionExpression: aws.String("#status = :pending"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":declined": &types.AttributeValueMemberS{Value: string(models.OfferDeclined)},
						":pending":  &types.AttributeValueMemberS{Value: string(models.OfferPending)},
						":now":      nowAV,
					},
				},
			},
			{
				// Operation 2: Create the counter offer.
				Put: &types.Put{
					TableName:           aws.String(s.OffersTableName),
					Item:                counterAV,
					ConditionExpression: aws.String("attribute_not_exists(offer_id)"),
				},
			},
			{
				// Operation 3: Refresh the lock's expiry to match the counter.
				Update: &types.Update{
					TableName: aws.String(s.OffersTableName),
					Key: map[string]types.AttributeValue{
						"item_id":  &types.AttributeValueMemberS{Value: original.ItemId},
						"offer_id": &types.AttributeValueMemberS{Value: offerLockID(original.BidderId)},
					},
					UpdateExpression: aws.String("SET #ttl = :ttl"),
					ExpressionAttributeNames: map[string]string{
						"#ttl": "ttl",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":ttl": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", counter.ExpiresAt.Unix())},
					},
				},
			},
		},
	}

	// 3. Execute the transaction.
	if _, err := s.Client.TransactWriteItems(ctx, input); err != nil {
		if transactConditionFailedAt(err, 0) {
			return nil, storage.ErrOfferNotPending
		}
		return nil, fmt.Errorf("failed to execute counter offer transaction: %w", err)
	}

	return counter, nil
}
