package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSEnqueuer implements the Enqueuer interface using AWS SQS.
type SQSEnqueuer struct {
	Client   *sqs.Client
	QueueURL string
}

// NewSQSEnqueuer creates a new SQSEnqueuer.
func NewSQSEnqueuer(client *sqs.Client, queueURL string) *SQSEnqueuer {
	return &SQSEnqueuer{
		Client:   client,
		QueueURL: queueURL,
	}
}

// Make sure we conform to the interface
var _ Enqueuer = (*SQSEnqueuer)(nil)

// EnqueueGatewayEvent sends the event to an SQS queue for the webhook consumer.
func (s *SQSEnqueuer) EnqueueGatewayEvent(ctx context.Context, ev *GatewayEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal gateway event for SQS: %w", err)
	}

	_, err = s.Client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.QueueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	return nil
}
