package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewaymanagementapi/types"
)

// ApiGatewayPublisher delivers notifications over API Gateway WebSocket
// connections registered for the target user.
type ApiGatewayPublisher struct {
	client      *apigatewaymanagementapi.Client
	connManager ConnectionManager
}

// NewApiGatewayPublisher creates a publisher bound to the given WebSocket
// management endpoint.
func NewApiGatewayPublisher(ctx context.Context, endpoint string, connManager ConnectionManager) (*ApiGatewayPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := apigatewaymanagementapi.NewFromConfig(cfg, func(o *apigatewaymanagementapi.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &ApiGatewayPublisher{client: client, connManager: connManager}, nil
}

// Make sure we conform to the interface
var _ Publisher = (*ApiGatewayPublisher)(nil)

// Push delivers the notification to every live connection of the target user.
// Stale connections are pruned as they are discovered; other delivery errors
// are logged and swallowed.
func (p *ApiGatewayPublisher) Push(ctx context.Context, n Notification) error {
	connectionIDs, err := p.connManager.GetConnectionsByUser(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("failed to get connections for user %s: %w", n.UserID, err)
	}

	payload, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	for _, connectionID := range connectionIDs {
		_, err := p.client.PostToConnection(ctx, &apigatewaymanagementapi.PostToConnectionInput{
			ConnectionId: aws.String(connectionID),
			Data:         payload,
		})

		if err != nil {
			var goneErr *apigwtypes.GoneException
			if errors.As(err, &goneErr) {
				slog.Info("stale connection found, deleting", "connectionId", connectionID)
				if err := p.connManager.RemoveConnection(ctx, connectionID); err != nil {
					slog.Error("failed to delete stale connection", "error", err)
				}
			} else {
				slog.Error("failed to post to connection", "connectionId", connectionID, "error", err)
			}
		}
	}

	return nil
}
