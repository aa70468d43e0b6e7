package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/somema/somema-api/configs"
	"github.com/somema/somema-api/internal/transfer"
)

// RazorpayClient fetches provider-side subscription state. Only the
// read path the activation routine needs is implemented.
type RazorpayClient interface {
	FetchSubscription(ctx context.Context, subscriptionID string) (*transfer.SubscriptionEntity, error)
}

type razorpayClient struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

func NewRazorpayClient(cfg config.Config) RazorpayClient {
	return &razorpayClient{
		keyID:     cfg.Razorpay.KeyID,
		keySecret: cfg.Razorpay.KeySecret,
		baseURL:   "https://api.razorpay.com/v1",
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *razorpayClient) FetchSubscription(ctx context.Context, subscriptionID string) (*transfer.SubscriptionEntity, error) {
	url := fmt.Sprintf("%s/subscriptions/%s", c.baseURL, subscriptionID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("fetching subscription %s: %w", subscriptionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err = fmt.Errorf("razorpay returned %d: %s", resp.StatusCode, string(body))
		slog.Info(err.Error())
		return nil, err
	}

	var sub transfer.SubscriptionEntity
	if err := json.NewDecoder(resp.Body).Decode(&sub); err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return &sub, nil
}
