package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/givetix/donation-bridge/internal/domain"
	"github.com/givetix/donation-bridge/internal/logging"
)

// Client calls the external donation-creation API. Every request is bounded
// by the client timeout; failures are reported to the caller, never retried.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateRequest is the outbound donation-creation payload.
type CreateRequest struct {
	SourcePlatform string          `json:"sourcePlatform"`
	SourceOrderID  string          `json:"sourceOrderId"`
	SourceEventID  string          `json:"sourceEventId"`
	DonorName      string          `json:"donorName"`
	DonorEmail     string          `json:"donorEmail"`
	DonationValue  decimal.Decimal `json:"donationValue"`
	CampaignID     string          `json:"campaignId"`
}

type createResponse struct {
	DonationID     string    `json:"donationId"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	CertificateURL string    `json:"certificateUrl,omitempty"`
}

func (c *Client) CreateDonation(ctx context.Context, req CreateRequest) (*domain.GatewayResult, error) {
	log := logging.FromContext(ctx)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("CreateDonation: marshal: %w", err)
	}

	url := c.baseURL + "/donations"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("CreateDonation: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	log.Info("gateway request sent", "order_id", req.SourceOrderID, "campaign_id", req.CampaignID)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("CreateDonation: send: %w", err)
	}
	defer resp.Body.Close()

	log.Info("gateway response received",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("CreateDonation: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed createResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("CreateDonation: decode response: %w", err)
	}

	return &domain.GatewayResult{
		DonationID:     parsed.DonationID,
		Status:         parsed.Status,
		CreatedAt:      parsed.CreatedAt,
		CertificateURL: parsed.CertificateURL,
	}, nil
}
