package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRequest() CreateRequest {
	return CreateRequest{
		SourcePlatform: "ticket-shop",
		SourceOrderID:  "SPL-1",
		SourceEventID:  "EVT-1",
		DonorName:      "Ada Umeh",
		DonorEmail:     "ada@example.com",
		DonationValue:  decimal.NewFromFloat(49.50),
		CampaignID:     "camp-42",
	}
}

func TestCreateDonation(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody CreateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"donationId":     "don-123",
			"status":         "created",
			"createdAt":      "2026-03-14T12:00:00Z",
			"certificateUrl": "https://donations.example/certs/don-123",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key-1", 2*time.Second)
	result, err := c.CreateDonation(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "/donations", gotPath)
	assert.Equal(t, "Bearer api-key-1", gotAuth)
	assert.Equal(t, "SPL-1", gotBody.SourceOrderID)
	assert.True(t, gotBody.DonationValue.Equal(decimal.NewFromFloat(49.50)))

	assert.Equal(t, "don-123", result.DonationID)
	assert.Equal(t, "created", result.Status)
	assert.Equal(t, "https://donations.example/certs/don-123", result.CertificateURL)
	assert.Equal(t, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), result.CreatedAt)
}

func TestCreateDonation_NoAuthHeaderWithoutKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"donationId": "don-1", "status": "created"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second)
	_, err := c.CreateDonation(context.Background(), testRequest())
	require.NoError(t, err)
}

func TestCreateDonation_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "campaign not found", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second)
	_, err := c.CreateDonation(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 422")
	assert.Contains(t, err.Error(), "campaign not found")
}

func TestCreateDonation_TimeoutIsHardFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 50*time.Millisecond)
	_, err := c.CreateDonation(context.Background(), testRequest())
	require.Error(t, err)
}

func TestCreateDonation_MalformedResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("not-json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 2*time.Second)
	_, err := c.CreateDonation(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
