package provider_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlinehq/chatline/internal/provider"
)

func twilioCreds() provider.Credentials {
	return provider.Credentials{
		"accountSid": "AC123",
		"authToken":  "secret",
	}
}

func TestTwilio_Send_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/Accounts/AC123/Messages.json", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15550001111", r.PostFormValue("From"))
		assert.Equal(t, "+15557772222", r.PostFormValue("To"))
		assert.Equal(t, "hello", r.PostFormValue("Body"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sid":    "SM123",
			"status": "queued",
		})
	}))
	defer server.Close()

	adapter := provider.NewTwilioWithBaseURL(resty.New(), server.URL)

	result, err := adapter.Send(context.Background(), twilioCreds(), "+15550001111", "+15557772222", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM123", result.MessageID)
	assert.Equal(t, "queued", result.Status)
}

func TestTwilio_Send_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"code":    21211,
			"message": "The 'To' number is not a valid phone number.",
		})
	}))
	defer server.Close()

	adapter := provider.NewTwilioWithBaseURL(resty.New(), server.URL)

	_, err := adapter.Send(context.Background(), twilioCreds(), "+1555", "bogus", "hello")
	require.Error(t, err)

	var apiErr *provider.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, provider.KindTwilio, apiErr.Kind)
	assert.Equal(t, "21211", apiErr.Code)
	assert.Contains(t, apiErr.Detail, "not a valid phone number")
}

func TestTwilio_Send_MissingCredentials(t *testing.T) {
	adapter := provider.NewTwilioWithBaseURL(resty.New(), "http://localhost:0")

	_, err := adapter.Send(context.Background(), provider.Credentials{}, "+1", "+2", "x")
	var apiErr *provider.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Detail, "accountSid")
}

func TestTwilio_Send_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := resty.New().SetTimeout(20 * time.Millisecond)
	adapter := provider.NewTwilioWithBaseURL(client, server.URL)

	_, err := adapter.Send(context.Background(), twilioCreds(), "+1", "+2", "x")
	assert.ErrorIs(t, err, provider.ErrTimeout)
}

func TestTwilio_TestConnection(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/Accounts/AC123.json", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]string{"friendly_name": "Acme Corp"})
		}))
		defer server.Close()

		adapter := provider.NewTwilioWithBaseURL(resty.New(), server.URL)
		result, err := adapter.TestConnection(context.Background(), twilioCreds())
		require.NoError(t, err)
		assert.True(t, result.OK)
		assert.Contains(t, result.Message, "Acme Corp")
	})

	t.Run("rejected credentials", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer server.Close()

		adapter := provider.NewTwilioWithBaseURL(resty.New(), server.URL)
		result, err := adapter.TestConnection(context.Background(), twilioCreds())
		require.NoError(t, err)
		assert.False(t, result.OK)
	})

	t.Run("missing credentials", func(t *testing.T) {
		adapter := provider.NewTwilioWithBaseURL(resty.New(), "http://localhost:0")
		result, err := adapter.TestConnection(context.Background(), provider.Credentials{"accountSid": "AC123"})
		require.NoError(t, err)
		assert.False(t, result.OK)
	})
}
