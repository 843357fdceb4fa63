package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient("", "").Configured())
	assert.False(t, NewClient("token", "").Configured())
	assert.True(t, NewClient("token", "42").Configured())
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotBody sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(sendMessageResponse{OK: true})
	}))
	defer srv.Close()

	c := NewClient("secret-token", "42")
	c.baseURL = srv.URL

	err := c.SendMessage(context.Background(), "<b>hello</b>")
	require.NoError(t, err)
	assert.Equal(t, "/botsecret-token/sendMessage", gotPath)
	assert.Equal(t, "42", gotBody.ChatID)
	assert.Equal(t, "HTML", gotBody.ParseMode)
}

func TestSendMessageAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sendMessageResponse{OK: false, ErrorCode: 400, Description: "chat not found"})
	}))
	defer srv.Close()

	c := NewClient("secret-token", "42")
	c.baseURL = srv.URL

	err := c.SendMessage(context.Background(), "hi")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "chat not found", apiErr.Description)
}
