package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler func(body map[string]any) (int, string)) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		status, reply := handler(body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestClient_CallSendsActionAndParams(t *testing.T) {
	client := newServer(t, func(body map[string]any) (int, string) {
		assert.Equal(t, "getInvoiceData", body["action"])
		assert.Equal(t, "42", body["invoice_id"])
		return http.StatusOK, `{"success":true,"data":{"invoice_number":"INV-1"}}`
	})

	resp, err := client.Call(context.Background(), "getInvoiceData", map[string]any{"invoice_id": "42"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "INV-1", resp.Data["invoice_number"])
}

func TestClient_CallWrapsListData(t *testing.T) {
	client := newServer(t, func(map[string]any) (int, string) {
		return http.StatusOK, `{"success":true,"data":[{"id":1},{"id":2}]}`
	})

	resp, err := client.Call(context.Background(), "getReceiptsByReferences", nil)
	require.NoError(t, err)
	items, ok := resp.Data["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)
}

func TestClient_CallFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		reply  string
		reason string
	}{
		{name: "success false", status: http.StatusOK, reply: `{"success":false,"error":"Invoice not found"}`, reason: "Invoice not found"},
		{name: "success false with message", status: http.StatusOK, reply: `{"success":false,"message":"denied"}`, reason: "denied"},
		{name: "server error", status: http.StatusInternalServerError, reply: `oops`, reason: "status 500"},
		{name: "not json", status: http.StatusOK, reply: `<html>`, reason: "decode envelope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newServer(t, func(map[string]any) (int, string) { return tt.status, tt.reply })
			_, err := client.Call(context.Background(), "getInvoiceData", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCallFailed)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestClient_CallUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	_, err := client.Call(context.Background(), "getInvoiceData", nil)
	assert.ErrorIs(t, err, ErrCallFailed)
}
