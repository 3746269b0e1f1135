package mail

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/travel-docs/internal/gateway"
)

func TestParseRecipients(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{name: "single", raw: "a@b.com", want: []string{"a@b.com"}},
		{name: "list with spaces", raw: " a@b.com , c@d.com ", want: []string{"a@b.com", "c@d.com"}},
		{name: "trailing comma", raw: "a@b.com,", want: []string{"a@b.com"}},
		{name: "one bad address", raw: "a@b.com, bad-email", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "only commas", raw: " , ,", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRecipients(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRecipient)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

type recordingCaller struct {
	action string
	params map[string]any
}

func (r *recordingCaller) Call(_ context.Context, action string, params map[string]any) (*gateway.Response, error) {
	r.action = action
	r.params = params
	return &gateway.Response{Success: true}, nil
}

func TestSender_Send(t *testing.T) {
	caller := &recordingCaller{}
	err := NewSender(caller, "Travel documents").Send(context.Background(), Message{
		To:          []string{"a@b.com", "c@d.com"},
		Body:        "Please find attached.",
		Attachments: []Attachment{{FileName: "receipt-RC-1.pdf", Content: []byte("%PDF-1.3")}},
	})
	require.NoError(t, err)

	assert.Equal(t, ActionSendEmail, caller.action)
	assert.Equal(t, "a@b.com,c@d.com", caller.params["to"])
	assert.Equal(t, "Travel documents", caller.params["subject"])
	attachments := caller.params["attachments"].([]map[string]any)
	require.Len(t, attachments, 1)
	assert.Equal(t, "receipt-RC-1.pdf", attachments[0]["filename"])
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("%PDF-1.3")), attachments[0]["pdfBase64"])
}

func TestSender_RequiresAttachment(t *testing.T) {
	caller := &recordingCaller{}
	err := NewSender(caller, "").Send(context.Background(), Message{To: []string{"a@b.com"}})
	assert.ErrorIs(t, err, ErrNoAttachments)
	assert.Empty(t, caller.action)
}
