package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/travel-docs/internal/gateway"
	"github.com/nurpe/travel-docs/internal/model"
)

type stubGenerator struct {
	fail  map[string]bool
	calls []string
}

func (s *stubGenerator) Generate(_ context.Context, req DocumentRequest) (*GeneratedDocument, error) {
	s.calls = append(s.calls, req.RecordID)
	if req.Kind != model.KindReceipt {
		return nil, fmt.Errorf("unexpected kind %s", req.Kind)
	}
	if s.fail[req.RecordID] {
		return nil, fmt.Errorf("%w: rasterize: target closed", ErrGenerationFailed)
	}
	return &GeneratedDocument{FileName: "receipt-" + req.RecordID + ".pdf", Content: []byte("%PDF"), Pages: 1}, nil
}

func TestBulkEmail_PartialFailure(t *testing.T) {
	gen := &stubGenerator{fail: map[string]bool{"R2": true}}
	mailer := &fakeMailer{}

	res, err := NewBulkEmailer(gen, mailer, nil, zerolog.Nop()).Send(context.Background(), BulkEmailRequest{
		ReceiptIDs: []string{"R1", "R2", "R3"},
		To:         "a@b.com",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"R1", "R2", "R3"}, gen.calls)
	assert.Equal(t, BulkOutcomePartial, res.Outcome)
	assert.Equal(t, []string{"receipt-R1.pdf", "receipt-R3.pdf"}, res.Attachments)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "R2", res.Failures[0].RecordID)
	assert.Contains(t, res.Failures[0].Error, "target closed")

	require.Len(t, mailer.sent, 1)
	assert.Len(t, mailer.sent[0].Attachments, 2)
}

func TestBulkEmail_AllSucceed(t *testing.T) {
	mailer := &fakeMailer{}
	res, err := NewBulkEmailer(&stubGenerator{}, mailer, nil, zerolog.Nop()).Send(context.Background(), BulkEmailRequest{
		ReceiptIDs: []string{"R1", " ", "R2"},
		To:         "a@b.com, c@d.com",
	})
	require.NoError(t, err)
	assert.Equal(t, BulkOutcomeSuccess, res.Outcome)
	assert.Empty(t, res.Failures)
	assert.Len(t, res.Attachments, 2)
	assert.Equal(t, []string{"a@b.com", "c@d.com"}, mailer.sent[0].To)
}

func TestBulkEmail_AllFailSkipsSend(t *testing.T) {
	gen := &stubGenerator{fail: map[string]bool{"R1": true, "R2": true}}
	mailer := &fakeMailer{}

	res, err := NewBulkEmailer(gen, mailer, nil, zerolog.Nop()).Send(context.Background(), BulkEmailRequest{
		ReceiptIDs: []string{"R1", "R2"},
		To:         "a@b.com",
	})
	assert.ErrorIs(t, err, ErrBatchFailed)
	require.NotNil(t, res)
	assert.Equal(t, BulkOutcomeFailed, res.Outcome)
	assert.Len(t, res.Failures, 2)
	assert.Empty(t, mailer.sent)
}

func TestBulkEmail_SendFailure(t *testing.T) {
	mailer := &fakeMailer{err: gateway.ErrCallFailed}
	res, err := NewBulkEmailer(&stubGenerator{}, mailer, nil, zerolog.Nop()).Send(context.Background(), BulkEmailRequest{
		ReceiptIDs: []string{"R1"},
		To:         "a@b.com",
	})
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Equal(t, BulkOutcomeFailed, res.Outcome)
}

func TestBulkEmail_Validation(t *testing.T) {
	gen := &stubGenerator{}
	bulk := NewBulkEmailer(gen, &fakeMailer{}, nil, zerolog.Nop())

	_, err := bulk.Send(context.Background(), BulkEmailRequest{ReceiptIDs: []string{"R1"}, To: "a@b.com, bad-email"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = bulk.Send(context.Background(), BulkEmailRequest{ReceiptIDs: []string{" "}, To: "a@b.com"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	assert.Empty(t, gen.calls)
}
