package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/travel-docs/internal/mail"
	"github.com/nurpe/travel-docs/internal/metrics"
	"github.com/nurpe/travel-docs/internal/model"
)

type BulkOutcome string

const (
	BulkOutcomeSuccess BulkOutcome = "SUCCESS"
	BulkOutcomePartial BulkOutcome = "PARTIAL"
	BulkOutcomeFailed  BulkOutcome = "FAILED"
)

type DocumentGenerator interface {
	Generate(ctx context.Context, req DocumentRequest) (*GeneratedDocument, error)
}

type BulkEmailRequest struct {
	ReceiptIDs []string
	To         string
	Subject    string
	Message    string
	Signer     string
}

type RecordFailure struct {
	RecordID string `json:"record_id"`
	Error    string `json:"error"`
}

type BulkEmailResult struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	Outcome     BulkOutcome     `json:"outcome"`
	Recipients  []string        `json:"recipients"`
	Attachments []string        `json:"attachments"`
	Failures    []RecordFailure `json:"failures"`
}

type BulkEmailer struct {
	docs    DocumentGenerator
	mailer  MailSender
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewBulkEmailer(docs DocumentGenerator, mailer MailSender, m *metrics.Metrics, log zerolog.Logger) *BulkEmailer {
	return &BulkEmailer{docs: docs, mailer: mailer, metrics: m, log: log}
}

func (b *BulkEmailer) Send(ctx context.Context, req BulkEmailRequest) (*BulkEmailResult, error) {
	recipients, err := mail.ParseRecipients(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	ids := compactIDs(req.ReceiptIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no records selected", ErrValidationFailed)
	}

	result := &BulkEmailResult{
		BatchID:     uuid.New(),
		Recipients:  recipients,
		Attachments: []string{},
		Failures:    []RecordFailure{},
	}
	log := b.log.With().Str("batch_id", result.BatchID.String()).Logger()

	var attachments []mail.Attachment
	for _, id := range ids {
		generated, err := b.docs.Generate(ctx, DocumentRequest{
			Kind:     model.KindReceipt,
			RecordID: id,
			Signer:   req.Signer,
		})
		if err != nil {
			log.Warn().Err(err).Str("record_id", id).Msg("bulk email record failed")
			result.Failures = append(result.Failures, RecordFailure{RecordID: id, Error: err.Error()})
			continue
		}
		attachments = append(attachments, mail.Attachment{FileName: generated.FileName, Content: generated.Content})
		result.Attachments = append(result.Attachments, generated.FileName)
	}

	if len(attachments) == 0 {
		result.Outcome = BulkOutcomeFailed
		b.metrics.ObserveBatch(string(result.Outcome))
		log.Error().Int("records", len(ids)).Msg("bulk email skipped, no attachment generated")
		return result, fmt.Errorf("%w: %d of %d records failed", ErrBatchFailed, len(result.Failures), len(ids))
	}

	err = b.mailer.Send(ctx, mail.Message{
		To:          recipients,
		Subject:     req.Subject,
		Body:        req.Message,
		Attachments: attachments,
	})
	if err != nil {
		result.Outcome = BulkOutcomeFailed
		b.metrics.ObserveBatch(string(result.Outcome))
		log.Error().Err(err).Msg("bulk email send failed")
		return result, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	result.Outcome = BulkOutcomeSuccess
	if len(result.Failures) > 0 {
		result.Outcome = BulkOutcomePartial
	}
	b.metrics.ObserveBatch(string(result.Outcome))
	log.Info().
		Str("outcome", string(result.Outcome)).
		Int("attachments", len(result.Attachments)).
		Int("failures", len(result.Failures)).
		Msg("bulk email sent")
	return result, nil
}

func compactIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
