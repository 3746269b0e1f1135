package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nurpe/travel-docs/internal/assembler"
	"github.com/nurpe/travel-docs/internal/config"
	"github.com/nurpe/travel-docs/internal/mail"
	"github.com/nurpe/travel-docs/internal/mapper"
	"github.com/nurpe/travel-docs/internal/metrics"
	"github.com/nurpe/travel-docs/internal/model"
	"github.com/nurpe/travel-docs/internal/pdf"
	"github.com/nurpe/travel-docs/internal/raster"
	"github.com/nurpe/travel-docs/internal/render"
)

type DocumentLoader interface {
	Load(ctx context.Context, req mapper.Request) (*model.PrintableDocument, error)
}

type Rasterizer interface {
	Rasterize(ctx context.Context, html string) (*raster.Image, error)
}

type PDFAssembler interface {
	Generate(img raster.Image, logicalPages int) (*pdf.Result, error)
}

type SpreadsheetExporter interface {
	Generate(doc assembler.Document) ([]byte, error)
}

type MailSender interface {
	Send(ctx context.Context, msg mail.Message) error
}

type GenerationLog interface {
	Create(ctx context.Context, record *model.GenerationRecord) error
	ListRecent(ctx context.Context, limit int) ([]model.GenerationRecord, error)
}

type Dependencies struct {
	Loader     DocumentLoader
	Renderer   render.Renderer
	Rasterizer Rasterizer
	PDF        PDFAssembler
	Excel      SpreadsheetExporter
	Mailer     MailSender
	Log        GenerationLog
	Metrics    *metrics.Metrics
}

type DocumentService struct {
	deps        Dependencies
	maxAttempts int
	retryDelay  time.Duration
	log         zerolog.Logger
	now         func() time.Time
	sleep       func(ctx context.Context, d time.Duration) error
}

type DocumentRequest struct {
	Kind               model.Kind
	RecordID           string
	References         []string
	SelectedPassengers []string
	Signer             string
}

type GeneratedDocument struct {
	FileName     string
	Content      []byte
	Pages        int
	LogicalPages int
	Task         Snapshot
}

type ExportResult struct {
	FileName string
	Content  []byte
}

type EmailRequest struct {
	DocumentRequest
	To      string
	Subject string
	Message string
}

type EmailResult struct {
	Recipients []string `json:"recipients"`
	Attachment string   `json:"attachment"`
	Pages      int      `json:"pages"`
}

func NewDocumentService(deps Dependencies, cfg config.GenerationConfig, log zerolog.Logger) *DocumentService {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &DocumentService{
		deps:        deps,
		maxAttempts: attempts,
		retryDelay:  cfg.RetryDelay,
		log:         log,
		now:         time.Now,
		sleep:       sleepContext,
	}
}

// Generate retries render, rasterize and PDF assembly. Fetch failures and the size ceiling are terminal.
func (s *DocumentService) Generate(ctx context.Context, req DocumentRequest) (*GeneratedDocument, error) {
	task := NewTask()

	if err := validateRequest(req); err != nil {
		_ = task.Fail(err.Error())
		return nil, err
	}

	_ = task.Fetch()
	doc, err := s.load(ctx, req)
	if err != nil {
		return nil, s.finish(ctx, req, task, nil, err)
	}

	assembled, err := assembler.Assemble(*doc)
	if err != nil {
		_ = task.Generate()
		return nil, s.finish(ctx, req, task, nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err))
	}

	for {
		_ = task.Generate()
		attempt := task.Snapshot().Attempt

		result, err := s.renderPDF(ctx, assembled)
		if err == nil {
			s.deps.Metrics.ObserveAttempt(req.Kind, metrics.AttemptSuccess)
			out := &GeneratedDocument{
				FileName:     assembled.FileBase() + ".pdf",
				Content:      result.Content,
				Pages:        result.Pages,
				LogicalPages: assembled.LogicalPages(),
			}
			if err := s.finish(ctx, req, task, out, nil); err != nil {
				return nil, err
			}
			return out, nil
		}

		terminal := errors.Is(err, ErrDocumentTooLarge) || attempt >= s.maxAttempts || ctx.Err() != nil
		if terminal {
			s.deps.Metrics.ObserveAttempt(req.Kind, metrics.AttemptFailed)
			return nil, s.finish(ctx, req, task, nil, err)
		}

		s.deps.Metrics.ObserveAttempt(req.Kind, metrics.AttemptRetry)
		_ = task.Retry()
		s.log.Warn().
			Err(err).
			Str("kind", string(req.Kind)).
			Str("record_id", req.RecordID).
			Stringer("task", task.Snapshot()).
			Msg("document generation failed, retrying")

		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return nil, s.finish(ctx, req, task, nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err))
		}
	}
}

func (s *DocumentService) Preview(ctx context.Context, req DocumentRequest) (string, error) {
	assembled, err := s.prepare(ctx, req)
	if err != nil {
		return "", err
	}
	html, err := s.deps.Renderer.RenderHTML(assembled)
	if err != nil {
		return "", fmt.Errorf("%w: render html: %v", ErrGenerationFailed, err)
	}
	return html, nil
}

func (s *DocumentService) ExportXLSX(ctx context.Context, req DocumentRequest) (*ExportResult, error) {
	assembled, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	content, err := s.deps.Excel.Generate(assembled)
	if err != nil {
		return nil, fmt.Errorf("%w: export xlsx: %v", ErrGenerationFailed, err)
	}
	return &ExportResult{FileName: assembled.FileBase() + ".xlsx", Content: content}, nil
}

func (s *DocumentService) SendEmail(ctx context.Context, req EmailRequest) (*EmailResult, error) {
	recipients, err := mail.ParseRecipients(req.To)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	generated, err := s.Generate(ctx, req.DocumentRequest)
	if err != nil {
		return nil, err
	}

	err = s.deps.Mailer.Send(ctx, mail.Message{
		To:          recipients,
		Subject:     req.Subject,
		Body:        req.Message,
		Attachments: []mail.Attachment{{FileName: generated.FileName, Content: generated.Content}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSendFailed, err)
	}

	s.log.Info().
		Str("kind", string(req.Kind)).
		Str("record_id", req.RecordID).
		Int("recipients", len(recipients)).
		Msg("document emailed")

	return &EmailResult{Recipients: recipients, Attachment: generated.FileName, Pages: generated.Pages}, nil
}

func (s *DocumentService) RecentGenerations(ctx context.Context, limit int) ([]model.GenerationRecord, error) {
	if s.deps.Log == nil {
		return nil, ErrGenerationLogDisabled
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.deps.Log.ListRecent(ctx, limit)
}

func (s *DocumentService) prepare(ctx context.Context, req DocumentRequest) (assembler.Document, error) {
	if err := validateRequest(req); err != nil {
		return assembler.Document{}, err
	}
	doc, err := s.load(ctx, req)
	if err != nil {
		return assembler.Document{}, err
	}
	assembled, err := assembler.Assemble(*doc)
	if err != nil {
		return assembler.Document{}, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	return assembled, nil
}

func (s *DocumentService) load(ctx context.Context, req DocumentRequest) (*model.PrintableDocument, error) {
	doc, err := s.deps.Loader.Load(ctx, mapper.Request{
		Kind:               req.Kind,
		RecordID:           req.RecordID,
		References:         req.References,
		SelectedPassengers: req.SelectedPassengers,
		Signer:             req.Signer,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDataFetchFailed, err)
	}
	if req.Kind == model.KindReceipt && len(req.SelectedPassengers) > 0 && len(doc.Passengers) == 0 {
		return nil, fmt.Errorf("%w: none of the selected passengers belong to receipt %s", ErrValidationFailed, req.RecordID)
	}
	return doc, nil
}

func (s *DocumentService) renderPDF(ctx context.Context, doc assembler.Document) (*pdf.Result, error) {
	html, err := s.deps.Renderer.RenderHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: render html: %v", ErrGenerationFailed, err)
	}
	img, err := s.deps.Rasterizer.Rasterize(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("%w: rasterize: %v", ErrGenerationFailed, err)
	}
	result, err := s.deps.PDF.Generate(*img, doc.LogicalPages())
	if err != nil {
		if errors.Is(err, pdf.ErrSizeLimitExceeded) {
			return nil, fmt.Errorf("%w: %v", ErrDocumentTooLarge, err)
		}
		return nil, fmt.Errorf("%w: assemble pdf: %v", ErrGenerationFailed, err)
	}
	return result, nil
}

func (s *DocumentService) finish(ctx context.Context, req DocumentRequest, task *Task, out *GeneratedDocument, cause error) error {
	record := &model.GenerationRecord{
		ID:        uuid.New(),
		Kind:      req.Kind,
		RecordID:  recordKey(req),
		Status:    model.GenerationStatusReady,
		CreatedAt: s.now().UTC(),
	}

	if cause != nil {
		_ = task.Fail(cause.Error())
		record.Status = model.GenerationStatusFailed
		record.Error = cause.Error()
		s.deps.Metrics.ObserveDocument(req.Kind, metrics.StatusFailed, 0, 0)
		s.log.Error().
			Err(cause).
			Str("kind", string(req.Kind)).
			Str("record_id", record.RecordID).
			Int("attempts", task.Snapshot().Attempt).
			Msg("document generation failed")
	} else {
		_ = task.Ready()
		record.Pages = out.Pages
		record.Bytes = len(out.Content)
		s.deps.Metrics.ObserveDocument(req.Kind, metrics.StatusReady, out.Pages, len(out.Content))
		s.log.Info().
			Str("kind", string(req.Kind)).
			Str("record_id", record.RecordID).
			Int("pages", out.Pages).
			Int("bytes", len(out.Content)).
			Int("attempts", task.Snapshot().Attempt).
			Msg("document generated")
	}

	record.Attempts = task.Snapshot().Attempt
	if out != nil {
		out.Task = task.Snapshot()
	}

	if s.deps.Log != nil {
		if err := s.deps.Log.Create(ctx, record); err != nil {
			s.log.Warn().Err(err).Str("record_id", record.RecordID).Msg("failed to write generation log")
		}
	}
	return cause
}

func validateRequest(req DocumentRequest) error {
	if _, ok := assembler.LayoutFor(req.Kind); !ok {
		return fmt.Errorf("%w: unsupported kind %q", ErrValidationFailed, req.Kind)
	}
	if req.Kind == model.KindMultiReferenceReceipt {
		for _, ref := range req.References {
			if strings.TrimSpace(ref) != "" {
				return nil
			}
		}
		return fmt.Errorf("%w: references are required", ErrMissingParameter)
	}
	if strings.TrimSpace(req.RecordID) == "" {
		return fmt.Errorf("%w: record_id is required", ErrMissingParameter)
	}
	return nil
}

func recordKey(req DocumentRequest) string {
	if id := strings.TrimSpace(req.RecordID); id != "" {
		return id
	}
	return strings.Join(req.References, ",")
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
