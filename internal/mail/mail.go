package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nurpe/travel-docs/internal/gateway"
)

const ActionSendEmail = "sendEmail"

var (
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrNoAttachments    = errors.New("no attachments")
)

var validate = validator.New()

// ParseRecipients splits a comma separated list. One bad address rejects the whole value.
func ParseRecipients(raw string) ([]string, error) {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		addr := strings.TrimSpace(part)
		if addr == "" {
			continue
		}
		if err := validate.Var(addr, "required,email"); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidRecipient, addr)
		}
		out = append(out, addr)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no address given", ErrInvalidRecipient)
	}
	return out, nil
}

type Attachment struct {
	FileName string
	Content  []byte
}

type Message struct {
	To          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

type Sender struct {
	gw             gateway.Caller
	defaultSubject string
}

func NewSender(gw gateway.Caller, defaultSubject string) *Sender {
	return &Sender{gw: gw, defaultSubject: defaultSubject}
}

func (s *Sender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("%w: no address given", ErrInvalidRecipient)
	}
	if len(msg.Attachments) == 0 {
		return ErrNoAttachments
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = s.defaultSubject
	}

	attachments := make([]map[string]any, 0, len(msg.Attachments))
	for _, a := range msg.Attachments {
		attachments = append(attachments, map[string]any{
			"filename":  a.FileName,
			"pdfBase64": base64.StdEncoding.EncodeToString(a.Content),
		})
	}

	_, err := s.gw.Call(ctx, ActionSendEmail, map[string]any{
		"to":          strings.Join(msg.To, ","),
		"subject":     subject,
		"message":     msg.Body,
		"attachments": attachments,
	})
	return err
}
