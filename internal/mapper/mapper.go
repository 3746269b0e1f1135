package mapper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/travel-docs/internal/gateway"
	"github.com/nurpe/travel-docs/internal/model"
)

var (
	ErrUnsupportedKind = errors.New("unsupported document kind")
	ErrDecode          = errors.New("decode gateway record")
)

const (
	ActionInvoice    = "getInvoiceData"
	ActionReceipt    = "getReceiptData"
	ActionReferences = "getReceiptsByReferences"
	ActionVoucher    = "getVoucherData"
	ActionDeposit    = "getDepositData"
)

const footerDateLayout = "02/01/2006"

type Request struct {
	Kind               model.Kind
	RecordID           string
	References         []string
	SelectedPassengers []string
	Signer             string
}

type Service struct {
	gw gateway.Caller
}

func NewService(gw gateway.Caller) *Service {
	return &Service{gw: gw}
}

func (s *Service) Load(ctx context.Context, req Request) (*model.PrintableDocument, error) {
	action, params, err := actionFor(req)
	if err != nil {
		return nil, err
	}

	resp, err := s.gw.Call(ctx, action, params)
	if err != nil {
		return nil, err
	}

	data := Normalize(resp.Data)
	if items, ok := data["items"].([]any); ok && req.Kind == model.KindMultiReferenceReceipt {
		if _, has := data["references"]; !has {
			data["references"] = items
		}
	}

	var record documentRecord
	if err := decode(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, action, err)
	}

	doc, err := build(req, record)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, action, err)
	}
	return doc, nil
}

func actionFor(req Request) (string, map[string]any, error) {
	id := strings.TrimSpace(req.RecordID)
	switch req.Kind {
	case model.KindInvoice:
		return ActionInvoice, map[string]any{"invoice_id": id}, nil
	case model.KindReceipt:
		return ActionReceipt, map[string]any{"receipt_id": id}, nil
	case model.KindMultiReferenceReceipt:
		params := map[string]any{"references": req.References}
		if id != "" {
			params["receipt_id"] = id
		}
		return ActionReferences, params, nil
	case model.KindVoucher:
		return ActionVoucher, map[string]any{"voucher_id": id}, nil
	case model.KindDeposit:
		return ActionDeposit, map[string]any{"deposit_id": id}, nil
	default:
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, req.Kind)
	}
}

func build(req Request, r documentRecord) (*model.PrintableDocument, error) {
	issueDate, err := parseDate(r.IssueDate)
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(r.DueDate)
	if err != nil {
		return nil, err
	}

	doc := &model.PrintableDocument{
		Kind: req.Kind,
		Header: model.Header{
			Customer: model.Customer{
				Name:         strings.TrimSpace(r.CustomerName),
				AddressLines: addressLines(r.CustomerAddress, r.CustomerAddress2, r.CustomerAddress3),
				Phone:        strings.TrimSpace(r.CustomerPhone),
				TaxID:        strings.TrimSpace(r.CustomerTaxID),
				Branch:       branchLabel(r.CustomerBranch),
			},
			Document: model.Identity{
				Number:      firstNonEmpty(r.DocumentNumber, numberFor(req.Kind, r)),
				IssueDate:   issueDate,
				DueDate:     dueDate,
				Salesperson: strings.TrimSpace(r.Salesperson),
			},
		},
		Footer: model.Footer{
			Signer:    firstNonEmpty(req.Signer, r.SignerName),
			IssueDate: formatDate(issueDate),
		},
	}

	switch req.Kind {
	case model.KindReceipt:
		doc.Passengers = mapPassengers(selectPassengers(r.Passengers, req.SelectedPassengers))
	case model.KindVoucher:
		doc.Passengers = voucherPassengers(r)
	default:
		doc.Passengers = mapPassengers(r.Passengers)
	}

	if doc.Routes, err = mapRoutes(r.Routes); err != nil {
		return nil, err
	}
	doc.Extras = mapExtras(r.Extras)
	if doc.References, err = mapReferences(r.References); err != nil {
		return nil, err
	}

	if req.Kind == model.KindVoucher {
		checkIn, err := parseDate(r.CheckIn)
		if err != nil {
			return nil, err
		}
		checkOut, err := parseDate(r.CheckOut)
		if err != nil {
			return nil, err
		}
		doc.Voucher = &model.VoucherDetails{
			ServiceName: strings.TrimSpace(r.ServiceName),
			Supplier:    strings.TrimSpace(r.Supplier),
			CheckIn:     checkIn,
			CheckOut:    checkOut,
			Remark:      strings.TrimSpace(r.Remark),
		}
	}

	doc.Summary = summarize(doc, r)
	return doc, nil
}

func numberFor(kind model.Kind, r documentRecord) string {
	switch kind {
	case model.KindInvoice:
		return r.InvoiceNumber
	case model.KindReceipt, model.KindMultiReferenceReceipt:
		return r.ReceiptNumber
	case model.KindVoucher:
		return r.VoucherNumber
	case model.KindDeposit:
		return r.DepositNumber
	default:
		return ""
	}
}

// selectPassengers keeps the ids asked for by the caller, then the rows the
// gateway flagged as selected, and otherwise every passenger.
func selectPassengers(all []passengerRecord, wanted []string) []passengerRecord {
	if len(wanted) > 0 {
		index := make(map[string]struct{}, len(wanted))
		for _, id := range wanted {
			index[strings.TrimSpace(id)] = struct{}{}
		}
		out := make([]passengerRecord, 0, len(wanted))
		for _, p := range all {
			if _, ok := index[strings.TrimSpace(p.ID)]; ok {
				out = append(out, p)
			}
		}
		return out
	}

	var flagged []passengerRecord
	for _, p := range all {
		if p.Selected {
			flagged = append(flagged, p)
		}
	}
	if len(flagged) > 0 {
		return flagged
	}
	return all
}

func mapPassengers(records []passengerRecord) []model.Passenger {
	out := make([]model.Passenger, 0, len(records))
	for _, p := range records {
		out = append(out, model.Passenger{
			ID:           strings.TrimSpace(p.ID),
			Name:         strings.TrimSpace(p.Name),
			Type:         strings.ToUpper(strings.TrimSpace(p.Type)),
			TicketNumber: strings.TrimSpace(p.TicketNumber),
			Amount:       p.Amount,
		})
	}
	return out
}

func voucherPassengers(r documentRecord) []model.Passenger {
	if len(r.Passengers) > 0 {
		return mapPassengers(r.Passengers)
	}
	var out []model.Passenger
	for _, name := range strings.FieldsFunc(r.PassengerNames, func(c rune) bool { return c == ',' || c == '\n' }) {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, model.Passenger{Name: name})
		}
	}
	return out
}

func mapRoutes(records []routeRecord) ([]model.Route, error) {
	out := make([]model.Route, 0, len(records))
	for _, r := range records {
		date, err := parseDate(r.DepartureDate)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Route{
			FlightNumber:  strings.TrimSpace(r.FlightNumber),
			Origin:        strings.ToUpper(strings.TrimSpace(r.Origin)),
			Destination:   strings.ToUpper(strings.TrimSpace(r.Destination)),
			DepartureDate: date,
			DepartureTime: strings.TrimSpace(r.DepartureTime),
		})
	}
	return out, nil
}

func mapExtras(records []extraRecord) []model.Extra {
	out := make([]model.Extra, 0, len(records))
	for _, e := range records {
		if strings.TrimSpace(e.Description) == "" && e.Amount.IsZero() {
			continue
		}
		out = append(out, model.Extra{Description: strings.TrimSpace(e.Description), Amount: e.Amount})
	}
	return out
}

func mapReferences(records []referenceRecord) ([]model.Reference, error) {
	out := make([]model.Reference, 0, len(records))
	for _, r := range records {
		date, err := parseDate(r.Date)
		if err != nil {
			return nil, err
		}
		out = append(out, model.Reference{
			Number:      strings.TrimSpace(r.Number),
			Date:        date,
			Description: strings.TrimSpace(r.Description),
			Amount:      r.Amount,
		})
	}
	return out, nil
}

func summarize(doc *model.PrintableDocument, r documentRecord) model.Summary {
	subtotal := r.Subtotal.Decimal
	if !r.Subtotal.Valid {
		subtotal = decimal.Zero
		if doc.Kind == model.KindMultiReferenceReceipt {
			for _, ref := range doc.References {
				subtotal = subtotal.Add(ref.Amount)
			}
		} else {
			for _, p := range doc.Passengers {
				subtotal = subtotal.Add(p.Amount)
			}
			for _, e := range doc.Extras {
				subtotal = subtotal.Add(e.Amount)
			}
		}
	}

	tax := r.TaxAmount.Decimal
	if !r.TaxAmount.Valid {
		tax = model.TaxFor(subtotal, r.TaxPercent)
	}
	return model.NewSummary(subtotal, r.TaxPercent, tax)
}

func addressLines(parts ...string) []string {
	var lines []string
	for _, part := range parts {
		for _, line := range strings.Split(strings.ReplaceAll(part, "\r\n", "\n"), "\n") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return lines
}

// branchLabel renders the tax branch designation; "0", "00000" and "head office" all mean head office.
func branchLabel(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Trim(raw, "0") == "" || strings.EqualFold(raw, "head office") {
		return "Head Office"
	}
	return "Branch " + raw
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(footerDateLayout)
}
