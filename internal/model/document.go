package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindInvoice               Kind = "INVOICE"
	KindReceipt               Kind = "RECEIPT"
	KindMultiReferenceReceipt Kind = "MULTI_REFERENCE_RECEIPT"
	KindVoucher               Kind = "VOUCHER"
	KindDeposit               Kind = "DEPOSIT"
)

var kinds = []Kind{
	KindInvoice,
	KindReceipt,
	KindMultiReferenceReceipt,
	KindVoucher,
	KindDeposit,
}

// ParseKind accepts the upper-case constant or its lower/kebab-case spelling.
func ParseKind(raw string) (Kind, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	normalized = strings.ReplaceAll(normalized, "-", "_")
	for _, k := range kinds {
		if string(k) == normalized {
			return k, true
		}
	}
	return "", false
}

func (k Kind) Title() string {
	switch k {
	case KindInvoice:
		return "Invoice"
	case KindReceipt:
		return "Receipt"
	case KindMultiReferenceReceipt:
		return "Receipt"
	case KindVoucher:
		return "Voucher"
	case KindDeposit:
		return "Deposit"
	default:
		return "Document"
	}
}

type Customer struct {
	Name         string
	AddressLines []string
	Phone        string
	TaxID        string
	Branch       string
}

type Identity struct {
	Number      string
	IssueDate   time.Time
	DueDate     time.Time
	Salesperson string
}

type Header struct {
	Customer Customer
	Document Identity
}

type Passenger struct {
	ID           string
	Name         string
	Type         string
	TicketNumber string
	Amount       decimal.Decimal
}

type Route struct {
	FlightNumber  string
	Origin        string
	Destination   string
	DepartureDate time.Time
	DepartureTime string
}

type Extra struct {
	Description string
	Amount      decimal.Decimal
}

type Reference struct {
	Number      string
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

type VoucherDetails struct {
	ServiceName string
	Supplier    string
	CheckIn     time.Time
	CheckOut    time.Time
	Remark      string
}

type Footer struct {
	Signer    string
	IssueDate string
}

type PrintableDocument struct {
	Kind       Kind
	Header     Header
	Passengers []Passenger
	Routes     []Route
	Extras     []Extra
	References []Reference
	Voucher    *VoucherDetails
	Summary    Summary
	Footer     Footer
}
