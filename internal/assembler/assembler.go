package assembler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nurpe/travel-docs/internal/layout"
	"github.com/nurpe/travel-docs/internal/model"
)

var (
	ErrUnknownKind  = errors.New("unknown document kind")
	ErrPageOverflow = errors.New("content does not fit on a single page")
)

const (
	PassengersPerPage    = 9
	RouteCapacity        = 4
	InvoiceExtrasFloor   = 3
	DepositExtrasFloor   = 5
	ReferenceRowsFloor   = 13
	ReferenceSpacerRows  = 2
	VoucherNameCapacity  = 5
	VoucherBlankNameRows = 1
	VoucherRemarkLines   = 2
	VoucherRemarkWidth   = 80

	// 7mm table rows per A4 page, leaving room for header, summary and footer.
	PageRowBudget = 24
)

type Layout struct {
	PassengersPerPage   int
	RouteCapacity       int
	ExtrasFloor         int
	ReferenceFloor      int
	ReferenceSpacers    int
	NameCapacity        int
	NameBlankRows       int
	SuppressBlankLabels bool
	SinglePage          bool
}

var layouts = map[model.Kind]Layout{
	model.KindInvoice: {
		PassengersPerPage:   PassengersPerPage,
		RouteCapacity:       RouteCapacity,
		ExtrasFloor:         InvoiceExtrasFloor,
		SuppressBlankLabels: true,
	},
	model.KindReceipt: {
		PassengersPerPage:   PassengersPerPage,
		RouteCapacity:       RouteCapacity,
		ExtrasFloor:         InvoiceExtrasFloor,
		SuppressBlankLabels: true,
	},
	model.KindMultiReferenceReceipt: {
		ReferenceFloor:   ReferenceRowsFloor,
		ReferenceSpacers: ReferenceSpacerRows,
		SinglePage:       true,
	},
	model.KindVoucher: {
		NameCapacity:        VoucherNameCapacity,
		NameBlankRows:       VoucherBlankNameRows,
		SuppressBlankLabels: true,
		SinglePage:          true,
	},
	model.KindDeposit: {
		RouteCapacity:       RouteCapacity,
		ExtrasFloor:         DepositExtrasFloor,
		SuppressBlankLabels: true,
		SinglePage:          true,
	},
}

func LayoutFor(kind model.Kind) (Layout, bool) {
	l, ok := layouts[kind]
	return l, ok
}

type VoucherBlock struct {
	Details     model.VoucherDetails
	Names       []layout.Slot[string]
	RemarkLines []string
}

type Page struct {
	Number        int
	Total         int
	Header        model.Header
	Passengers    []layout.Slot[model.Passenger]
	Routes        []layout.Slot[model.Route]
	Extras        []layout.Slot[model.Extra]
	References    []layout.Slot[model.Reference]
	SpacerRows    int
	Voucher       *VoucherBlock
	Summary       *model.Summary
	Footer        model.Footer
	SuppressBlank bool
}

func (p Page) IsFirst() bool { return p.Number == 1 }
func (p Page) IsLast() bool  { return p.Number == p.Total }

func (p Page) Rows() int {
	return len(p.Passengers) + len(p.Routes) + len(p.Extras) + len(p.References) + p.SpacerRows
}

type Document struct {
	Kind  model.Kind
	Title string
	Pages []Page
}

func (d Document) LogicalPages() int {
	return len(d.Pages)
}

// FileBase is a filesystem-safe stem such as "invoice-INV-0001".
func (d Document) FileBase() string {
	number := ""
	if len(d.Pages) > 0 {
		number = sanitizeFileName(d.Pages[0].Header.Document.Number)
	}
	kind := strings.ReplaceAll(strings.ToLower(string(d.Kind)), "_", "-")
	if number == "" {
		return kind
	}
	return kind + "-" + number
}

// Assemble lays a document out into pages. Extras that do not fit PageRowBudget
// continue on the following pages.
func Assemble(doc model.PrintableDocument) (Document, error) {
	l, ok := layouts[doc.Kind]
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnknownKind, doc.Kind)
	}

	var (
		pages []Page
		err   error
	)
	switch doc.Kind {
	case model.KindInvoice, model.KindReceipt:
		pages, err = assemblePaginated(doc, l)
	case model.KindMultiReferenceReceipt:
		pages, err = assembleReferences(doc, l)
	case model.KindVoucher:
		pages, err = assembleVoucher(doc, l)
	case model.KindDeposit:
		pages, err = assembleDeposit(doc, l)
	}
	if err != nil {
		return Document{}, err
	}
	if l.SinglePage && pages[0].Rows() > PageRowBudget {
		return Document{}, fmt.Errorf("%w: %s needs %d rows, %d fit", ErrPageOverflow, doc.Kind, pages[0].Rows(), PageRowBudget)
	}

	summary := doc.Summary
	for i := range pages {
		pages[i].Number = i + 1
		pages[i].Total = len(pages)
		pages[i].Header = doc.Header
		pages[i].Footer = doc.Footer
		pages[i].SuppressBlank = l.SuppressBlankLabels
	}
	pages[len(pages)-1].Summary = &summary

	return Document{Kind: doc.Kind, Title: doc.Kind.Title(), Pages: pages}, nil
}

func assemblePaginated(doc model.PrintableDocument, l Layout) ([]Page, error) {
	pagination, err := layout.Paginate(doc.Passengers, l.PassengersPerPage)
	if err != nil {
		return nil, err
	}

	pages := make([]Page, 0, pagination.TotalPages)
	for i, chunk := range pagination.Pages {
		slots, err := layout.Capped(chunk, l.PassengersPerPage)
		if err != nil {
			return nil, err
		}
		offset := i * l.PassengersPerPage
		for j := range slots {
			slots[j].Index += offset
		}
		pages = append(pages, Page{Passengers: slots})
	}

	routes, extras, err := fixedBlocks(doc, l)
	if err != nil {
		return nil, err
	}
	pages[0].Routes = routes
	return spillExtras(pages, extras), nil
}

func spillExtras(pages []Page, extras []layout.Slot[model.Extra]) []Page {
	for i := 0; len(extras) > 0; i++ {
		if i == len(pages) {
			pages = append(pages, Page{})
		}
		free := PageRowBudget - pages[i].Rows()
		if free <= 0 {
			continue
		}
		n := min(free, len(extras))
		pages[i].Extras = extras[:n:n]
		extras = extras[n:]
	}
	return pages
}

func assembleDeposit(doc model.PrintableDocument, l Layout) ([]Page, error) {
	routes, extras, err := fixedBlocks(doc, l)
	if err != nil {
		return nil, err
	}
	return []Page{{Routes: routes, Extras: extras}}, nil
}

func fixedBlocks(doc model.PrintableDocument, l Layout) ([]layout.Slot[model.Route], []layout.Slot[model.Extra], error) {
	routes, err := layout.Capped(doc.Routes, l.RouteCapacity)
	if err != nil {
		return nil, nil, err
	}
	extras, err := layout.Floored(doc.Extras, l.ExtrasFloor)
	if err != nil {
		return nil, nil, err
	}
	return routes, extras, nil
}

func assembleReferences(doc model.PrintableDocument, l Layout) ([]Page, error) {
	refs, err := layout.Floored(doc.References, l.ReferenceFloor)
	if err != nil {
		return nil, err
	}
	return []Page{{References: refs, SpacerRows: l.ReferenceSpacers}}, nil
}

func assembleVoucher(doc model.PrintableDocument, l Layout) ([]Page, error) {
	names := make([]string, 0, len(doc.Passengers))
	for _, p := range doc.Passengers {
		names = append(names, p.Name)
	}
	slots, err := layout.Capped(names, l.NameCapacity)
	if err != nil {
		return nil, err
	}
	for i := 0; i < l.NameBlankRows; i++ {
		slots = append(slots, layout.Slot[string]{Index: len(slots) + 1})
	}

	var details model.VoucherDetails
	if doc.Voucher != nil {
		details = *doc.Voucher
	}
	block := &VoucherBlock{
		Details:     details,
		Names:       slots,
		RemarkLines: layout.TruncateLines(details.Remark, VoucherRemarkLines, VoucherRemarkWidth),
	}
	return []Page{{Voucher: block}}, nil
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
