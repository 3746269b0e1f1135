package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/travel-docs/internal/assembler"
)

// Each .page is exactly one A4 sheet so the stacked raster height is pages * 297mm.
const documentHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Title}} {{.Number}}</title>
  <style>
    @page { size: A4 portrait; margin: 0; }
    * { box-sizing: border-box; }
    html, body { margin: 0; padding: 0; background: #ffffff; }
    body { width: 210mm; font-family: "Sarabun", "Helvetica Neue", Arial, sans-serif; font-size: 11px; color: #1a1f36; }
    .page { position: relative; width: 210mm; height: 297mm; padding: 12mm 12mm 22mm; overflow: hidden; page-break-after: always; }
    .page:last-child { page-break-after: auto; }
    .doc-header { display: flex; justify-content: space-between; border-bottom: 2px solid #1a1f36; padding-bottom: 6px; margin-bottom: 10px; }
    .doc-title { font-size: 20px; font-weight: 700; letter-spacing: 0.5px; }
    .meta td { padding: 1px 6px 1px 0; }
    .label { color: #697386; }
    table.rows { width: 100%; border-collapse: collapse; margin-bottom: 8px; }
    table.rows th { text-align: left; font-size: 10px; text-transform: uppercase; color: #697386; border-bottom: 1px solid #c9ced6; padding: 4px; }
    table.rows td { height: 7mm; border-bottom: 1px solid #e3e8ee; padding: 0 4px; vertical-align: middle; }
    .num { text-align: right; }
    .idx { width: 8mm; color: #697386; }
    .section-title { font-weight: 700; margin: 6px 0 2px; }
    .summary { width: 70mm; margin-left: auto; border-collapse: collapse; }
    .summary td { padding: 2px 4px; }
    .summary .grand td { border-top: 1px solid #1a1f36; font-weight: 700; }
    .remark { min-height: 10mm; white-space: pre-line; }
    .doc-footer { position: absolute; left: 12mm; right: 12mm; bottom: 10mm; display: flex; justify-content: space-between; color: #697386; }
    .signature { border-top: 1px solid #697386; padding-top: 2px; min-width: 50mm; text-align: center; }
  </style>
</head>
<body>
{{- range .Pages}}
  <section class="page" data-page="{{.Number}}">
    <div class="doc-header">
      <div>
        <div class="doc-title">{{$.Title}}</div>
        <table class="meta">
          <tr><td class="label">Customer</td><td>{{.Header.Customer.Name}}</td></tr>
          {{- range .Header.Customer.AddressLines}}
          <tr><td></td><td>{{.}}</td></tr>
          {{- end}}
          {{- if .Header.Customer.Phone}}<tr><td class="label">Tel.</td><td>{{.Header.Customer.Phone}}</td></tr>{{end}}
          {{- if .Header.Customer.TaxID}}<tr><td class="label">Tax ID</td><td>{{.Header.Customer.TaxID}}{{if .Header.Customer.Branch}} ({{.Header.Customer.Branch}}){{end}}</td></tr>{{end}}
        </table>
      </div>
      <table class="meta">
        <tr><td class="label">No.</td><td>{{.Header.Document.Number}}</td></tr>
        <tr><td class="label">Date</td><td>{{formatDate .Header.Document.IssueDate}}</td></tr>
        {{- if not .Header.Document.DueDate.IsZero}}<tr><td class="label">Due</td><td>{{formatDate .Header.Document.DueDate}}</td></tr>{{end}}
        {{- if .Header.Document.Salesperson}}<tr><td class="label">Sales</td><td>{{.Header.Document.Salesperson}}</td></tr>{{end}}
      </table>
    </div>

    {{- if .Passengers}}
    <div class="section-title">Passengers</div>
    <table class="rows passengers">
      <tr><th class="idx">#</th><th>Name</th><th>Type</th><th>Ticket</th><th class="num">Amount</th></tr>
      {{- $suppress := .SuppressBlank}}
      {{- range .Passengers}}
      <tr class="{{if .Filled}}row{{else}}blank{{end}}"><td class="idx">{{.Label $suppress}}</td><td>{{blank .Item.Name}}</td><td>{{.Item.Type}}</td><td>{{.Item.TicketNumber}}</td><td class="num">{{if .Filled}}{{formatMoney .Item.Amount}}{{end}}</td></tr>
      {{- end}}
    </table>
    {{- end}}

    {{- if .Routes}}
    <div class="section-title">Itinerary</div>
    <table class="rows routes">
      <tr><th>Flight</th><th>From</th><th>To</th><th>Date</th><th>Time</th></tr>
      {{- range .Routes}}
      <tr class="{{if .Filled}}row{{else}}blank{{end}}"><td>{{blank .Item.FlightNumber}}</td><td>{{.Item.Origin}}</td><td>{{.Item.Destination}}</td><td>{{if .Filled}}{{formatDate .Item.DepartureDate}}{{end}}</td><td>{{.Item.DepartureTime}}</td></tr>
      {{- end}}
    </table>
    {{- end}}

    {{- if .Extras}}
    <div class="section-title">Other charges</div>
    <table class="rows extras">
      <tr><th>Description</th><th class="num">Amount</th></tr>
      {{- range .Extras}}
      <tr class="{{if .Filled}}row{{else}}blank{{end}}"><td>{{blank .Item.Description}}</td><td class="num">{{if .Filled}}{{formatMoney .Item.Amount}}{{end}}</td></tr>
      {{- end}}
    </table>
    {{- end}}

    {{- if .References}}
    <table class="rows references">
      <tr><th class="idx">#</th><th>Reference</th><th>Date</th><th>Description</th><th class="num">Amount</th></tr>
      {{- $suppress := .SuppressBlank}}
      {{- range .References}}
      <tr class="{{if .Filled}}row{{else}}blank{{end}}"><td class="idx">{{.Label $suppress}}</td><td>{{blank .Item.Number}}</td><td>{{if .Filled}}{{formatDate .Item.Date}}{{end}}</td><td>{{.Item.Description}}</td><td class="num">{{if .Filled}}{{formatMoney .Item.Amount}}{{end}}</td></tr>
      {{- end}}
      {{- range spacers .SpacerRows}}
      <tr class="spacer"><td colspan="5">&nbsp;</td></tr>
      {{- end}}
    </table>
    {{- end}}

    {{- with .Voucher}}
    <table class="meta voucher">
      <tr><td class="label">Service</td><td>{{.Details.ServiceName}}</td></tr>
      {{- if .Details.Supplier}}<tr><td class="label">Supplier</td><td>{{.Details.Supplier}}</td></tr>{{end}}
      <tr><td class="label">Check-in</td><td>{{formatDate .Details.CheckIn}}</td><td class="label">Check-out</td><td>{{formatDate .Details.CheckOut}}</td></tr>
    </table>
    <table class="rows names">
      <tr><th class="idx">#</th><th>Guest name</th></tr>
      {{- range .Names}}
      <tr class="{{if .Filled}}row{{else}}blank{{end}}"><td class="idx">{{.Label true}}</td><td>{{blank .Item}}</td></tr>
      {{- end}}
    </table>
    <div class="section-title">Remark</div>
    <div class="remark">{{range .RemarkLines}}{{.}}
{{end}}</div>
    {{- end}}

    {{- with .Summary}}
    <table class="summary">
      <tr><td class="label">Subtotal</td><td class="num">{{formatMoney .Subtotal}}</td></tr>
      <tr><td class="label">VAT {{formatPercent .TaxPercent}}%</td><td class="num">{{formatMoney .TaxAmount}}</td></tr>
      <tr class="grand"><td>Total</td><td class="num">{{formatMoney .GrandTotal}}</td></tr>
    </table>
    {{- end}}

    <div class="doc-footer">
      <div class="signature">{{if .Footer.Signer}}{{.Footer.Signer}}{{else}}&nbsp;{{end}}<br>{{.Footer.IssueDate}}</div>
      <div class="page-number">Page {{.Number}} / {{.Total}}</div>
    </div>
  </section>
{{- end}}
</body>
</html>
`

type Renderer interface {
	RenderHTML(doc assembler.Document) (string, error)
}

type HTMLRenderer struct {
	tpl *template.Template
}

func NewRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"formatMoney":   formatMoney,
		"formatPercent": formatPercent,
		"formatDate":    formatDate,
		"blank":         blank,
		"spacers":       spacers,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("document").Funcs(funcs).Parse(documentHTMLTemplate)),
	}
}

type view struct {
	Title  string
	Number string
	Pages  []assembler.Page
}

func (r *HTMLRenderer) RenderHTML(doc assembler.Document) (string, error) {
	if len(doc.Pages) == 0 {
		return "", fmt.Errorf("document has no pages")
	}
	input := view{
		Title:  strings.ToUpper(doc.Title),
		Number: doc.Pages[0].Header.Document.Number,
		Pages:  doc.Pages,
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal) string {
	return groupThousands(amount.StringFixed(2))
}

func formatPercent(value decimal.Decimal) string {
	return value.String()
}

func formatDate(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format("02/01/2006")
}

func blank(value string) template.HTML {
	if strings.TrimSpace(value) == "" {
		return template.HTML("&nbsp;")
	}
	return template.HTML(template.HTMLEscapeString(value))
}

func spacers(n int) []struct{} {
	if n <= 0 {
		return nil
	}
	return make([]struct{}, n)
}

func groupThousands(fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, frac = fixed[:i], fixed[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
