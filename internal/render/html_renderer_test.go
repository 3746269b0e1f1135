package render

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/travel-docs/internal/assembler"
	"github.com/nurpe/travel-docs/internal/model"
)

func assemble(t *testing.T, doc model.PrintableDocument) assembler.Document {
	t.Helper()
	out, err := assembler.Assemble(doc)
	require.NoError(t, err)
	return out
}

func TestRenderHTML_OneSectionPerPage(t *testing.T) {
	passengers := make([]model.Passenger, 12)
	for i := range passengers {
		passengers[i] = model.Passenger{Name: "PAX", Amount: decimal.NewFromInt(1500)}
	}
	doc := assemble(t, model.PrintableDocument{
		Kind:       model.KindInvoice,
		Header:     model.Header{Document: model.Identity{Number: "INV-1"}, Customer: model.Customer{Name: "Tom & Jerry Tours"}},
		Passengers: passengers,
		Summary:    model.NewSummary(decimal.NewFromInt(18000), decimal.NewFromInt(7), decimal.NewFromInt(1260)),
	})

	html, err := NewRenderer().RenderHTML(doc)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(html, `<section class="page"`))
	assert.Contains(t, html, "Page 1 / 2")
	assert.Contains(t, html, "Page 2 / 2")
	assert.Contains(t, html, "Tom &amp; Jerry Tours")
	assert.Contains(t, html, "19,260.00")
	assert.Equal(t, 1, strings.Count(html, `class="summary"`))
	// Only passenger rows carry an index cell.
	assert.Equal(t, 12, strings.Count(html, `<tr class="row"><td class="idx">`))
}

func TestRenderHTML_MultiReferenceSpacers(t *testing.T) {
	doc := assemble(t, model.PrintableDocument{
		Kind:       model.KindMultiReferenceReceipt,
		References: []model.Reference{{Number: "INV-1", Amount: decimal.NewFromInt(10)}},
	})
	html, err := NewRenderer().RenderHTML(doc)
	require.NoError(t, err)
	assert.Equal(t, assembler.ReferenceSpacerRows, strings.Count(html, `<tr class="spacer">`))
	assert.Equal(t, assembler.ReferenceRowsFloor-1, strings.Count(html, `<tr class="blank">`))
}

func TestRenderHTML_Voucher(t *testing.T) {
	doc := assemble(t, model.PrintableDocument{
		Kind:       model.KindVoucher,
		Passengers: []model.Passenger{{Name: "MR A"}},
		Voucher:    &model.VoucherDetails{ServiceName: "Hotel Nikko", Remark: "Late arrival"},
	})
	html, err := NewRenderer().RenderHTML(doc)
	require.NoError(t, err)
	assert.Contains(t, html, "Hotel Nikko")
	assert.Contains(t, html, "Late arrival")
	assert.Contains(t, html, "VOUCHER")
}

func TestRenderHTML_NoPages(t *testing.T) {
	_, err := NewRenderer().RenderHTML(assembler.Document{})
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	tests := map[string]string{
		"0":        "0.00",
		"12.5":     "12.50",
		"1234.567": "1,234.57",
		"1000000":  "1,000,000.00",
		"-98765.4": "-98,765.40",
	}
	for in, want := range tests {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
