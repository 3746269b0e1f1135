package excel

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/travel-docs/internal/assembler"
)

const maxSheetName = 31

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(doc assembler.Document) ([]byte, error) {
	if len(doc.Pages) == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	file := excelize.NewFile()
	defer file.Close()

	summarySheet := "Summary"
	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	g.writeSummary(file, summarySheet, doc)

	used := map[string]struct{}{summarySheet: {}}
	for _, page := range doc.Pages {
		name := uniqueSheetName(fmt.Sprintf("Page %d", page.Number), used)
		used[name] = struct{}{}
		if _, err := file.NewSheet(name); err != nil {
			return nil, err
		}
		g.writePage(file, name, page)
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, doc assembler.Document) {
	first := doc.Pages[0]
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Document")
	set("B1", doc.Title)
	set("A2", "Number")
	set("B2", first.Header.Document.Number)
	set("A3", "Customer")
	set("B3", first.Header.Customer.Name)
	set("A4", "Tax ID")
	set("B4", first.Header.Customer.TaxID)
	set("A5", "Issue date")
	set("B5", formatDate(first.Header.Document.IssueDate))
	set("A6", "Pages")
	set("B6", doc.LogicalPages())

	last := doc.Pages[len(doc.Pages)-1]
	if last.Summary != nil {
		set("A8", "Subtotal")
		set("B8", money(last.Summary.Subtotal))
		set("A9", fmt.Sprintf("VAT %s%%", last.Summary.TaxPercent.String()))
		set("B9", money(last.Summary.TaxAmount))
		set("A10", "Total")
		set("B10", money(last.Summary.GrandTotal))
	}

	_ = file.SetColWidth(sheet, "A", "A", 18)
	_ = file.SetColWidth(sheet, "B", "B", 40)
}

func (g *Generator) writePage(file *excelize.File, sheet string, page assembler.Page) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}
	row := 1
	header := func(cols ...string) {
		for i, col := range cols {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			set(cell, col)
		}
		row++
	}

	if len(page.Passengers) > 0 {
		header("#", "Name", "Type", "Ticket", "Amount")
		for _, slot := range page.Passengers {
			set(fmt.Sprintf("A%d", row), slot.Label(page.SuppressBlank))
			if slot.Filled {
				set(fmt.Sprintf("B%d", row), slot.Item.Name)
				set(fmt.Sprintf("C%d", row), slot.Item.Type)
				set(fmt.Sprintf("D%d", row), slot.Item.TicketNumber)
				set(fmt.Sprintf("E%d", row), money(slot.Item.Amount))
			}
			row++
		}
		row++
	}

	if page.IsFirst() && len(page.Routes) > 0 {
		header("Flight", "From", "To", "Date", "Time")
		for _, slot := range page.Routes {
			if slot.Filled {
				set(fmt.Sprintf("A%d", row), slot.Item.FlightNumber)
				set(fmt.Sprintf("B%d", row), slot.Item.Origin)
				set(fmt.Sprintf("C%d", row), slot.Item.Destination)
				set(fmt.Sprintf("D%d", row), formatDate(slot.Item.DepartureDate))
				set(fmt.Sprintf("E%d", row), slot.Item.DepartureTime)
			}
			row++
		}
		row++
	}

	if len(page.Extras) > 0 {
		header("Description", "Amount")
		for _, slot := range page.Extras {
			if slot.Filled {
				set(fmt.Sprintf("A%d", row), slot.Item.Description)
				set(fmt.Sprintf("B%d", row), money(slot.Item.Amount))
			}
			row++
		}
		row++
	}

	if len(page.References) > 0 {
		header("#", "Reference", "Date", "Description", "Amount")
		for _, slot := range page.References {
			set(fmt.Sprintf("A%d", row), slot.Label(page.SuppressBlank))
			if slot.Filled {
				set(fmt.Sprintf("B%d", row), slot.Item.Number)
				set(fmt.Sprintf("C%d", row), formatDate(slot.Item.Date))
				set(fmt.Sprintf("D%d", row), slot.Item.Description)
				set(fmt.Sprintf("E%d", row), money(slot.Item.Amount))
			}
			row++
		}
		row++
	}

	if v := page.Voucher; v != nil {
		set(fmt.Sprintf("A%d", row), "Service")
		set(fmt.Sprintf("B%d", row), v.Details.ServiceName)
		row++
		set(fmt.Sprintf("A%d", row), "Supplier")
		set(fmt.Sprintf("B%d", row), v.Details.Supplier)
		row++
		set(fmt.Sprintf("A%d", row), "Check-in")
		set(fmt.Sprintf("B%d", row), formatDate(v.Details.CheckIn))
		row++
		set(fmt.Sprintf("A%d", row), "Check-out")
		set(fmt.Sprintf("B%d", row), formatDate(v.Details.CheckOut))
		row += 2
		header("#", "Guest name")
		for _, slot := range v.Names {
			set(fmt.Sprintf("A%d", row), slot.Label(true))
			set(fmt.Sprintf("B%d", row), slot.Item)
			row++
		}
		row++
		set(fmt.Sprintf("A%d", row), "Remark")
		set(fmt.Sprintf("B%d", row), strings.Join(v.RemarkLines, "\n"))
		row += 2
	}

	if page.IsLast() && page.Summary != nil {
		set(fmt.Sprintf("A%d", row), "Total")
		set(fmt.Sprintf("B%d", row), money(page.Summary.GrandTotal))
	}

	_ = file.SetColWidth(sheet, "A", "A", 16)
	_ = file.SetColWidth(sheet, "B", "B", 32)
	_ = file.SetColWidth(sheet, "C", "D", 18)
	_ = file.SetColWidth(sheet, "E", "E", 14)
}

func uniqueSheetName(base string, used map[string]struct{}) string {
	base = sanitizeSheetName(base)
	if len(base) > maxSheetName {
		base = base[:maxSheetName]
	}

	candidate := base
	for counter := 2; ; counter++ {
		if _, exists := used[candidate]; !exists {
			return candidate
		}
		suffix := fmt.Sprintf("-%d", counter)
		trimmed := base
		if len(trimmed)+len(suffix) > maxSheetName {
			trimmed = trimmed[:maxSheetName-len(suffix)]
		}
		candidate = trimmed + suffix
	}
}

func sanitizeSheetName(value string) string {
	replacer := strings.NewReplacer(
		"[", "-",
		"]", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"/", "-",
		"\\", "-",
	)
	value = strings.TrimSpace(replacer.Replace(value))
	if value == "" {
		return "Sheet"
	}
	return value
}

func money(value decimal.Decimal) float64 {
	f, _ := value.Round(2).Float64()
	return f
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02/01/2006")
}
