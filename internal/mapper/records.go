package mapper

import "github.com/shopspring/decimal"

type passengerRecord struct {
	ID           string          `mapstructure:"id"`
	Name         string          `mapstructure:"name"`
	Type         string          `mapstructure:"type"`
	TicketNumber string          `mapstructure:"ticket_number"`
	Amount       decimal.Decimal `mapstructure:"amount"`
	Selected     bool            `mapstructure:"selected"`
}

type routeRecord struct {
	FlightNumber  string `mapstructure:"flight_number"`
	Origin        string `mapstructure:"origin"`
	Destination   string `mapstructure:"destination"`
	DepartureDate string `mapstructure:"departure_date"`
	DepartureTime string `mapstructure:"departure_time"`
}

type extraRecord struct {
	Description string          `mapstructure:"description"`
	Amount      decimal.Decimal `mapstructure:"amount"`
}

type referenceRecord struct {
	Number      string          `mapstructure:"reference_number"`
	Date        string          `mapstructure:"reference_date"`
	Description string          `mapstructure:"description"`
	Amount      decimal.Decimal `mapstructure:"amount"`
}

type documentRecord struct {
	CustomerName     string `mapstructure:"customer_name"`
	CustomerAddress  string `mapstructure:"customer_address"`
	CustomerAddress2 string `mapstructure:"customer_address2"`
	CustomerAddress3 string `mapstructure:"customer_address3"`
	CustomerPhone    string `mapstructure:"customer_phone"`
	CustomerTaxID    string `mapstructure:"customer_tax_id"`
	CustomerBranch   string `mapstructure:"customer_branch"`

	DocumentNumber string `mapstructure:"document_number"`
	InvoiceNumber  string `mapstructure:"invoice_number"`
	ReceiptNumber  string `mapstructure:"receipt_number"`
	VoucherNumber  string `mapstructure:"voucher_number"`
	DepositNumber  string `mapstructure:"deposit_number"`
	IssueDate      string `mapstructure:"issue_date"`
	DueDate        string `mapstructure:"due_date"`
	Salesperson    string `mapstructure:"salesperson"`
	SignerName     string `mapstructure:"signer_name"`

	Passengers     []passengerRecord `mapstructure:"passengers"`
	PassengerNames string            `mapstructure:"passenger_names"`
	Routes         []routeRecord     `mapstructure:"routes"`
	Extras         []extraRecord     `mapstructure:"extras"`
	References     []referenceRecord `mapstructure:"references"`

	ServiceName string `mapstructure:"service_name"`
	Supplier    string `mapstructure:"supplier"`
	CheckIn     string `mapstructure:"check_in"`
	CheckOut    string `mapstructure:"check_out"`
	Remark      string `mapstructure:"remark"`

	Subtotal   decimal.NullDecimal `mapstructure:"subtotal"`
	TaxPercent decimal.Decimal     `mapstructure:"vat_percent"`
	TaxAmount  decimal.NullDecimal `mapstructure:"vat_amount"`
}
