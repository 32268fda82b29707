package models

// Field names shared by both record shapes, plus the gambling and bank
// specific ones. These are the backend's JSON keys.
const (
	FieldID   = "id"
	FieldDate = "date"

	FieldWebsite      = "website"
	FieldMachine      = "machine"
	FieldWin          = "win"
	FieldFreeWinM     = "free_win_m"
	FieldFreeWin      = "free_win"
	FieldProfit       = "profit"
	FieldNote         = "note"
	FieldStartAmount  = "start_amount"
	FieldEndAmount    = "end_amount"
	FieldFStartAmount = "f_start_amount"
	FieldFEndAmount   = "f_end_amount"

	FieldType   = "type"
	FieldAmount = "amount"
	FieldSite   = "site"
)

const (
	BankTypeDeposit    = "deposit"
	BankTypeWithdrawal = "withdrawal"
)

// ColumnType decides how a cell is parsed when edited.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnNumeric
	ColumnDate
	ColumnDropdown
)

type Column struct {
	Field  string
	Header string
	Type   ColumnType
	// Fixed choices for ColumnDropdown.
	Options []string
	// When true, edit suggestions are drawn from the values already present
	// in the column.
	Suggest  bool
	ReadOnly bool
	Expand   int
}

// Kind describes one table: its columns, the endpoints that back it and its
// static view configuration.
type Kind struct {
	Name string
	// Title is the translation key for the page title.
	Title string

	Columns []Column

	FetchAllPath   string
	PersistAllPath string
	// DeleteOnePath is a prefix; the record id is appended.
	DeleteOnePath string
	// FetchOnePath and UpdateOnePath are only served for gambles.
	FetchOnePath  string
	UpdateOnePath string
	// PayloadKey wraps the record list in persist-all requests.
	PayloadKey string

	SortField string
	SortDesc  bool
}

const (
	KindGambles = "gambles"
	KindBank    = "bank"
)

// Gambles is the gambling session table.
var Gambles = Kind{
	Name:  KindGambles,
	Title: "GamblesPageTitle",
	Columns: []Column{
		{Field: FieldID, Header: "ID", Type: ColumnNumeric, ReadOnly: true},
		{Field: FieldDate, Header: "Date", Type: ColumnDate},
		{Field: FieldWebsite, Header: "Website", Type: ColumnText, Suggest: true, Expand: 1},
		{Field: FieldMachine, Header: "Machine", Type: ColumnText, Suggest: true, Expand: 1},
		{Field: FieldWin, Header: "Win", Type: ColumnNumeric},
		{Field: FieldFreeWinM, Header: "Free Win Machine", Type: ColumnText, Suggest: true},
		{Field: FieldFreeWin, Header: "Free Win", Type: ColumnNumeric},
		{Field: FieldProfit, Header: "Profit", Type: ColumnNumeric},
		{Field: FieldNote, Header: "Note", Type: ColumnText, Expand: 1},
	},
	FetchAllPath:   "/get_all_gambles",
	PersistAllPath: "/update_all_gambles",
	DeleteOnePath:  "/delete_gamble/",
	FetchOnePath:   "/get_gamble_data",
	UpdateOnePath:  "/update_gamble",
	PayloadKey:     "gambles",
	SortField:      FieldDate,
	SortDesc:       true,
}

// Bank is the bank transaction table.
var Bank = Kind{
	Name:  KindBank,
	Title: "BankPageTitle",
	Columns: []Column{
		{Field: FieldID, Header: "ID", Type: ColumnNumeric, ReadOnly: true},
		{Field: FieldDate, Header: "Date", Type: ColumnDate},
		{
			Field:   FieldType,
			Header:  "Type",
			Type:    ColumnDropdown,
			Options: []string{BankTypeDeposit, BankTypeWithdrawal},
		},
		{Field: FieldAmount, Header: "Amount", Type: ColumnNumeric},
		{Field: FieldSite, Header: "Site", Type: ColumnText, Suggest: true, Expand: 1},
	},
	FetchAllPath:   "/get_all_bank_transactions",
	PersistAllPath: "/update_all_bank_transactions",
	DeleteOnePath:  "/delete_bank_transaction/",
	PayloadKey:     "transactions",
	SortField:      FieldDate,
	SortDesc:       true,
}

// Fields returns the kind's field names in column order.
func (k Kind) Fields() []string {
	out := make([]string, len(k.Columns))
	for i, c := range k.Columns {
		out[i] = c.Field
	}

	return out
}

// ColumnIndex returns the position of field in the column order, or -1.
func (k Kind) ColumnIndex(field string) int {
	for i, c := range k.Columns {
		if c.Field == field {
			return i
		}
	}

	return -1
}

// SupportsAmountEdit is true when the kind serves the single-record
// endpoints used by the amount editor.
func (k Kind) SupportsAmountEdit() bool {
	return k.FetchOnePath != "" && k.UpdateOnePath != ""
}
