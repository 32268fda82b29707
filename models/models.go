package models

import "github.com/shopspring/decimal"

type Config struct {
	// Base URL of the tracker backend, e.g. http://127.0.0.1:5000
	Server string `yaml:"server"`
	// Value of the backend's "session" cookie. The backend only serves
	// records to a logged-in session.
	SessionCookie string              `yaml:"sessionCookie"`
	Keybindings   map[string][]string `yaml:"keybindings"`
	Version       string              `yaml:"version"`
	Theme         string              `yaml:"theme"`
	LogLevel      string              `yaml:"logLevel"`
	LogFile       string              `yaml:"logFile"`
	// gambles or bank
	StartPage string `yaml:"startPage"`
	// 0 means requests never time out on the client side.
	RequestTimeoutSeconds int `yaml:"requestTimeoutSeconds"`
	// After an undo/redo reloads the table, edit recording stays disabled
	// for this long so the table can finish redrawing. 0 re-enables it
	// immediately.
	ReplaySettleMillis *int `yaml:"replaySettleMillis"`
}

// GamblePatch is a sparse single-gamble update. Nil fields are omitted from
// the request so the backend leaves them alone.
type GamblePatch struct {
	ID           int64            `json:"id"`
	StartAmount  *string          `json:"start_amount,omitempty"`
	EndAmount    *string          `json:"end_amount,omitempty"`
	Win          *decimal.Decimal `json:"win,omitempty"`
	FStartAmount *string          `json:"f_start_amount,omitempty"`
	FEndAmount   *string          `json:"f_end_amount,omitempty"`
	FreeWin      *decimal.Decimal `json:"free_win,omitempty"`
}

// Balance is the server's balance report attached to some bank replies.
type Balance struct {
	GamblingProfit float64 `json:"gambling_profit"`
	BankBalance    float64 `json:"bank_balance"`
	TotalBalance   float64 `json:"total_balance"`
}

// TableCell is a piece of text shown in a read-only table, with its theme
// colour.
type TableCell struct {
	Text   string
	Color  string
	Expand int
}
