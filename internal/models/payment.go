package models

import "time"

// Income is a single recorded payment from a client or group.
type Income struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ClientID  *string   `db:"client_id" json:"client_id,omitempty"`
	Amount    float64   `db:"amount" json:"amount"`
	PaidAt    time.Time `db:"paid_at" json:"paid_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Client is an individual student the tutor works with.
type Client struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MonthlyIncomeSummary aggregates the current month's payments.
// Expected is the number of active clients, i.e. payments the tutor
// anticipates this month.
type MonthlyIncomeSummary struct {
	Month    int     `json:"month"`
	Amount   float64 `json:"amount"`
	Count    int     `json:"count"`
	Expected int     `json:"expected"`
}
