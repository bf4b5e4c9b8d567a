package models

import "time"

// Customer is the minimal registry entry the engine keeps about a customer:
// the display name captured into alerts and the revenue attribute summed by
// the portfolio rollup. The full customer record is owned by the CRM.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Revenue   float64   `json:"revenue"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
