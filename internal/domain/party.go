package domain

import "github.com/shopspring/decimal"

// Party is a counterparty read from the external master data.
type Party struct {
	ID             string
	OrganizationID string
	Name           string
	Village        string
}

// AmadStatus is the warehouse status of a collateral lot.
type AmadStatus string

const (
	AmadStatusStored   AmadStatus = "STORED"
	AmadStatusReleased AmadStatus = "RELEASED"
)

// Amad is a lot of warehoused goods that can back a loan.
type Amad struct {
	ID             string
	OrganizationID string
	PartyID        string
	TotalUnits     decimal.Decimal
	Status         AmadStatus
}

// PledgeableUnits is the quantity that can back new lending. Released lots back nothing.
func (a *Amad) PledgeableUnits() decimal.Decimal {
	if a.Status != AmadStatusStored {
		return decimal.Zero
	}
	return a.TotalUnits
}
