package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iho/agroledger/internal/domain"
)

// LendingRates is one set of lending parameters. Amounts are strings so the
// file never passes through float parsing.
type LendingRates struct {
	AdvancePerBagRate   string `env:"ADVANCE_PER_BAG_RATE"   envDefault:"300"  yaml:"advance_per_bag_rate"`
	LoanPerBagRate      string `env:"LOAN_PER_BAG_RATE"      envDefault:"500"  yaml:"loan_per_bag_rate"`
	DefaultRatePerMonth string `env:"DEFAULT_RATE_PER_MONTH" envDefault:"2"    yaml:"default_rate_per_month"`
	DueHorizonDays      int    `env:"DUE_HORIZON_DAYS"       envDefault:"180"  yaml:"due_horizon_days"`
}

// Lending holds the default rates plus per-organization overrides.
type Lending struct {
	Defaults      LendingRates            `yaml:"defaults"`
	Organizations map[string]LendingRates `yaml:"organizations"`
}

// LoadFile merges a YAML settings file over the environment defaults.
func (l *Lending) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read lending settings: %w", err)
	}

	var file Lending
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse lending settings: %w", err)
	}

	l.Defaults = mergeRates(l.Defaults, file.Defaults)
	if len(file.Organizations) > 0 {
		if l.Organizations == nil {
			l.Organizations = make(map[string]LendingRates, len(file.Organizations))
		}
		for org, rates := range file.Organizations {
			l.Organizations[org] = rates
		}
	}

	return l.validate()
}

// For returns the settings for an organization. It satisfies
// usecase.SettingsProvider.
func (l Lending) For(organizationID string) domain.LendingSettings {
	rates := l.Defaults
	if override, ok := l.Organizations[organizationID]; ok {
		rates = mergeRates(rates, override)
	}
	return rates.settings()
}

func (l Lending) validate() error {
	if _, err := l.Defaults.parse(); err != nil {
		return fmt.Errorf("lending defaults: %w", err)
	}
	for org, rates := range l.Organizations {
		if _, err := mergeRates(l.Defaults, rates).parse(); err != nil {
			return fmt.Errorf("lending settings for %s: %w", org, err)
		}
	}
	return nil
}

func (r LendingRates) settings() domain.LendingSettings {
	s, _ := r.parse()
	return s
}

func (r LendingRates) parse() (domain.LendingSettings, error) {
	var s domain.LendingSettings
	var err error

	if s.AdvancePerBagRate, err = parseRate("advance_per_bag_rate", r.AdvancePerBagRate); err != nil {
		return s, err
	}
	if s.LoanPerBagRate, err = parseRate("loan_per_bag_rate", r.LoanPerBagRate); err != nil {
		return s, err
	}
	if s.DefaultRatePerMonth, err = parseRate("default_rate_per_month", r.DefaultRatePerMonth); err != nil {
		return s, err
	}
	if r.DueHorizonDays <= 0 {
		return s, errors.New("due_horizon_days must be positive")
	}
	s.DueHorizonDays = r.DueHorizonDays

	return s, nil
}

func parseRate(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", name)
	}
	return d, nil
}

func mergeRates(base, override LendingRates) LendingRates {
	if override.AdvancePerBagRate != "" {
		base.AdvancePerBagRate = override.AdvancePerBagRate
	}
	if override.LoanPerBagRate != "" {
		base.LoanPerBagRate = override.LoanPerBagRate
	}
	if override.DefaultRatePerMonth != "" {
		base.DefaultRatePerMonth = override.DefaultRatePerMonth
	}
	if override.DueHorizonDays != 0 {
		base.DueHorizonDays = override.DueHorizonDays
	}
	return base
}
