package memory

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/iho/agroledger/internal/domain"
)

// SeedFile is the master data loaded into a memory store at startup.
type SeedFile struct {
	Parties []struct {
		ID             string `yaml:"id"`
		OrganizationID string `yaml:"organization_id"`
		Name           string `yaml:"name"`
		Village        string `yaml:"village"`
	} `yaml:"parties"`
	Amads []struct {
		ID             string `yaml:"id"`
		OrganizationID string `yaml:"organization_id"`
		PartyID        string `yaml:"party_id"`
		TotalUnits     string `yaml:"total_units"`
		Status         string `yaml:"status"`
	} `yaml:"amads"`
}

// LoadSeedFile reads parties and collateral lots from a YAML file into s.
func (s *Store) LoadSeedFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	return s.LoadSeed(data)
}

// LoadSeed loads parties and collateral lots from YAML.
func (s *Store) LoadSeed(data []byte) error {
	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("parse seed: %w", err)
	}

	for _, p := range seed.Parties {
		if p.ID == "" {
			return fmt.Errorf("seed party without id")
		}
		s.SeedParty(domain.Party{
			ID:             p.ID,
			OrganizationID: p.OrganizationID,
			Name:           p.Name,
			Village:        p.Village,
		})
	}

	for _, a := range seed.Amads {
		units, err := decimal.NewFromString(a.TotalUnits)
		if err != nil || units.IsNegative() {
			return fmt.Errorf("seed amad %s: invalid total_units %q", a.ID, a.TotalUnits)
		}
		status := domain.AmadStatus(a.Status)
		if status == "" {
			status = domain.AmadStatusStored
		}
		s.SeedAmad(domain.Amad{
			ID:             a.ID,
			OrganizationID: a.OrganizationID,
			PartyID:        a.PartyID,
			TotalUnits:     units,
			Status:         status,
		})
	}

	return nil
}
