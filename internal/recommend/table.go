// Package recommend holds the static risk-profile to fund mapping.
package recommend

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/bobmcallan/fund-recommender/internal/models"
	"github.com/pelletier/go-toml/v2"
)

//go:embed funds.toml
var defaultTableData []byte

type tableFile struct {
	Profiles []profileEntry `toml:"profile"`
}

type profileEntry struct {
	Name  string   `toml:"name"`
	Funds []string `toml:"funds"`
}

// Table maps each risk profile to its ordered fund list. It is read-only once loaded.
type Table struct {
	funds map[models.RiskProfile]models.FundList
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the table compiled into the binary. It is decoded once per process.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Load(defaultTableData)
	})
	return defaultTable, defaultErr
}

// Load decodes a TOML table. Every risk profile must be present exactly once
// with a non-empty fund list; unknown profile names are rejected.
func Load(data []byte) (*Table, error) {
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse fund table: %w", err)
	}

	t := &Table{funds: make(map[models.RiskProfile]models.FundList, len(models.RiskProfiles))}
	for _, entry := range file.Profiles {
		profile, ok := models.ParseRiskProfile(entry.Name)
		if !ok {
			return nil, fmt.Errorf("fund table: unknown risk profile %q", entry.Name)
		}
		if _, dup := t.funds[profile]; dup {
			return nil, fmt.Errorf("fund table: duplicate risk profile %q", entry.Name)
		}

		funds := make(models.FundList, 0, len(entry.Funds))
		for _, f := range entry.Funds {
			f = strings.TrimSpace(f)
			if f == "" {
				return nil, fmt.Errorf("fund table: empty fund name for %q", entry.Name)
			}
			funds = append(funds, f)
		}
		if len(funds) == 0 {
			return nil, fmt.Errorf("fund table: no funds for %q", entry.Name)
		}
		t.funds[profile] = funds
	}

	for _, p := range models.RiskProfiles {
		if _, ok := t.funds[p]; !ok {
			return nil, fmt.Errorf("fund table: missing risk profile %q", p)
		}
	}

	return t, nil
}

// Lookup returns a copy of the funds for profile. Any value outside the
// closed set of profiles, including "", reports ok=false.
func (t *Table) Lookup(profile models.RiskProfile) (models.FundList, bool) {
	funds, ok := t.funds[profile]
	if !ok {
		return nil, false
	}
	return funds.Clone(), true
}

// Profiles returns the profiles in display order.
func (t *Table) Profiles() []models.RiskProfile {
	out := make([]models.RiskProfile, len(models.RiskProfiles))
	copy(out, models.RiskProfiles)
	return out
}
