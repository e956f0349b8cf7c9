package emissions

import (
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

// FactorTable maps fuel type to kg CO2 emitted per liter burned.
type FactorTable map[string]float64

// DieselFactor is the fallback for unrecognized fuel types.
const DieselFactor = 2.68

// DefaultFactors returns the built-in emission factor table.
func DefaultFactors() FactorTable {
	return FactorTable{
		models.FuelTypeDiesel:   DieselFactor,
		models.FuelTypePetrol:   2.31,
		models.FuelTypeCNG:      2.25,
		models.FuelTypeElectric: 0,
	}
}

// Factor looks up the emission factor for a fuel type, defaulting to the
// diesel factor when the type is unrecognized.
func (t FactorTable) Factor(fuelType string) float64 {
	if f, ok := t[strings.ToLower(fuelType)]; ok {
		return f
	}
	return DieselFactor
}

// LoadFactorFile overlays factors from a JSON config file of the form
// {"diesel": 2.68, "petrol": 2.31}, then applies EMISSION_FACTOR_* env
// overrides (e.g. EMISSION_FACTOR_DIESEL=2.7).
func (t FactorTable) LoadFactorFile(path string) error {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return err
		}
	}
	if err := k.Load(env.Provider("EMISSION_FACTOR_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "EMISSION_FACTOR_"))
	}), nil); err != nil {
		return err
	}
	for _, key := range k.Keys() {
		t[strings.ToLower(key)] = k.Float64(key)
	}
	return nil
}

// ApplyOverrides overlays persisted emission factor rows onto the table.
func (t FactorTable) ApplyOverrides(rows []models.EmissionFactor) {
	for _, row := range rows {
		t[strings.ToLower(row.FuelType)] = row.KgCO2PerLiter
	}
}
