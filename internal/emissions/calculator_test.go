package emissions

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

func TestCO2FromFuelZeroLiters(t *testing.T) {
	factors := DefaultFactors()
	assert.Equal(t, 0.0, factors.CO2FromFuel(0, models.FuelTypeDiesel))
	assert.Equal(t, 0.0, factors.CO2FromFuel(0, models.FuelTypeElectric))
	assert.Equal(t, 0.0, factors.CO2FromFuel(0, "kerosene"))
}

func TestCO2FromFuelDiesel(t *testing.T) {
	factors := DefaultFactors()
	assert.Equal(t, 26.8, factors.CO2FromFuel(10, models.FuelTypeDiesel))
}

func TestCO2FromFuelUnknownTypeFallsBackToDiesel(t *testing.T) {
	factors := DefaultFactors()
	assert.Equal(t, factors.CO2FromFuel(10, models.FuelTypeDiesel), factors.CO2FromFuel(10, "hydrogen"))
}

func TestCO2FromFuelCaseInsensitive(t *testing.T) {
	factors := DefaultFactors()
	assert.Equal(t, 26.8, factors.CO2FromFuel(10, "DIESEL"))
}

func TestCO2FromFuelOverride(t *testing.T) {
	factors := DefaultFactors()
	factors.ApplyOverrides([]models.EmissionFactor{
		{FuelType: models.FuelTypeDiesel, KgCO2PerLiter: 3.0},
	})
	assert.Equal(t, 30.0, factors.CO2FromFuel(10, models.FuelTypeDiesel))
}

func TestEstimateFuelFromDistance(t *testing.T) {
	assert.Equal(t, 15.0, EstimateFuelFromDistance(100, models.VehicleTypeTruck, DefaultEfficiency))
	assert.Equal(t, 3.0, EstimateFuelFromDistance(100, models.VehicleTypeBike, DefaultEfficiency))
	assert.Equal(t, 25.0, EstimateFuelFromDistance(100, models.VehicleTypeLargeTruck, DefaultEfficiency))
	assert.Equal(t, 7.5, EstimateFuelFromDistance(50, models.VehicleTypeTruck, DefaultEfficiency))
}

func TestEstimateFuelFromDistanceUnknownType(t *testing.T) {
	assert.Equal(t, 12.0, EstimateFuelFromDistance(100, "hovercraft", DefaultEfficiency))
	assert.Equal(t, 0.0, EstimateFuelFromDistance(0, models.VehicleTypeTruck, DefaultEfficiency))
}
