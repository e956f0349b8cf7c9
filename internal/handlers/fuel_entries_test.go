package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ankitgade/greenfleet-backend/internal/models"
)

func TestCanCorrectFuelEntry(t *testing.T) {
	driverID := uint(7)
	entry := models.FuelEntry{DriverID: &driverID}

	assert.True(t, canCorrectFuelEntry(7, string(models.UserTypeDriver), &entry))
	assert.True(t, canCorrectFuelEntry(1, string(models.UserTypeAdmin), &entry))

	// A different driver, or a client, cannot amend someone else's entry
	assert.False(t, canCorrectFuelEntry(8, string(models.UserTypeDriver), &entry))
	assert.False(t, canCorrectFuelEntry(7, string(models.UserTypeClient), &entry))
}

func TestCanCorrectFuelEntryNoLoggingDriver(t *testing.T) {
	// Entries without a driver (manual bulk imports) are admin-only
	entry := models.FuelEntry{}
	assert.False(t, canCorrectFuelEntry(7, string(models.UserTypeDriver), &entry))
	assert.True(t, canCorrectFuelEntry(1, string(models.UserTypeAdmin), &entry))
}
