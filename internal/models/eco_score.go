package models

import (
	"gorm.io/gorm"
)

// EcoRank tiers derived from the overall eco score
const (
	EcoRankChampion   = "Eco Champion"
	EcoRankGreen      = "Green Driver"
	EcoRankLearner    = "Eco Learner"
	EcoRankDeveloping = "Developing"
	EcoRankBeginner   = "Beginner"
)

// Badge names, awarded once and never removed
const (
	BadgeCenturyDriver = "Century Driver"
	BadgeEcoChampion   = "Eco Champion"
	BadgeCarbonSaver   = "Carbon Saver"
)

// DriverEcoScore is a monotonically accumulating per-driver aggregate,
// created lazily on the driver's first recorded delivery and updated
// exactly once per completed delivery.
type DriverEcoScore struct {
	gorm.Model
	DriverID uint `json:"driverId" gorm:"not null;uniqueIndex"`

	TotalDeliveries  int     `json:"totalDeliveries" gorm:"not null;default:0"`
	TotalDistanceKm  float64 `json:"totalDistanceKm" gorm:"not null;default:0"`
	TotalFuelLiters  float64 `json:"totalFuelLiters" gorm:"not null;default:0"`
	TotalCO2Kg       float64 `json:"totalCo2EmittedKg" gorm:"column:total_co2_emitted_kg;not null;default:0"`

	// Monthly counters, reset by an external job at month rollover
	MonthlyDeliveries int     `json:"monthlyDeliveries" gorm:"not null;default:0"`
	MonthlyDistanceKm float64 `json:"monthlyDistanceKm" gorm:"not null;default:0"`
	MonthlyCO2Kg      float64 `json:"monthlyCo2Kg" gorm:"not null;default:0"`

	FuelEfficiencyScore float64 `json:"fuelEfficiencyScore" gorm:"not null;default:0"`
	IdlingScore         float64 `json:"idlingScore" gorm:"not null;default:0"`
	AccelerationScore   float64 `json:"accelerationScore" gorm:"not null;default:0"`
	BrakingScore        float64 `json:"brakingScore" gorm:"not null;default:0"`
	OverallEcoScore     int     `json:"overallEcoScore" gorm:"not null;default:0"`
	EcoRank             string  `json:"ecoRank" gorm:"not null;default:'Beginner'"`

	Badges []string `json:"badges" gorm:"serializer:json"`

	Driver *User `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
}

// TableName specifies the table name
func (DriverEcoScore) TableName() string {
	return "driver_eco_scores"
}

// HasBadge reports whether the badge was already awarded.
func (s *DriverEcoScore) HasBadge(name string) bool {
	for _, b := range s.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// AwardBadge appends the badge if not already present. Badges are never
// removed even if the triggering metric later regresses.
func (s *DriverEcoScore) AwardBadge(name string) {
	if !s.HasBadge(name) {
		s.Badges = append(s.Badges, name)
	}
}
