// Package zone maps storage zones, donation statuses and access rights to
// display badges, and reproduces the service's zone scoring for previews.
package zone

import (
	"math"

	"biokeeper/internal/shared/models"
)

const grayClass = "bg-gray-100 text-gray-800"

// Badge is a display label plus the color class the web client used.
type Badge struct {
	Code        string
	Label       string
	Description string
	ColorClass  string
}

var zones = map[models.StorageZone]Badge{
	models.ZoneGreen:  {Label: "Green", Description: "Standard storage conditions", ColorClass: "bg-green-100 text-green-800"},
	models.ZoneYellow: {Label: "Yellow", Description: "Minor deviation", ColorClass: "bg-yellow-100 text-yellow-800"},
	models.ZoneRed:    {Label: "Red", Description: "Critical conditions", ColorClass: "bg-red-100 text-red-800"},
}

// Classify never fails: codes outside the set get an "Unknown" gray badge.
func Classify(code models.StorageZone) Badge {
	b, ok := zones[code]
	if !ok {
		return Badge{Code: string(code), Label: "Unknown", ColorClass: grayClass}
	}
	b.Code = string(code)
	return b
}

var statuses = map[models.DonationStatus]Badge{
	models.StatusAvailable: {Label: "Available", ColorClass: "bg-green-100 text-green-800"},
	models.StatusDonated:   {Label: "Donated", ColorClass: "bg-yellow-100 text-yellow-800"},
	models.StatusDisposed:  {Label: "Disposed", ColorClass: "bg-red-100 text-red-800"},
}

func Status(code models.DonationStatus) Badge {
	b, ok := statuses[code]
	if !ok {
		return Badge{Code: string(code), Label: "Unknown", ColorClass: grayClass}
	}
	b.Code = string(code)
	return b
}

var access = map[models.AccessRights]Badge{
	models.AccessFull:     {Label: "Full", ColorClass: "text-green-600"},
	models.AccessReadAll:  {Label: "Read all", ColorClass: "text-orange-600"},
	models.AccessReadOnly: {Label: "Read only", ColorClass: "text-red-600"},
}

func Access(code models.AccessRights) Badge {
	b, ok := access[code]
	if !ok {
		return Badge{Code: string(code), Label: "Unknown", ColorClass: "text-gray-600"}
	}
	b.Code = string(code)
	return b
}

// Reading is one set of storage measurements.
type Reading struct {
	Temperature float64
	Humidity    float64
	Oxygen      float64
}

// Ideal returns the reference reading stored on a material.
func Ideal(m models.BiologicalMaterial) Reading {
	return Reading{
		Temperature: m.IdealTemperature,
		Humidity:    m.IdealHumidity,
		Oxygen:      m.IdealOxygenLevel,
	}
}

const (
	tempWeight     = 0.5
	humidityWeight = 0.3
	oxygenWeight   = 0.2

	tempSpan     = 10.0
	humiditySpan = 100.0
	oxygenSpan   = 100.0

	redBelow    = 0.3
	yellowBelow = 0.7
)

// Score weighs the deviation of got from ideal; 1 is a perfect match and the
// value goes negative once a deviation exceeds its span.
func Score(got, ideal Reading) float64 {
	t := 1 - math.Abs(got.Temperature-ideal.Temperature)/tempSpan
	h := 1 - math.Abs(got.Humidity-ideal.Humidity)/humiditySpan
	o := 1 - math.Abs(got.Oxygen-ideal.Oxygen)/oxygenSpan
	return tempWeight*t + humidityWeight*h + oxygenWeight*o
}

func Determine(score float64) models.StorageZone {
	switch {
	case score < redBelow:
		return models.ZoneRed
	case score < yellowBelow:
		return models.ZoneYellow
	default:
		return models.ZoneGreen
	}
}
