// Package model defines the core domain models used throughout the application.
package model

import "math"

// ExtractionDraft accumulates fields recognized from a receipt scan.
// Every field is optional: a nil pointer means the classifier never found
// a matching line. Defaulting absent amounts to zero is a form-display
// concern, not a model concern.
type ExtractionDraft struct {
	ElectricityFee   *float64
	ServiceFee       *float64
	Total            *float64
	EnergyKWh        *float64
	Discount         *float64
	Points           *float64
	ExtremeEnergyKWh *float64
	ChargingTime     *string
	Notes            *string
	StationName      *string
}

// Round1 rounds to 1 decimal place (kWh precision).
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to 2 decimal places (currency precision).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places (discount and sub-kWh precision).
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Clone returns a deep copy of the draft.
func (d ExtractionDraft) Clone() ExtractionDraft {
	out := ExtractionDraft{}
	copyFloat := func(p *float64) *float64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	copyString := func(p *string) *string {
		if p == nil {
			return nil
		}
		s := *p
		return &s
	}
	out.ElectricityFee = copyFloat(d.ElectricityFee)
	out.ServiceFee = copyFloat(d.ServiceFee)
	out.Total = copyFloat(d.Total)
	out.EnergyKWh = copyFloat(d.EnergyKWh)
	out.Discount = copyFloat(d.Discount)
	out.Points = copyFloat(d.Points)
	out.ExtremeEnergyKWh = copyFloat(d.ExtremeEnergyKWh)
	out.ChargingTime = copyString(d.ChargingTime)
	out.Notes = copyString(d.Notes)
	out.StationName = copyString(d.StationName)
	return out
}
