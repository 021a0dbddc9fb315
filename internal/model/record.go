package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// ChargeRecord represents a confirmed charging session expense.
type ChargeRecord struct {
	Date             time.Time `json:"date"`
	CreatedAt        time.Time `json:"created_at"`
	ID               string    `json:"id"`
	StationName      string    `json:"station_name"`
	ChargingTime     string    `json:"charging_time,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	ElectricityFee   float64   `json:"electricity_fee"`
	ServiceFee       float64   `json:"service_fee"`
	Total            float64   `json:"total"`
	EnergyKWh        float64   `json:"energy_kwh"`
	Discount         float64   `json:"discount,omitempty"`
	Points           float64   `json:"points,omitempty"`
	ExtremeEnergyKWh float64   `json:"extreme_energy_kwh,omitempty"`
}

// GenerateHash creates a stable hash for duplicate detection.
func (r *ChargeRecord) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%.1f:%s",
		r.Date.Format("2006-01-02"),
		r.Total,
		r.EnergyKWh,
		r.StationName)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// RecordFromDraft converts a finalized draft into a ChargeRecord dated at
// the given time. Absent draft fields become zero values here; the record
// is the post-confirmation representation where zero means "none".
func RecordFromDraft(d ExtractionDraft, date time.Time) ChargeRecord {
	rec := ChargeRecord{Date: date}
	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	rec.ElectricityFee = deref(d.ElectricityFee)
	rec.ServiceFee = deref(d.ServiceFee)
	rec.Total = deref(d.Total)
	rec.EnergyKWh = deref(d.EnergyKWh)
	rec.Discount = deref(d.Discount)
	rec.Points = deref(d.Points)
	rec.ExtremeEnergyKWh = deref(d.ExtremeEnergyKWh)
	if d.StationName != nil {
		rec.StationName = *d.StationName
	}
	if d.ChargingTime != nil {
		rec.ChargingTime = *d.ChargingTime
	}
	if d.Notes != nil {
		rec.Notes = *d.Notes
	}
	return rec
}
