// Package export renders confirmed charge records into portable formats:
// CSV for spreadsheets and JSON for full backup and restore.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/voltpath/chargelog/internal/model"
)

var csvHeader = []string{
	"date",
	"station",
	"electricity_fee",
	"service_fee",
	"total",
	"energy_kwh",
	"discount",
	"points",
	"extreme_energy_kwh",
	"charging_time",
	"notes",
}

// WriteCSV writes records to w as CSV, newest session first. The output
// carries raw numbers without currency symbols so spreadsheets can sum
// the columns directly.
func WriteCSV(w io.Writer, records []model.ChargeRecord) error {
	sorted := make([]model.ChargeRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, rec := range sorted {
		row := []string{
			rec.Date.Format("2006-01-02"),
			rec.StationName,
			formatAmount(rec.ElectricityFee, 2),
			formatAmount(rec.ServiceFee, 2),
			formatAmount(rec.Total, 2),
			formatAmount(rec.EnergyKWh, 1),
			formatAmount(rec.Discount, 3),
			formatAmount(rec.Points, 3),
			formatAmount(rec.ExtremeEnergyKWh, 3),
			rec.ChargingTime,
			rec.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatAmount(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}
