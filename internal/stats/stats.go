// Package stats aggregates confirmed charge records into spending
// summaries for the stats command.
package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/voltpath/chargelog/internal/model"
)

// Summary is the full rollup over a set of records.
type Summary struct {
	TotalSpent      float64
	TotalEnergyKWh  float64
	TotalDiscount   float64
	SessionCount    int
	AvgCostPerKWh   float64
	AvgCostPerVisit float64
	ByStation       []StationSummary
	ByMonth         []MonthSummary
	ByWeek          []WeekSummary
}

// StationSummary aggregates spending at one station.
type StationSummary struct {
	Name      string
	Spent     float64
	EnergyKWh float64
	Sessions  int
}

// MonthSummary aggregates spending within one calendar month.
type MonthSummary struct {
	Month     string // "2026-01"
	Spent     float64
	EnergyKWh float64
	Sessions  int
}

// WeekSummary aggregates spending within one ISO week.
type WeekSummary struct {
	Week      string // "2026-W01"
	Spent     float64
	EnergyKWh float64
	Sessions  int
}

// Compute builds a Summary from records. Station groups come back
// biggest spend first; months come back chronologically.
func Compute(records []model.ChargeRecord) Summary {
	s := Summary{SessionCount: len(records)}

	stations := make(map[string]*StationSummary)
	months := make(map[string]*MonthSummary)
	weeks := make(map[string]*WeekSummary)

	for _, rec := range records {
		s.TotalSpent += rec.Total
		s.TotalEnergyKWh += rec.EnergyKWh
		s.TotalDiscount += rec.Discount

		name := rec.StationName
		if name == "" {
			name = "(no station)"
		}
		st, ok := stations[name]
		if !ok {
			st = &StationSummary{Name: name}
			stations[name] = st
		}
		st.Spent += rec.Total
		st.EnergyKWh += rec.EnergyKWh
		st.Sessions++

		key := rec.Date.Format("2006-01")
		mo, ok := months[key]
		if !ok {
			mo = &MonthSummary{Month: key}
			months[key] = mo
		}
		mo.Spent += rec.Total
		mo.EnergyKWh += rec.EnergyKWh
		mo.Sessions++

		wk, ok := weeks[weekKey(rec.Date)]
		if !ok {
			wk = &WeekSummary{Week: weekKey(rec.Date)}
			weeks[wk.Week] = wk
		}
		wk.Spent += rec.Total
		wk.EnergyKWh += rec.EnergyKWh
		wk.Sessions++
	}

	if s.TotalEnergyKWh > 0 {
		s.AvgCostPerKWh = model.Round2(s.TotalSpent / s.TotalEnergyKWh)
	}
	if s.SessionCount > 0 {
		s.AvgCostPerVisit = model.Round2(s.TotalSpent / float64(s.SessionCount))
	}
	s.TotalSpent = model.Round2(s.TotalSpent)
	s.TotalEnergyKWh = model.Round1(s.TotalEnergyKWh)
	s.TotalDiscount = model.Round2(s.TotalDiscount)

	s.ByStation = make([]StationSummary, 0, len(stations))
	for _, st := range stations {
		st.Spent = model.Round2(st.Spent)
		st.EnergyKWh = model.Round1(st.EnergyKWh)
		s.ByStation = append(s.ByStation, *st)
	}
	sort.Slice(s.ByStation, func(i, j int) bool {
		if s.ByStation[i].Spent != s.ByStation[j].Spent {
			return s.ByStation[i].Spent > s.ByStation[j].Spent
		}
		return s.ByStation[i].Name < s.ByStation[j].Name
	})

	s.ByMonth = make([]MonthSummary, 0, len(months))
	for _, mo := range months {
		mo.Spent = model.Round2(mo.Spent)
		mo.EnergyKWh = model.Round1(mo.EnergyKWh)
		s.ByMonth = append(s.ByMonth, *mo)
	}
	sort.Slice(s.ByMonth, func(i, j int) bool {
		return s.ByMonth[i].Month < s.ByMonth[j].Month
	})

	s.ByWeek = make([]WeekSummary, 0, len(weeks))
	for _, wk := range weeks {
		wk.Spent = model.Round2(wk.Spent)
		wk.EnergyKWh = model.Round1(wk.EnergyKWh)
		s.ByWeek = append(s.ByWeek, *wk)
	}
	sort.Slice(s.ByWeek, func(i, j int) bool {
		return s.ByWeek[i].Week < s.ByWeek[j].Week
	})

	return s
}

// weekKey formats a date as its ISO year-week, e.g. "2026-W35".
func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
