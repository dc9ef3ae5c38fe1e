package timeclock

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// DefaultOvertimeThreshold jornada semanal a partir de la cual se cuentan horas extra.
const DefaultOvertimeThreshold = 40 * time.Hour

var secondsPerHour = decimal.NewFromInt(3600)

// HoursSummary totales en segundos enteros del día y de la semana ISO de asOf.
type HoursSummary struct {
	TodaySeconds int64
	WeekSeconds  int64
}

// DayTotal total de segundos de las marcaciones que iniciaron en Day.
type DayTotal struct {
	Day     time.Time
	Seconds int64
}

// DayStart devuelve las 00:00 del día calendario de t en loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// WeekStart devuelve el lunes 00:00 de la semana ISO de t en loc.
func WeekStart(t time.Time, loc *time.Location) time.Time {
	day := DayStart(t, loc)
	offset := (int(day.Weekday()) + 6) % 7 // lunes = 0
	return day.AddDate(0, 0, -offset)
}

// PunchSeconds duración en segundos enteros de una marcación. Una marcación abierta cuenta
// hasta asOf. Nunca negativa.
func PunchSeconds(p *entity.PunchEvent, asOf time.Time) int64 {
	end := asOf
	if p.ClockOut != nil {
		end = *p.ClockOut
	}
	d := end.Sub(p.ClockIn)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// ComputeHours suma las marcaciones cuyo ClockIn cae en el mismo día (y en la misma semana ISO,
// lunes a domingo) que asOf. Es determinista para un mismo conjunto de marcaciones y asOf.
func ComputeHours(punches []*entity.PunchEvent, asOf time.Time, loc *time.Location) HoursSummary {
	today := DayStart(asOf, loc)
	week := WeekStart(asOf, loc)

	var out HoursSummary
	for _, p := range punches {
		if p == nil {
			continue
		}
		secs := PunchSeconds(p, asOf)
		if WeekStart(p.ClockIn, loc).Equal(week) {
			out.WeekSeconds += secs
		}
		if DayStart(p.ClockIn, loc).Equal(today) {
			out.TodaySeconds += secs
		}
	}
	return out
}

// DailyTotals agrupa por día de ClockIn, ordenado ascendente. Las marcaciones abiertas cuentan
// hasta asOf.
func DailyTotals(punches []*entity.PunchEvent, asOf time.Time, loc *time.Location) []DayTotal {
	byDay := make(map[time.Time]int64)
	for _, p := range punches {
		if p == nil {
			continue
		}
		byDay[DayStart(p.ClockIn, loc)] += PunchSeconds(p, asOf)
	}
	out := make([]DayTotal, 0, len(byDay))
	for day, secs := range byDay {
		out = append(out, DayTotal{Day: day, Seconds: secs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// OvertimeSeconds max(0, week - threshold).
func OvertimeSeconds(weekSeconds int64, threshold time.Duration) int64 {
	over := weekSeconds - int64(threshold/time.Second)
	if over < 0 {
		return 0
	}
	return over
}

// SecondsToHours convierte a horas fraccionarias redondeadas a 2 decimales.
func SecondsToHours(seconds int64) decimal.Decimal {
	return decimal.NewFromInt(seconds).Div(secondsPerHour).Round(2)
}

// FormatHM formatea segundos como H:MM (minutos truncados).
func FormatHM(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	return fmt.Sprintf("%d:%02d", h, m)
}

// WeeklyOvertimeSeconds suma, por cada semana ISO cubierta por las marcaciones, el exceso sobre
// threshold.
func WeeklyOvertimeSeconds(punches []*entity.PunchEvent, asOf time.Time, loc *time.Location, threshold time.Duration) int64 {
	byWeek := make(map[time.Time]int64)
	for _, p := range punches {
		if p == nil {
			continue
		}
		byWeek[WeekStart(p.ClockIn, loc)] += PunchSeconds(p, asOf)
	}
	var total int64
	for _, secs := range byWeek {
		total += OvertimeSeconds(secs, threshold)
	}
	return total
}
