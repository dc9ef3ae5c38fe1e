package timeclock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

func at(loc *time.Location, day, hour, min int) time.Time {
	// Marzo 2024: el lunes 4 inicia la semana ISO 10.
	return time.Date(2024, 3, day, hour, min, 0, 0, loc)
}

func closed(in, out time.Time) *entity.PunchEvent {
	return &entity.PunchEvent{UserID: "u-1", PunchType: entity.PunchTypeGeneral, ClockIn: in, ClockOut: &out}
}

func TestComputeHours_JornadaDe0900a1730(t *testing.T) {
	loc := time.UTC
	punches := []*entity.PunchEvent{closed(at(loc, 5, 9, 0), at(loc, 5, 17, 30))}

	sum := timeclock.ComputeHours(punches, at(loc, 5, 18, 0), loc)

	assert.Equal(t, int64(8*3600+30*60), sum.TodaySeconds)
	assert.True(t, decimal.RequireFromString("8.5").Equal(timeclock.SecondsToHours(sum.TodaySeconds)))
	assert.Equal(t, sum.TodaySeconds, sum.WeekSeconds)
}

func TestComputeHours_SinMarcaciones(t *testing.T) {
	sum := timeclock.ComputeHours(nil, at(time.UTC, 5, 12, 0), time.UTC)
	assert.Zero(t, sum.TodaySeconds)
	assert.Zero(t, sum.WeekSeconds)
}

func TestComputeHours_MarcacionAbiertaCuentaHastaAsOf(t *testing.T) {
	loc := time.UTC
	open := &entity.PunchEvent{UserID: "u-1", PunchType: entity.PunchTypeWork, WorkOrderID: "wo-1", ClockIn: at(loc, 5, 10, 0)}

	sum := timeclock.ComputeHours([]*entity.PunchEvent{open}, at(loc, 5, 11, 15), loc)
	assert.Equal(t, int64(75*60), sum.TodaySeconds)

	// asOf anterior al inicio: nunca negativo.
	sum = timeclock.ComputeHours([]*entity.PunchEvent{open}, at(loc, 5, 9, 0), loc)
	assert.Zero(t, sum.TodaySeconds)
}

func TestComputeHours_SemanaISOEmpiezaEnLunes(t *testing.T) {
	loc := time.UTC
	punches := []*entity.PunchEvent{
		closed(at(loc, 3, 9, 0), at(loc, 3, 10, 0)),  // domingo: semana anterior
		closed(at(loc, 4, 9, 0), at(loc, 4, 11, 0)),  // lunes
		closed(at(loc, 6, 9, 0), at(loc, 6, 10, 30)), // miércoles (hoy)
	}

	sum := timeclock.ComputeHours(punches, at(loc, 6, 20, 0), loc)
	assert.Equal(t, int64(90*60), sum.TodaySeconds)
	assert.Equal(t, int64(3*3600+30*60), sum.WeekSeconds)
}

func TestComputeHours_DiaSegunZonaHoraria(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	// 23:00 en Bogotá es el día siguiente en UTC.
	p := closed(at(bogota, 5, 23, 0), at(bogota, 5, 23, 30))
	asOf := at(bogota, 5, 23, 45)

	assert.Equal(t, int64(1800), timeclock.ComputeHours([]*entity.PunchEvent{p}, asOf, bogota).TodaySeconds)
	assert.Zero(t, timeclock.ComputeHours([]*entity.PunchEvent{p}, asOf.Add(2*time.Hour), bogota).TodaySeconds)
}

func TestComputeHours_Idempotente(t *testing.T) {
	loc := time.UTC
	punches := []*entity.PunchEvent{
		closed(at(loc, 5, 8, 0), at(loc, 5, 12, 0)),
		{UserID: "u-1", PunchType: entity.PunchTypeGeneral, ClockIn: at(loc, 5, 13, 0)},
	}
	asOf := at(loc, 5, 15, 20)
	first := timeclock.ComputeHours(punches, asOf, loc)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, timeclock.ComputeHours(punches, asOf, loc))
	}
}

func TestOvertimeSeconds(t *testing.T) {
	threshold := timeclock.DefaultOvertimeThreshold
	assert.Zero(t, timeclock.OvertimeSeconds(39*3600, threshold))
	assert.Zero(t, timeclock.OvertimeSeconds(40*3600, threshold))
	assert.Equal(t, int64(5400), timeclock.OvertimeSeconds(40*3600+5400, threshold))
}

func TestWeeklyOvertimeSeconds_PorSemana(t *testing.T) {
	loc := time.UTC
	var punches []*entity.PunchEvent
	// Semana 1: 5 días de 9h = 45h (5h extra). Semana 2: 1 día de 9h.
	for d := 4; d <= 8; d++ {
		punches = append(punches, closed(at(loc, d, 8, 0), at(loc, d, 17, 0)))
	}
	punches = append(punches, closed(at(loc, 11, 8, 0), at(loc, 11, 17, 0)))

	got := timeclock.WeeklyOvertimeSeconds(punches, at(loc, 12, 0, 0), loc, timeclock.DefaultOvertimeThreshold)
	assert.Equal(t, int64(5*3600), got)
}

func TestDailyTotals_Ordenados(t *testing.T) {
	loc := time.UTC
	punches := []*entity.PunchEvent{
		closed(at(loc, 6, 9, 0), at(loc, 6, 10, 0)),
		closed(at(loc, 5, 9, 0), at(loc, 5, 9, 30)),
		closed(at(loc, 6, 14, 0), at(loc, 6, 14, 45)),
	}
	days := timeclock.DailyTotals(punches, at(loc, 7, 0, 0), loc)
	require.Len(t, days, 2)
	assert.Equal(t, at(loc, 5, 0, 0), days[0].Day)
	assert.Equal(t, int64(1800), days[0].Seconds)
	assert.Equal(t, int64(6300), days[1].Seconds)
}

func TestFormatHM(t *testing.T) {
	assert.Equal(t, "0:00", timeclock.FormatHM(0))
	assert.Equal(t, "8:30", timeclock.FormatHM(8*3600+30*60+59))
	assert.Equal(t, "41:05", timeclock.FormatHM(41*3600+5*60))
	assert.Equal(t, "0:00", timeclock.FormatHM(-10))
}

func TestSecondsToHours_Redondeo(t *testing.T) {
	assert.Equal(t, "0.33", timeclock.SecondsToHours(1200).StringFixed(2))
	assert.Equal(t, "1.00", timeclock.SecondsToHours(3599).StringFixed(2))
}
