// Package xlsx exporta la hoja de horas a Excel con excelize.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

var _ timeclock.TimesheetRenderer = (*TimesheetExporter)(nil)

// Hojas del libro.
const (
	SheetPunches = "Marcaciones"
	SheetDays    = "Resumen"
)

const dateTimeLayout = "2006-01-02 15:04"

// TimesheetExporter implementa timeclock.TimesheetRenderer generando un .xlsx con dos hojas:
// el detalle de marcaciones y los totales por día.
type TimesheetExporter struct {
	loc *time.Location
}

// NewTimesheetExporter construye el exportador. Las horas se escriben en loc.
func NewTimesheetExporter(loc *time.Location) *TimesheetExporter {
	if loc == nil {
		loc = time.UTC
	}
	return &TimesheetExporter{loc: loc}
}

// ContentType MIME del libro.
func (e *TimesheetExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension extensión de archivo.
func (e *TimesheetExporter) Extension() string { return "xlsx" }

// RenderTimesheet genera el libro y devuelve sus bytes.
func (e *TimesheetExporter) RenderTimesheet(_ context.Context, sheet *dto.Timesheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPunches); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetDays); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := e.writePunches(f, sheet, headerStyle); err != nil {
		return nil, err
	}
	if err := e.writeDays(f, sheet, headerStyle); err != nil {
		return nil, err
	}
	f.SetActiveSheet(0)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *TimesheetExporter) writePunches(f *excelize.File, sheet *dto.Timesheet, headerStyle int) error {
	title := fmt.Sprintf("Hoja de horas: %s (%s)", sheet.Name, sheet.Username)
	headers := []any{"Entrada", "Salida", "Tipo", "Orden de trabajo", "Segundos", "Duración"}

	_ = f.SetColWidth(SheetPunches, "A", "B", 18)
	_ = f.SetColWidth(SheetPunches, "C", "C", 10)
	_ = f.SetColWidth(SheetPunches, "D", "D", 38)
	_ = f.SetColWidth(SheetPunches, "E", "F", 12)

	if err := f.SetCellValue(SheetPunches, "A1", title); err != nil {
		return fmt.Errorf("xlsx: título: %w", err)
	}
	if err := f.SetSheetRow(SheetPunches, "A2", &headers); err != nil {
		return fmt.Errorf("xlsx: encabezado: %w", err)
	}
	_ = f.SetCellStyle(SheetPunches, "A2", cell("F", 2), headerStyle)

	for i, p := range sheet.Punches {
		out := ""
		if p.ClockOut != nil {
			out = p.ClockOut.In(e.loc).Format(dateTimeLayout)
		}
		wo := ""
		if p.WorkOrderID != nil {
			wo = *p.WorkOrderID
		}
		values := []any{
			p.ClockIn.In(e.loc).Format(dateTimeLayout),
			out,
			p.PunchType,
			wo,
			p.DurationSeconds,
			domaintc.FormatHM(p.DurationSeconds),
		}
		if err := f.SetSheetRow(SheetPunches, cell("A", i+3), &values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+3, err)
		}
	}
	return nil
}

func (e *TimesheetExporter) writeDays(f *excelize.File, sheet *dto.Timesheet, headerStyle int) error {
	headers := []any{"Día", "Segundos", "Horas"}
	_ = f.SetColWidth(SheetDays, "A", "C", 14)
	if err := f.SetSheetRow(SheetDays, "A1", &headers); err != nil {
		return fmt.Errorf("xlsx: encabezado resumen: %w", err)
	}
	_ = f.SetCellStyle(SheetDays, "A1", "C1", headerStyle)

	r := 2
	for _, d := range sheet.Days {
		values := []any{d.Date.In(e.loc).Format("2006-01-02"), d.Seconds, d.Display}
		if err := f.SetSheetRow(SheetDays, cell("A", r), &values); err != nil {
			return fmt.Errorf("xlsx: resumen fila %d: %w", r, err)
		}
		r++
	}
	totals := [][]any{
		{"Total", sheet.TotalSeconds, sheet.TotalDisplay},
		{"Horas extra", sheet.OvertimeSeconds, sheet.OvertimeDisplay},
	}
	for _, values := range totals {
		if err := f.SetSheetRow(SheetDays, cell("A", r), &values); err != nil {
			return fmt.Errorf("xlsx: totales: %w", err)
		}
		r++
	}
	return nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
