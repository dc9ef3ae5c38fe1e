// Package pdf genera la hoja de horas imprimible de un técnico.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hoja de horas + técnico  │  Periodo + generado       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Entrada | Salida | Tipo | Orden | Duración            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES POR DÍA                                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL PERIODO + HORAS EXTRA                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	domaintc "github.com/jhoicas/fieldops-api/internal/domain/timeclock"
)

var _ timeclock.TimesheetRenderer = (*TimesheetGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const (
	dateLayout     = "02/01/2006"
	dateTimeLayout = "02/01/2006 15:04"
)

// ── Generator ─────────────────────────────────────────────────────────────────

// TimesheetGenerator implementa timeclock.TimesheetRenderer usando Maroto v2.
type TimesheetGenerator struct {
	loc     *time.Location
	printer *message.Printer
}

// NewTimesheetGenerator construye el generador. Las horas se muestran en loc.
func NewTimesheetGenerator(loc *time.Location) *TimesheetGenerator {
	if loc == nil {
		loc = time.UTC
	}
	return &TimesheetGenerator{loc: loc, printer: message.NewPrinter(language.Spanish)}
}

// ContentType MIME del documento.
func (g *TimesheetGenerator) ContentType() string { return "application/pdf" }

// Extension extensión de archivo.
func (g *TimesheetGenerator) Extension() string { return "pdf" }

// RenderTimesheet genera el PDF y devuelve sus bytes.
func (g *TimesheetGenerator) RenderTimesheet(_ context.Context, sheet *dto.Timesheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de horas "+sheet.Username, true).
		WithAuthor("fieldops-api", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(punchHeaderRow())
	m.AddRows(g.punchRows(sheet.Punches)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("TOTALES POR DÍA"))
	m.AddRows(g.dayRows(sheet.Days)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(sheet))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *TimesheetGenerator) headerRow(sheet *dto.Timesheet) core.Row {
	// To es exclusivo: el último día incluido es el anterior.
	periodo := fmt.Sprintf("%s al %s",
		sheet.From.In(g.loc).Format(dateLayout),
		sheet.To.In(g.loc).Add(-time.Second).Format(dateLayout))

	return row.New(18).Add(
		col.New(7).Add(
			text.New("HOJA DE HORAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", nonEmpty(sheet.Name, sheet.Username), sheet.Username), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Periodo: "+periodo, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generado: "+sheet.GeneratedAt.In(g.loc).Format(dateTimeLayout), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func punchHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Entrada", 3, align.Left),
		h("Salida", 3, align.Left),
		h("Tipo", 2, align.Center),
		h("Orden", 2, align.Left),
		h("Duración", 2, align.Right),
	)
}

func (g *TimesheetGenerator) punchRows(punches []dto.PunchEventResponse) []core.Row {
	if len(punches) == 0 {
		return []core.Row{row.New(7).Add(col.New(12).Add(
			text.New("Sin marcaciones en el periodo.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(punches))
	for _, p := range punches {
		salida := "abierta"
		if p.ClockOut != nil {
			salida = p.ClockOut.In(g.loc).Format(dateTimeLayout)
		}
		orden := "-"
		if p.WorkOrderID != nil {
			orden = shortID(*p.WorkOrderID)
		}
		rows = append(rows, row.New(6).Add(
			col.New(3).Add(text.New(p.ClockIn.In(g.loc).Format(dateTimeLayout), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(salida, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.PunchType, props.Text{Size: 8, Top: 1, Align: align.Center})),
			col.New(2).Add(text.New(orden, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(domaintc.FormatHM(p.DurationSeconds), props.Text{Size: 8, Top: 1, Align: align.Right, Right: 1})),
		))
	}
	return rows
}

func (g *TimesheetGenerator) dayRows(days []dto.TimesheetDay) []core.Row {
	rows := make([]core.Row, 0, len(days))
	for _, d := range days {
		rows = append(rows, row.New(6).Add(
			col.New(3),
			col.New(4).Add(text.New(d.Date.In(g.loc).Format(dateLayout), props.Text{Size: 8, Top: 1})),
			col.New(2).Add(text.New(d.Display, props.Text{Size: 8, Top: 1, Align: align.Right})),
			col.New(3),
		))
	}
	return rows
}

func (g *TimesheetGenerator) totalsRow(sheet *dto.Timesheet) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2})
	}
	return row.New(16).Add(
		col.New(5),
		col.New(4).Add(
			label("Total del periodo:"),
			text.New("Horas extra:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 7}),
		),
		col.New(3).Add(
			text.New(g.withDecimal(sheet.TotalDisplay, sheet.TotalSeconds), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1}),
			text.New(g.withDecimal(sheet.OvertimeDisplay, sheet.OvertimeSeconds), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 7}),
		),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// withDecimal agrega las horas decimales con formato local: "9:45 (9,75 h)".
func (g *TimesheetGenerator) withDecimal(display string, seconds int64) string {
	hours := domaintc.SecondsToHours(seconds).InexactFloat64()
	return g.printer.Sprintf("%s (%.2f h)", display, hours)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID recorta un UUID a sus primeros 8 caracteres para la tabla.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
