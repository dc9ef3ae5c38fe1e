package timeclock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/testutil/memstore"
)

type recordingRenderer struct {
	sheet *dto.Timesheet
	err   error
}

func (r *recordingRenderer) RenderTimesheet(_ context.Context, sheet *dto.Timesheet) ([]byte, error) {
	r.sheet = sheet
	if r.err != nil {
		return nil, r.err
	}
	return []byte("ok"), nil
}

func (r *recordingRenderer) ContentType() string { return "text/plain" }
func (r *recordingRenderer) Extension() string   { return "txt" }

func newTimesheetUC(t *testing.T, renderer *recordingRenderer) (*timeclock.TimesheetUseCase, *memstore.Store) {
	t.Helper()
	store := memstore.New()
	store.AddUser(&entity.User{ID: techID, Username: "jperez", Name: "Juan Pérez", Role: entity.RoleTechnician, Status: entity.UserStatusActive})
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	uc := timeclock.NewTimesheetUseCase(store.Punches(), store.Users(), time.UTC, 0,
		map[string]timeclock.TimesheetRenderer{"txt": renderer}).WithClock(func() time.Time { return now })
	return uc, store
}

func TestTimesheet_BuildAgrupaPorDia(t *testing.T) {
	uc, store := newTimesheetUC(t, &recordingRenderer{})
	d := func(day, h, m int) time.Time { return time.Date(2024, 3, day, h, m, 0, 0, time.UTC) }
	addClosedPunch(store, "a", d(4, 8, 0), d(4, 12, 0))
	addClosedPunch(store, "b", d(4, 13, 0), d(4, 17, 30))
	addClosedPunch(store, "c", d(5, 9, 0), d(5, 10, 15))
	addClosedPunch(store, "fuera", d(1, 9, 0), d(1, 10, 0))

	sheet, err := uc.Build(context.Background(), techID, d(4, 0, 0), d(6, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, "jperez", sheet.Username)
	assert.Len(t, sheet.Punches, 3)
	require.Len(t, sheet.Days, 2)
	assert.Equal(t, "8:30", sheet.Days[0].Display)
	assert.Equal(t, "1:15", sheet.Days[1].Display)
	assert.Equal(t, int64(9*3600+45*60), sheet.TotalSeconds)
	assert.Equal(t, "9:45", sheet.TotalDisplay)
	assert.Zero(t, sheet.OvertimeSeconds)
}

func TestTimesheet_Errores(t *testing.T) {
	uc, _ := newTimesheetUC(t, &recordingRenderer{})
	ctx := context.Background()
	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	_, err := uc.Build(ctx, techID, from, from)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Build(ctx, techID, from, from.AddDate(0, 3, 0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Build(ctx, "desconocido", from, from.AddDate(0, 0, 7))
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, _, _, err = uc.Export(ctx, techID, from, from.AddDate(0, 0, 7), "docx")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTimesheet_Export(t *testing.T) {
	renderer := &recordingRenderer{}
	uc, _ := newTimesheetUC(t, renderer)
	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	data, contentType, name, err := uc.Export(context.Background(), techID, from, from.AddDate(0, 0, 7), "txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, "timesheet_jperez_20240304_20240310.txt", name)
	require.NotNil(t, renderer.sheet)

	renderer.err = errors.New("fuente no encontrada")
	_, _, _, err = uc.Export(context.Background(), techID, from, from.AddDate(0, 0, 7), "txt")
	assert.Error(t, err)
}
