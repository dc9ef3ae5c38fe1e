package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fieldops-api/internal/application/auth"
	"github.com/jhoicas/fieldops-api/internal/application/demand"
	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/application/usecase"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/infrastructure/xlsx"
	apphttp "github.com/jhoicas/fieldops-api/internal/interfaces/http"
	"github.com/jhoicas/fieldops-api/internal/testutil/memstore"
)

const (
	adminID   = "00000000-0000-0000-0000-0000000000a1"
	advisorID = "00000000-0000-0000-0000-0000000000a2"
	techID    = "00000000-0000-0000-0000-0000000000b1"
	tech2ID   = "00000000-0000-0000-0000-0000000000b2"
)

type testServer struct {
	app   *fiber.App
	store *memstore.Store
	t     *testing.T
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func newTestServer(t *testing.T, health apphttp.HealthChecker) *testServer {
	t.Helper()
	store := memstore.New()
	for _, u := range []*entity.User{
		{ID: adminID, Username: "admin", Name: "Admin", Role: entity.RoleAdmin},
		{ID: advisorID, Username: "asesor", Name: "Asesora", Role: entity.RoleTechnicalAdvisor},
		{ID: techID, Username: "tecnico", Name: "Técnico Uno", Role: entity.RoleTechnician},
		{ID: tech2ID, Username: "tecnico2", Name: "Técnico Dos", Role: entity.RoleTechnician},
	} {
		u.Status = entity.UserStatusActive
		store.AddUser(u)
	}
	cache := memstore.NewStatusCache()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: 60, Issuer: testIssuer})
	renderers := map[string]timeclock.TimesheetRenderer{"xlsx": xlsx.NewTimesheetExporter(time.UTC)}

	app := fiber.New()
	app.Use(apphttp.RequestLogger(zerolog.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		UserUC:      usecase.NewUserUseCase(store.Users()),
		LedgerUC:    timeclock.NewLedgerUseCase(store, store.Punches(), cache),
		StatusUC:    timeclock.NewStatusUseCase(store.Punches(), cache, 30),
		HoursUC:     timeclock.NewHoursUseCase(store.Punches(), time.UTC, 0),
		DashboardUC: timeclock.NewDashboardUseCase(store.Punches(), store.Users(), store.WorkOrders()),
		TimesheetUC: timeclock.NewTimesheetUseCase(store.Punches(), store.Users(), time.UTC, 0, renderers),
		WorkOrderUC: workorder.NewUseCase(store, store.WorkOrders(), store.Users()),
		DemandUC:    demand.NewUseCase(store, store.Demands(), store.Users()),
		Health:      health,
		JWTSecret:   testJWTSecret,
	})
	return &testServer{app: app, store: store, t: t}
}

// do ejecuta la petición como userID/role (sin token si role es vacío) y decodifica el JSON en out.
func (s *testServer) do(method, path, userID, role string, body any, out any) *http.Response {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if role != "" {
		req.Header.Set("Authorization", tokenFor(s.t, userID, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestPunch_AlternaYReflejaEstado(t *testing.T) {
	s := newTestServer(t, nil)

	var action dto.PunchActionResponse
	resp := s.do(http.MethodPost, "/api/punch", techID, entity.RoleTechnician, nil, &action)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, timeclock.ActionClockIn, action.Action)
	assert.Equal(t, entity.PunchTypeGeneral, action.Punch.PunchType)
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	var status dto.TimeStatusResponse
	resp = s.do(http.MethodGet, "/api/time/status", techID, entity.RoleTechnician, nil, &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, status.IsClockedIn)
	assert.Equal(t, "on-shift", status.Activity)
	assert.Equal(t, 30, status.PollIntervalSeconds)

	resp = s.do(http.MethodPost, "/api/punch", techID, entity.RoleTechnician, nil, &action)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, timeclock.ActionClockOut, action.Action)
	assert.NotNil(t, action.Punch.ClockOut)

	resp = s.do(http.MethodGet, "/api/time/status", techID, entity.RoleTechnician, nil, &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, status.IsClockedIn)
	assert.Equal(t, "idle", status.Activity)
}

func TestPunch_OrdenInexistente(t *testing.T) {
	s := newTestServer(t, nil)

	var errResp dto.ErrorResponse
	resp := s.do(http.MethodPost, "/api/punch", techID, entity.RoleTechnician,
		dto.PunchRequest{WorkOrderID: "no-existe"}, &errResp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "UNKNOWN_WORK_ORDER", errResp.Code)
	assert.Empty(t, s.store.AllPunches())

	resp = s.do(http.MethodPost, "/api/punch", techID, entity.RoleTechnician,
		dto.PunchRequest{PunchType: "break"}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errResp.Code)
}

func TestWorkOrder_FlujoCompleto(t *testing.T) {
	s := newTestServer(t, nil)

	var wo dto.WorkOrderResponse
	resp := s.do(http.MethodPost, "/api/work-orders", advisorID, entity.RoleTechnicalAdvisor,
		dto.CreateWorkOrderRequest{Title: "Cambio de filtro", Customer: "Clínica Norte", AssignedTo: techID}, &wo)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "WO-000001", wo.Number)
	assert.Equal(t, entity.WorkOrderStatusAssigned, wo.Status)
	base := "/api/work-orders/" + wo.ID

	var punch dto.PunchEventResponse
	resp = s.do(http.MethodPost, base+"/punch-in", techID, entity.RoleTechnician, nil, &punch)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.PunchTypeWork, punch.PunchType)
	require.NotNil(t, punch.WorkOrderID)
	assert.Equal(t, wo.ID, *punch.WorkOrderID)

	resp = s.do(http.MethodGet, base, techID, entity.RoleTechnician, nil, &wo)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.WorkOrderStatusInProgress, wo.Status)

	var active []dto.ActiveTechnicianResponse
	resp = s.do(http.MethodGet, "/api/dashboard/active-technicians", tech2ID, entity.RoleTechnician, nil, &active)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, active, 1)
	assert.Equal(t, "tecnico", active[0].Username)
	assert.Equal(t, "WO-000001", active[0].WorkOrderNumber)

	var errResp dto.ErrorResponse
	resp = s.do(http.MethodPost, base+"/punch-in", tech2ID, entity.RoleTechnician, nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WORK_ORDER_BUSY", errResp.Code)

	resp = s.do(http.MethodPatch, base+"/status", advisorID, entity.RoleTechnicalAdvisor,
		dto.TransitionWorkOrderRequest{Status: entity.WorkOrderStatusCompleted}, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WORK_ORDER_BUSY", errResp.Code)

	resp = s.do(http.MethodPost, base+"/punch-out", techID, entity.RoleTechnician, nil, &punch)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotNil(t, punch.ClockOut)

	resp = s.do(http.MethodPatch, base+"/status", techID, entity.RoleTechnician,
		dto.TransitionWorkOrderRequest{Status: entity.WorkOrderStatusCompleted}, &wo)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.WorkOrderStatusCompleted, wo.Status)

	resp = s.do(http.MethodPost, base+"/punch-in", techID, entity.RoleTechnician, nil, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "WORK_ORDER_CLOSED", errResp.Code)
}

func TestWorkOrder_TecnicoNoPuedeCrear(t *testing.T) {
	s := newTestServer(t, nil)

	var errResp dto.ErrorResponse
	resp := s.do(http.MethodPost, "/api/work-orders", techID, entity.RoleTechnician,
		dto.CreateWorkOrderRequest{Title: "x", Customer: "y"}, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errResp.Code)
}

func TestDemand_AprobarCreaOrden(t *testing.T) {
	s := newTestServer(t, nil)

	var d dto.DemandResponse
	resp := s.do(http.MethodPost, "/api/demands", techID, entity.RoleTechnician,
		dto.SubmitDemandRequest{Title: "Ruido en bomba", Customer: "Planta 3"}, &d)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var errResp dto.ErrorResponse
	resp = s.do(http.MethodPost, "/api/demands/"+d.ID+"/approve", techID, entity.RoleTechnician, dto.ApproveDemandRequest{}, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(http.MethodPost, "/api/demands/"+d.ID+"/approve", advisorID, entity.RoleTechnicalAdvisor,
		dto.ApproveDemandRequest{AssignTo: techID}, &d)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.DemandStatusApproved, d.Status)
	require.NotNil(t, d.WorkOrderID)

	resp = s.do(http.MethodPost, "/api/demands/"+d.ID+"/reject", advisorID, entity.RoleTechnicalAdvisor,
		dto.RejectDemandRequest{Note: "tarde"}, &errResp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)
}

func TestTime_ConsultarOtroUsuario(t *testing.T) {
	s := newTestServer(t, nil)

	var errResp dto.ErrorResponse
	resp := s.do(http.MethodGet, "/api/time/status?user_id="+tech2ID, techID, entity.RoleTechnician, nil, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errResp.Code)

	var status dto.TimeStatusResponse
	resp = s.do(http.MethodGet, "/api/time/status?user_id="+tech2ID, advisorID, entity.RoleTechnicalAdvisor, nil, &status)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, tech2ID, status.UserID)

	resp = s.do(http.MethodGet, "/api/timesheets/"+tech2ID+"?from=2024-03-04&to=2024-03-10", techID, entity.RoleTechnician, nil, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestListPunches_TecnicoSoloVeLoSuyo(t *testing.T) {
	s := newTestServer(t, nil)
	in := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	out := in.Add(time.Hour)
	s.store.AddPunch(&entity.PunchEvent{ID: "p-1", UserID: techID, PunchType: entity.PunchTypeGeneral, ClockIn: in, ClockOut: &out})
	s.store.AddPunch(&entity.PunchEvent{ID: "p-2", UserID: tech2ID, PunchType: entity.PunchTypeGeneral, ClockIn: in, ClockOut: &out})

	var list []dto.PunchEventResponse
	resp := s.do(http.MethodGet, "/api/punches", techID, entity.RoleTechnician, nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, list, 1)
	assert.Equal(t, "p-1", list[0].ID)
	assert.Equal(t, int64(3600), list[0].DurationSeconds)

	resp = s.do(http.MethodGet, "/api/punches", adminID, entity.RoleAdmin, nil, &list)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, list, 2)

	var errResp dto.ErrorResponse
	resp = s.do(http.MethodGet, "/api/punches?open=quizas", adminID, entity.RoleAdmin, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHours(t *testing.T) {
	s := newTestServer(t, nil)
	in := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	out := time.Date(2024, 3, 5, 17, 30, 0, 0, time.UTC)
	s.store.AddPunch(&entity.PunchEvent{ID: "p-1", UserID: techID, PunchType: entity.PunchTypeGeneral, ClockIn: in, ClockOut: &out})

	var hours dto.HoursResponse
	resp := s.do(http.MethodGet, "/api/time/hours?as_of=2024-03-05T18:00:00Z", techID, entity.RoleTechnician, nil, &hours)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 8.5, hours.Today)
	assert.Equal(t, "8:30", hours.TodayDisplay)

	// Los clientes reciben las horas como números, no como cadenas.
	var raw map[string]any
	resp = s.do(http.MethodGet, "/api/time/hours?as_of=2024-03-05T18:00:00Z", techID, entity.RoleTechnician, nil, &raw)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(8.5), raw["today"])
	assert.Equal(t, float64(8.5), raw["week"])
	assert.Equal(t, float64(0), raw["overtime"])

	var errResp dto.ErrorResponse
	resp = s.do(http.MethodGet, "/api/time/hours?as_of=ayer", techID, entity.RoleTechnician, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTimesheetExport_Xlsx(t *testing.T) {
	s := newTestServer(t, nil)
	in := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	out := in.Add(2 * time.Hour)
	s.store.AddPunch(&entity.PunchEvent{ID: "p-1", UserID: techID, PunchType: entity.PunchTypeGeneral, ClockIn: in, ClockOut: &out})

	resp := s.do(http.MethodGet, "/api/timesheets/"+techID+"?from=2024-03-04&to=2024-03-10", advisorID, entity.RoleTechnicalAdvisor, nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "spreadsheetml")
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "timesheet_tecnico_20240304_20240310.xlsx")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("PK")))

	var errResp dto.ErrorResponse
	resp = s.do(http.MethodGet, "/api/timesheets/"+techID+"?from=2024-03-04&to=2024-03-10&format=docx", advisorID, entity.RoleTechnicalAdvisor, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp = s.do(http.MethodGet, "/api/timesheets/"+techID+"?from=04-03-2024&to=2024-03-10", advisorID, entity.RoleTechnicalAdvisor, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFalloDePersistencia_Responde503(t *testing.T) {
	s := newTestServer(t, nil)
	s.store.Fail(errors.New("connection refused"))

	var errResp dto.ErrorResponse
	resp := s.do(http.MethodPost, "/api/punch", techID, entity.RoleTechnician, nil, &errResp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "PERSISTENCE", errResp.Code)
	assert.NotContains(t, errResp.Message, "connection refused")
}

func TestUsers_AltaYLogin(t *testing.T) {
	s := newTestServer(t, nil)

	var user dto.UserResponse
	resp := s.do(http.MethodPost, "/api/users", adminID, entity.RoleAdmin,
		dto.CreateUserRequest{Username: "nuevo", Password: "secreto123", Role: entity.RoleTechnician}, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var errResp dto.ErrorResponse
	resp = s.do(http.MethodPost, "/api/users", advisorID, entity.RoleTechnicalAdvisor,
		dto.CreateUserRequest{Username: "otro", Password: "secreto123"}, &errResp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var login dto.LoginResponse
	resp = s.do(http.MethodPost, "/api/auth/login", "", "", dto.LoginRequest{Username: "nuevo", Password: "secreto123"}, &login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user.ID, login.User.ID)
	assert.True(t, strings.Count(login.Token, ".") == 2)

	resp = s.do(http.MethodPost, "/api/auth/login", "", "", dto.LoginRequest{Username: "nuevo", Password: "incorrecta"}, &errResp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	resp := s.do(http.MethodGet, "/health", "", "", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	down := newTestServer(t, pingFunc(func(context.Context) error { return errors.New("down") }))
	resp = down.do(http.MethodGet, "/health", "", "", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
