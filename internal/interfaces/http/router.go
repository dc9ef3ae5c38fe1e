package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fieldops-api/internal/application/auth"
	"github.com/jhoicas/fieldops-api/internal/application/demand"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/application/usecase"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
)

// HealthChecker comprobación de dependencias para /health (pool de BD).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	UserUC      *usecase.UserUseCase
	LedgerUC    *timeclock.LedgerUseCase
	StatusUC    *timeclock.StatusUseCase
	HoursUC     *timeclock.HoursUseCase
	DashboardUC *timeclock.DashboardUseCase
	TimesheetUC *timeclock.TimesheetUseCase
	WorkOrderUC *workorder.UseCase
	DemandUC    *demand.UseCase
	Health      HealthChecker // opcional
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.Health))

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users
	userHandler := NewUserHandler(deps.AuthUC, deps.UserUC)
	users := protected.Group("/users")
	users.Post("/", RequireCapability(CapUserManage), userHandler.Create)
	users.Get("/", RequireRole(entity.RoleAdmin, entity.RoleTechnicalAdvisor), userHandler.List)
	users.Patch("/:id", RequireCapability(CapUserManage), userHandler.Update)

	// Reloj de marcación
	timeHandler := NewTimeHandler(deps.LedgerUC, deps.StatusUC, deps.HoursUC)
	self := RequireCapability(CapPunchSelf)
	protected.Post("/punch", self, timeHandler.Punch)
	protected.Get("/time/status", self, timeHandler.Status)
	protected.Get("/time/hours", self, timeHandler.Hours)
	protected.Get("/punches", self, timeHandler.ListPunches)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/active-technicians", self, dashboardHandler.ActiveTechnicians)

	// Work orders
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC, deps.LedgerUC)
	wos := protected.Group("/work-orders")
	wos.Post("/", RequireCapability(CapWorkOrderManage), woHandler.Create)
	wos.Get("/", woHandler.List)
	wos.Get("/:id", woHandler.GetByID)
	wos.Post("/:id/assign", RequireCapability(CapWorkOrderManage), woHandler.Assign)
	wos.Patch("/:id/status", RequireCapability(CapWorkOrderProgress), woHandler.Transition)
	wos.Post("/:id/punch-in", self, woHandler.PunchIn)
	wos.Post("/:id/punch-out", self, woHandler.PunchOut)

	// Demands
	demandHandler := NewDemandHandler(deps.DemandUC)
	demands := protected.Group("/demands")
	demands.Post("/", RequireCapability(CapDemandSubmit), demandHandler.Submit)
	demands.Get("/", demandHandler.List)
	demands.Post("/:id/approve", RequireCapability(CapDemandReview), demandHandler.Approve)
	demands.Post("/:id/reject", RequireCapability(CapDemandReview), demandHandler.Reject)

	// Timesheets
	timesheetHandler := NewTimesheetHandler(deps.TimesheetUC)
	protected.Get("/timesheets/:user_id", timesheetHandler.Export)
}

// healthHandler responde 200 si la BD responde; 503 si no.
func healthHandler(checker HealthChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}
