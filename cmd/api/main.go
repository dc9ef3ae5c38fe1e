package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/fieldops-api/internal/application/auth"
	"github.com/jhoicas/fieldops-api/internal/application/demand"
	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/internal/application/usecase"
	"github.com/jhoicas/fieldops-api/internal/application/workorder"
	infrapdf "github.com/jhoicas/fieldops-api/internal/infrastructure/pdf"
	"github.com/jhoicas/fieldops-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/fieldops-api/internal/infrastructure/redis"
	infraxlsx "github.com/jhoicas/fieldops-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/fieldops-api/internal/interfaces/http"
	"github.com/jhoicas/fieldops-api/pkg/config"
	"github.com/jhoicas/fieldops-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.MigrateOnStart {
		pgLog := log.Component("postgres")
		if err := postgres.RunMigrations(pool); err != nil {
			pgLog.Fatal().Err(err).Msg("migraciones")
		}
		pgLog.Info().Msg("migraciones aplicadas")
	}

	// Redis es opcional: sin él el estado se resuelve siempre desde el libro.
	var statusCache timeclock.StatusCache
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			redisLog := log.Component("redis")
			redisLog.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché de estado deshabilitada")
		} else {
			defer rdb.Close()
			statusCache = infraredis.NewStatusCache(rdb, time.Duration(cfg.Redis.StatusTTL)*time.Second)
		}
	}

	loc := cfg.App.Location()
	overtime := cfg.TimeClock.OvertimeThreshold()

	userRepo := postgres.NewUserRepository(pool)
	punchRepo := postgres.NewPunchRepository(pool)
	workOrderRepo := postgres.NewWorkOrderRepository(pool)
	demandRepo := postgres.NewDemandRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	ledgerUC := timeclock.NewLedgerUseCase(txRunner, punchRepo, statusCache)
	statusUC := timeclock.NewStatusUseCase(punchRepo, statusCache, cfg.TimeClock.PollIntervalSeconds)
	hoursUC := timeclock.NewHoursUseCase(punchRepo, loc, overtime)
	dashboardUC := timeclock.NewDashboardUseCase(punchRepo, userRepo, workOrderRepo)
	timesheetUC := timeclock.NewTimesheetUseCase(punchRepo, userRepo, loc, overtime, map[string]timeclock.TimesheetRenderer{
		"pdf":  infrapdf.NewTimesheetGenerator(loc),
		"xlsx": infraxlsx.NewTimesheetExporter(loc),
	})
	workOrderUC := workorder.NewUseCase(txRunner, workOrderRepo, userRepo)
	demandUC := demand.NewUseCase(txRunner, demandRepo, userRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "FieldOps API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		LedgerUC:    ledgerUC,
		StatusUC:    statusUC,
		HoursUC:     hoursUC,
		DashboardUC: dashboardUC,
		TimesheetUC: timesheetUC,
		WorkOrderUC: workOrderUC,
		DemandUC:    demandUC,
		Health:      pool,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// errorHandler responde los errores de Fiber (404 de ruta, 405, body demasiado grande) con el
// mismo cuerpo que el resto de la API.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "error interno"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: httpStatusCode(code), Message: msg})
}

func httpStatusCode(code int) string {
	switch code {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	default:
		return "INTERNAL"
	}
}
