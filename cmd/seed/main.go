// seed crea usuarios iniciales de la API.
//
// Uso:
//
//	go run ./cmd/seed admin --username admin --password 'secreto123'
//	go run ./cmd/seed import-users tecnicos.csv --encoding windows-1252
//
// El CSV lleva encabezado: username,name,role,password. Los usuarios existentes se omiten.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/fieldops-api/internal/application/auth"
	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/domain"
	"github.com/jhoicas/fieldops-api/internal/domain/entity"
	"github.com/jhoicas/fieldops-api/internal/infrastructure/postgres"
	"github.com/jhoicas/fieldops-api/pkg/config"
	"github.com/jhoicas/fieldops-api/pkg/logger"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seed",
		Short:        "Carga de usuarios iniciales",
		SilenceUsage: true,
	}
	root.AddCommand(newAdminCmd(), newImportUsersCmd())
	return root
}

func newAdminCmd() *cobra.Command {
	var username, password, name string
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Crea un usuario administrador",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuth(cmd.Context(), func(ctx context.Context, uc *auth.AuthUseCase, log *logger.Logger) error {
				u, err := uc.RegisterUser(ctx, dto.CreateUserRequest{
					Username: username,
					Password: password,
					Name:     name,
					Role:     entity.RoleAdmin,
				})
				if errors.Is(err, domain.ErrUsernameTaken) {
					log.Warn().Str("username", username).Msg("el administrador ya existe")
					return nil
				}
				if err != nil {
					return err
				}
				log.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("administrador creado")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&username, "username", "admin", "nombre de usuario")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&name, "name", "Administrador", "nombre visible")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newImportUsersCmd() *cobra.Command {
	var encoding string
	cmd := &cobra.Command{
		Use:   "import-users <archivo.csv>",
		Short: "Importa usuarios desde un CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir CSV: %w", err)
			}
			defer f.Close()

			rows, err := readUsersCSV(f, encoding)
			if err != nil {
				return err
			}
			return withAuth(cmd.Context(), func(ctx context.Context, uc *auth.AuthUseCase, log *logger.Logger) error {
				var created, skipped int
				for _, in := range rows {
					_, err := uc.RegisterUser(ctx, in)
					switch {
					case err == nil:
						created++
					case errors.Is(err, domain.ErrUsernameTaken):
						skipped++
					default:
						return fmt.Errorf("usuario %q: %w", in.Username, err)
					}
				}
				log.Info().Int("creados", created).Int("omitidos", skipped).Msg("importación terminada")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&encoding, "encoding", "utf-8", "codificación del archivo: utf-8 | windows-1252 | iso-8859-1")
	return cmd
}

// readUsersCSV decodifica el archivo (las exportaciones de Excel suelen venir en Windows-1252)
// y devuelve una solicitud por fila.
func readUsersCSV(r io.Reader, encoding string) ([]dto.CreateUserRequest, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	case "iso-8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("codificación no soportada: %s", encoding)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	idx := map[string]int{}
	for i, h := range records[0] {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range []string{"username", "password"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	field := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	out := make([]dto.CreateUserRequest, 0, len(records)-1)
	for _, rec := range records[1:] {
		in := dto.CreateUserRequest{
			Username: field(rec, "username"),
			Password: field(rec, "password"),
			Name:     field(rec, "name"),
			Role:     field(rec, "role"),
		}
		if in.Username == "" {
			continue
		}
		out = append(out, in)
	}
	return out, nil
}

func withAuth(ctx context.Context, fn func(ctx context.Context, uc *auth.AuthUseCase, log *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	if err := migrate(cfg, pool); err != nil {
		return err
	}

	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	return fn(ctx, uc, log)
}

func migrate(cfg *config.Config, pool *pgxpool.Pool) error {
	if !cfg.DB.MigrateOnStart {
		return nil
	}
	if err := postgres.RunMigrations(pool); err != nil {
		return fmt.Errorf("migraciones: %w", err)
	}
	return nil
}
