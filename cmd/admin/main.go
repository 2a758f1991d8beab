// Command admin tareas de operación de la plataforma: catálogo semilla, barrido de vencidas,
// asignación masiva de funcionalidades y alta de usuarios.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/schoolhub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/schoolhub-api/pkg/config"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtime dependencias compartidas por los subcomandos; se abren en PersistentPreRunE.
type runtime struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func (rt *runtime) open(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	rt.cfg = cfg
	rt.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Name: cfg.App.Name + "-admin"})
	rt.pool, err = postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return nil
}

func (rt *runtime) close() {
	if rt.pool != nil {
		rt.pool.Close()
	}
}

func rootCmd() *cobra.Command {
	rt := &runtime{}
	cmd := &cobra.Command{
		Use:           "admin",
		Short:         "SchoolHub platform administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.open(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			rt.close()
		},
	}
	cmd.AddCommand(
		seedFeaturesCmd(rt),
		markOverdueCmd(rt),
		bulkAssignCmd(rt),
		createUserCmd(rt),
	)
	return cmd
}
