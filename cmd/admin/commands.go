package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/schoolhub-api/internal/application/auth"
	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/application/catalog"
	"github.com/jhoicas/schoolhub-api/internal/application/dto"
	"github.com/jhoicas/schoolhub-api/internal/application/entitlement"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/events"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/notification"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/postgres"
	"github.com/jhoicas/schoolhub-api/pkg/validator"
)

func seedFeaturesCmd(rt *runtime) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed-features",
		Short: "Upsert the feature catalog from a YAML file (by key)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()
			drafts, err := loadCatalog(f)
			if err != nil {
				return err
			}
			uc := catalog.NewCatalogUseCase(postgres.NewFeatureRepository(rt.pool))
			res, err := uc.SeedFeatures(cmd.Context(), drafts)
			if err != nil {
				return err
			}
			rt.log.Info().Int("upserted", res.Upserted).Strs("keys", res.Keys).Msg("catálogo sembrado")
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "config/features.yaml", "Feature catalog YAML file")
	return cmd
}

// loadCatalog lee y valida el catálogo YAML.
func loadCatalog(r io.Reader) ([]dto.CreateFeatureRequest, error) {
	var doc dto.FeatureCatalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Features) == 0 {
		return nil, fmt.Errorf("catalog has no features")
	}
	v := validator.New()
	for i := range doc.Features {
		if err := v.Struct(&doc.Features[i]); err != nil {
			return nil, fmt.Errorf("features[%d]: %w", i, err)
		}
	}
	return doc.Features, nil
}

func markOverdueCmd(rt *runtime) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "mark-overdue",
		Short: "Move SENT invoices past their due date to OVERDUE and mark their schools UNPAID",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now().UTC()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t.UTC()
			}
			publisher, err := events.New(rt.cfg.Events, rt.log)
			if err != nil {
				return err
			}
			defer publisher.Close()

			uc := billing.NewInvoiceUseCase(
				postgres.NewTxRunner(rt.pool),
				postgres.NewInvoiceRepository(rt.pool),
				postgres.NewSchoolRepository(rt.pool),
				postgres.NewEntitlementRepository(rt.pool),
				billing.Channels{
					Email:    notification.NewConsoleEmail(rt.log),
					WhatsApp: notification.NewConsoleWhatsApp(rt.log),
				},
				publisher, nil, rt.log, billing.Config{},
			)
			res, err := uc.MarkOverdue(cmd.Context(), now)
			if res != nil {
				if perr := printJSON(cmd.OutOrStdout(), res); perr != nil {
					return perr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Cut-off instant in RFC3339 (default: now)")
	return cmd
}

func bulkAssignCmd(rt *runtime) *cobra.Command {
	var in dto.BulkAssignRequest
	cmd := &cobra.Command{
		Use:   "bulk-assign",
		Short: "Enable every given feature for every given school",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.New().Struct(&in); err != nil {
				return err
			}
			uc := entitlement.NewEntitlementUseCase(
				postgres.NewEntitlementRepository(rt.pool),
				postgres.NewFeatureRepository(rt.pool),
				postgres.NewSchoolRepository(rt.pool),
				postgres.NewTxRunner(rt.pool),
			)
			res, err := uc.BulkAssignFeatures(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringSliceVar(&in.SchoolIDs, "school", nil, "School ID (repeatable)")
	cmd.Flags().StringSliceVar(&in.FeatureIDs, "feature", nil, "Feature ID (repeatable)")
	return cmd
}

func createUserCmd(rt *runtime) *cobra.Command {
	var in dto.CreateUserRequest
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a platform or school user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validator.New().Struct(&in); err != nil {
				return err
			}
			uc := auth.NewAuthUseCase(
				postgres.NewUserRepository(rt.pool),
				postgres.NewSchoolRepository(rt.pool),
				auth.JWTConfig{Secret: rt.cfg.JWT.Secret, ExpMinutes: rt.cfg.JWT.Expiration, Issuer: rt.cfg.JWT.Issuer},
			)
			u, err := uc.CreateUser(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), u)
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "Login email")
	cmd.Flags().StringVar(&in.Password, "password", "", "Initial password (min 8 chars)")
	cmd.Flags().StringVar(&in.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&in.Role, "role", "superadmin", "superadmin | school_admin | staff")
	cmd.Flags().StringVar(&in.SchoolID, "school", "", "School ID (required unless superadmin)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
