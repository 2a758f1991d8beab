package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	_ "github.com/jhoicas/schoolhub-api/docs"
	"github.com/jhoicas/schoolhub-api/internal/application/auth"
	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/application/catalog"
	"github.com/jhoicas/schoolhub-api/internal/application/entitlement"
	"github.com/jhoicas/schoolhub-api/internal/application/inventory"
	"github.com/jhoicas/schoolhub-api/internal/application/school"
	"github.com/jhoicas/schoolhub-api/internal/domain/access"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/events"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/metrics"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/notification"
	"github.com/jhoicas/schoolhub-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/schoolhub-api/internal/interfaces/http"
	"github.com/jhoicas/schoolhub-api/pkg/config"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

// @title                       SchoolHub API
// @version                     1.0
// @description                 Funcionalidades por escuela, facturación de suscripciones y control de acceso.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:          cfg.App.Env,
		Level:        cfg.App.LogLevel,
		RollbarToken: cfg.Rollbar.Token,
		Name:         cfg.App.Name,
	})
	defer logger.Close()
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	featureRepo := postgres.NewFeatureRepository(pool)
	schoolRepo := postgres.NewSchoolRepository(pool)
	entitlementRepo := postgres.NewEntitlementRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	supplyRepo := postgres.NewSupplyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)

	m := metrics.New("schoolhub")

	publisher, err := events.New(cfg.Events, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Events.Driver).Msg("publicador de eventos")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("cerrar publicador de eventos")
		}
	}()

	channels, err := notificationChannels(cfg.Notify, cfg.App.Name, log)
	if err != nil {
		log.Fatal().Err(err).Msg("plantillas de notificación")
	}

	schoolUC := school.NewSchoolUseCase(txRunner, schoolRepo, featureRepo, access.NewGate(cfg.Access.GraceDays))
	entitlementUC := entitlement.NewEntitlementUseCase(entitlementRepo, featureRepo, schoolRepo, txRunner)
	invoiceUC := billing.NewInvoiceUseCase(
		txRunner, invoiceRepo, schoolRepo, entitlementRepo,
		channels, publisher, m, log,
		billing.Config{NotifyTimeout: cfg.Notify.Timeout},
	)
	authUC := auth.NewAuthUseCase(userRepo, schoolRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := httpRouter.NewApp(cfg.App.Name, log, cfg.HTTP.CORSOrigins)

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "SchoolHub API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		CatalogUC:     catalog.NewCatalogUseCase(featureRepo),
		SchoolUC:      schoolUC,
		EntitlementUC: entitlementUC,
		InvoiceUC:     invoiceUC,
		SupplyUC:      inventory.NewSupplyUseCase(txRunner, supplyRepo),
		Metrics:       m,
		Log:           log,
		JWTSecret:     cfg.JWT.Secret,
		AppName:       cfg.App.Name,
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

// notificationChannels elige SendGrid/Twilio cuando hay credenciales y la consola en otro caso.
func notificationChannels(cfg config.NotifyConfig, appName string, log *logger.Logger) (billing.Channels, error) {
	renderer, err := notification.NewTemplateRenderer()
	if err != nil {
		return billing.Channels{}, err
	}
	ch := billing.Channels{Renderer: renderer}
	if cfg.EmailEnabled() {
		ch.Email = notification.NewSendGridSender(cfg.SendGridAPIKey, cfg.MailFromName, cfg.MailFromAddress, "["+appName+"] ")
	} else {
		log.Warn().Msg("SENDGRID_API_KEY vacío: los correos se escriben en el log")
		ch.Email = notification.NewConsoleEmail(log)
	}
	if cfg.WhatsAppEnabled() {
		ch.WhatsApp = notification.NewTwilioWhatsApp(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom)
	} else {
		log.Warn().Msg("credenciales de Twilio vacías: los mensajes de WhatsApp se escriben en el log")
		ch.WhatsApp = notification.NewConsoleWhatsApp(log)
	}
	return ch, nil
}
