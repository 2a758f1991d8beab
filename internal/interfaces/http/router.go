package http

import (
	nethttp "net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/schoolhub-api/internal/application/auth"
	"github.com/jhoicas/schoolhub-api/internal/application/billing"
	"github.com/jhoicas/schoolhub-api/internal/application/catalog"
	"github.com/jhoicas/schoolhub-api/internal/application/entitlement"
	"github.com/jhoicas/schoolhub-api/internal/application/inventory"
	"github.com/jhoicas/schoolhub-api/internal/application/school"
	"github.com/jhoicas/schoolhub-api/internal/domain/entity"
	"github.com/jhoicas/schoolhub-api/pkg/logger"
)

// InventoryFeatureKey funcionalidad que habilita las rutas de insumos.
const InventoryFeatureKey = "inventory"

// Observer métricas HTTP y de accesos denegados; lo implementa *metrics.Metrics. Opcional.
type Observer interface {
	httpObserver
	deniedCounter
	Handler() nethttp.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	CatalogUC     *catalog.CatalogUseCase
	SchoolUC      *school.SchoolUseCase
	EntitlementUC *entitlement.EntitlementUseCase
	InvoiceUC     *billing.InvoiceUseCase
	SupplyUC      *inventory.SupplyUseCase
	Metrics       Observer
	Log           *logger.Logger
	JWTSecret     string
	AppName       string
}

// NewApp crea la aplicación Fiber con el manejador de errores central, recover, request id y CORS.
func NewApp(name string, log *logger.Logger, corsOrigins string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	if corsOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.ReplaceAll(corsOrigins, " ", ""),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	}
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	var obs httpObserver
	var denied deniedCounter
	if deps.Metrics != nil {
		obs, denied = deps.Metrics, deps.Metrics
	}
	app.Use(RequestLogger(log.Named("http"), obs))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))
	}

	api := app.Group("/api")
	superadmin := RequireRole(entity.RoleSuperAdmin)

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/users", superadmin, authHandler.CreateUser)

	// Catálogo de funcionalidades (lectura para cualquier usuario autenticado)
	features := protected.Group("/features")
	featureHandler := NewFeatureHandler(deps.CatalogUC)
	features.Get("/", featureHandler.List)
	features.Get("/:id", featureHandler.GetByID)
	features.Post("/", superadmin, featureHandler.Create)
	features.Patch("/:id", superadmin, featureHandler.Update)
	features.Delete("/:id", superadmin, featureHandler.Deactivate)

	// Escuelas y sus funcionalidades (superadmin). bulk-assign antes de /:id.
	schools := protected.Group("/schools", superadmin)
	schoolHandler := NewSchoolHandler(deps.SchoolUC, deps.EntitlementUC)
	schools.Post("/features/bulk-assign", schoolHandler.BulkAssign)
	schools.Post("/", schoolHandler.Create)
	schools.Get("/", schoolHandler.List)
	schools.Get("/:id", schoolHandler.GetByID)
	schools.Post("/:id/disable", schoolHandler.Disable)
	schools.Patch("/:id/payment-status", schoolHandler.SetPaymentStatus)
	schools.Get("/:id/features", schoolHandler.Features)
	schools.Get("/:id/enabled-features", schoolHandler.EnabledFeatures)
	schools.Get("/:id/features/:featureId/setup", schoolHandler.GetSetup)
	schools.Put("/:id/features/:featureId/setup", schoolHandler.SaveSetup)
	schools.Post("/:id/features/:key/:action", schoolHandler.Toggle)

	// Facturas (superadmin). Rutas fijas antes de /:id.
	invoices := protected.Group("/invoices", superadmin)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC)
	invoices.Get("/summary", invoiceHandler.Summary)
	invoices.Post("/mark-overdue", invoiceHandler.MarkOverdue)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id/lines", invoiceHandler.ReplaceLines)
	invoices.Post("/:id/send", invoiceHandler.Send)
	invoices.Patch("/:id/mark-paid", invoiceHandler.MarkPaid)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Escuela del usuario: /me/access queda fuera del control de acceso para poder mostrar el bloqueo.
	me := protected.Group("/me", RequireSchool())
	meHandler := NewMeHandler(deps.SchoolUC, deps.EntitlementUC)
	me.Get("/access", meHandler.Access)

	gated := me.Group("/", AccessGate(deps.SchoolUC, denied, log.Named("access")))
	gated.Get("/menu", meHandler.Menu)
	gated.Get("/features", meHandler.Features)
	gated.Get("/invoices", invoiceHandler.MyInvoices)
	gated.Get("/invoices/:id", invoiceHandler.MyInvoice)

	supplies := gated.Group("/supplies", RequireFeature(InventoryFeatureKey, deps.EntitlementUC, log.Named("features")))
	inventoryHandler := NewInventoryHandler(deps.SupplyUC)
	supplies.Get("/", inventoryHandler.ListSupplies)
	supplies.Post("/", inventoryHandler.CreateSupply)
	supplies.Post("/:id/movements", inventoryHandler.RecordMovement)
	supplies.Get("/:id/movements", inventoryHandler.ListMovements)
}
