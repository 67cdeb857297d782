package fiber

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/lborres/inventrack"
	"github.com/lborres/inventrack/core"
	"github.com/lborres/inventrack/services"
	"go.uber.org/zap"
)

const (
	defaultBodyLimit     = 8 << 20
	defaultRateLimitMax  = 10
	defaultRateLimitSpan = 15 * time.Minute
)

// Options configures the fiber app built by NewApp.
type Options struct {
	Environment    core.Environment
	Logger         *zap.Logger
	AllowedOrigins []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

// NewApp builds a fiber app with the centralized error handler, payload
// validation and the common middleware chain.
func NewApp(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := fiber.New(fiber.Config{
		AppName:         "inventrack",
		BodyLimit:       defaultBodyLimit,
		ReadTimeout:     opts.ReadTimeout,
		WriteTimeout:    opts.WriteTimeout,
		ErrorHandler:    NewErrorHandler(opts.Environment, log.Named("http")),
		StructValidator: services.NewValidator(),
	})

	app.Use(recoverer.New(recoverer.Config{EnableStackTrace: opts.Environment.IsDevelopment()}))
	app.Use(requestid.New())
	if opts.Environment.IsDevelopment() {
		app.Use(logger.New(logger.Config{
			Format:     logFormat(),
			TimeFormat: "2006/01/02 15:04:05",
			TimeZone:   "Local",
		}))
	} else {
		app.Use(accessLog(log.Named("access")))
	}
	if len(opts.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowCredentials: true,
			AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
			AllowHeaders:     []string{fiber.HeaderContentType, fiber.HeaderAuthorization, webhookTokenHeader},
		}))
	}

	return app
}

func logFormat() string {
	format := []string{
		// Timestamp & Request ID
		"${time}|${requestid}",

		// Response metadata
		"${status}|${latency}",

		// Client info
		"${ip}:${port}",

		// Transfer size
		"${bytesReceived}|${bytesSent}",

		// Request details
		"${method}|${path}|${queryParams}",

		// errors
		"${error}",
	}
	return strings.Join(format, "|") + "\n"
}

type Adapter struct {
	app *fiber.App
	api *inventrack.App
	log *zap.Logger

	rateLimitMax  int
	rateLimitSpan time.Duration
}

var _ inventrack.HTTPAdapter = (*Adapter)(nil)

func New(app *fiber.App) *Adapter {
	return &Adapter{
		app:           app,
		rateLimitMax:  defaultRateLimitMax,
		rateLimitSpan: defaultRateLimitSpan,
	}
}

// WithRateLimit overrides how many signup/login requests one client may
// make per window.
func (a *Adapter) WithRateLimit(requests int, window time.Duration) *Adapter {
	a.rateLimitMax = requests
	a.rateLimitSpan = window
	return a
}

// App returns the underlying fiber app.
func (a *Adapter) App() *fiber.App { return a.app }

// RegisterRoutes binds a handler to every endpoint of the catalog by its
// operation id. An endpoint without a handler is an error.
func (a *Adapter) RegisterRoutes(api *inventrack.App) error {
	a.api = api
	a.log = api.Logger.Named("http")

	handlers := a.handlers()
	limit := a.rateLimiter()

	for _, ep := range api.Endpoints.Endpoints() {
		handler, ok := handlers[ep.Metadata.OperationID]
		if !ok {
			return fmt.Errorf("no handler for operation %q (%s %s)", ep.Metadata.OperationID, ep.Method, ep.Path)
		}

		var guard fiber.Handler
		switch ep.Access {
		case core.AccessSession:
			guard = a.requireSession
		case core.AccessWebhook:
			guard = a.requireWebhookToken
		default:
			guard = next
		}
		if ep.Metadata.RateLimited {
			a.app.Add([]string{ep.Method}, ep.Path, limit, guard, handler)
			continue
		}
		a.app.Add([]string{ep.Method}, ep.Path, guard, handler)
	}

	return nil
}

func (a *Adapter) handlers() map[string]fiber.Handler {
	return map[string]fiber.Handler{
		services.OpSignUp:        a.signUp,
		services.OpLogin:         a.login,
		services.OpLogout:        a.logout,
		services.OpValidateToken: a.validateToken,

		services.OpListProducts:   a.listProducts,
		services.OpCreateProduct:  a.createProduct,
		services.OpImportProducts: a.importProducts,
		services.OpExportProducts: a.exportProducts,
		services.OpGetProduct:     a.getProduct,
		services.OpUpdateProduct:  a.updateProduct,
		services.OpDeleteProduct:  a.deleteProduct,

		services.OpListSuppliers:  a.listSuppliers,
		services.OpCreateSupplier: a.createSupplier,
		services.OpGetSupplier:    a.getSupplier,
		services.OpUpdateSupplier: a.updateSupplier,
		services.OpDeleteSupplier: a.deleteSupplier,

		services.OpListProfiles:  a.listProfiles,
		services.OpCreateProfile: a.createProfile,
		services.OpGetProfile:    a.getProfile,
		services.OpUpdateProfile: a.updateProfile,
		services.OpDeleteProfile: a.deleteProfile,

		services.OpListCategories: a.listCategories,

		services.OpReceiveWebhook: a.receiveWebhook,

		services.OpUploadProfileImage: a.uploadProfileImage,
		services.OpGetProfileImage:    a.getProfileImage,
		services.OpGetStoredObject:    a.getStoredObject,

		services.OpHealthCheck: a.health,
	}
}

func next(c fiber.Ctx) error { return c.Next() }

func (a *Adapter) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
