package inventrack

import (
	"fmt"

	"github.com/lborres/inventrack/core"
	"github.com/lborres/inventrack/pkg/crypto"
	"github.com/lborres/inventrack/services"
	"go.uber.org/zap"
)

// HTTPAdapter binds the API routes of an App to a web framework.
type HTTPAdapter interface {
	RegisterRoutes(app *App) error
}

// ports
type (
	StorageAdapter  = core.StorageAdapter
	AccountProvider = core.AccountProvider
	ImageBucket     = core.ImageBucket
)

type (
	SessionConfig = core.SessionConfig
	CookieConfig  = core.CookieConfig
	Environment   = core.Environment
)

var (
	ErrStorageRequired       = core.ErrStorageRequired
	ErrAccountsRequired      = core.ErrAccountsRequired
	ErrBucketRequired        = core.ErrBucketRequired
	ErrHTTPAdapterRequired   = core.ErrHTTPAdapterRequired
	ErrSecretRequired        = core.ErrSecretRequired
	ErrSecretTooShort        = core.ErrSecretTooShort
	ErrWebhookSecretRequired = core.ErrWebhookSecretRequired
)

type Config struct {
	// Secret signs session tokens. At least 32 characters.
	Secret string

	Storage  StorageAdapter
	Accounts AccountProvider
	Bucket   ImageBucket
	HTTP     HTTPAdapter
	Logger   *zap.Logger

	// SessionConfig overrides token lifetime and issuer. Secret is taken from Config.Secret.
	SessionConfig *SessionConfig
	Cookie        CookieConfig

	// WebhookSecret is the shared value expected in x-webhook-token.
	WebhookSecret string
	Environment   Environment
}

// App holds the wired services of a running API.
type App struct {
	Sessions     *services.SessionManager
	Auth         *services.AuthService
	Products     *services.ProductService
	Suppliers    *services.SupplierService
	Profiles     *services.ProfileService
	Categories   *services.CategoryService
	Sales        *services.SaleService
	Images       *services.ImageService
	Spreadsheets *services.SpreadsheetService
	Validator    *services.Validator
	Endpoints    *services.EndpointRegistry

	Cookie      CookieConfig
	Environment Environment
	Logger      *zap.Logger

	webhookSecretHash string
}

// VerifyWebhookToken reports whether token matches the configured webhook
// secret, in constant time.
func (a *App) VerifyWebhookToken(token string) bool {
	return crypto.VerifyToken(token, a.webhookSecretHash)
}

func New(config Config) (*App, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < core.MinSecretLength {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, core.MinSecretLength)
	}
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}
	if config.Accounts == nil {
		return nil, ErrAccountsRequired
	}
	if config.Bucket == nil {
		return nil, ErrBucketRequired
	}
	if config.HTTP == nil {
		return nil, ErrHTTPAdapterRequired
	}
	if config.WebhookSecret == "" {
		return nil, ErrWebhookSecretRequired
	}

	// Set Defaults

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sessionConfig := core.DefaultSessionConfig()
	if config.SessionConfig != nil {
		sessionConfig = *config.SessionConfig
	}
	sessionConfig.Secret = config.Secret

	env := config.Environment
	if env == "" {
		env = core.EnvDevelopment
	}

	cookie := config.Cookie
	if cookie.Name == "" {
		cookie.Name = core.DefaultCookieName
	}
	cookie.Environment = env

	validate := services.NewValidator()
	sessions := services.NewSessionManager(sessionConfig)
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = sessions.MaxAge()
	}
	products := services.NewProductService(config.Storage, validate)

	app := &App{
		Sessions:     sessions,
		Auth:         services.NewAuthService(config.Accounts, config.Storage, sessions, validate, logger.Named("auth")),
		Products:     products,
		Suppliers:    services.NewSupplierService(config.Storage, config.Storage, validate),
		Profiles:     services.NewProfileService(config.Storage, validate),
		Categories:   services.NewCategoryService(config.Storage),
		Sales:        services.NewSaleService(config.Storage, logger.Named("webhook")),
		Images:       services.NewImageService(config.Bucket, config.Storage, logger.Named("images")),
		Spreadsheets: services.NewSpreadsheetService(products, logger.Named("spreadsheet")),
		Validator:    validate,
		Endpoints:    services.NewEndpointRegistry(),
		Cookie:       cookie,
		Environment:  env,
		Logger:       logger,

		webhookSecretHash: crypto.HashToken(config.WebhookSecret),
	}

	if err := config.HTTP.RegisterRoutes(app); err != nil {
		return nil, err
	}

	return app, nil
}
