package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront_backend/database"
	"storefront_backend/internal/auth"
	"storefront_backend/internal/config"
	"storefront_backend/internal/email"
	"storefront_backend/internal/handlers"
	"storefront_backend/internal/imageprocessor"
	"storefront_backend/internal/logger"
	"storefront_backend/internal/middleware"
	"storefront_backend/internal/models"
	"storefront_backend/internal/payment"
	"storefront_backend/internal/repositories"
	"storefront_backend/internal/routes"
	"storefront_backend/internal/services"
	"storefront_backend/internal/storage"
	"storefront_backend/internal/validator"
	"storefront_backend/internal/workers"
	"storefront_backend/pkg/apperrors"
	"storefront_backend/ws"

	"github.com/gin-gonic/gin"
)

// Dependencies позволяет подменить внешние интеграции. Пустые поля
// создаются из конфигурации.
type Dependencies struct {
	Storage  storage.Storage
	Payments payment.Provider
	Mailer   email.Mailer
}

// App собранный сервер магазина.
type App struct {
	cfg      *config.Config
	store    repositories.Store
	router   *gin.Engine
	services *services.ServiceContainer

	wsManager *ws.WebSocketManager
	worker    *workers.SubscriptionWorker
}

// New связывает сервисы, обработчики и маршруты поверх открытого хранилища.
func New(cfg *config.Config, store repositories.Store, deps Dependencies) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	apperrors.SetDebug(cfg.IsDevelopment())

	var err error
	if deps.Storage == nil {
		deps.Storage, err = storage.NewStorage(storage.Config{
			Type:       cfg.Storage.Type,
			BasePath:   cfg.Storage.BasePath,
			BaseURL:    cfg.Storage.BaseURL,
			Bucket:     cfg.Storage.Bucket,
			Region:     cfg.Storage.Region,
			AccessKey:  cfg.Storage.AccessKey,
			SecretKey:  cfg.Storage.SecretKey,
			Endpoint:   cfg.Storage.Endpoint,
			AccountID:  cfg.Storage.AccountID,
			UseSSL:     cfg.Storage.UseSSL,
			PublicRead: cfg.Storage.PublicRead,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	if deps.Payments == nil {
		deps.Payments, err = payment.NewProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize payment provider: %w", err)
		}
	}
	logger.Info("Payment provider initialized", "provider", deps.Payments.Name())

	if deps.Mailer == nil {
		deps.Mailer, err = newMailer(cfg)
		if err != nil {
			return nil, err
		}
	}

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.TokenTTL())
	wsManager := ws.NewWebSocketManager()

	svc, err := initializeServices(cfg, store, deps, tokens, wsManager)
	if err != nil {
		return nil, err
	}

	worker, err := workers.NewSubscriptionWorker(svc.SubscriptionService, cfg.Subscription.ExpirySchedule)
	if err != nil {
		return nil, err
	}

	// Удалённые хранилища отдают файлы по своим публичным URL.
	var localFiles storage.Storage
	if cfg.ServesLocalFiles() {
		localFiles = deps.Storage
	}
	appHandlers := handlers.NewAppHandlers(svc, validator.New(), localFiles, store, handlers.CookieConfig{
		TTL:    cfg.CookieTTL(),
		Secure: cfg.IsProduction(),
	})
	wsHandler := ws.NewWebSocketHandler(wsManager, cfg.CORS.AllowedOrigins)

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, middleware.AuthMiddleware(tokens, store.Users()))

	return &App{
		cfg:       cfg,
		store:     store,
		router:    ginRouter,
		services:  svc,
		wsManager: wsManager,
		worker:    worker,
	}, nil
}

func initializeServices(
	cfg *config.Config,
	store repositories.Store,
	deps Dependencies,
	tokens *auth.TokenManager,
	publisher services.OrderPublisher,
) (*services.ServiceContainer, error) {
	pricing, err := cfg.OrderPricing()
	if err != nil {
		return nil, err
	}
	plans, err := cfg.Plans()
	if err != nil {
		return nil, err
	}

	imageService := services.NewImageService(
		deps.Storage,
		imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxDimension),
		&services.UploadConfig{
			MaxFileSize:  cfg.Upload.MaxSize,
			MaxFiles:     cfg.Upload.MaxImages,
			AllowedTypes: cfg.Upload.AllowedTypes,
		},
	)

	return &services.ServiceContainer{
		AuthService: services.NewAuthService(store.Users(), tokens, imageService, deps.Payments, deps.Mailer, services.AuthConfig{
			FrontendURL:   cfg.FrontendURL,
			ResetTokenTTL: cfg.ResetTokenTTL(),
		}),
		UserService:    services.NewUserService(store.Users(), imageService),
		ProductService: services.NewProductService(store.Products(), imageService),
		OrderService: services.NewOrderService(store, deps.Payments, publisher, services.OrderPricing{
			TaxRate:               pricing.TaxRate,
			FreeShippingThreshold: pricing.FreeShippingThreshold,
			ShippingFee:           pricing.ShippingFee,
			Currency:              cfg.Payment.Currency,
		}),
		CouponService:       services.NewCouponService(store.Coupons()),
		SubscriptionService: services.NewSubscriptionService(store, deps.Payments, plans, cfg.Payment.Currency),
		PaymentService:      services.NewPaymentService(deps.Payments, store.Users(), cfg.Payment.Currency),
		ImageService:        imageService,

		Mailer:   deps.Mailer,
		Payments: deps.Payments,
		Storage:  deps.Storage,
	}, nil
}

func newMailer(cfg *config.Config) (email.Mailer, error) {
	var provider email.Provider
	switch strings.ToLower(cfg.Email.Provider) {
	case "", "log":
		provider = email.LogProvider{}
		logger.Warn("Email provider is 'log'. Messages are written to the log only.")
	case "smtp":
		provider = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
			UseTLS:    cfg.Email.UseTLS,
		})
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Email.Provider)
	}
	if err := provider.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email configuration: %w", err)
	}

	templates := email.NewTemplateManager()
	if cfg.Email.TemplatesDir != "" {
		if err := templates.LoadTemplates(cfg.Email.TemplatesDir); err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
	}

	from := cfg.Email.FromEmail
	if cfg.Email.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.Email.FromName, cfg.Email.FromEmail)
	}
	return email.NewService(provider, templates, from), nil
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.MaxMultipartMemory = cfg.Upload.MaxSize * int64(max(cfg.Upload.MaxImages, 1))
	router.NoRoute(middleware.NoRouteHandler)
	router.NoMethod(middleware.NoMethodHandler)
	return router
}

// Handler возвращает HTTP обработчик со всеми маршрутами.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Services() *services.ServiceContainer {
	return a.services
}

// Start запускает ленту заказов и задачу истечения подписок. Обе останавливаются вместе с ctx.
func (a *App) Start(ctx context.Context) {
	go a.wsManager.Run(ctx)
	a.worker.Start(ctx)
}

// Serve запускает HTTP сервер до отмены ctx и затем корректно его останавливает.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.Start(ctx)

	srv := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "addr", srv.Addr, "env", a.cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server startup error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(a.cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// Run открывает хранилище из конфигурации и обслуживает запросы до отмены ctx.
func Run(ctx context.Context, cfg *config.Config) error {
	store, err := database.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()
	logger.Info("Database connected", "driver", cfg.Database.Driver)

	if err := database.AutoMigrate(ctx, store); err != nil {
		return err
	}

	if err := SeedAdmin(ctx, store.Users(), cfg); err != nil {
		return fmt.Errorf("failed to seed first admin user: %w", err)
	}

	a, err := New(cfg, store, Dependencies{})
	if err != nil {
		return err
	}
	return a.Serve(ctx)
}

// SeedAdmin создаёт первого администратора из конфигурации. Ничего не делает,
// если данные не заданы или аккаунт уже существует.
func SeedAdmin(ctx context.Context, users repositories.UserRepository, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.Admin.Email))
	if adminEmail == "" || cfg.Admin.Password == "" {
		logger.Warn("ADMIN_EMAIL or ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	existing, err := users.FindByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		if !existing.IsAdmin() {
			logger.Warn("Seed admin email belongs to a non-admin account", "email", adminEmail)
		} else {
			logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		}
		return nil
	case !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	hash, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	name := cfg.Admin.Name
	if name == "" {
		name = "Administrator"
	}
	admin := &models.User{
		Name:         name,
		Email:        adminEmail,
		PasswordHash: hash,
		Role:         models.UserRoleAdmin,
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
