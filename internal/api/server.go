package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/vaidashi/backoffice-api/internal/auth"
	"github.com/vaidashi/backoffice-api/internal/config"
	"github.com/vaidashi/backoffice-api/internal/database"
	"github.com/vaidashi/backoffice-api/internal/outbox"
	"github.com/vaidashi/backoffice-api/internal/repository"
	"github.com/vaidashi/backoffice-api/internal/seed"
	"github.com/vaidashi/backoffice-api/internal/service"
	"github.com/vaidashi/backoffice-api/internal/store"
	"github.com/vaidashi/backoffice-api/pkg/circuitbreaker"
	"github.com/vaidashi/backoffice-api/pkg/errors"
	"github.com/vaidashi/backoffice-api/pkg/kafka"
	"github.com/vaidashi/backoffice-api/pkg/logger"
	"github.com/vaidashi/backoffice-api/pkg/metrics"
	"github.com/vaidashi/backoffice-api/pkg/middleware"
	"github.com/vaidashi/backoffice-api/pkg/retry"
)

const version = "1.0.0"

type Server struct {
	config          *config.Config
	logger          logger.Logger
	router          *mux.Router
	httpServer      *http.Server
	clock           func() time.Time
	store           *store.Store
	db              *database.Database
	outboxRepo      repository.OutboxRepository
	outboxProcessor *outbox.Processor
	kafkaProducer   *kafka.Producer
	kafkaBreaker    *circuitbreaker.CircuitBreaker
	redisClient     *redis.Client
	metrics         *metrics.Metrics
	authLimiter     *middleware.RateLimiterMiddleware
	authorizer      *auth.Authorizer

	authService      *service.AuthService
	userService      *service.UserService
	customerService  *service.CustomerService
	productService   *service.ProductService
	orderService     *service.OrderService
	reviewService    *service.ReviewService
	dashboardService *service.DashboardService
}

// Option customizes a Server
type Option func(*Server)

// WithClock fixes the time source used for "today" and token lifetimes
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.clock = now }
}

// NewServer wires storage, event publishing and services, then builds the router
func NewServer(cfg *config.Config, logger logger.Logger, opts ...Option) (*Server, error) {
	s := &Server{
		config:  cfg,
		logger:  logger,
		router:  mux.NewRouter(),
		clock:   func() time.Time { return time.Now().UTC() },
		metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(s)
	}

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	data, err := seed.Generate(seed.Options{Seed: cfg.Seed, Now: s.clock(), HashPassword: hasher.Hash})
	if err != nil {
		return nil, fmt.Errorf("failed to generate seed data: %w", err)
	}
	s.store = store.New(data)
	logger.Info("Seed data generated",
		"seed", cfg.Seed,
		"users", len(data.Users),
		"orders", len(data.Orders))

	if err := s.setupOutbox(); err != nil {
		s.closeResources()
		return nil, err
	}

	revoker, err := s.setupRevoker()
	if err != nil {
		s.closeResources()
		return nil, err
	}

	s.authorizer, err = auth.NewAuthorizer()
	if err != nil {
		s.closeResources()
		return nil, err
	}

	deps := service.Dependencies{
		Store:  s.store,
		Outbox: s.outboxRepo,
		Logger: logger,
		Clock:  s.clock,
	}
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).WithClock(s.clock)

	s.authService = service.NewAuthService(deps, tokens, hasher, revoker)
	s.userService = service.NewUserService(deps, hasher)
	s.customerService = service.NewCustomerService(deps)
	s.productService = service.NewProductService(deps)
	s.orderService = service.NewOrderService(deps)
	s.reviewService = service.NewReviewService(deps)
	s.dashboardService = service.NewDashboardService(deps)

	s.authLimiter = middleware.NewRateLimiterMiddleware(middleware.RateLimiterConfig{
		IPMaxTokens:       cfg.RateLimit.Burst,
		IPRefillRate:      cfg.RateLimit.PerSecond,
		TrustForwardedFor: cfg.RateLimit.TrustForwardedFor,
		Reject: func(w http.ResponseWriter, r *http.Request) {
			s.respondWithError(w, r, errors.NewRateLimitedError("too many requests, please try again later"))
		},
	}, logger)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s, nil
}

// setupOutbox selects the outbox store and registers the event handlers
func (s *Server) setupOutbox() error {
	cfg := s.config

	switch cfg.Outbox.Driver {
	case config.OutboxDriverPostgres:
		db, err := database.New(cfg.GetDBConnString(), s.logger)
		if err != nil {
			return fmt.Errorf("failed to connect to outbox database: %w", err)
		}
		s.db = db

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := db.RunMigrations(ctx); err != nil {
			return fmt.Errorf("failed to run outbox migrations: %w", err)
		}
		s.outboxRepo = repository.NewPostgresOutboxRepository(db, s.logger)
	default:
		s.outboxRepo = repository.NewMemoryOutboxRepository()
	}

	s.outboxProcessor = outbox.NewProcessor(s.outboxRepo, outbox.ProcessorConfig{
		PollingInterval: cfg.Outbox.PollInterval,
		BatchSize:       cfg.Outbox.BatchSize,
		MaxRetries:      cfg.Outbox.MaxRetries,
		Metrics:         s.metrics,
	}, s.logger)

	outbox.RegisterAll(s.outboxProcessor, outbox.NewLoggingHandler(s.logger.With("component", "outbox")))

	if len(cfg.Kafka.Brokers) == 0 {
		return nil
	}

	producer, err := kafka.NewProducer(cfg.Kafka.Brokers, s.logger)
	if err != nil {
		return err
	}
	s.kafkaProducer = producer
	s.kafkaBreaker = circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: 5,
		ResetTimeout:     30 * time.Second,
		HalfOpenMaxCalls: 1,
	})

	kafkaHandler := outbox.NewKafkaHandler(producer, cfg.Kafka.Topic, s.kafkaBreaker, retry.RetryConfig{
		MaxAttempts:     3,
		BackoffStrategy: retry.NewDefaultExponentialBackoff(),
	}, s.logger)
	outbox.RegisterAll(s.outboxProcessor, kafkaHandler)

	s.logger.Info("Kafka publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	return nil
}

// setupRevoker keeps logged out tokens in Redis when configured
func (s *Server) setupRevoker() (auth.Revoker, error) {
	cfg := s.config.Redis
	if cfg.Addr == "" {
		return auth.NewMemoryRevoker().WithClock(s.clock), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	s.redisClient = client
	s.logger.Info("Token revocations stored in Redis", "addr", cfg.Addr)
	return auth.NewRedisRevoker(client).WithClock(s.clock), nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// Processor returns the outbox processor
func (s *Server) Processor() *outbox.Processor {
	return s.outboxProcessor
}

// Start starts the outbox processor and the HTTP server
func (s *Server) Start() error {
	s.outboxProcessor.Start()
	s.logger.Info("Starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.outboxProcessor.Stop()
	s.closeResources()
	return err
}

func (s *Server) closeResources() {
	if s.authLimiter != nil {
		s.authLimiter.Stop()
	}
	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			s.logger.Error("Error closing Kafka producer", "error", err)
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			s.logger.Error("Error closing Redis client", "error", err)
		}
	}
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Error closing database connection", "error", err)
		}
	}
}

// setupRoutes configures all the routes of the API
func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(s.metrics.Middleware)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondWithError(w, r, errors.NewNotFoundError("route not found"))
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.respondWithError(w, r, errors.NewMethodNotAllowedError("method not allowed"))
	})

	s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	public := api.PathPrefix("/auth").Subrouter()
	public.Handle("/login", s.authLimiter.Middleware(http.HandlerFunc(s.loginHandler))).Methods(http.MethodPost)
	public.Handle("/register", s.authLimiter.Middleware(http.HandlerFunc(s.registerHandler))).Methods(http.MethodPost)

	private := api.NewRoute().Subrouter()
	private.Use(s.authenticate)

	private.HandleFunc("/auth/logout", s.logoutHandler).Methods(http.MethodPost)
	private.Handle("/auth/password", s.require(auth.ResourceProfile, auth.ActionWrite, s.changePasswordHandler)).Methods(http.MethodPut)
	private.Handle("/users/me", s.require(auth.ResourceProfile, auth.ActionRead, s.getMeHandler)).Methods(http.MethodGet)
	private.Handle("/users/me", s.require(auth.ResourceProfile, auth.ActionWrite, s.updateMeHandler)).Methods(http.MethodPatch)

	private.Handle("/users", s.require(auth.ResourceUsers, auth.ActionRead, s.getUsersHandler)).Methods(http.MethodGet)
	private.Handle("/users", s.require(auth.ResourceUsers, auth.ActionWrite, s.createUserHandler)).Methods(http.MethodPost)
	private.Handle("/users/{id}", s.require(auth.ResourceUsers, auth.ActionRead, s.getUserHandler)).Methods(http.MethodGet)
	private.Handle("/users/{id}", s.require(auth.ResourceUsers, auth.ActionWrite, s.updateUserHandler)).Methods(http.MethodPut)
	private.Handle("/users/{id}", s.require(auth.ResourceUsers, auth.ActionDelete, s.deleteUserHandler)).Methods(http.MethodDelete)
	private.Handle("/users/{id}/role", s.require(auth.ResourceUsers, auth.ActionWrite, s.updateUserRoleHandler)).Methods(http.MethodPatch)
	private.Handle("/users/{id}/status", s.require(auth.ResourceUsers, auth.ActionWrite, s.updateUserStatusHandler)).Methods(http.MethodPatch)
	private.Handle("/users/{id}/approve", s.require(auth.ResourceUsers, auth.ActionWrite, s.approveUserHandler)).Methods(http.MethodPost)
	private.Handle("/users/{id}/reject", s.require(auth.ResourceUsers, auth.ActionWrite, s.rejectUserHandler)).Methods(http.MethodPost)

	private.Handle("/customers", s.require(auth.ResourceCustomers, auth.ActionRead, s.getCustomersHandler)).Methods(http.MethodGet)
	private.Handle("/customers", s.require(auth.ResourceCustomers, auth.ActionWrite, s.createCustomerHandler)).Methods(http.MethodPost)
	private.Handle("/customers/{id}", s.require(auth.ResourceCustomers, auth.ActionRead, s.getCustomerHandler)).Methods(http.MethodGet)
	private.Handle("/customers/{id}", s.require(auth.ResourceCustomers, auth.ActionWrite, s.updateCustomerHandler)).Methods(http.MethodPut, http.MethodPatch)
	private.Handle("/customers/{id}", s.require(auth.ResourceCustomers, auth.ActionDelete, s.deleteCustomerHandler)).Methods(http.MethodDelete)
	private.Handle("/customers/{id}/status", s.require(auth.ResourceCustomers, auth.ActionWrite, s.updateCustomerStatusHandler)).Methods(http.MethodPatch)

	private.Handle("/products", s.require(auth.ResourceProducts, auth.ActionRead, s.getProductsHandler)).Methods(http.MethodGet)
	private.Handle("/products", s.require(auth.ResourceProducts, auth.ActionWrite, s.createProductHandler)).Methods(http.MethodPost)
	private.Handle("/products/{id}", s.require(auth.ResourceProducts, auth.ActionRead, s.getProductHandler)).Methods(http.MethodGet)
	private.Handle("/products/{id}", s.require(auth.ResourceProducts, auth.ActionWrite, s.updateProductHandler)).Methods(http.MethodPut)
	private.Handle("/products/{id}", s.require(auth.ResourceProducts, auth.ActionDelete, s.deleteProductHandler)).Methods(http.MethodDelete)
	private.Handle("/products/{id}/stock", s.require(auth.ResourceProducts, auth.ActionWrite, s.updateProductStockHandler)).Methods(http.MethodPatch)
	private.Handle("/products/{id}/status", s.require(auth.ResourceProducts, auth.ActionWrite, s.updateProductStatusHandler)).Methods(http.MethodPatch)

	private.Handle("/orders", s.require(auth.ResourceOrders, auth.ActionRead, s.getOrdersHandler)).Methods(http.MethodGet)
	private.Handle("/orders", s.require(auth.ResourceOrders, auth.ActionWrite, s.createOrderHandler)).Methods(http.MethodPost)
	private.Handle("/orders/{id}", s.require(auth.ResourceOrders, auth.ActionRead, s.getOrderHandler)).Methods(http.MethodGet)
	private.Handle("/orders/{id}", s.require(auth.ResourceOrders, auth.ActionDelete, s.deleteOrderHandler)).Methods(http.MethodDelete)
	private.Handle("/orders/{id}/status", s.require(auth.ResourceOrders, auth.ActionWrite, s.updateOrderStatusHandler)).Methods(http.MethodPatch)

	private.Handle("/reviews", s.require(auth.ResourceReviews, auth.ActionRead, s.getReviewsHandler)).Methods(http.MethodGet)
	private.Handle("/reviews", s.require(auth.ResourceReviews, auth.ActionWrite, s.createReviewHandler)).Methods(http.MethodPost)
	private.Handle("/reviews/{id}", s.require(auth.ResourceReviews, auth.ActionRead, s.getReviewHandler)).Methods(http.MethodGet)
	private.Handle("/reviews/{id}", s.require(auth.ResourceReviews, auth.ActionDelete, s.deleteReviewHandler)).Methods(http.MethodDelete)

	private.Handle("/dashboard/stats", s.require(auth.ResourceDashboard, auth.ActionRead, s.dashboardStatsHandler)).Methods(http.MethodGet)
}
