package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ahsenkhancoding/backend/internal/auth"
	"github.com/ahsenkhancoding/backend/internal/clients"
	"github.com/ahsenkhancoding/backend/internal/config"
	"github.com/ahsenkhancoding/backend/internal/database"
	"github.com/ahsenkhancoding/backend/internal/models"
	"github.com/ahsenkhancoding/backend/internal/outbox"
	"github.com/ahsenkhancoding/backend/internal/repository"
	"github.com/ahsenkhancoding/backend/internal/service"
	"github.com/ahsenkhancoding/backend/pkg/kafka"
	"github.com/ahsenkhancoding/backend/pkg/logger"
	"github.com/ahsenkhancoding/backend/pkg/middleware"
	"github.com/gorilla/mux"
)

// OrderWorkflow is the order assembly and confirmation surface the handlers use
type OrderWorkflow interface {
	CreateOrder(ctx context.Context, userID string, input service.CreateOrderInput) (*models.Order, error)
	ConfirmOrder(ctx context.Context, userID, orderID, submittedCode string) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID string) (*models.Order, error)
	ListOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, error)
	AdvanceStatus(ctx context.Context, orderID string, next models.OrderStatus) (*models.Order, error)
}

// CartStore is the shopping cart surface the handlers use
type CartStore interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	AddItem(ctx context.Context, userID, sku string, quantity int) (*models.Cart, error)
	UpdateItemQuantity(ctx context.Context, userID, itemID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) error
}

// Authenticator registers and logs in storefront users
type Authenticator interface {
	Register(ctx context.Context, phoneNumber, name, password string) (*models.User, string, error)
	Login(ctx context.Context, phoneNumber, password string) (*models.User, string, error)
}

// Catalog is the product read surface the handlers use
type Catalog interface {
	ListAvailable(ctx context.Context, limit, offset int) ([]*models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
}

// AddressBook is the saved-address surface the handlers use
type AddressBook interface {
	Create(ctx context.Context, address *models.Address) error
	ListForUser(ctx context.Context, userID string) ([]*models.Address, error)
	Update(ctx context.Context, address *models.Address) error
	Delete(ctx context.Context, id, userID string) error
}

// DeliveryOptionLister lists selectable delivery options
type DeliveryOptionLister interface {
	ListActive(ctx context.Context) ([]*models.DeliveryOption, error)
}

// Server is the HTTP API server with all its wired dependencies
type Server struct {
	config          *config.Config
	logger          logger.Logger
	router          *mux.Router
	httpServer      *http.Server
	db              *database.Database
	tokens          *auth.TokenManager
	authService     Authenticator
	orders          OrderWorkflow
	cart            CartStore
	catalog         Catalog
	addressBook     AddressBook
	deliveryOptions DeliveryOptionLister
	mediaBaseURL    string
	adminAPIKey     string
	outboxProcessor *outbox.Processor
	kafkaProducer   *kafka.Producer
	otpRateLimiter  *middleware.RateLimiterMiddleware
}

// NewServer creates a new API server with the given configuration and logger
func NewServer(cfg *config.Config, logger logger.Logger) *Server {
	r := mux.NewRouter()
	db, err := database.New(cfg, logger)

	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		panic(err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Error("Failed to run database migrations", "error", err)
		panic(err)
	}

	userRepo := repository.NewUserRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	addressRepo := repository.NewAddressRepository(db, logger)
	deliveryRepo := repository.NewDeliveryOptionRepository(db, logger)
	cartRepo := repository.NewCartRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)
	outboxRepo := repository.NewOutboxRepository(db, logger)

	kafkaProducer, err := kafka.NewProducer(cfg.Kafka.Brokers, logger)

	if err != nil {
		logger.Error("Failed to create Kafka producer", "error", err)
		panic(err)
	}

	smsClient := clients.NewSMSClient(&cfg.SMS, logger)
	tokens := auth.NewTokenManager(&cfg.JWT)

	otpService := service.NewOTPService(orderRepo, smsClient, logger)
	orderService := service.NewOrderService(orderRepo, outboxRepo, productRepo, addressRepo, deliveryRepo, otpService, logger)
	cartService := service.NewCartService(cartRepo, productRepo, logger)
	authService := service.NewAuthService(userRepo, tokens, logger)

	outboxProcessor := outbox.NewProcessor(outboxRepo, outbox.ProcessorConfig{
		PollingInterval: 5 * time.Second,
		BatchSize:       10,
		MaxRetries:      3,
	}, logger)

	kafkaHandler := outbox.NewKafkaHandler(kafkaProducer, cfg.Kafka.OrdersTopic, logger)
	outboxProcessor.RegisterHandler(models.EventOrderCreated, kafkaHandler)
	outboxProcessor.RegisterHandler(models.EventOrderConfirmed, kafkaHandler)
	outboxProcessor.RegisterHandler(models.EventOrderStatusChanged, kafkaHandler)

	// Slow refill keeps OTP guessing impractical from a single address
	otpRateLimiter := middleware.NewRateLimiterMiddleware(&middleware.RateLimiterConfig{
		IPMaxTokens:       5,
		IPRefillRate:      0.1,
		TrustForwardedFor: true,
	}, logger)

	server := &Server{
		config: cfg,
		logger: logger,
		router: r,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      r,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		db:              db,
		tokens:          tokens,
		authService:     authService,
		orders:          orderService,
		cart:            cartService,
		catalog:         productRepo,
		addressBook:     addressRepo,
		deliveryOptions: deliveryRepo,
		mediaBaseURL:    cfg.MediaBaseURL,
		adminAPIKey:     cfg.AdminAPIKey,
		outboxProcessor: outboxProcessor,
		kafkaProducer:   kafkaProducer,
		otpRateLimiter:  otpRateLimiter,
	}

	server.setupRoutes()
	outboxProcessor.Start()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server and its background workers
func (s *Server) Shutdown(ctx context.Context) error {
	if s.outboxProcessor != nil {
		s.outboxProcessor.Stop()
	}

	if s.otpRateLimiter != nil {
		s.otpRateLimiter.Stop()
	}

	if s.kafkaProducer != nil {
		if err := s.kafkaProducer.Close(); err != nil {
			s.logger.Error("Error closing Kafka producer", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Error closing database connection", "error", err)
		}
	}

	return s.httpServer.Shutdown(ctx)
}

// setupRoutes configures all the routes for the API
func (s *Server) setupRoutes() {
	s.router.Use(s.loggingMiddleware)

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", s.healthCheckHandler).Methods(http.MethodGet)

	api.HandleFunc("/auth/register", s.registerHandler).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.loginHandler).Methods(http.MethodPost)

	api.HandleFunc("/products", s.listProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{sku}", s.getProductHandler).Methods(http.MethodGet)
	api.HandleFunc("/delivery-options", s.listDeliveryOptionsHandler).Methods(http.MethodGet)

	authed := api.NewRoute().Subrouter()
	authed.Use(s.tokens.Middleware)

	authed.HandleFunc("/addresses", s.listAddressesHandler).Methods(http.MethodGet)
	authed.HandleFunc("/addresses", s.createAddressHandler).Methods(http.MethodPost)
	authed.HandleFunc("/addresses/{id}", s.updateAddressHandler).Methods(http.MethodPut)
	authed.HandleFunc("/addresses/{id}", s.deleteAddressHandler).Methods(http.MethodDelete)

	authed.HandleFunc("/cart", s.getCartHandler).Methods(http.MethodGet)
	authed.HandleFunc("/cart", s.clearCartHandler).Methods(http.MethodDelete)
	authed.HandleFunc("/cart/items", s.addCartItemHandler).Methods(http.MethodPost)
	authed.HandleFunc("/cart/items/{id}", s.updateCartItemHandler).Methods(http.MethodPatch)
	authed.HandleFunc("/cart/items/{id}", s.removeCartItemHandler).Methods(http.MethodDelete)

	authed.HandleFunc("/orders", s.createOrderHandler).Methods(http.MethodPost)
	authed.HandleFunc("/orders", s.listOrdersHandler).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id}", s.getOrderHandler).Methods(http.MethodGet)

	verify := authed.NewRoute().Subrouter()
	verify.Use(s.otpRateLimiter.Middleware)
	verify.HandleFunc("/orders/{id}/verify-otp", s.verifyOTPHandler).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(s.adminAuthMiddleware)
	admin.HandleFunc("/orders/{id}/status", s.updateOrderStatusHandler).Methods(http.MethodPatch)
}

// loggingMiddleware logs every processed request
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		s.logger.Info("Request processed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start),
			"remoteAddr", r.RemoteAddr,
		)
	})
}
