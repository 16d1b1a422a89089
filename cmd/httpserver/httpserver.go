// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/money-transfer/internal/accountdelivery"
	"github.com/go-petr/money-transfer/internal/accountrepo"
	"github.com/go-petr/money-transfer/internal/accountservice"
	"github.com/go-petr/money-transfer/internal/domain"
	"github.com/go-petr/money-transfer/internal/exchange"
	"github.com/go-petr/money-transfer/internal/middleware"
	"github.com/go-petr/money-transfer/internal/notification"
	"github.com/go-petr/money-transfer/internal/refundservice"
	"github.com/go-petr/money-transfer/internal/requestrepo"
	"github.com/go-petr/money-transfer/internal/requestservice"
	"github.com/go-petr/money-transfer/internal/transferdelivery"
	"github.com/go-petr/money-transfer/internal/transferrepo"
	"github.com/go-petr/money-transfer/internal/transferservice"
	"github.com/go-petr/money-transfer/internal/transferstrategy"
	"github.com/go-petr/money-transfer/pkg/cachepkg"
	"github.com/go-petr/money-transfer/pkg/configpkg"
	"github.com/go-petr/money-transfer/pkg/currencypkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
	Refund *refundservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)
	requestRepo := requestrepo.NewRepoPGS(conn)

	var cache cachepkg.Cache = cachepkg.NewMemory()
	if config.RedisAddress != "" {
		cache = cachepkg.NewRedis(config.RedisAddress)
	}

	var sink transferservice.Sink = notification.LogSink{}

	if config.AMQPSource != "" {
		amqpSink, err := notification.NewAMQPSink(config.AMQPSource, config.NotificationExchange)
		if err != nil {
			return nil, errors.New("cannot connect to notification broker")
		}

		sink = amqpSink
	}

	exchanger := exchange.NewRatesClient(config.RatesAPIURL, config.RatesAPIKey, cache, config.RatesCacheTTL)

	strategies := transferstrategy.NewSet(conn, exchanger, config.OptimisticMaxAttempts)
	refundService := refundservice.New(conn, exchanger)

	accountService := accountservice.New(accountRepo)
	requestService := requestservice.New(requestRepo, transferRepo, cache, config.RequestCacheTTL)

	serviceStrategies := make(map[domain.ConcurrencyMode]transferservice.Strategy, len(strategies))
	for mode, strategy := range strategies {
		serviceStrategies[mode] = strategy
	}

	transferService := transferservice.New(transferRepo, requestService, serviceStrategies, refundService, sink)

	accountHandler := accountdelivery.NewHandler(accountService)
	transferHandler := transferdelivery.NewHandler(transferService, requestService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/accounts", accountHandler.Create)
	engine.GET("/accounts/:id", accountHandler.Get)
	engine.GET("/accounts", accountHandler.List)

	engine.POST("/transfers", transferHandler.Transfer)
	engine.GET("/transfers/:id", transferHandler.Get)
	engine.GET("/transfers", transferHandler.List)
	engine.GET("/transfer-requests/:id", transferHandler.GetRequest)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("currency", currencypkg.ValidCurrency); err != nil {
			return nil, errors.New("cannot register currency validator")
		}

		if err := v.RegisterValidation("concurrencymode", transferdelivery.ValidConcurrencyMode); err != nil {
			return nil, errors.New("cannot register concurrency mode validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
		Refund: refundService,
	}

	return server, nil
}
