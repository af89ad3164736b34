package bootstrap

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/Domenick1991/flightseats/api"
	"github.com/Domenick1991/flightseats/config"
	"github.com/Domenick1991/flightseats/internal/logger"
	"github.com/Domenick1991/flightseats/internal/service/booking"
	"github.com/Domenick1991/flightseats/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

const requestIDHeader = "X-Request-ID"

//go:embed openapi.json
var openAPIDoc []byte

// NewRouter wires the REST API, the grpc-gateway mux under /v1, metrics,
// health and API docs into one gin engine.
func NewRouter(cfg *config.Config, flightSvc flights.FlightUseCase, bookingSvc booking.BookingUseCase, gateway http.Handler, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "flight": cfg.Flight.Code})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	api.NewBookingHandler(bookingSvc, cfg.Flight.Code).Register(apiGroup.Group("/bookings"))
	api.NewFlightHandler(flightSvc, bookingSvc).Register(apiGroup.Group("/flight"))

	if gateway != nil {
		router.Any("/v1/*any", gin.WrapH(gateway))
	}

	swaggerPath := cfg.HTTP.SwaggerPath
	if swaggerPath == "" {
		swaggerPath = "/swagger/openapi.json"
	}
	router.GET(swaggerPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPIDoc)
	})
	router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerPath))))

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		)
	}
}
