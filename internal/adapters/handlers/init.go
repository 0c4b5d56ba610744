package handlers

import (
	"net/http"

	"github.com/iwtcode/brotherAdapter/internal/config"
	"github.com/iwtcode/brotherAdapter/internal/interfaces"
	"github.com/iwtcode/brotherAdapter/internal/metrics"
	"github.com/iwtcode/brotherAdapter/internal/middleware/logging"
	"github.com/iwtcode/brotherAdapter/internal/middleware/swagger"

	"github.com/gin-gonic/gin"
)

// Handler - структура для обработчиков HTTP-запросов
type Handler struct {
	usecase interfaces.Usecases
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewHandler создает новый экземпляр Handler
func NewHandler(usecase interfaces.Usecases, m *metrics.Metrics, logger *logging.Logger) *Handler {
	return &Handler{
		usecase: usecase,
		metrics: m,
		logger:  logger.WithPrefix("HANDLER"),
	}
}

// ProvideRouter настраивает и возвращает HTTP-роутер
func ProvideRouter(h *Handler, cfg *config.AppConfig, swagCfg *swagger.Config) http.Handler {
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.CustomRecovery(h.Recover))
	router.Use(CORSMiddleware())
	router.Use(MetricsMiddleware(h.metrics))
	router.Use(LoggingMiddleware(h.logger))

	swagger.Setup(router, swagCfg)

	router.GET("/", h.Banner)
	router.GET("/probe", h.Probe)
	router.GET("/current", h.Current)
	router.GET("/sample", h.Sample)
	router.GET("/health", h.Health)
	if cfg.MetricsEnable {
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.NoRoute(h.NotFoundRoute)

	return router
}
