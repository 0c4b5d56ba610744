package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const banner = "Brother CNC MTConnect adapter. Endpoints: /probe /current /sample\n"

// Banner возвращает текстовое описание адаптера.
// @Summary Описание адаптера
// @Tags Agent
// @Produce plain
// @Success 200 {string} string "Текстовое описание"
// @Router / [get]
func (h *Handler) Banner(c *gin.Context) {
	c.String(http.StatusOK, banner)
}

// Probe возвращает модель устройства.
// @Summary MTConnect probe
// @Description Документ MTConnectDevices с фиксированным набором DataItem.
// @Tags Agent
// @Produce xml
// @Success 200 {string} string "MTConnectDevices"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /probe [get]
func (h *Handler) Probe(c *gin.Context) {
	body, err := h.usecase.Probe()
	h.XML(c, body, err)
}

// Current возвращает последние значения всех DataItem.
// @Summary MTConnect current
// @Description Документ MTConnectStreams по текущему снимку. До первого опроса avail = UNAVAILABLE.
// @Tags Agent
// @Produce xml
// @Success 200 {string} string "MTConnectStreams"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /current [get]
func (h *Handler) Current(c *gin.Context) {
	body, err := h.usecase.Current()
	h.XML(c, body, err)
}

// Sample совпадает с Current: история значений не хранится.
// @Summary MTConnect sample
// @Tags Agent
// @Produce xml
// @Success 200 {string} string "MTConnectStreams"
// @Failure 500 {object} models.ErrorResponse "Внутренняя ошибка сервера"
// @Router /sample [get]
func (h *Handler) Sample(c *gin.Context) {
	body, err := h.usecase.Sample()
	h.XML(c, body, err)
}

// Health возвращает состояние опроса.
// @Summary Состояние адаптера
// @Tags Service
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.usecase.Health())
}

func (h *Handler) NotFoundRoute(c *gin.Context) {
	c.String(http.StatusNotFound, "Not Found: %s", c.Request.URL.Path)
}
