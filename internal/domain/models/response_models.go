package models

// ErrorResponse представляет стандартный ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"error"`
	Error  struct {
		Code    int    `json:"code" example:"500"`
		Message string `json:"message" example:"Внутренняя ошибка сервера"`
	} `json:"error"`
}

// HealthResponse - состояние адаптера для GET /health.
type HealthResponse struct {
	Status              string `json:"status" example:"ok"`
	Endpoint            string `json:"endpoint" example:"10.0.0.1:10000"`
	ControlVersion      string `json:"control_version" example:"D00"`
	Fields              int    `json:"fields" example:"412"`
	ConsecutiveFailures int    `json:"consecutive_failures" example:"0"`
	LastUpdate          string `json:"last_update,omitempty" example:"2024-03-05T10:20:30Z"`
}
