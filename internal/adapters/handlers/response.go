package handlers

import (
	"fmt"
	"net/http"

	"github.com/iwtcode/brotherAdapter/internal/domain/models"
	"github.com/iwtcode/brotherAdapter/pkg/errors"

	"github.com/gin-gonic/gin"
)

const contentTypeXML = "application/xml; charset=utf-8"

// ErrorResponse возвращает стандартизированный ответ с ошибкой.
// Текст внутренней ошибки попадает в ответ только для IsUserFacing.
func (h *Handler) ErrorResponse(c *gin.Context, appErr *errors.AppError) {
	var body models.ErrorResponse
	body.Status = "error"
	body.Error.Code = appErr.Code
	body.Error.Message = appErr.Message
	if appErr.IsUserFacing && appErr.Err != nil {
		body.Error.Message = appErr.Message + ": " + appErr.Err.Error()
	}

	h.logger.Error(appErr.Message, "error", appErr.Err, "statusCode", appErr.Code)
	c.AbortWithStatusJSON(appErr.Code, body)
}

// InternalError возвращает ошибку 500
func (h *Handler) InternalError(c *gin.Context, err error) {
	h.ErrorResponse(c, errors.NewAppError(errors.InternalServerErrorCode, errors.InternalServerError, err, true))
}

// Recover превращает панику обработчика в ответ 500. Сервер продолжает работу.
func (h *Handler) Recover(c *gin.Context, recovered any) {
	h.InternalError(c, fmt.Errorf("panic: %v", recovered))
}

// XML отдает готовый документ MTConnect.
func (h *Handler) XML(c *gin.Context, body []byte, err error) {
	if err != nil {
		h.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypeXML, body)
}
