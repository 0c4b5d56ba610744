package errors

import (
	"errors"
	"fmt"
	"net"
)

const (
	InternalServerError     = "internal server error"
	InternalServerErrorCode = 500
)

// AppError представляет собой стандартизированную структуру ошибки для API.
type AppError struct {
	Code         int    `json:"code"`    // HTTP статус код
	Message      string `json:"message"` // Сообщение для клиента
	Err          error  `json:"-"`       // Внутренняя ошибка, не для клиента
	IsUserFacing bool   `json:"-"`       // Флаг, указывающий, можно ли показывать `Err`
}

func (a *AppError) Error() string {
	if a == nil {
		return ""
	}
	if a.Err != nil {
		return fmt.Sprintf("%s (code: %d): %v", a.Message, a.Code, a.Err)
	}
	return fmt.Sprintf("%s (code: %d)", a.Message, a.Code)
}

func (a *AppError) Unwrap() error {
	if a == nil {
		return nil
	}
	return a.Err
}

// NewAppError создает новый экземпляр AppError.
func NewAppError(httpCode int, message string, err error, isUserFacing bool) *AppError {
	return &AppError{
		Code:         httpCode,
		Message:      message,
		Err:          err,
		IsUserFacing: isUserFacing,
	}
}

var (
	ErrDataNotFound = errors.New("data not found")

	// Ошибки обмена со станком
	ErrTransport      = errors.New("cnc transport failure")
	ErrNoData         = errors.New("cnc file unavailable")
	ErrMalformedFrame = errors.New("malformed protocol frame")
	ErrUnknownVersion = errors.New("unknown control version")
)

// IsTransient сообщает, имеет ли смысл повторить операцию позже.
// Транспортные ошибки и сетевые таймауты считаются временными.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTransport) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
