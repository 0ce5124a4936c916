// remote описывает таксономию ошибок удалённых источников статей.
// Реализации источников живут в подпакетах (newsapi, rss), проверка
// сетевой доступности — в reachability.
package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrInvalidRequest — некорректные параметры запроса (страница, URL).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnavailable — нет сетевой связности.
	ErrUnavailable = errors.New("network unavailable")
	// ErrServer — ответ с не-2xx статусом; конкретный код в *ServerError.
	ErrServer = errors.New("server error")
	// ErrDecode — некорректный ответ.
	ErrDecode = errors.New("decode failure")
)

// ServerError — ответ сервера с неуспешным HTTP-статусом.
type ServerError struct {
	Code int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error: status=%d", e.Code)
}

// Is позволяет сопоставлять любую *ServerError с ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// Temporary сообщает, имеет ли смысл повторить запрос.
func (e *ServerError) Temporary() bool {
	return e.Code >= 500 || e.Code == 429
}

// Reason возвращает короткую метку причины для логов и метрик.
func Reason(err error) string {
	var netErr net.Error

	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrServer):
		return "server_error"
	case errors.Is(err, ErrDecode):
		return "decode_failure"
	default:
		return "unknown"
	}
}
