// Package redact маскирует секреты перед записью в логи и ошибки.
package redact

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
)

const mask = "[REDACTED]"

// secretParams — query-параметры, значения которых не должны попадать в логи.
var secretParams = []string{"apikey", "api_key", "key", "token", "access_token"}

// Token возвращает маску для секрета целиком.
func Token() string { return mask }

// URL маскирует пароль в userinfo и значения секретных query-параметров.
// Неразбираемая строка возвращается как есть.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), mask)
		}
	}

	q := u.Query()
	changed := false
	for name := range q {
		if isSecret(name) {
			q.Set(name, mask)
			changed = true
		}
	}
	if changed {
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// Error маскирует URL внутри *url.Error (его отдаёт http.Client.Do).
// Если *url.Error уже обёрнут, текст обёртки собран заранее: возвращается
// новая ошибка с очищенным текстом, цепочка Unwrap сохраняется.
func Error(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}

	raw := ue.URL
	clean := URL(raw)
	ue.URL = clean

	if err == error(ue) || raw == clean {
		return err
	}

	msg := strings.ReplaceAll(err.Error(), strconv.Quote(raw), strconv.Quote(clean))
	msg = strings.ReplaceAll(msg, raw, clean)

	return &redactedError{msg: msg, err: err}
}

// redactedError — обёртка с очищенным текстом.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

func isSecret(name string) bool {
	name = strings.ToLower(name)
	for _, s := range secretParams {
		if name == s {
			return true
		}
	}

	return false
}
