package rss

import (
	"net/url"
	"strings"
)

// canonicalLink нормализует ссылку: убирает фрагмент и трекинговые параметры.
// Пустая ссылка заменяется guid, если тот похож на URL.
func canonicalLink(raw, guid string) string {
	str := strings.TrimSpace(raw)

	if str == "" {
		if g := strings.TrimSpace(guid); strings.HasPrefix(g, "http://") || strings.HasPrefix(g, "https://") {
			str = g
		}
	}

	u, err := url.Parse(str)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return str
	}

	u.Fragment = ""
	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || strings.HasSuffix(lk, "clid") || strings.HasPrefix(lk, "mc_") || lk == "igshid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()

	return u.String()
}
