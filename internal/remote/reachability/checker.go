// reachability реализует явную проверку сетевой доступности удалённого источника.
//
// Вместо постоянно работающего монитора проверка выполняется по требованию:
// TCP-соединение к probe-адресу, результат кэшируется на ttl,
// параллельные проверки схлопываются через singleflight.
package reachability

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/pribylovaa/news-reader/pkg/log"
)

// ConnectionType — тип маршрута, через который прошла последняя проба.
type ConnectionType string

const (
	ConnectionWiFi     ConnectionType = "wifi"
	ConnectionCellular ConnectionType = "cellular"
	ConnectionEthernet ConnectionType = "ethernet"
	ConnectionUnknown  ConnectionType = "unknown"
)

// DialFunc — сигнатура net.Dialer.DialContext.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// Checker — проверка доступности по требованию с кэшированием результата.
type Checker struct {
	addr        string
	ttl         time.Duration
	dialTimeout time.Duration
	dial        DialFunc
	now         func() time.Time

	group singleflight.Group

	mu        sync.Mutex
	checkedAt time.Time
	available bool
	connType  ConnectionType
}

// Option настраивает Checker.
type Option func(*Checker)

// WithDialer подменяет функцию установки соединения (для тестов и прокси).
func WithDialer(d DialFunc) Option {
	return func(c *Checker) {
		if d != nil {
			c.dial = d
		}
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// New создаёт Checker для host:port.
// ttl <= 0 отключает кэширование; dialTimeout <= 0 — 2s.
func New(addr string, ttl, dialTimeout time.Duration, opts ...Option) *Checker {
	if dialTimeout <= 0 {
		dialTimeout = 2 * time.Second
	}

	c := &Checker{
		addr:        addr,
		ttl:         ttl,
		dialTimeout: dialTimeout,
		now:         time.Now,
		connType:    ConnectionUnknown,
	}
	c.dial = (&net.Dialer{}).DialContext

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// IsAvailable сообщает, есть ли связь с probe-адресом.
func (c *Checker) IsAvailable(ctx context.Context) bool {
	if ok, fresh := c.cached(); fresh {
		return ok
	}

	v, _, _ := c.group.Do(c.addr, func() (any, error) {
		return c.probe(ctx), nil
	})

	return v.(bool)
}

// ConnectionType возвращает тип маршрута последней успешной пробы.
func (c *Checker) ConnectionType() ConnectionType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connType
}

func (c *Checker) cached() (bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ttl <= 0 || c.checkedAt.IsZero() {
		return false, false
	}

	return c.available, c.now().Sub(c.checkedAt) < c.ttl
}

func (c *Checker) probe(ctx context.Context) bool {
	const op = "reachability.probe"

	dialCtx, cancel := context.WithTimeout(ctx, c.dialTimeout)
	defer cancel()

	ok := false
	connType := ConnectionUnknown

	conn, err := c.dial(dialCtx, "tcp", c.addr)
	if err != nil {
		log.From(ctx).Debug("probe_failed",
			slog.String("op", op),
			slog.String("addr", c.addr),
			slog.String("err", err.Error()),
		)
	} else {
		ok = true
		connType = connectionTypeOf(conn.LocalAddr())
		_ = conn.Close()
	}

	c.mu.Lock()
	changed := c.checkedAt.IsZero() || c.available != ok
	c.available = ok
	c.checkedAt = c.now()
	if ok {
		c.connType = connType
	}
	c.mu.Unlock()

	if changed {
		log.From(ctx).Info("reachability_changed",
			slog.String("op", op),
			slog.String("addr", c.addr),
			slog.Bool("available", ok),
			slog.String("connection", string(connType)),
		)
	}

	return ok
}

// connectionTypeOf определяет тип маршрута по имени локального интерфейса.
func connectionTypeOf(local net.Addr) ConnectionType {
	tcp, ok := local.(*net.TCPAddr)
	if !ok || tcp == nil {
		return ConnectionUnknown
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return ConnectionUnknown
	}

	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipNet, ok := a.(*net.IPNet); ok && ipNet.IP.Equal(tcp.IP) {
				return classifyInterface(iface.Name)
			}
		}
	}

	return ConnectionUnknown
}

// classifyInterface сопоставляет имя интерфейса с типом соединения.
func classifyInterface(name string) ConnectionType {
	n := strings.ToLower(name)

	switch {
	case strings.HasPrefix(n, "wl"), strings.HasPrefix(n, "wifi"), strings.HasPrefix(n, "ath"):
		return ConnectionWiFi
	case strings.HasPrefix(n, "wwan"), strings.HasPrefix(n, "rmnet"),
		strings.HasPrefix(n, "pdp_ip"), strings.HasPrefix(n, "ccmni"), strings.HasPrefix(n, "ppp"):
		return ConnectionCellular
	case strings.HasPrefix(n, "eth"), strings.HasPrefix(n, "en"):
		return ConnectionEthernet
	default:
		return ConnectionUnknown
	}
}

// ProbeAddrFromURL извлекает host:port из базового URL источника.
func ProbeAddrFromURL(raw string) (string, error) {
	const op = "reachability.ProbeAddrFromURL"

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("%s: empty host in %q", op, raw)
	}

	port := u.Port()
	if port == "" {
		port = "443"
		if u.Scheme == "http" {
			port = "80"
		}
	}

	return net.JoinHostPort(u.Hostname(), port), nil
}
