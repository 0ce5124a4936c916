package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/news-reader/internal/metrics"
	logctx "github.com/pribylovaa/news-reader/pkg/log"
)

// capHandler — тестовый slog.Handler, который:
//   - аккумулирует базовые attrs, приходящие через Logger.With(...);
//   - собирает attrs из каждой записи в map[string]any.
type capHandler struct {
	base    []slog.Attr
	lastMsg string
	lastLvl slog.Level
	attrs   map[string]any
	count   int
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *capHandler) Handle(_ context.Context, r slog.Record) error {
	out := make(map[string]any, len(h.base)+8)

	for _, a := range h.base {
		out[a.Key] = a.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value.Any()
		return true
	})

	h.count++
	h.lastMsg = r.Message
	h.lastLvl = r.Level
	h.attrs = out

	return nil
}

func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) > 0 {
		h.base = append(h.base, attrs...)
	}

	return h
}

func (h *capHandler) WithGroup(string) slog.Handler { return h }

func makeReq(target string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = (&net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12345}).String()
	return req
}

type errEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func TestChain_Order(t *testing.T) {
	order := []string{}

	mw := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name+"-begin")
				next.ServeHTTP(w, r)
				order = append(order, name+"-end")
			})
		}
	}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
		w.WriteHeader(http.StatusTeapot)
	})

	rr := httptest.NewRecorder()
	Chain(final, mw("m1"), mw("m2")).ServeHTTP(rr, makeReq("/chain"))

	require.Equal(t, []string{"m1-begin", "m2-begin", "handler", "m2-end", "m1-end"}, order)
	require.Equal(t, http.StatusTeapot, rr.Code)
}

func TestRequestID_GenerateAndPropagate(t *testing.T) {
	var seenID, seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = r.Header.Get("X-Request-Id")
		seenCtxID = RequestIDFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	Chain(h, RequestID()).ServeHTTP(rr, makeReq("/rid"))

	respID := rr.Header().Get("X-Request-Id")
	require.Len(t, respID, 32) // 16 байт → 32 hex-символа
	require.Equal(t, respID, seenID)
	require.Equal(t, respID, seenCtxID)
}

func TestRequestID_UseExisting(t *testing.T) {
	const given = "abc123-existing-id"
	var seenCtxID string

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenCtxID = RequestIDFrom(r.Context())
	})

	rr := httptest.NewRecorder()
	req := makeReq("/rid2")
	req.Header.Set("X-Request-Id", given)
	Chain(h, RequestID()).ServeHTTP(rr, req)

	require.Equal(t, given, rr.Header().Get("X-Request-Id"))
	require.Equal(t, given, seenCtxID)
	require.Empty(t, RequestIDFrom(context.Background()))
}

func TestTimeout_SetsDeadline_WhenAbsent(t *testing.T) {
	var hasDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	Chain(h, Timeout(50*time.Millisecond)).ServeHTTP(httptest.NewRecorder(), makeReq("/timeout"))
	require.True(t, hasDeadline)
}

func TestTimeout_CapsLaterDeadline(t *testing.T) {
	var childDL time.Time

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		childDL, _ = r.Context().Deadline()
	})

	parent, cancel := context.WithTimeout(context.Background(), time.Hour)
	defer cancel()

	start := time.Now()
	Chain(h, Timeout(50*time.Millisecond)).ServeHTTP(httptest.NewRecorder(), makeReq("/timeout3").WithContext(parent))

	require.WithinDuration(t, start.Add(50*time.Millisecond), childDL, time.Second)
}

func TestTimeout_KeepsEarlierDeadline(t *testing.T) {
	var childDL time.Time

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		childDL, _ = r.Context().Deadline()
	})

	parent, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	Chain(h, Timeout(time.Second)).ServeHTTP(httptest.NewRecorder(), makeReq("/timeout2").WithContext(parent))

	parentDL, _ := parent.Deadline()
	require.WithinDuration(t, parentDL, childDL, time.Millisecond)
}

func TestTimeout_ZeroIsNoop(t *testing.T) {
	var hasDeadline bool

	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	Chain(h, Timeout(0)).ServeHTTP(httptest.NewRecorder(), makeReq("/t"))
	require.False(t, hasDeadline)
}

func TestRecover_ConvertsPanicTo500(t *testing.T) {
	h := &capHandler{}
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	req := makeReq("/panic")
	req.Header.Set("X-Request-Id", "rid-p")
	req = req.WithContext(logctx.Into(req.Context(), slog.New(h)))

	Chain(panicHandler, Recover()).ServeHTTP(rr, req)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env errEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "internal", env.Error.Code)
	require.Equal(t, "rid-p", env.Error.RequestID)
	require.NotContains(t, rr.Body.String(), "boom")

	require.Equal(t, "panic_recovered", h.lastMsg)
	require.Equal(t, slog.LevelError, h.lastLvl)
	require.NotEmpty(t, h.attrs["stack"])
}

func TestLogging_WritesRecord_WithStatusDurBytesAndRequestID(t *testing.T) {
	h := &capHandler{}
	logger := slog.New(h)

	const rid = "rid-456"
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Логгер запроса доступен хендлеру через контекст.
		logctx.From(r.Context()).Info("handler")
		_, _ = w.Write([]byte("0123456789"))
	})

	rr := httptest.NewRecorder()
	req := makeReq("/log")
	req.Header.Set("X-Request-Id", rid)

	Chain(final, RequestID(), Logging(logger)).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, 2, h.count)
	require.Equal(t, "http", h.lastMsg)
	require.Equal(t, slog.LevelInfo, h.lastLvl)

	require.Equal(t, http.MethodGet, h.attrs["method"])
	require.Equal(t, "/log", h.attrs["path"])
	require.EqualValues(t, http.StatusOK, h.attrs["status"])
	require.EqualValues(t, 10, h.attrs["bytes"])
	require.Equal(t, rid, h.attrs["request_id"])

	_, hasDur := h.attrs["dur"]
	require.True(t, hasDur)
}

func TestLogging_ServerErrorIsWarn(t *testing.T) {
	h := &capHandler{}

	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	Chain(final, Logging(slog.New(h))).ServeHTTP(httptest.NewRecorder(), makeReq("/x"))

	require.Equal(t, slog.LevelWarn, h.lastLvl)
	require.EqualValues(t, http.StatusBadGateway, h.attrs["status"])
}

func TestStatusWriter_CountsBytes_AndDefaultStatus200(t *testing.T) {
	sw := newStatusWriter(httptest.NewRecorder())
	require.Equal(t, http.StatusOK, sw.code())

	_, _ = sw.Write([]byte("abcd"))

	require.Equal(t, http.StatusOK, sw.status)
	require.Equal(t, 4, sw.count)
	require.Same(t, sw, newStatusWriter(sw))
}

// TestMetrics_UsesRoutePattern — метка route берётся из шаблона chi, а не из сырого пути.
func TestMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Delete("/bookmarks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/bookmarks/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	const want = `
# HELP news_reader_http_requests_total HTTP API requests.
# TYPE news_reader_http_requests_total counter
news_reader_http_requests_total{method="DELETE",route="/bookmarks/{id}",status="204"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(want), "news_reader_http_requests_total"))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	called := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	Chain(h, Metrics(nil)).ServeHTTP(httptest.NewRecorder(), makeReq("/"))
	require.True(t, called)
}
