package reachability

import (
	"context"
	"errors"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestIsAvailable_RealListener(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = lis.Close() })

	go func() {
		for {
			conn, err := lis.Accept()
			if err != nil {
				return
			}
			_ = conn.Close()
		}
	}()

	c := New(lis.Addr().String(), 0, time.Second)
	require.True(t, c.IsAvailable(context.Background()))
}

func TestIsAvailable_ClosedPort(t *testing.T) {
	t.Parallel()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := lis.Addr().String()
	require.NoError(t, lis.Close())

	c := New(addr, 0, 200*time.Millisecond)
	require.False(t, c.IsAvailable(context.Background()))
	require.Equal(t, ConnectionUnknown, c.ConnectionType())
}

func TestIsAvailable_CachesWithinTTL(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	fail := atomic.Bool{}

	dial := func(ctx context.Context, network, address string) (net.Conn, error) {
		calls.Add(1)
		if fail.Load() {
			return nil, errors.New("no route to host")
		}
		client, server := net.Pipe()
		_ = server.Close()
		return client, nil
	}

	var mu sync.Mutex
	now := time.Date(2024, 7, 20, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}

	c := New("newsapi.example:443", 5*time.Second, time.Second, WithDialer(dial), WithClock(clock))

	require.True(t, c.IsAvailable(context.Background()))
	require.True(t, c.IsAvailable(context.Background()))
	require.EqualValues(t, 1, calls.Load(), "second call must be served from cache")

	fail.Store(true)
	advance(4 * time.Second)
	require.True(t, c.IsAvailable(context.Background()), "still within ttl")

	advance(2 * time.Second)
	require.False(t, c.IsAvailable(context.Background()))
	require.EqualValues(t, 2, calls.Load())
}

func TestClassifyInterface(t *testing.T) {
	t.Parallel()

	tcs := map[string]ConnectionType{
		"wlan0":   ConnectionWiFi,
		"wlp3s0":  ConnectionWiFi,
		"eth0":    ConnectionEthernet,
		"enp0s31": ConnectionEthernet,
		"rmnet0":  ConnectionCellular,
		"pdp_ip0": ConnectionCellular,
		"wwan0":   ConnectionCellular,
		"lo":      ConnectionUnknown,
		"utun3":   ConnectionUnknown,
	}

	for name, want := range tcs {
		require.Equal(t, want, classifyInterface(name), name)
	}
}

func TestProbeAddrFromURL(t *testing.T) {
	t.Parallel()

	got, err := ProbeAddrFromURL("https://newsapi.org/v2")
	require.NoError(t, err)
	require.Equal(t, "newsapi.org:443", got)

	got, err = ProbeAddrFromURL("http://localhost:8081/api")
	require.NoError(t, err)
	require.Equal(t, "localhost:8081", got)

	got, err = ProbeAddrFromURL("http://feeds.example/rss")
	require.NoError(t, err)
	require.Equal(t, "feeds.example:80", got)

	_, err = ProbeAddrFromURL("/relative/only")
	require.Error(t, err)
}
