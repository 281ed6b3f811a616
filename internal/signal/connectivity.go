package signal

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
)

// ConnectivitySource probes TCP reachability of the remote API host and
// emits a sample on the first probe and on every transition.
type ConnectivitySource struct {
	addr     string
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
}

func NewConnectivitySource(addr string, interval time.Duration, logger *zap.Logger) *ConnectivitySource {
	if addr == "" {
		addr = "slack.com:443"
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectivitySource{addr: addr, interval: interval, timeout: 5 * time.Second, logger: logger}
}

func (s *ConnectivitySource) Kind() Kind { return KindConnectivity }

func (s *ConnectivitySource) Run(ctx context.Context, emit func(Sample)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var last bool
	first := true
	for {
		online := s.probe(ctx)
		if first || online != last {
			first = false
			last = online
			emit(Sample{Kind: KindConnectivity, At: time.Now(), Online: online})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *ConnectivitySource) probe(ctx context.Context) bool {
	dialCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", s.addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
