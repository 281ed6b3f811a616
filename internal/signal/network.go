package signal

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// IdentityFunc reads the current network identity (SSID). Empty string
// means not associated with any network.
type IdentityFunc func(ctx context.Context) (string, error)

// CurrentSSID shells out to iwgetid, the thin OS boundary on Linux hosts.
func CurrentSSID(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "iwgetid", "-r").Output()
	if err != nil {
		// Not associated (or no wireless interface) exits non-zero.
		return "", nil
	}
	return strings.TrimSpace(string(out)), nil
}

// NetworkSource polls the network identity and emits a sample on the first
// read and on every change.
type NetworkSource struct {
	identity IdentityFunc
	interval time.Duration
	logger   *zap.Logger
}

func NewNetworkSource(identity IdentityFunc, interval time.Duration, logger *zap.Logger) *NetworkSource {
	if identity == nil {
		identity = CurrentSSID
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NetworkSource{identity: identity, interval: interval, logger: logger}
}

func (s *NetworkSource) Kind() Kind { return KindNetwork }

func (s *NetworkSource) Run(ctx context.Context, emit func(Sample)) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var last string
	first := true
	for {
		ssid, err := s.identity(ctx)
		if err != nil {
			s.logger.Warn("network identity read failed", zap.Error(err))
		} else if first || ssid != last {
			first = false
			last = ssid
			emit(Sample{Kind: KindNetwork, At: time.Now(), SSID: ssid})
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
