package rpc

import (
	"fmt"
	"time"

	"github.com/tessro/kodictl/internal/config"
)

// New returns the transport selected by cfg.Transport.
func New(cfg config.KodiConfig) (Transport, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	switch cfg.Transport {
	case config.TransportTCP, "":
		return NewTCPTransport(cfg.Host, cfg.Port, timeout), nil
	case config.TransportHTTP:
		return NewHTTPTransport(cfg.Host, cfg.Port, cfg.User, cfg.Password, timeout), nil
	case config.TransportWebSocket:
		return NewWSTransport(cfg.Host, cfg.Port, timeout), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
