// Package messaging provides the NATS adapters used by the edit worker.
package messaging

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"promptcheck/internal/config"
	"promptcheck/internal/port/outbound"

	"github.com/nats-io/nats.go"
)

const (
	// NATS connection timeout.
	natsConnectionTimeout = 5 * time.Second

	connectionName = "promptcheck"
)

// Connection wraps a NATS connection and reports its state.
type Connection struct {
	conn *nats.Conn
}

var _ outbound.ConnectionReporter = (*Connection)(nil)

// ValidateNATSConfig checks the fields needed to dial NATS.
func ValidateNATSConfig(cfg config.NATSConfig) error {
	if cfg.URL == "" {
		return errors.New("NATS URL cannot be empty")
	}
	if !strings.HasPrefix(cfg.URL, "nats://") && !strings.HasPrefix(cfg.URL, "tls://") {
		return errors.New("invalid NATS URL scheme")
	}
	if cfg.MaxReconnects < 0 {
		return errors.New("max reconnects cannot be negative")
	}
	if cfg.ReconnectWait < 0 {
		return errors.New("reconnect wait cannot be negative")
	}
	return nil
}

// Connect dials NATS with the configured reconnect policy.
func Connect(cfg config.NATSConfig) (*Connection, error) {
	if err := ValidateNATSConfig(cfg); err != nil {
		return nil, err
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Name(connectionName),
		nats.Timeout(natsConnectionTimeout),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.URL, err)
	}

	return &Connection{conn: conn}, nil
}

// Conn returns the underlying NATS connection.
func (c *Connection) Conn() *nats.Conn {
	return c.conn
}

// Name identifies the dependency in health reports.
func (c *Connection) Name() string {
	return "nats"
}

// IsConnected reports whether the connection is currently usable.
func (c *Connection) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Close drains pending messages and closes the connection.
func (c *Connection) Close() error {
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
		return err
	}
	return nil
}
