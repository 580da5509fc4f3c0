package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	busInterface        = "org.freedesktop.DBus"
	propertiesInterface = "org.freedesktop.DBus.Properties"
)

// Client defines the control-bus operations used to drive the player.
// This abstraction allows us to mock D-Bus interactions in tests.
//
//go:generate mockgen -destination=mocks/client_mock.go -package=mocks github.com/genricoloni/playersnap/internal/bus Client
type Client interface {
	// Close closes the D-Bus connection
	Close() error

	// ListNames returns all names on the bus
	ListNames(ctx context.Context) ([]string, error)

	// ConnectionPID resolves a bus name to the Unix process id that owns it
	ConnectionPID(ctx context.Context, name string) (uint32, error)

	// GetProperty reads iface.key from the object at path on service
	GetProperty(ctx context.Context, service, path, iface, key string) (dbus.Variant, error)

	// SetProperty writes iface.key on the object at path on service
	SetProperty(ctx context.Context, service, path, iface, key string, value any) error

	// Call invokes iface.method and returns the reply body
	Call(ctx context.Context, service, path, iface, method string, args ...any) ([]any, error)
}

// SessionClient is the real implementation using godbus.
// The private session-bus connection is opened on first use.
type SessionClient struct {
	mu   sync.Mutex
	conn *dbus.Conn
	dial func(opts ...dbus.ConnOption) (*dbus.Conn, error)
}

// NewSessionClient creates a real D-Bus client for the session bus
func NewSessionClient() *SessionClient {
	return &SessionClient{dial: dbus.ConnectSessionBus}
}

func (c *SessionClient) connection() (*dbus.Conn, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		return c.conn, nil
	}
	conn, err := c.dial()
	if err != nil {
		return nil, fmt.Errorf("session bus connection failed: %w", err)
	}
	c.conn = conn
	return conn, nil
}

// Close closes the D-Bus connection if it was opened
func (c *SessionClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// ListNames returns all names on the bus
func (c *SessionClient) ListNames(ctx context.Context) ([]string, error) {
	conn, err := c.connection()
	if err != nil {
		return nil, err
	}
	var names []string
	err = conn.BusObject().CallWithContext(ctx, busInterface+".ListNames", 0).Store(&names)
	return names, err
}

// ConnectionPID resolves a bus name to the owning process id
func (c *SessionClient) ConnectionPID(ctx context.Context, name string) (uint32, error) {
	conn, err := c.connection()
	if err != nil {
		return 0, err
	}
	var pid uint32
	err = conn.BusObject().CallWithContext(ctx, busInterface+".GetConnectionUnixProcessID", 0, name).Store(&pid)
	return pid, err
}

// GetProperty retrieves a property through org.freedesktop.DBus.Properties.Get
func (c *SessionClient) GetProperty(ctx context.Context, service, path, iface, key string) (dbus.Variant, error) {
	conn, err := c.connection()
	if err != nil {
		return dbus.Variant{}, err
	}
	var v dbus.Variant
	obj := conn.Object(service, dbus.ObjectPath(path))
	err = obj.CallWithContext(ctx, propertiesInterface+".Get", 0, iface, key).Store(&v)
	return v, err
}

// SetProperty writes a property through org.freedesktop.DBus.Properties.Set
func (c *SessionClient) SetProperty(ctx context.Context, service, path, iface, key string, value any) error {
	conn, err := c.connection()
	if err != nil {
		return err
	}
	obj := conn.Object(service, dbus.ObjectPath(path))
	return obj.CallWithContext(ctx, propertiesInterface+".Set", 0, iface, key, dbus.MakeVariant(value)).Err
}

// Call invokes a method on a remote object and returns the reply body
func (c *SessionClient) Call(ctx context.Context, service, path, iface, method string, args ...any) ([]any, error) {
	conn, err := c.connection()
	if err != nil {
		return nil, err
	}
	obj := conn.Object(service, dbus.ObjectPath(path))
	call := obj.CallWithContext(ctx, iface+"."+method, 0, args...)
	if call.Err != nil {
		return nil, call.Err
	}
	return call.Body, nil
}
