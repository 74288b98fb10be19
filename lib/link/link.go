package link

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/ValentinKolb/redisds/lib/common"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("link")

var (
	// ErrDial is returned when the TCP connection could not be opened.
	ErrDial = errors.New("dial failed")
	// ErrAuth is returned when the server rejected the credential.
	ErrAuth = errors.New("authentication failed")
	// ErrSelect is returned when the server rejected the database index.
	ErrSelect = errors.New("select database failed")
	// ErrBroken is returned by Do when the connection can no longer be used.
	ErrBroken = errors.New("link broken")

	errSpent = errors.New("link socket already handed out")
)

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// socketDialer hands the go-redis pool exactly one pre-dialed socket.
// Every later dial fails, so a dropped connection is never silently replaced.
type socketDialer struct {
	mu   sync.Mutex
	conn net.Conn
}

func (d *socketDialer) dial(_ context.Context, _, _ string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil, errSpent
	}
	conn := d.conn
	d.conn = nil
	return conn, nil
}

// release closes the socket if the pool never took it.
func (d *socketDialer) release() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		_ = d.conn.Close()
		d.conn = nil
	}
}

// Link owns one physical connection to the store, already authenticated and
// switched to its database. A Link is not safe for concurrent use; callers
// serialize access (the dataspace dispatcher holds a lock around every call).
type Link struct {
	// ID identifies the link in log lines.
	ID       string
	addr     string
	database int
	client   *redis.Client
	dialer   *socketDialer

	mu     sync.Mutex
	broken bool
	closed bool
}

// --------------------------------------------------------------------------
// Factory
// --------------------------------------------------------------------------

// Connect opens a connection to the server described by config, authenticates if a
// credential is configured and selects the given database. Each step gates the next.
// On any failure the half-open connection is closed before the error is returned.
func Connect(config common.ServerConfig, database int) (*Link, error) {
	config = config.WithDefaults()
	timeout := config.Timeout()

	conn, err := net.DialTimeout("tcp", config.Addr(), timeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDial, config.Addr(), err)
	}

	d := &socketDialer{conn: conn}
	l := &Link{
		ID:       uuid.NewString(),
		addr:     config.Addr(),
		database: database,
		dialer:   d,
		client: redis.NewClient(&redis.Options{
			Addr:               config.Addr(),
			Dialer:             d.dial,
			DialTimeout:        timeout,
			ReadTimeout:        timeout,
			WriteTimeout:       timeout,
			PoolSize:           1,
			MinIdleConns:       0,
			MaxRetries:         -1,
			IdleTimeout:        -1,
			IdleCheckFrequency: -1,
		}),
	}

	if config.Auth != "" {
		reply, err := l.Do("AUTH", config.Auth)
		if err != nil || !reply.IsOK() {
			l.Close()
			return nil, fmt.Errorf("%w: %s", ErrAuth, describe(reply, err))
		}
	}

	reply, err := l.Do("SELECT", database)
	if err != nil || !reply.IsOK() {
		l.Close()
		return nil, fmt.Errorf("%w: db %d: %s", ErrSelect, database, describe(reply, err))
	}

	Logger.Debugf("link %s connected to %s db %d", l.ID, l.addr, database)
	return l, nil
}

// --------------------------------------------------------------------------
// Methods
// --------------------------------------------------------------------------

// Do sends one command and waits for its reply. Server error replies are returned as
// a KindError reply with a nil error. Transport failures return an error wrapping
// ErrBroken and leave the link marked broken.
func (l *Link) Do(args ...interface{}) (Reply, error) {
	if l == nil {
		return Reply{}, fmt.Errorf("%w: no connection", ErrBroken)
	}

	l.mu.Lock()
	unusable := l.broken || l.closed
	l.mu.Unlock()
	if unusable {
		return Reply{}, fmt.Errorf("%w: %s", ErrBroken, l.ID)
	}

	reply, err := fromResult(l.client.Do(context.Background(), args...).Result())
	if err != nil {
		l.mu.Lock()
		l.broken = true
		l.mu.Unlock()
		Logger.Debugf("link %s: command %v failed: %v", l.ID, args[0], err)
		return Reply{}, fmt.Errorf("%w: %v", ErrBroken, err)
	}
	return reply, nil
}

// Broken reports whether a transport failure was observed on the link.
func (l *Link) Broken() bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.broken || l.closed
}

// Database returns the database index the link selected.
func (l *Link) Database() int {
	return l.database
}

// Close tears the connection down. It is idempotent and safe on a nil Link.
func (l *Link) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.mu.Unlock()

	if err := l.client.Close(); err != nil {
		Logger.Debugf("link %s: close: %v", l.ID, err)
	}
	l.dialer.release()
	Logger.Debugf("link %s to %s closed", l.ID, l.addr)
}

// describe renders a failed handshake step for error messages.
func describe(reply Reply, err error) string {
	if err != nil {
		return err.Error()
	}
	return reply.String()
}
