// Package link implements the single physical connection a dataspace uses to talk
// to a Redis-protocol server.
//
// Connect performs the handshake in three gated steps:
//
//  1. dial the server with the configured timeout
//  2. AUTH, if a credential is configured
//  3. SELECT the dataspace's database
//
// A failure in any step closes the half-open socket and returns an error wrapping
// ErrDial, ErrAuth or ErrSelect.
//
// The wire protocol is handled by go-redis. The go-redis client is handed exactly
// one pre-dialed socket, has retries disabled and never redials: once the socket
// breaks every call returns ErrBroken. Recovering (closing the link and connecting
// a new one) is left to the caller, which in redisds is the dataspace dispatcher.
//
// Usage Example:
//
//	l, err := link.Connect(common.ServerConfig{Host: "localhost", Port: 6379}, 2)
//	if err != nil {
//	    return err
//	}
//	defer l.Close()
//
//	reply, err := l.Do("TYPE", "app:user:1")
//
// Replies are returned as Reply values. Server side errors (WRONGTYPE, NOAUTH, ...)
// are replies of KindError, not Go errors.
package link
