// Package dataspace implements a resilient client over a Redis-protocol key-value
// store, organized in named dataspaces.
//
// A dataspace is a (database index, key prefix) pair registered under a name.
// Independent modules of an application register their own dataspaces and share one
// server configuration without their keys colliding:
//
//	c := dataspace.New()
//	if err := c.OpenServer(common.ServerConfig{Host: "localhost", Port: 6379}); err != nil {
//	    return err
//	}
//	defer c.CloseServer()
//
//	_ = c.Register("sessions", 2, "app:%s:session:", tenant)
//	ttl, _ := c.Set("sessions", "%s", "%d", 3600, sessionID, userID)
//	v, _ := c.Read("sessions", "%s", sessionID)
//
// Key Components:
//
//   - Client: the context object. It owns the server configuration, the registry and
//     a single dispatch lock. Every operation holds the lock for its whole command
//     sequence, so TYPE+GET or SET+TTL+EXPIRE sequences never interleave.
//
//   - Dispatcher: each dataspace owns one lazily created link.Link. A command that
//     gets no reply (dropped socket, server restart) closes the link, reconnects once
//     and retries once. Connection errors never reach the caller as errors.
//
//   - Reader: Read asks the store for the key's type and decodes string, hash, list
//     and set values into a value.Value. Anything else, including unexpected reply
//     shapes, reads as Absent.
//
//   - Writers: Set, Append, Increment and Store install an expiry only if the key
//     has none, so a countdown set by the caller is never reset by later writes.
//
// Keys are rendered from printf templates. The dataspace prefix is prepended to the
// rendered key. For writers taking a value template the key template consumes the
// leading arguments and the value template the rest; any mismatch is reported as
// ErrTemplateArgs before anything is sent.
//
// Error Semantics:
//
//	Only configuration problems are returned as errors (unknown dataspace, template
//	mismatch, opening twice). A failed read is indistinguishable from a missing key
//	and a failed write reports 0. Callers that need to tell "store down" from
//	"key absent" have to probe on their own, e.g. with Check on a known key.
//
// Thread Safety:
//
//	All operations are safe for concurrent use. Register and CloseServer are not
//	meant to race with each other.
package dataspace
