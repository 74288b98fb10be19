package dataspace

import (
	"github.com/ValentinKolb/redisds/lib/link"
)

// conditionalExpire installs ttl seconds on key only if the key has no positive
// remaining ttl. It returns the ttl now in effect: the existing one if it was kept,
// ttl if a new expiry was installed, 0 if installing failed or ttl <= 0.
func (s *session) conditionalExpire(key string, ttl int64) int64 {
	if ttl <= 0 {
		return 0
	}
	if reply, ok := s.do("TTL", key); ok && reply.Kind == link.KindInteger && reply.Int > 0 {
		return reply.Int
	}
	if reply, ok := s.do("EXPIRE", key, ttl); ok && reply.Kind == link.KindInteger && reply.Int == 1 {
		return ttl
	}
	return 0
}

// intReply extracts an integer reply.
func intReply(reply link.Reply, ok bool) (int64, bool) {
	if !ok || reply.Kind != link.KindInteger {
		return 0, false
	}
	return reply.Int, true
}

// --------------------------------------------------------------------------
// Writers
// --------------------------------------------------------------------------

// Set assigns the value rendered from valueTemplate to the key rendered from
// keyTemplate. The key template consumes the leading args, the value template the
// rest. An existing expiry is kept; a key without one gets ttl seconds. It returns
// the ttl in effect, or 0 if the assignment failed.
func (c *Client) Set(name, keyTemplate, valueTemplate string, ttl int64, args ...interface{}) (int64, error) {
	ds, err := c.lookup("Set", name)
	if err != nil {
		return 0, err
	}
	key, val, err := renderPair(keyTemplate, valueTemplate, args)
	if err != nil {
		return 0, newError("Set", name, err)
	}
	key = ds.Prefix + key

	span := c.startSpan("Set", ds, key)
	var applied int64
	var ok bool
	c.withSession(ds, func(s *session) {
		// KEEPTTL: a plain SET would drop the expiry we are supposed to preserve
		reply, sent := s.do("SET", key, val, "KEEPTTL")
		if ok = sent && reply.IsOK(); ok {
			applied = s.conditionalExpire(key, ttl)
		}
	})
	endSpan(span, ok)
	return applied, nil
}

// Append adds the rendered value to the set at the rendered key, creating it if
// needed, and applies the ttl rule if the add succeeded. It returns the set's
// cardinality, which is queried even if the add failed.
func (c *Client) Append(name, keyTemplate, valueTemplate string, ttl int64, args ...interface{}) (int64, error) {
	ds, err := c.lookup("Append", name)
	if err != nil {
		return 0, err
	}
	key, val, err := renderPair(keyTemplate, valueTemplate, args)
	if err != nil {
		return 0, newError("Append", name, err)
	}
	key = ds.Prefix + key

	span := c.startSpan("Append", ds, key)
	var card int64
	var ok bool
	c.withSession(ds, func(s *session) {
		if _, added := intReply(s.do("SADD", key, val)); added {
			s.conditionalExpire(key, ttl)
		}
		card, ok = intReply(s.do("SCARD", key))
	})
	endSpan(span, ok)
	return card, nil
}

// Increment adds amount to the integer at the rendered key (missing keys start at 0)
// and applies the ttl rule. It returns the new value, or 0 if the command failed or
// the reply was not an integer.
func (c *Client) Increment(name, keyTemplate string, amount, ttl int64, args ...interface{}) (int64, error) {
	ds, err := c.lookup("Increment", name)
	if err != nil {
		return 0, err
	}
	key, err := render(keyTemplate, args)
	if err != nil {
		return 0, newError("Increment", name, err)
	}
	key = ds.Prefix + key

	span := c.startSpan("Increment", ds, key)
	var n int64
	var ok bool
	c.withSession(ds, func(s *session) {
		if n, ok = intReply(s.do("INCRBY", key, amount)); ok {
			s.conditionalExpire(key, ttl)
		}
	})
	endSpan(span, ok)
	return n, nil
}

// TTL returns the remaining ttl of the rendered key as reported by the store:
// -1 for a key without expiry, -2 for a missing key, 0 if the store was unreachable.
func (c *Client) TTL(name, keyTemplate string, args ...interface{}) (int64, error) {
	ds, err := c.lookup("TTL", name)
	if err != nil {
		return 0, err
	}
	key, err := render(keyTemplate, args)
	if err != nil {
		return 0, newError("TTL", name, err)
	}
	key = ds.Prefix + key

	var ttl int64
	c.withSession(ds, func(s *session) {
		ttl, _ = intReply(s.do("TTL", key))
	})
	return ttl, nil
}
