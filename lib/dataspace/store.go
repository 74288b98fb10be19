package dataspace

import (
	"sort"

	"github.com/ValentinKolb/redisds/lib/value"
)

// Store writes a whole structured value to the rendered key and returns how many
// elements were written (0 on failure):
//
//   - String, Number: SET, counts 1
//   - Map: HSET of every field, merged into an existing hash, counts the fields
//   - List: replaces the list (DEL + RPUSH), counts the new length
//   - Set: SADD of every member, merged into an existing set, counts the cardinality
//   - Absent: DEL, counts 0
//
// The ttl rule of Set applies after a successful write.
func (c *Client) Store(name, keyTemplate string, v value.Value, ttl int64, args ...interface{}) (int64, error) {
	ds, err := c.lookup("Store", name)
	if err != nil {
		return 0, err
	}
	key, err := render(keyTemplate, args)
	if err != nil {
		return 0, newError("Store", name, err)
	}
	key = ds.Prefix + key

	span := c.startSpan("Store", ds, key)
	span.SetAttributes(kindAttr(v))
	var n int64
	var ok bool
	c.withSession(ds, func(s *session) {
		n, ok = s.store(key, v, ttl)
	})
	endSpan(span, ok)
	return n, nil
}

// StoreDocument stores every top-level field of doc under the dataspace prefix plus
// the field name and returns the sum of the per-key counts.
func (c *Client) StoreDocument(name string, doc map[string]value.Value, ttl int64) (int64, error) {
	ds, err := c.lookup("StoreDocument", name)
	if err != nil {
		return 0, err
	}

	fields := make([]string, 0, len(doc))
	for f := range doc {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	span := c.startSpan("StoreDocument", ds, ds.Prefix)
	var total int64
	allOK := true
	c.withSession(ds, func(s *session) {
		for _, f := range fields {
			n, ok := s.store(ds.Prefix+f, doc[f], ttl)
			if !ok {
				allOK = false
				Logger.Warningf("dataspace %q: storing field %q failed", name, f)
			}
			total += n
		}
	})
	endSpan(span, allOK)
	return total, nil
}

// Check reports whether the rendered key exists. An unreachable store reports false.
func (c *Client) Check(name, keyTemplate string, args ...interface{}) (bool, error) {
	ds, err := c.lookup("Check", name)
	if err != nil {
		return false, err
	}
	key, err := render(keyTemplate, args)
	if err != nil {
		return false, newError("Check", name, err)
	}
	key = ds.Prefix + key

	var exists bool
	c.withSession(ds, func(s *session) {
		n, ok := intReply(s.do("EXISTS", key))
		exists = ok && n == 1
	})
	return exists, nil
}

// store writes v to key and applies the ttl rule.
func (s *session) store(key string, v value.Value, ttl int64) (int64, bool) {
	var n int64
	var ok bool

	switch v.Kind() {
	case value.KindString, value.KindNumber:
		reply, sent := s.do("SET", key, v.Str(), "KEEPTTL")
		if ok = sent && reply.IsOK(); ok {
			n = 1
		}
	case value.KindMap:
		if v.Len() == 0 {
			return 0, true
		}
		args := []interface{}{"HSET", key}
		v.Range(func(field, val string) bool {
			args = append(args, field, val)
			return true
		})
		if _, ok = intReply(s.do(args...)); ok {
			n = int64(v.Len())
		}
	case value.KindList:
		if _, ok = intReply(s.do("DEL", key)); !ok || v.Len() == 0 {
			return 0, ok
		}
		n, ok = intReply(s.do(append([]interface{}{"RPUSH", key}, toArgs(v.Elems())...)...))
	case value.KindSet:
		if v.Len() == 0 {
			return 0, true
		}
		if _, ok = intReply(s.do(append([]interface{}{"SADD", key}, toArgs(v.Elems())...)...)); ok {
			n, ok = intReply(s.do("SCARD", key))
		}
	default:
		_, ok = intReply(s.do("DEL", key))
		return 0, ok
	}

	if !ok {
		Logger.Debugf("dataspace %q: store %s as %s failed", s.ds.Name, redact(key), v.Kind())
		return 0, false
	}
	s.conditionalExpire(key, ttl)
	return n, true
}

func toArgs(xs []string) []interface{} {
	out := make([]interface{}, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}

// redact shortens long keys in log lines.
func redact(key string) string {
	const maxLen = 64
	if len(key) <= maxLen {
		return key
	}
	return key[:maxLen] + "..."
}
