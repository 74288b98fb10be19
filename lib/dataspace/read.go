package dataspace

import (
	"github.com/ValentinKolb/redisds/lib/link"
	"github.com/ValentinKolb/redisds/lib/value"
	"go.opentelemetry.io/otel/attribute"
)

// Remote type names as reported by TYPE.
const (
	typeString = "string"
	typeHash   = "hash"
	typeList   = "list"
	typeSet    = "set"
)

// Read fetches the key rendered from keyTemplate and args in the named dataspace and
// decodes it according to its remote type. The result is Absent if the key does not
// exist, has an unsupported type, the reply had an unexpected shape or the store
// could not be reached. The error is non-nil only for an unknown dataspace or a
// template mismatch.
func (c *Client) Read(name, keyTemplate string, args ...interface{}) (value.Value, error) {
	ds, err := c.lookup("Read", name)
	if err != nil {
		return value.Absent(), err
	}
	key, err := render(keyTemplate, args)
	if err != nil {
		return value.Absent(), newError("Read", name, err)
	}
	key = ds.Prefix + key

	span := c.startSpan("Read", ds, key)
	var out value.Value
	c.withSession(ds, func(s *session) {
		out = s.read(key)
	})
	span.SetAttributes(kindAttr(out))
	endSpan(span, true)
	return out, nil
}

// read asks for the key's type and decodes the value with the matching command.
func (s *session) read(key string) value.Value {
	reply, ok := s.do("TYPE", key)
	if !ok || reply.Kind != link.KindString || reply.Str == "" {
		return value.Absent()
	}

	switch reply.Str {
	case typeString:
		return decodeString(s.do("GET", key))
	case typeHash:
		return decodeHash(s.do("HGETALL", key))
	case typeList:
		return decodeList(s.do("LRANGE", key, 0, -1))
	case typeSet:
		return decodeSet(s.do("SMEMBERS", key))
	default:
		return value.Absent()
	}
}

// --------------------------------------------------------------------------
// Decoders, one per remote type
// --------------------------------------------------------------------------

// decodeString maps a string reply to a scalar string and an integer reply to a number.
func decodeString(reply link.Reply, ok bool) value.Value {
	if !ok {
		return value.Absent()
	}
	switch reply.Kind {
	case link.KindString:
		return value.String(reply.Str)
	case link.KindInteger:
		return value.Number(reply.Int)
	default:
		return value.Absent()
	}
}

// decodeHash pairs consecutive array elements into fields. Empty or odd-length arrays
// yield Absent, never a partial map.
func decodeHash(reply link.Reply, ok bool) value.Value {
	if !ok {
		return value.Absent()
	}
	elems, isArray := reply.Strings()
	if !isArray || len(elems) == 0 || len(elems)%2 != 0 {
		return value.Absent()
	}
	out := value.Map(nil)
	for i := 0; i < len(elems); i += 2 {
		out.SetField(elems[i], elems[i+1])
	}
	return out
}

// decodeList keeps the remote order. An empty array is an empty list.
func decodeList(reply link.Reply, ok bool) value.Value {
	if !ok {
		return value.Absent()
	}
	elems, isArray := reply.Strings()
	if !isArray {
		return value.Absent()
	}
	return value.List(elems...)
}

func decodeSet(reply link.Reply, ok bool) value.Value {
	if !ok {
		return value.Absent()
	}
	elems, isArray := reply.Strings()
	if !isArray {
		return value.Absent()
	}
	return value.Set(elems...)
}

func kindAttr(v value.Value) attribute.KeyValue {
	return attribute.String("redisds.kind", v.Kind().String())
}
