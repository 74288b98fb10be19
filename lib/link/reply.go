package link

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"
)

// Kind is the wire type of a reply.
type Kind int

const (
	KindNil     Kind = iota // null bulk / null array
	KindString              // bulk string or status reply
	KindInteger             // integer reply
	KindArray               // multi-bulk reply
	KindError               // error reply sent by the server
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindArray:
		return "array"
	case KindError:
		return "error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Reply is one decoded server reply. Only the fields belonging to Kind are set.
type Reply struct {
	Kind  Kind
	Str   string // KindString and KindError
	Int   int64  // KindInteger
	Elems []Reply
}

// IsOK reports whether the reply is the +OK status.
func (r Reply) IsOK() bool {
	return r.Kind == KindString && r.Str == "OK"
}

// Strings returns the elements of an array reply as strings. Integer elements are
// formatted in base 10 and nil elements become empty strings. The second return
// value is false if the reply is not an array.
func (r Reply) Strings() ([]string, bool) {
	if r.Kind != KindArray {
		return nil, false
	}
	out := make([]string, 0, len(r.Elems))
	for _, e := range r.Elems {
		switch e.Kind {
		case KindString:
			out = append(out, e.Str)
		case KindInteger:
			out = append(out, strconv.FormatInt(e.Int, 10))
		default:
			out = append(out, "")
		}
	}
	return out, true
}

func (r Reply) String() string {
	switch r.Kind {
	case KindString:
		return strconv.Quote(r.Str)
	case KindError:
		return "(error) " + r.Str
	case KindInteger:
		return "(integer) " + strconv.FormatInt(r.Int, 10)
	case KindArray:
		return fmt.Sprintf("(array) %d elements", len(r.Elems))
	default:
		return "(nil)"
	}
}

// --------------------------------------------------------------------------
// Conversion from go-redis results
// --------------------------------------------------------------------------

// fromResult converts the result of a go-redis Cmd into a Reply. A non-nil error is
// returned only for transport level failures; server error replies become KindError.
func fromResult(val interface{}, err error) (Reply, error) {
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Reply{Kind: KindNil}, nil
		}
		var redisErr redis.Error
		if errors.As(err, &redisErr) {
			return Reply{Kind: KindError, Str: redisErr.Error()}, nil
		}
		return Reply{}, err
	}
	return fromValue(val), nil
}

func fromValue(val interface{}) Reply {
	switch v := val.(type) {
	case nil:
		return Reply{Kind: KindNil}
	case string:
		return Reply{Kind: KindString, Str: v}
	case []byte:
		return Reply{Kind: KindString, Str: string(v)}
	case int64:
		return Reply{Kind: KindInteger, Int: v}
	case []interface{}:
		elems := make([]Reply, len(v))
		for i, e := range v {
			elems[i] = fromValue(e)
		}
		return Reply{Kind: KindArray, Elems: elems}
	case redis.Error:
		return Reply{Kind: KindError, Str: v.Error()}
	case error:
		return Reply{Kind: KindError, Str: v.Error()}
	default:
		return Reply{Kind: KindString, Str: fmt.Sprint(v)}
	}
}
