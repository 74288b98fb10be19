package dataspace

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/redisds/lib/link"
)

// maxAttempts is the first try plus one retry after reconnecting.
const maxAttempts = 2

// session is handed to an operation while it holds the dispatch lock. Every command
// the operation sends goes through it, so multi-command sequences never interleave
// with other operations of the same client.
type session struct {
	c  *Client
	ds *Dataspace
}

// withSession runs fn with the client's dispatch lock held.
func (c *Client) withSession(ds *Dataspace, fn func(s *session)) {
	c.dispatchMu.Lock()
	defer c.dispatchMu.Unlock()
	fn(&session{c: c, ds: ds})
}

// do sends one command on the dataspace's connection. A missing or broken connection
// is (re)established first. If the command gets no reply, the connection is dropped,
// reconnected once and the command retried once. ok is false when both attempts
// failed; callers must treat that as a failure, not as an absent key.
func (s *session) do(args ...interface{}) (reply link.Reply, ok bool) {
	cmd := fmt.Sprint(args[0])
	start := time.Now()
	defer s.c.metrics.duration.UpdateDuration(start)
	s.c.metrics.command(cmd).Inc()

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			s.c.metrics.retries.Inc()
			Logger.Infof("dataspace %q: reconnecting to retry %s", s.ds.Name, cmd)
			s.discard()
		}

		if s.ds.link.Broken() {
			s.discard()
			s.ds.link = s.connect()
		}
		if s.ds.link == nil {
			continue
		}

		r, err := s.ds.link.Do(args...)
		if err == nil {
			return r, true
		}
		Logger.Warningf("dataspace %q: %s attempt %d/%d failed: %v", s.ds.Name, cmd, attempt, maxAttempts, err)
	}

	s.c.metrics.failures.Inc()
	Logger.Errorf("dataspace %q: %s failed after %d attempts", s.ds.Name, cmd, maxAttempts)
	return link.Reply{}, false
}

// connect opens a new link for the session's dataspace. It returns nil on failure;
// the next command tries again.
func (s *session) connect() *link.Link {
	config, open := s.c.Config()
	if !open {
		s.c.metrics.connectFailures.Inc()
		Logger.Warningf("dataspace %q: %v", s.ds.Name, ErrNotOpen)
		return nil
	}

	s.c.metrics.connects.Inc()
	l, err := link.Connect(config, s.ds.Database)
	if err != nil {
		s.c.metrics.connectFailures.Inc()
		Logger.Warningf("dataspace %q: connect: %v", s.ds.Name, err)
		return nil
	}
	Logger.Debugf("dataspace %q (%s) uses link %s", s.ds.Name, s.ds.ID, l.ID)
	return l
}

// discard closes the dataspace's current link, if any.
func (s *session) discard() {
	s.ds.link.Close()
	s.ds.link = nil
}
