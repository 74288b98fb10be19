package dataspace

import (
	"sync"

	"github.com/ValentinKolb/redisds/lib/link"
	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"
)

// Dataspace is a named (database, key prefix) pair. Its connection is created on the
// first command and recreated whenever a command observes it broken.
type Dataspace struct {
	Name     string
	Database int
	// Prefix is prepended to every key rendered for this dataspace.
	Prefix string
	// ID identifies this registration in logs; names can be registered twice.
	ID string

	link *link.Link // guarded by Client.dispatchMu
}

// registry keeps dataspaces newest first. The index always points at the most recent
// registration of a name, so re-registering a name shadows the older entry. Shadowed
// entries stay in the list until drain so that their connections are closed too.
type registry struct {
	mu      sync.Mutex
	entries []*Dataspace
	index   *xsync.MapOf[string, *Dataspace]
}

func newRegistry() *registry {
	return &registry{
		index: xsync.NewMapOf[string, *Dataspace](),
	}
}

func (r *registry) add(ds *Dataspace) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]*Dataspace{ds}, r.entries...)
	r.index.Store(ds.Name, ds)
}

func (r *registry) lookup(name string) (*Dataspace, bool) {
	return r.index.Load(name)
}

// names returns the registered names newest first, shadowed duplicates included.
func (r *registry) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, ds := range r.entries {
		out[i] = ds.Name
	}
	return out
}

// drain empties the registry and returns what it held.
func (r *registry) drain() []*Dataspace {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.entries
	r.entries = nil
	r.index.Clear()
	return out
}

// --------------------------------------------------------------------------
// Client methods
// --------------------------------------------------------------------------

// Register adds a dataspace. The prefix is rendered from prefixTemplate and
// prefixArgs. Registering an existing name shadows the earlier registration:
// lookups return the most recent one.
func (c *Client) Register(name string, database int, prefixTemplate string, prefixArgs ...interface{}) error {
	if name == "" {
		return newError("Register", name, ErrInvalidName)
	}
	prefix, err := render(prefixTemplate, prefixArgs)
	if err != nil {
		return newError("Register", name, err)
	}

	ds := &Dataspace{
		Name:     name,
		Database: database,
		Prefix:   prefix,
		ID:       uuid.NewString(),
	}
	if _, shadowed := c.registry.lookup(name); shadowed {
		Logger.Warningf("dataspace %q registered again, new prefix %q shadows the old one", name, prefix)
	}
	c.registry.add(ds)

	Logger.Debugf("registered dataspace %q (%s) db %d prefix %q", name, ds.ID, database, prefix)
	return nil
}

// Lookup returns the most recently registered dataspace with the given name.
func (c *Client) Lookup(name string) (*Dataspace, bool) {
	return c.registry.lookup(name)
}

// Names returns the registered dataspace names, newest first.
func (c *Client) Names() []string {
	return c.registry.names()
}
