package nodetype

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/specialistvlad/nodegraph/internal/nodeversion"
)

// Registry holds node types and the name remap table.
type Registry struct {
	mu        sync.RWMutex
	types     map[string][]*NodeType
	libraries map[string]Library
	sealed    bool

	libraryRemap map[string]string
	nodeRemap    map[string]Identity
}

// NewRegistry returns a registry that already holds the Placeholder type.
func NewRegistry() *Registry {
	r := &Registry{
		types:     make(map[string][]*NodeType),
		libraries: make(map[string]Library),
	}
	r.insert(newPlaceholderType())
	return r
}

// Register adds t. A name with an inline revision (`Add_v2p0`) is split, and
// the inline revision is used when t.Version is unset. Registering the same
// identity, revision and variant twice is an error, as is registering after
// Seal.
func (r *Registry) Register(ctx context.Context, t *NodeType) error {
	if t == nil {
		return grapherr.New(grapherr.ErrConfiguration, "nil node type")
	}
	normalize(t)
	if t.Name == "" {
		return grapherr.New(grapherr.ErrConfiguration, "node type needs a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return grapherr.New(grapherr.ErrConfiguration, "registry is sealed, cannot register %s", t.Identity)
	}
	for _, existing := range r.types[t.Key()] {
		if existing.Version == t.Version && existing.Variant == t.Variant {
			return grapherr.New(grapherr.ErrConfiguration, "node type %s version %s already registered", t.Identity, t.Version)
		}
	}
	if t.Category == "" {
		if lib, ok := r.libraries[t.Library]; ok && lib.Category != "" {
			t.Category = lib.Category
		}
	}
	if t.Category == "" {
		t.Category = t.Library
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	r.insert(t)

	ctxlog.FromContext(ctx).Debug("Registered node type.", "type", t.Identity.String(), "version", t.Version.String(), "variant", t.Variant)
	return nil
}

// normalize applies naming defaults in place.
func normalize(t *NodeType) {
	if base, text, ok := nodeversion.ParseVersionedName(t.Name); ok && base != "" {
		t.Name = base
		if t.Version == (nodeversion.Version{}) {
			t.Version = nodeversion.Parse(text)
		}
	}
	if t.Version == (nodeversion.Version{}) || t.Version.IsMostRecent() {
		t.Version = nodeversion.Default
	}
	if t.UIName == "" {
		t.UIName = t.Name
	}
}

func (r *Registry) insert(t *NodeType) {
	key := t.Key()
	r.types[key] = append(r.types[key], t)
}

// RegisterLibrary records library metadata, most importantly its historical
// names.
func (r *Registry) RegisterLibrary(ctx context.Context, lib Library) error {
	if lib.Name == "" {
		return grapherr.New(grapherr.ErrConfiguration, "library needs a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return grapherr.New(grapherr.ErrConfiguration, "registry is sealed, cannot register library %q", lib.Name)
	}
	if existing, ok := r.libraries[lib.Name]; ok {
		lib.MappedNames = append(existing.MappedNames, lib.MappedNames...)
		if lib.Category == "" {
			lib.Category = existing.Category
		}
	}
	r.libraries[lib.Name] = lib
	ctxlog.FromContext(ctx).Debug("Registered library.", "library", lib.Name, "mapped_names", lib.MappedNames)
	return nil
}

// Seal builds the remap table and freezes the registry. Sealing twice is a
// no-op. A historical name that collides with a live name or with another
// historical name is an error.
func (r *Registry) Seal(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return nil
	}
	logger := ctxlog.FromContext(ctx)

	libraryRemap := make(map[string]string)
	for _, name := range sortedKeys(r.libraries) {
		lib := r.libraries[name]
		for _, old := range lib.MappedNames {
			if _, live := r.libraries[old]; live {
				return grapherr.New(grapherr.ErrConfiguration, "library %q maps old name %q which is still in use", lib.Name, old)
			}
			if prev, dup := libraryRemap[old]; dup && prev != lib.Name {
				return grapherr.New(grapherr.ErrConfiguration, "old library name %q claimed by %q and %q", old, prev, lib.Name)
			}
			libraryRemap[old] = lib.Name
		}
	}

	nodeRemap := make(map[string]Identity)
	for _, key := range sortedKeys(r.types) {
		for _, t := range r.types[key] {
			for _, old := range t.MappedNames {
				if base, _, ok := nodeversion.ParseVersionedName(old); ok && base != "" {
					old = base
				}
				from := Identity{Library: t.Library, Name: old}
				if _, live := r.types[from.Key()]; live {
					return grapherr.New(grapherr.ErrConfiguration, "node type %s maps old name %q which is still in use", t.Identity, old)
				}
				if prev, dup := nodeRemap[from.Key()]; dup && prev != t.Identity {
					return grapherr.New(grapherr.ErrConfiguration, "old node name %s claimed by %s and %s", from, prev, t.Identity)
				}
				nodeRemap[from.Key()] = t.Identity
			}
		}
	}

	r.libraryRemap = libraryRemap
	r.nodeRemap = nodeRemap
	r.sealed = true
	logger.Debug("Node type registry sealed.", "library_remaps", len(libraryRemap), "node_remaps", len(nodeRemap))
	return nil
}

// Sealed reports whether Seal has run.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Contains reports whether t itself was registered here.
func (r *Registry) Contains(t *NodeType) bool {
	if t == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.types[t.Key()], t)
}

// ResolveIdentity maps a possibly historical identity to the live one:
// library names first, then node names within the resolved library.
// Identities with no mapping are returned with only the library remapped.
func (r *Registry) ResolveIdentity(id Identity) Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resolveIdentityLocked(id)
}

func (r *Registry) resolveIdentityLocked(id Identity) Identity {
	if lib, ok := r.libraryRemap[id.Library]; ok {
		id.Library = lib
	}
	if _, live := r.types[id.Key()]; live {
		return id
	}
	if mapped, ok := r.nodeRemap[id.Key()]; ok {
		return mapped
	}
	return id
}

// Lookup returns the type registered under id at exactly version. The
// unnamed variant is preferred over named ones.
func (r *Registry) Lookup(id Identity, version nodeversion.Version) (*NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pick(r.types[id.Key()], version)
}

// LookupVariant returns the type registered under id, version and variant.
func (r *Registry) LookupVariant(id Identity, version nodeversion.Version, variant string) (*NodeType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.types[id.Key()] {
		if t.Version == version && t.Variant == variant {
			return t, true
		}
	}
	return nil, false
}

func pick(candidates []*NodeType, version nodeversion.Version) (*NodeType, bool) {
	var found *NodeType
	for _, t := range candidates {
		if t.Version != version {
			continue
		}
		if t.Variant == "" {
			return t, true
		}
		if found == nil {
			found = t
		}
	}
	return found, found != nil
}

// Resolve finds the type for a stored reference. name may carry an inline
// revision; a non-empty versionText takes precedence over it. Historical
// names are remapped first.
func (r *Registry) Resolve(ctx context.Context, library, name, versionText string) (*NodeType, error) {
	if base, text, ok := nodeversion.ParseVersionedName(name); ok && base != "" {
		name = base
		if versionText == "" {
			versionText = text
		}
	}
	want := nodeversion.MostRecent
	if versionText != "" {
		want = nodeversion.Parse(versionText)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id := r.resolveIdentityLocked(Identity{Library: library, Name: name})
	candidates := r.types[id.Key()]
	if len(candidates) == 0 {
		return nil, grapherr.New(grapherr.ErrUnknownNodeType, "no node type %s", Identity{Library: library, Name: name})
	}

	logger := ctxlog.FromContext(ctx)
	if !want.IsMostRecent() {
		if t, ok := pick(candidates, want); ok {
			return t, nil
		}
		logger.Debug("Requested node revision missing, using most recent.", "type", id.String(), "requested", want.String())
	}

	latest, _ := nodeversion.Latest(versionsOf(candidates))
	t, _ := pick(candidates, latest)
	return t, nil
}

// Versions lists the registered revisions of id in ascending order.
func (r *Registry) Versions(id Identity) []nodeversion.Version {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return versionsOf(r.types[id.Key()])
}

func versionsOf(types []*NodeType) []nodeversion.Version {
	var out []nodeversion.Version
	for _, t := range types {
		if !slices.Contains(out, t.Version) {
			out = append(out, t.Version)
		}
	}
	slices.SortFunc(out, nodeversion.Version.Compare)
	return out
}

// Libraries lists registered libraries sorted by name.
func (r *Registry) Libraries() []Library {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Library, 0, len(r.libraries))
	for _, name := range sortedKeys(r.libraries) {
		out = append(out, r.libraries[name])
	}
	return out
}

// All lists every registered type ordered by identity, version and variant.
func (r *Registry) All() []*NodeType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*NodeType
	for _, ts := range r.types {
		out = append(out, ts...)
	}
	slices.SortFunc(out, func(a, b *NodeType) int {
		if c := strings.Compare(a.Key(), b.Key()); c != 0 {
			return c
		}
		if c := a.Version.Compare(b.Version); c != 0 {
			return c
		}
		return strings.Compare(a.Variant, b.Variant)
	})
	return out
}

// UserCreatable lists the types editors should offer, in All order.
func (r *Registry) UserCreatable() []*NodeType {
	var out []*NodeType
	for _, t := range r.All() {
		if t.UserCreatable() {
			out = append(out, t)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
