// Package conversion holds the registry of implicit data conversions that the
// graph may insert at an input pin when the wired output has a different type.
//
// Lookups are exact: the registry never chains conversions and never matches
// on supertypes. Registering the same (from, to) pair twice replaces the
// earlier entry.
package conversion

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/nodegraph/internal/ctxlog"
	"github.com/specialistvlad/nodegraph/internal/datatype"
	"github.com/specialistvlad/nodegraph/internal/grapherr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Func converts a payload of the conversion's From type into its To type.
// It must be side-effect free.
type Func func(in datatype.Value) (datatype.Value, error)

// Conversion is one registered from-type to to-type function.
type Conversion struct {
	From    datatype.DataType
	To      datatype.DataType
	Convert Func
}

func (c Conversion) String() string {
	return fmt.Sprintf("%s -> %s", c.From, c.To)
}

// Registry stores conversions keyed by their exact (From, To) pair.
type Registry struct {
	mu sync.RWMutex
	// buckets group entries by a coarse key; IsSameType decides within a bucket.
	buckets map[string][]Conversion
	count   int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{buckets: make(map[string][]Conversion)}
}

func typeKey(t datatype.DataType) string {
	return fmt.Sprintf("%d|%s", t.Format, t.NativeType().GoString())
}

func pairKey(from, to datatype.DataType) string {
	return typeKey(from) + "=>" + typeKey(to)
}

// Register inserts or replaces the conversion for (from, to).
func (r *Registry) Register(ctx context.Context, from, to datatype.DataType, fn Func) error {
	if fn == nil {
		return grapherr.New(grapherr.ErrConfiguration, "conversion %s -> %s has no function", from, to)
	}
	logger := ctxlog.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(from, to)
	bucket := r.buckets[key]
	for i, existing := range bucket {
		if existing.From.IsSameType(from) && existing.To.IsSameType(to) {
			logger.Debug("Replacing registered conversion.", "from_type", from.String(), "to_type", to.String())
			bucket[i] = Conversion{From: from, To: to, Convert: fn}
			return nil
		}
	}
	r.buckets[key] = append(bucket, Conversion{From: from, To: to, Convert: fn})
	r.count++
	logger.Debug("Registered conversion.", "from_type", from.String(), "to_type", to.String())
	return nil
}

// RegisterCty registers a native conversion implemented by cty's own
// conversion rules.
func (r *Registry) RegisterCty(ctx context.Context, from, to cty.Type) error {
	conv := convert.GetConversionUnsafe(from, to)
	if conv == nil {
		return grapherr.New(grapherr.ErrConfiguration, "no conversion from %s to %s", from.FriendlyName(), to.FriendlyName())
	}
	fn := func(in datatype.Value) (datatype.Value, error) {
		if in.Format != datatype.FormatNative {
			return datatype.Value{}, fmt.Errorf("expected native payload, got %s", in.Format)
		}
		out, err := conv(in.Native)
		if err != nil {
			return datatype.Value{}, err
		}
		return datatype.NativeValue(out), nil
	}
	return r.Register(ctx, datatype.Of(from), datatype.Of(to), fn)
}

// Resolve returns the conversion registered for exactly (from, to).
func (r *Registry) Resolve(from, to datatype.DataType) (Conversion, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.buckets[pairKey(from, to)] {
		if c.From.IsSameType(from) && c.To.IsSameType(to) {
			return c, true
		}
	}
	return Conversion{}, false
}

// Len returns the number of registered conversions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// All returns every registered conversion in a stable order.
func (r *Registry) All() []Conversion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, 0, len(r.buckets))
	for k := range r.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	all := make([]Conversion, 0, r.count)
	for _, k := range keys {
		all = append(all, r.buckets[k]...)
	}
	return all
}

// Apply runs the conversion. Errors and panics raised by the function are
// returned as ErrConversionFailed.
func Apply(c Conversion, v datatype.Value) (out datatype.Value, err error) {
	if c.Convert == nil {
		return datatype.Value{}, grapherr.New(grapherr.ErrConfiguration, "conversion %s has no function", c)
	}
	defer func() {
		if p := recover(); p != nil {
			out = datatype.Value{}
			err = grapherr.New(grapherr.ErrConversionFailed, "%s: panic: %v", c, p)
		}
	}()

	out, err = c.Convert(v)
	if err != nil {
		return datatype.Value{}, grapherr.Wrap(grapherr.ErrConversionFailed, err, "%s", c)
	}
	return out, nil
}
