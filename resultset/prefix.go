package resultset

import (
	"fmt"
	"strings"
)

// Namespace is a prefix binding of a registry.
type Namespace struct {
	Prefix string
	URI    string
}

// PrefixRegistry is an ordered, bidirectional mapping between namespace URIs
// and short prefixes. Prefixes and namespace URIs are each unique.
//
// A registry is not safe for concurrent use. Codecs clone the registry they
// are given, so synthetic prefixes assigned during one serialization never
// leak into another.
type PrefixRegistry struct {
	order    []string          // prefixes in registration order
	toURI    map[string]string // prefix -> namespace
	toPrefix map[string]string // namespace -> prefix
	next     int               // synthetic prefix counter
}

// NewPrefixRegistry returns a registry seeded with the core vocabularies.
func NewPrefixRegistry() *PrefixRegistry {
	r := NewEmptyPrefixRegistry()
	for _, p := range corePrefixes {
		r.Bind(p.prefix, p.ns)
	}
	return r
}

// NewEmptyPrefixRegistry returns a registry without any binding.
func NewEmptyPrefixRegistry() *PrefixRegistry {
	return &PrefixRegistry{
		toURI:    map[string]string{},
		toPrefix: map[string]string{},
	}
}

// Clone returns an independent copy, including the synthetic counter.
func (r *PrefixRegistry) Clone() *PrefixRegistry {
	out := &PrefixRegistry{
		order:    append([]string(nil), r.order...),
		toURI:    make(map[string]string, len(r.toURI)),
		toPrefix: make(map[string]string, len(r.toPrefix)),
		next:     r.next,
	}
	for k, v := range r.toURI {
		out.toURI[k] = v
	}
	for k, v := range r.toPrefix {
		out.toPrefix[k] = v
	}
	return out
}

// Register adds prefix -> namespace. It reports false, leaving the registry
// unchanged, when either side is already bound to something else.
func (r *PrefixRegistry) Register(prefix, namespace string) bool {
	if prefix == "" || namespace == "" {
		return false
	}
	if ns, ok := r.toURI[prefix]; ok {
		return ns == namespace
	}
	if _, ok := r.toPrefix[namespace]; ok {
		return false
	}
	r.add(prefix, namespace)
	return true
}

// Bind sets prefix -> namespace, dropping any previous binding of either
// side. Document-level prefix declarations use Bind so that the document's
// own mapping wins while it is being read.
func (r *PrefixRegistry) Bind(prefix, namespace string) {
	if prefix == "" || namespace == "" {
		return
	}
	if ns, ok := r.toURI[prefix]; ok {
		if ns == namespace {
			return
		}
		r.remove(prefix)
	}
	if p, ok := r.toPrefix[namespace]; ok {
		r.remove(p)
	}
	r.add(prefix, namespace)
}

func (r *PrefixRegistry) add(prefix, namespace string) {
	r.order = append(r.order, prefix)
	r.toURI[prefix] = namespace
	r.toPrefix[namespace] = prefix
}

func (r *PrefixRegistry) remove(prefix string) {
	ns := r.toURI[prefix]
	delete(r.toURI, prefix)
	delete(r.toPrefix, ns)
	for i, p := range r.order {
		if p == prefix {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Namespace returns the namespace bound to prefix.
func (r *PrefixRegistry) Namespace(prefix string) (string, bool) {
	ns, ok := r.toURI[prefix]
	return ns, ok
}

// Prefix returns the prefix bound to namespace.
func (r *PrefixRegistry) Prefix(namespace string) (string, bool) {
	p, ok := r.toPrefix[namespace]
	return p, ok
}

// Len returns the number of bindings.
func (r *PrefixRegistry) Len() int { return len(r.order) }

// Namespaces returns the bindings in registration order.
func (r *PrefixRegistry) Namespaces() []Namespace {
	out := make([]Namespace, 0, len(r.order))
	for _, p := range r.order {
		out = append(out, Namespace{Prefix: p, URI: r.toURI[p]})
	}
	return out
}

// Compact turns an absolute URI into prefix:local, registering a fresh nsN
// prefix for an unseen namespace. Anything that is not an absolute URI, or
// cannot be split into namespace and local name, is returned unchanged.
func (r *PrefixRegistry) Compact(uri string) string {
	curie, _, ok := r.compact(uri)
	if !ok {
		return uri
	}
	return curie
}

// Lookup compacts uri using existing bindings only.
func (r *PrefixRegistry) Lookup(uri string) (string, bool) {
	ns, local, ok := SplitURI(uri)
	if !ok {
		return "", false
	}
	prefix, ok := r.toPrefix[ns]
	if !ok {
		return "", false
	}
	return prefix + ":" + local, true
}

// compact also returns the prefix used, so encoders can declare it.
func (r *PrefixRegistry) compact(uri string) (string, string, bool) {
	ns, local, ok := SplitURI(uri)
	if !ok {
		return "", "", false
	}
	prefix, ok := r.toPrefix[ns]
	if !ok {
		prefix = r.synthesize()
		r.add(prefix, ns)
	}
	return prefix + ":" + local, prefix, true
}

func (r *PrefixRegistry) synthesize() string {
	for {
		prefix := fmt.Sprintf("ns%d", r.next)
		r.next++
		if _, taken := r.toURI[prefix]; !taken {
			return prefix
		}
	}
}

// Expand turns prefix:local into an absolute URI. Absolute URIs and CURIEs
// with an unknown prefix are returned unchanged.
func (r *PrefixRegistry) Expand(curie string) string {
	uri, _ := r.ExpandOK(curie)
	return uri
}

// ExpandOK is Expand that also reports whether the result is an absolute URI,
// either because the input was one or because its prefix is registered.
func (r *PrefixRegistry) ExpandOK(curie string) (string, bool) {
	idx := strings.IndexByte(curie, ':')
	if idx < 0 {
		return curie, false
	}
	rest := curie[idx+1:]
	if strings.HasPrefix(rest, "//") {
		return curie, true
	}
	ns, ok := r.toURI[curie[:idx]]
	if !ok {
		return curie, IsAbsoluteURI(curie)
	}
	return ns + rest, true
}

// IsAbsoluteURI reports whether value looks like scheme://... or urn:...
func IsAbsoluteURI(value string) bool {
	if strings.HasPrefix(value, "urn:") {
		return true
	}
	idx := strings.Index(value, "://")
	if idx <= 0 {
		return false
	}
	for i := 0; i < idx; i++ {
		ch := value[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case i > 0 && (ch >= '0' && ch <= '9' || ch == '+' || ch == '-' || ch == '.'):
		default:
			return false
		}
	}
	return true
}

// SplitURI splits an absolute URI at its last '#', or failing that its last
// '/', into namespace and local name. The local name must not be empty.
func SplitURI(uri string) (string, string, bool) {
	if !IsAbsoluteURI(uri) {
		return "", "", false
	}
	idx := strings.LastIndexByte(uri, '#')
	if idx < 0 {
		idx = strings.LastIndexByte(uri, '/')
		if idx < strings.Index(uri, "://")+3 {
			return "", "", false
		}
	}
	if idx < 0 || idx+1 >= len(uri) {
		return "", "", false
	}
	return uri[:idx+1], uri[idx+1:], true
}

func isQNameLocal(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		ch := value[i]
		if i == 0 {
			if !isNameStartChar(ch) {
				return false
			}
		} else if !isNameChar(ch) {
			return false
		}
	}
	return true
}

func isNameStartChar(ch byte) bool {
	return (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') || ch == '_'
}

func isNameChar(ch byte) bool {
	return isNameStartChar(ch) || (ch >= '0' && ch <= '9') || ch == '-' || ch == '.'
}
