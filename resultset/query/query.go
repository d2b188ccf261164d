// Package query reads compact XML result sets without materializing a
// resultset.Store. It is meant for consumers that need a narrow slice of a
// document, such as a search indexer pulling literal texts per subject.
//
// Type and predicate filters accept a CURIE or an absolute URI. Both sides
// are expanded through the document's prefix declarations before matching.
package query

import (
	"io"

	"github.com/antchfx/xmlquery"

	"github.com/geoknoesis/structwsf/resultset"
)

// Kind identifies the element a Node wraps.
type Kind uint8

const (
	// KindSubject is a subject element.
	KindSubject Kind = iota + 1
	// KindPredicate is a predicate element.
	KindPredicate
	// KindObject is an object element.
	KindObject
	// KindReification is a reify element.
	KindReification
)

func (k Kind) String() string {
	switch k {
	case KindSubject:
		return "subject"
	case KindPredicate:
		return "predicate"
	case KindObject:
		return "object"
	case KindReification:
		return "reify"
	default:
		return "unknown"
	}
}

// Document is a parsed compact XML result set.
type Document struct {
	root     *xmlquery.Node
	prefixes *resultset.PrefixRegistry
}

// Parse reads a compact XML document. The prefix declarations of the
// document are bound on top of the core registry.
func Parse(r io.Reader) (*Document, error) {
	return ParseWithPrefixes(r, resultset.NewPrefixRegistry())
}

// ParseWithPrefixes is Parse with a caller-supplied base registry. The base
// is cloned and never modified.
func ParseWithPrefixes(r io.Reader, base *resultset.PrefixRegistry) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, &resultset.Error{Code: resultset.ErrCodeMalformedInput, Format: resultset.FormatXML, Message: "invalid compact xml document", Err: err}
	}
	top := xmlquery.FindOne(root, "/resultset")
	if top == nil {
		return nil, &resultset.Error{Code: resultset.ErrCodeMalformedInput, Format: resultset.FormatXML, Message: "missing resultset root element"}
	}
	if base == nil {
		base = resultset.NewPrefixRegistry()
	}
	prefixes := base.Clone()
	for _, p := range top.SelectElements("prefix") {
		prefixes.Bind(p.SelectAttr("entity"), p.SelectAttr("uri"))
	}
	return &Document{root: top, prefixes: prefixes}, nil
}

// Prefixes returns the registry the document's CURIEs resolve against.
func (d *Document) Prefixes() *resultset.PrefixRegistry {
	return d.prefixes
}

// Subjects returns every subject in document order.
func (d *Document) Subjects() []Node {
	return d.wrap(d.root.SelectElements("subject"), KindSubject)
}

// SubjectsByType returns the subjects whose type attribute, or one of whose
// rdf:type statements, matches typ.
func (d *Document) SubjectsByType(typ string) []Node {
	want := d.prefixes.Expand(typ)
	var out []Node
	for _, s := range d.Subjects() {
		for _, t := range s.Types() {
			if t == want {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Subject returns the first subject with uri.
func (d *Document) Subject(uri string) (Node, bool) {
	for _, s := range d.Subjects() {
		if s.URI() == uri {
			return s, true
		}
	}
	return Node{}, false
}

// Predicates returns the predicates of a subject. Any other node yields nil.
func (d *Document) Predicates(subject Node) []Node {
	if subject.kind != KindSubject {
		return nil
	}
	return d.wrap(subject.node.SelectElements("predicate"), KindPredicate)
}

// PredicatesByType returns the predicates of subject matching predicate.
func (d *Document) PredicatesByType(subject Node, predicate string) []Node {
	return filterByType(d.Predicates(subject), d.prefixes.Expand(predicate))
}

// Objects returns the objects of a predicate. Any other node yields nil.
func (d *Document) Objects(predicate Node) []Node {
	if predicate.kind != KindPredicate {
		return nil
	}
	return d.wrap(predicate.node.SelectElements("object"), KindObject)
}

// ObjectsByType returns the objects of predicate whose type, the datatype
// of a literal or the type hint of a resource, matches typ.
func (d *Document) ObjectsByType(predicate Node, typ string) []Node {
	return filterByType(d.Objects(predicate), d.prefixes.Expand(typ))
}

// Reifications returns the reify entries of an object. Any other node
// yields nil.
func (d *Document) Reifications(object Node) []Node {
	if object.kind != KindObject {
		return nil
	}
	return d.wrap(object.node.SelectElements("reify"), KindReification)
}

// ReificationsByType returns the reify entries of object matching typ.
func (d *Document) ReificationsByType(object Node, typ string) []Node {
	return filterByType(d.Reifications(object), d.prefixes.Expand(typ))
}

func (d *Document) wrap(nodes []*xmlquery.Node, kind Kind) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, Node{doc: d, node: n, kind: kind})
	}
	return out
}

func filterByType(nodes []Node, want string) []Node {
	var out []Node
	for _, n := range nodes {
		if n.Type(false) == want {
			out = append(out, n)
		}
	}
	return out
}

// Node is a typed handle on one element of a Document. The scalar
// accessors return an empty string when they do not apply to the node.
type Node struct {
	doc  *Document
	node *xmlquery.Node
	kind Kind
}

// Kind returns the element kind. The zero Node has kind 0.
func (n Node) Kind() Kind { return n.kind }

// URI returns the uri attribute of a subject or resource object.
func (n Node) URI() string {
	switch n.kind {
	case KindSubject, KindObject:
		uri := n.node.SelectAttr("uri")
		if uri == "" {
			return ""
		}
		return n.doc.prefixes.Expand(uri)
	}
	return ""
}

// Type returns the type attribute as an absolute URI, or compacted through
// the document registry when compact is set. Subjects default to owl:Thing
// and literal objects to rdfs:Literal.
func (n Node) Type(compact bool) string {
	if n.node == nil {
		return ""
	}
	typ := n.node.SelectAttr("type")
	if typ == "" {
		switch {
		case n.kind == KindSubject:
			typ = resultset.OWLThing
		case n.isLiteral():
			typ = resultset.RDFSLiteral
		default:
			return ""
		}
	}
	uri := n.doc.prefixes.Expand(typ)
	if !compact {
		return uri
	}
	if curie, ok := n.doc.prefixes.Lookup(uri); ok {
		return curie
	}
	return uri
}

// Types returns the primary type and the rdf:type statements of a subject.
func (n Node) Types() []string {
	if n.kind != KindSubject {
		return nil
	}
	types := []string{n.Type(false)}
	for _, p := range n.doc.PredicatesByType(n, resultset.RDFType) {
		for _, o := range n.doc.Objects(p) {
			if uri := o.URI(); uri != "" && !contains(types, uri) {
				types = append(types, uri)
			}
		}
	}
	return types
}

// Value returns the value attribute of a reify entry.
func (n Node) Value() string {
	if n.kind != KindReification {
		return ""
	}
	return n.node.SelectAttr("value")
}

// Content returns the text of a literal object.
func (n Node) Content() string {
	if !n.isLiteral() {
		return ""
	}
	text := n.node.InnerText()
	if len(n.node.SelectElements("reify")) > 0 {
		text = resultset.LiteralText(text)
	}
	return text
}

// Lang returns the language tag of a literal object.
func (n Node) Lang() string {
	if !n.isLiteral() {
		return ""
	}
	return n.node.SelectAttr("lang")
}

// Label returns the display label of a subject (its iron:prefLabel) or of a
// resource object (its wsf:objectLabel reification).
func (n Node) Label() string {
	switch n.kind {
	case KindSubject:
		for _, p := range n.doc.PredicatesByType(n, resultset.IronPrefLabel) {
			for _, o := range n.doc.Objects(p) {
				if text := o.Content(); text != "" {
					return text
				}
			}
		}
	case KindObject:
		for _, r := range n.doc.ReificationsByType(n, resultset.WSFObjectLabel) {
			if v := r.Value(); v != "" {
				return v
			}
		}
	}
	return ""
}

// IsLiteral reports whether the node is a literal object.
func (n Node) IsLiteral() bool { return n.isLiteral() }

func (n Node) isLiteral() bool {
	if n.kind != KindObject {
		return false
	}
	for _, attr := range n.node.Attr {
		if attr.Name.Local == "uri" {
			return false
		}
	}
	return true
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
