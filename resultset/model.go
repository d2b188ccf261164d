package resultset

import (
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ValueKind identifies the variants of Value.
type ValueKind uint8

const (
	// KindLiteral represents a literal value.
	KindLiteral ValueKind = iota
	// KindResource represents a reference to another resource.
	KindResource
)

// Value is the object of a statement: a Literal or a Resource.
type Value interface {
	Kind() ValueKind
	// Empty reports whether the value has no lexical form or URI. Empty
	// values are kept in the model but never serialized.
	Empty() bool
	// Reification returns the statement-level annotations, or nil.
	Reification() *Reification
}

// Literal is a literal statement value.
type Literal struct {
	// Value is the lexical form.
	Value string
	// Datatype is the datatype URI; rdfs:Literal when unset.
	Datatype string
	// Lang is the language tag, if any.
	Lang  string
	Reify *Reification
}

// Kind returns KindLiteral.
func (l Literal) Kind() ValueKind { return KindLiteral }

// Empty reports whether the lexical form is empty.
func (l Literal) Empty() bool { return l.Value == "" }

// Reification returns the statement annotations.
func (l Literal) Reification() *Reification { return l.Reify }

// DatatypeOrDefault returns the datatype, falling back to rdfs:Literal.
func (l Literal) DatatypeOrDefault() string {
	if l.Datatype == "" {
		return RDFSLiteral
	}
	return l.Datatype
}

// Resource is a resource-valued statement value.
type Resource struct {
	URI string
	// Type is an optional type hint of the referenced resource.
	Type  string
	Reify *Reification
}

// Kind returns KindResource.
func (r Resource) Kind() ValueKind { return KindResource }

// Empty reports whether the URI is empty.
func (r Resource) Empty() bool { return r.URI == "" }

// Reification returns the statement annotations.
func (r Resource) Reification() *Reification { return r.Reify }

// Reification is an ordered multimap predicate -> literal value attached to
// one (subject, predicate, object) triple. A nil *Reification is empty.
type Reification struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewReification returns an empty reification.
func NewReification() *Reification {
	return &Reification{m: orderedmap.New[string, []string]()}
}

// Add appends value under predicate.
func (r *Reification) Add(predicate, value string) *Reification {
	values, _ := r.m.Get(predicate)
	r.m.Set(predicate, append(values, value))
	return r
}

// Get returns the values recorded under predicate.
func (r *Reification) Get(predicate string) []string {
	if r == nil {
		return nil
	}
	values, _ := r.m.Get(predicate)
	return values
}

// Len returns the number of distinct predicates.
func (r *Reification) Len() int {
	if r == nil {
		return 0
	}
	return r.m.Len()
}

// Each calls fn for every (predicate, value) pair in insertion order.
func (r *Reification) Each(fn func(predicate, value string)) {
	if r == nil {
		return
	}
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		for _, v := range pair.Value {
			fn(pair.Key, v)
		}
	}
}

func (r *Reification) key() string {
	if r.Len() == 0 {
		return ""
	}
	var parts []string
	r.Each(func(p, v string) { parts = append(parts, p+"="+v) })
	sort.Strings(parts)
	return strings.Join(parts, "\x1f")
}

// Statement is the ordered list of values of one predicate on a record.
// Values are not deduplicated.
type Statement struct {
	Predicate string
	Values    []Value
}

// Record is one subject of the graph.
type Record struct {
	URI string
	// Types lists type URIs; the first one is the primary type.
	Types []string

	PrefLabel   string
	AltLabels   []string
	Description string
	PrefURL     string

	statements *orderedmap.OrderedMap[string, *Statement]
}

// NewRecord returns an empty record for uri.
func NewRecord(uri string) *Record {
	return &Record{
		URI:        uri,
		statements: orderedmap.New[string, *Statement](),
	}
}

// PrimaryType returns the first type, or owl:Thing.
func (r *Record) PrimaryType() string {
	if len(r.Types) == 0 || r.Types[0] == "" {
		return OWLThing
	}
	return r.Types[0]
}

// HasType reports whether typeURI is one of the record's types.
func (r *Record) HasType(typeURI string) bool {
	for _, t := range r.typesOrDefault() {
		if t == typeURI {
			return true
		}
	}
	return false
}

func (r *Record) typesOrDefault() []string {
	if len(r.Types) == 0 {
		return []string{OWLThing}
	}
	return r.Types
}

func (r *Record) addType(typeURI string) {
	for _, t := range r.Types {
		if t == typeURI {
			return
		}
	}
	r.Types = append(r.Types, typeURI)
}

// Add appends v under predicate.
func (r *Record) Add(predicate string, v Value) {
	stmt, ok := r.statements.Get(predicate)
	if !ok {
		stmt = &Statement{Predicate: predicate}
		r.statements.Set(predicate, stmt)
	}
	stmt.Values = append(stmt.Values, v)
}

// Statement returns the statement of predicate.
func (r *Record) Statement(predicate string) (*Statement, bool) {
	return r.statements.Get(predicate)
}

// Statements returns the generic statements in insertion order. The promoted
// fields (labels, description, prefURL) and types are not included.
func (r *Record) Statements() []*Statement {
	out := make([]*Statement, 0, r.statements.Len())
	for pair := r.statements.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Predicates returns the statement predicates in insertion order.
func (r *Record) Predicates() []string {
	out := make([]string, 0, r.statements.Len())
	for pair := r.statements.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Values returns the values of predicate.
func (r *Record) Values(predicate string) []Value {
	if stmt, ok := r.statements.Get(predicate); ok {
		return stmt.Values
	}
	return nil
}

// Literals returns the lexical forms of the literal values of predicate.
func (r *Record) Literals(predicate string) []string {
	var out []string
	for _, v := range r.Values(predicate) {
		if lit, ok := v.(Literal); ok {
			out = append(out, lit.Value)
		}
	}
	return out
}

// Resources returns the URIs of the resource values of predicate.
func (r *Record) Resources(predicate string) []string {
	var out []string
	for _, v := range r.Values(predicate) {
		if res, ok := v.(Resource); ok {
			out = append(out, res.URI)
		}
	}
	return out
}

func (r *Record) removeStatement(predicate string) {
	r.statements.Delete(predicate)
}

// Dataset returns the dataset bucket of the record: the first
// dcterms:isPartOf value, or UnspecifiedDataset.
func (r *Record) Dataset() string {
	for _, v := range r.Values(DCTermsIsPartOf) {
		switch value := v.(type) {
		case Resource:
			if value.URI != "" {
				return value.URI
			}
		case Literal:
			if value.Value != "" {
				return value.Value
			}
		}
	}
	return UnspecifiedDataset
}

// Equal reports whether two records describe the same data, ignoring the
// order of values within a predicate and the order of predicates. Labels and
// descriptions are compared as a parser promotes them: a label kept in a
// label statement counts whether or not it is also in AltLabels, and the
// order of alternative labels is ignored.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	if r.URI != o.URI || r.PrefURL != o.PrefURL || effectiveDescription(r) != effectiveDescription(o) {
		return false
	}
	rPref, rAlts := effectiveLabels(r)
	oPref, oAlts := effectiveLabels(o)
	if rPref != oPref || !equalStrings(rAlts, oAlts) {
		return false
	}
	if !equalStrings(r.typesOrDefault(), o.typesOrDefault()) {
		return false
	}
	if r.statements.Len() != o.statements.Len() {
		return false
	}
	for pair := r.statements.Oldest(); pair != nil; pair = pair.Next() {
		other, ok := o.statements.Get(pair.Key)
		if !ok || !equalStrings(valueKeys(pair.Value.Values), valueKeys(other.Values)) {
			return false
		}
	}
	return true
}

func valueKeys(values []Value) []string {
	keys := make([]string, 0, len(values))
	for _, v := range values {
		keys = append(keys, valueKey(v))
	}
	sort.Strings(keys)
	return keys
}

func valueKey(v Value) string {
	switch value := v.(type) {
	case Literal:
		return "L\x1e" + value.Value + "\x1e" + value.DatatypeOrDefault() + "\x1e" + value.Lang + "\x1e" + value.Reify.key()
	case Resource:
		return "R\x1e" + value.URI + "\x1e" + value.Type + "\x1e" + value.Reify.key()
	default:
		return ""
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
