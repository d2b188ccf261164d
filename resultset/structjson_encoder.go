package resultset

import (
	"encoding/json"
	"io"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type jsonObject = orderedmap.OrderedMap[string, any]

func newJSONObject() *jsonObject {
	return orderedmap.New[string, any]()
}

// encodeStructJSON writes the structured JSON format. Literals with the
// default datatype and no language or reification are bare strings.
func encodeStructJSON(p *encodePass, w io.Writer, store *Store) error {
	doc := newJSONObject()
	// Reserve the first key; the prefixes are only known after the body.
	doc.Set("prefixes", newJSONObject())

	subjects := []any{}
	for _, rec := range p.records(store) {
		subjects = append(subjects, structJSONSubject(p, rec))
	}
	resultset := newJSONObject()
	resultset.Set("subject", subjects)
	doc.Set("resultset", resultset)

	prefixes := newJSONObject()
	for _, ns := range p.usedNamespaces() {
		prefixes.Set(ns.Prefix, ns.URI)
	}
	doc.Set("prefixes", prefixes)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Err: err}
	}
	return nil
}

func structJSONSubject(p *encodePass, rec *Record) *jsonObject {
	subject := newJSONObject()
	subject.Set("uri", flattenJSON(rec.URI))
	subject.Set("type", p.compact(rec.PrimaryType()))

	predicates := []any{}
	for _, stmt := range p.recordStatements(rec) {
		key := p.compact(stmt.Predicate)
		for _, v := range stmt.Values {
			entry := newJSONObject()
			entry.Set(key, structJSONValue(p, v))
			predicates = append(predicates, entry)
		}
	}
	if len(predicates) > 0 {
		subject.Set("predicate", predicates)
	}
	return subject
}

func structJSONValue(p *encodePass, v Value) any {
	switch value := v.(type) {
	case Literal:
		if value.DatatypeOrDefault() == RDFSLiteral && value.Lang == "" && value.Reify.Len() == 0 {
			return flattenJSON(value.Value)
		}
		obj := newJSONObject()
		obj.Set("value", flattenJSON(value.Value))
		obj.Set("type", p.compact(value.DatatypeOrDefault()))
		if value.Lang != "" {
			obj.Set("lang", value.Lang)
		}
		if value.Reify.Len() > 0 {
			obj.Set("reify", structJSONReify(p, value.Reify))
		}
		return obj
	case Resource:
		obj := newJSONObject()
		obj.Set("uri", flattenJSON(value.URI))
		if value.Type != "" {
			obj.Set("type", p.compact(value.Type))
		}
		if value.Reify.Len() > 0 {
			obj.Set("reify", structJSONReify(p, value.Reify))
		}
		return obj
	}
	return nil
}

func structJSONReify(p *encodePass, reify *Reification) []any {
	out := []any{}
	reify.Each(func(predicate, value string) {
		entry := newJSONObject()
		entry.Set("type", p.compact(predicate))
		entry.Set("value", flattenJSON(value))
		out = append(out, entry)
	})
	return out
}
