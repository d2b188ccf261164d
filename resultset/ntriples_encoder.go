package resultset

import (
	"bufio"
	"io"
)

// triple is one flattened statement. Blank subjects carry the node label
// without the "_:" marker.
type triple struct {
	subject   string
	blank     bool
	predicate string
	object    Value
}

// walkTriples flattens the store into absolute-IRI triples: the primary
// type, the promoted fields as iron: statements, the generic statements and
// an rdf:Statement node per reified statement.
func walkTriples(p *encodePass, store *Store, fn func(triple)) {
	for _, rec := range p.records(store) {
		p.touch(RDFType)
		p.touch(rec.PrimaryType())
		fn(triple{subject: rec.URI, predicate: RDFType, object: Resource{URI: rec.PrimaryType()}})

		for _, stmt := range p.recordStatements(rec) {
			if !IsAbsoluteURI(stmt.Predicate) {
				p.warn(ErrCodeInvalidQName, rec.URI, stmt.Predicate, "predicate is not an absolute uri")
				continue
			}
			p.touch(stmt.Predicate)
			for _, v := range stmt.Values {
				fn(triple{subject: rec.URI, predicate: stmt.Predicate, object: v})
				if v.Reification().Len() > 0 {
					walkReification(p, rec.URI, stmt.Predicate, v, fn)
				}
			}
		}
	}
}

func walkReification(p *encodePass, subject, predicate string, v Value, fn func(triple)) {
	node := ReificationID(subject, predicate, reificationObject(v))
	p.touch(RDFStatement)
	fn(triple{subject: node, blank: true, predicate: RDFType, object: Resource{URI: RDFStatement}})
	fn(triple{subject: node, blank: true, predicate: RDFSubject, object: Resource{URI: subject}})
	fn(triple{subject: node, blank: true, predicate: RDFPredicate, object: Resource{URI: predicate}})
	fn(triple{subject: node, blank: true, predicate: RDFObject, object: v})
	v.Reification().Each(func(reifyPredicate, value string) {
		if !IsAbsoluteURI(reifyPredicate) {
			p.warn(ErrCodeInvalidQName, subject, reifyPredicate, "reification predicate is not an absolute uri")
			return
		}
		p.touch(reifyPredicate)
		fn(triple{subject: node, blank: true, predicate: reifyPredicate, object: Literal{Value: value}})
	})
}

// encodeNTriples writes one triple per line.
func encodeNTriples(p *encodePass, w io.Writer, store *Store) error {
	out := bufio.NewWriter(w)
	walkTriples(p, store, func(t triple) {
		subject := "<" + t.subject + ">"
		if t.blank {
			subject = "_:" + t.subject
		}
		out.WriteString(subject + " <" + t.predicate + "> " + p.ntObject(t.object) + " .\n")
	})
	if err := out.Flush(); err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Err: err}
	}
	return nil
}

func (p *encodePass) ntObject(v Value) string {
	switch value := v.(type) {
	case Resource:
		return "<" + value.URI + ">"
	case Literal:
		out := `"` + escapeN3(value.Value) + `"`
		if value.Lang != "" {
			return out + "@" + value.Lang
		}
		if dt := value.DatatypeOrDefault(); dt != RDFSLiteral && IsAbsoluteURI(dt) {
			p.touch(dt)
			return out + "^^<" + dt + ">"
		}
		return out
	}
	return ""
}
