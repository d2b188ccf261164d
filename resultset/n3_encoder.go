package resultset

import (
	"bufio"
	"bytes"
	"io"
	"strings"
)

// encodeN3 writes RDF/N3. Each record is one block opened by its types and
// closed by a period; reified statements follow as _:id blocks.
func encodeN3(p *encodePass, w io.Writer, store *Store) error {
	var body bytes.Buffer
	for _, rec := range p.records(store) {
		writeN3Record(p, &body, rec)
	}

	out := bufio.NewWriter(w)
	for _, ns := range p.usedNamespaces() {
		out.WriteString("@prefix " + ns.Prefix + ": <" + ns.URI + "> .\n")
	}
	out.WriteString("\n")
	out.Write(body.Bytes())
	if err := out.Flush(); err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Err: err}
	}
	return nil
}

func writeN3Record(p *encodePass, b *bytes.Buffer, rec *Record) {
	subject := "<" + rec.URI + ">"
	types := []string{p.n3Name(rec.PrimaryType())}

	var lines []string
	var reified []*Statement
	for _, stmt := range p.recordStatements(rec) {
		if stmt.Predicate == RDFType {
			for _, v := range stmt.Values {
				if res, ok := v.(Resource); ok {
					types = append(types, p.n3Name(res.URI))
				}
			}
			continue
		}
		predicate, ok := p.n3Predicate(stmt.Predicate)
		if !ok {
			p.warn(ErrCodeInvalidQName, rec.URI, stmt.Predicate, "predicate is neither a registered name nor an absolute uri")
			continue
		}
		objects := make([]string, 0, len(stmt.Values))
		for _, v := range stmt.Values {
			objects = append(objects, p.n3Object(v))
			if v.Reification().Len() > 0 {
				reified = append(reified, &Statement{Predicate: stmt.Predicate, Values: []Value{v}})
			}
		}
		lines = append(lines, predicate+" "+strings.Join(objects, ", "))
	}

	writeN3Block(b, subject, "a "+strings.Join(types, ", "), lines)
	for _, stmt := range reified {
		writeN3Reification(p, b, rec.URI, stmt.Predicate, stmt.Values[0])
	}
}

func writeN3Reification(p *encodePass, b *bytes.Buffer, subject, predicate string, v Value) {
	lines := []string{
		p.n3Name(RDFSubject) + " <" + subject + ">",
		p.n3Name(RDFPredicate) + " <" + predicate + ">",
		p.n3Name(RDFObject) + " " + p.n3Object(v),
	}
	v.Reification().Each(func(reifyPredicate, value string) {
		name, ok := p.n3Predicate(reifyPredicate)
		if !ok {
			p.warn(ErrCodeInvalidQName, subject, reifyPredicate, "reification predicate is neither a registered name nor an absolute uri")
			return
		}
		lines = append(lines, name+` "`+escapeN3(value)+`"`)
	})
	node := "_:" + ReificationID(subject, predicate, reificationObject(v))
	writeN3Block(b, node, "a "+p.n3Name(RDFStatement), lines)
}

// writeN3Block writes head on the subject line and pads every following
// line to the column after the subject.
func writeN3Block(b *bytes.Buffer, subject, head string, lines []string) {
	pad := strings.Repeat(" ", len(subject)+1)
	b.WriteString(subject + " " + head)
	for _, line := range lines {
		b.WriteString(" ;\n" + pad + line)
	}
	b.WriteString(" .\n\n")
}

// n3Name renders uri as a prefixed name when possible, else as <uri>.
func (p *encodePass) n3Name(uri string) string {
	if name, ok := p.qname(uri); ok {
		return name
	}
	return "<" + uri + ">"
}

func (p *encodePass) n3Predicate(uri string) (string, bool) {
	if name, ok := p.qname(uri); ok {
		return name, true
	}
	if IsAbsoluteURI(uri) {
		return "<" + uri + ">", true
	}
	return "", false
}

func (p *encodePass) n3Object(v Value) string {
	switch value := v.(type) {
	case Resource:
		return "<" + value.URI + ">"
	case Literal:
		out := `"` + escapeN3(value.Value) + `"`
		if value.Lang != "" {
			return out + "@" + value.Lang
		}
		if dt := value.DatatypeOrDefault(); dt != RDFSLiteral {
			return out + "^^" + p.n3Name(dt)
		}
		return out
	}
	return ""
}
