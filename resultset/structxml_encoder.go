package resultset

import (
	"bufio"
	"bytes"
	"io"
)

const structXMLHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// encodeStructXML writes the compact XML pipeline format. The body is
// rendered first so the prefix declarations, which must precede the subjects,
// list exactly the prefixes the body uses.
func encodeStructXML(p *encodePass, w io.Writer, store *Store) error {
	var body bytes.Buffer
	for _, rec := range p.records(store) {
		writeStructXMLSubject(p, &body, rec)
	}

	out := bufio.NewWriter(w)
	out.WriteString(structXMLHeader)
	out.WriteString("<resultset>\n")
	for _, ns := range p.usedNamespaces() {
		out.WriteString(`  <prefix entity="` + escapeXMLAttr(ns.Prefix) + `" uri="` + escapeXMLAttr(ns.URI) + `" />` + "\n")
	}
	out.Write(body.Bytes())
	out.WriteString("</resultset>\n")
	if err := out.Flush(); err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Err: err}
	}
	return nil
}

func writeStructXMLSubject(p *encodePass, b *bytes.Buffer, rec *Record) {
	b.WriteString(`  <subject type="` + escapeXMLAttr(p.compact(rec.PrimaryType())) + `" uri="` + escapeXMLAttr(rec.URI) + `">` + "\n")
	for _, stmt := range p.recordStatements(rec) {
		b.WriteString(`    <predicate type="` + escapeXMLAttr(p.compact(stmt.Predicate)) + `">` + "\n")
		for _, v := range stmt.Values {
			writeStructXMLObject(p, b, v)
		}
		b.WriteString("    </predicate>\n")
	}
	b.WriteString("  </subject>\n")
}

func writeStructXMLObject(p *encodePass, b *bytes.Buffer, v Value) {
	b.WriteString("      <object")
	switch value := v.(type) {
	case Literal:
		b.WriteString(` type="` + escapeXMLAttr(p.compact(value.DatatypeOrDefault())) + `"`)
		if value.Lang != "" {
			b.WriteString(` lang="` + escapeXMLAttr(value.Lang) + `"`)
		}
		b.WriteString(">" + escapeXML(value.Value))
		if value.Reify.Len() > 0 {
			b.WriteString("\n")
			writeStructXMLReify(p, b, value.Reify)
			b.WriteString("      ")
		}
		b.WriteString("</object>\n")
	case Resource:
		b.WriteString(` uri="` + escapeXMLAttr(value.URI) + `"`)
		if value.Type != "" {
			b.WriteString(` type="` + escapeXMLAttr(p.compact(value.Type)) + `"`)
		}
		if value.Reify.Len() == 0 {
			b.WriteString(" />\n")
			return
		}
		b.WriteString(">\n")
		writeStructXMLReify(p, b, value.Reify)
		b.WriteString("      </object>\n")
	}
}

func writeStructXMLReify(p *encodePass, b *bytes.Buffer, reify *Reification) {
	reify.Each(func(predicate, value string) {
		b.WriteString(`        <reify type="` + escapeXMLAttr(p.compact(predicate)) + `" value="` + escapeXMLAttr(value) + `" />` + "\n")
	})
}
