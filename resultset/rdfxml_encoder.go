package resultset

import (
	"bufio"
	"bytes"
	"io"
)

// encodeRDFXML writes RDF/XML: one element per record named by its primary
// type, followed by an rdf:Statement block for every reified statement.
func encodeRDFXML(p *encodePass, w io.Writer, store *Store) error {
	var body bytes.Buffer
	for _, rec := range p.records(store) {
		writeRDFXMLRecord(p, &body, rec)
	}

	out := bufio.NewWriter(w)
	out.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	out.WriteString(`<rdf:RDF xmlns:rdf="` + escapeXMLAttr(NSRDF) + `"`)
	for _, ns := range p.usedNamespaces() {
		if ns.Prefix == "rdf" {
			continue
		}
		out.WriteString(` xmlns:` + ns.Prefix + `="` + escapeXMLAttr(ns.URI) + `"`)
	}
	out.WriteString(">\n")
	out.Write(body.Bytes())
	out.WriteString("</rdf:RDF>\n")
	if err := out.Flush(); err != nil {
		return &Error{Code: ErrCodeIOError, Format: p.format, Err: err}
	}
	return nil
}

func writeRDFXMLRecord(p *encodePass, b *bytes.Buffer, rec *Record) {
	element, ok := p.qname(rec.PrimaryType())
	explicitType := false
	if !ok {
		element = "rdf:Description"
		explicitType = true
	}
	b.WriteString("  <" + element + ` rdf:about="` + escapeXMLAttr(rec.URI) + `">` + "\n")
	if explicitType {
		if typ, ok := p.qname(RDFType); ok {
			b.WriteString("    <" + typ + ` rdf:resource="` + escapeXMLAttr(rec.PrimaryType()) + `"/>` + "\n")
		}
	}

	var reified []*Statement
	for _, stmt := range p.recordStatements(rec) {
		name, ok := p.qname(stmt.Predicate)
		if !ok {
			p.warn(ErrCodeInvalidQName, rec.URI, stmt.Predicate, "predicate has no xml qualified name")
			continue
		}
		for _, v := range stmt.Values {
			writeRDFXMLProperty(p, b, "    ", name, v)
			if v.Reification().Len() > 0 {
				reified = append(reified, &Statement{Predicate: stmt.Predicate, Values: []Value{v}})
			}
		}
	}
	b.WriteString("  </" + element + ">\n")

	for _, stmt := range reified {
		writeRDFXMLReification(p, b, rec.URI, stmt.Predicate, stmt.Values[0])
	}
}

func writeRDFXMLProperty(p *encodePass, b *bytes.Buffer, indent, name string, v Value) {
	switch value := v.(type) {
	case Resource:
		b.WriteString(indent + "<" + name + ` rdf:resource="` + escapeXMLAttr(value.URI) + `"/>` + "\n")
	case Literal:
		attrs := ""
		if value.Lang != "" {
			attrs = ` xml:lang="` + escapeXMLAttr(value.Lang) + `"`
		} else if dt := value.DatatypeOrDefault(); dt != RDFSLiteral && IsAbsoluteURI(dt) {
			p.touch(dt)
			attrs = ` rdf:datatype="` + escapeXMLAttr(dt) + `"`
		}
		b.WriteString(indent + "<" + name + attrs + ">" + escapeXML(value.Value) + "</" + name + ">\n")
	}
}

func writeRDFXMLReification(p *encodePass, b *bytes.Buffer, subject, predicate string, v Value) {
	b.WriteString(`  <rdf:Statement rdf:about="` + ReificationID(subject, predicate, reificationObject(v)) + `">` + "\n")
	b.WriteString(`    <rdf:subject rdf:resource="` + escapeXMLAttr(subject) + `"/>` + "\n")
	b.WriteString(`    <rdf:predicate rdf:resource="` + escapeXMLAttr(predicate) + `"/>` + "\n")
	writeRDFXMLProperty(p, b, "    ", "rdf:object", v)
	v.Reification().Each(func(reifyPredicate, value string) {
		name, ok := p.qname(reifyPredicate)
		if !ok {
			p.warn(ErrCodeInvalidQName, subject, reifyPredicate, "reification predicate has no xml qualified name")
			return
		}
		b.WriteString("    <" + name + ">" + escapeXML(value) + "</" + name + ">\n")
	})
	b.WriteString("  </rdf:Statement>\n")
}

// reificationObject is the object part of a reification identity: the URI of
// a resource or the lexical form of a literal.
func reificationObject(v Value) string {
	switch value := v.(type) {
	case Resource:
		return value.URI
	case Literal:
		return value.Value
	}
	return ""
}
