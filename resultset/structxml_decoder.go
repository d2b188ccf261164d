package resultset

import (
	"encoding/xml"
	"io"
	"strings"
	"unicode"
)

type structXMLDocument struct {
	XMLName  xml.Name           `xml:"resultset"`
	Prefixes []structXMLPrefix  `xml:"prefix"`
	Subjects []structXMLSubject `xml:"subject"`
}

type structXMLPrefix struct {
	Entity string `xml:"entity,attr"`
	URI    string `xml:"uri,attr"`
}

type structXMLSubject struct {
	Type       string               `xml:"type,attr"`
	URI        string               `xml:"uri,attr"`
	Predicates []structXMLPredicate `xml:"predicate"`
}

type structXMLPredicate struct {
	Type    string            `xml:"type,attr"`
	Objects []structXMLObject `xml:"object"`
}

type structXMLObject struct {
	Type    string           `xml:"type,attr"`
	URI     *string          `xml:"uri,attr"`
	Lang    string           `xml:"lang,attr"`
	Text    string           `xml:",chardata"`
	Reifies []structXMLReify `xml:"reify"`
}

type structXMLReify struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

// decodeStructXML imports a compact XML document. Every prefix declaration
// is bound before any subject is read, so CURIEs resolve against the
// document's own mapping regardless of where they appear.
func decodeStructXML(d *decodePass, r io.Reader) (*Store, error) {
	var doc structXMLDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, malformed(d.format, "invalid compact xml document", err)
	}

	for _, p := range doc.Prefixes {
		if p.Entity == "" || p.URI == "" {
			d.warn(ErrCodeMalformedInput, "", "", "incomplete prefix declaration ignored")
			continue
		}
		d.prefixes.Bind(p.Entity, p.URI)
	}

	store := NewStoreWithPrefixes(d.prefixes)
	for _, s := range doc.Subjects {
		if strings.TrimSpace(s.URI) == "" {
			d.warn(ErrCodeEmptyAtomSkipped, "", "", "subject without uri skipped")
			continue
		}
		rec := NewRecord(s.URI)
		if s.Type != "" {
			rec.addType(d.expand(s.Type, s.URI))
		}
		for _, p := range s.Predicates {
			decodeStructXMLPredicate(d, rec, p)
		}
		d.addRecord(store, rec)
	}
	return store, nil
}

func decodeStructXMLPredicate(d *decodePass, rec *Record, p structXMLPredicate) {
	if p.Type == "" {
		d.warn(ErrCodeMalformedInput, rec.URI, "", "predicate without type ignored")
		return
	}
	predicate := d.expand(p.Type, rec.URI)
	for _, o := range p.Objects {
		if predicate == RDFType && o.URI != nil {
			if *o.URI != "" {
				rec.addType(d.expand(*o.URI, rec.URI))
			}
			continue
		}
		reify := decodeStructXMLReify(d, rec.URI, o.Reifies)
		if o.URI != nil {
			rec.Add(predicate, Resource{
				URI:   d.expand(*o.URI, rec.URI),
				Type:  d.expand(o.Type, rec.URI),
				Reify: reify,
			})
			continue
		}
		value := o.Text
		if len(o.Reifies) > 0 {
			value = LiteralText(value)
		}
		datatype := d.expand(o.Type, rec.URI)
		if datatype == RDFSLiteral {
			datatype = ""
		}
		rec.Add(predicate, Literal{Value: value, Datatype: datatype, Lang: o.Lang, Reify: reify})
	}
}

// LiteralText strips the layout whitespace around the reify children of a
// literal object from its character data. A leading whitespace run is layout
// when it holds a line break. A trailing whitespace run is layout from its
// first line break on, so spaces that end the value are kept.
func LiteralText(raw string) string {
	body := strings.TrimRightFunc(raw, unicode.IsSpace)
	if i := strings.IndexAny(raw[len(body):], "\r\n"); i >= 0 {
		raw = raw[:len(body)+i]
	}
	rest := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if strings.ContainsAny(raw[:len(raw)-len(rest)], "\r\n") {
		raw = rest
	}
	return raw
}

func decodeStructXMLReify(d *decodePass, subject string, reifies []structXMLReify) *Reification {
	if len(reifies) == 0 {
		return nil
	}
	reify := NewReification()
	for _, r := range reifies {
		if r.Type == "" {
			continue
		}
		reify.Add(d.expand(r.Type, subject), r.Value)
	}
	if reify.Len() == 0 {
		return nil
	}
	return reify
}
