package resultset

import (
	"sort"
	"strconv"
	"strings"
)

// Format identifies a serialization by its media type.
type Format string

const (
	// FormatXML is the compact XML pipeline format.
	FormatXML Format = "text/xml"
	// FormatJSON is the structured JSON format.
	FormatJSON Format = "application/json"
	// FormatRDFXML is RDF/XML.
	FormatRDFXML Format = "application/rdf+xml"
	// FormatRDFN3 is RDF/N3.
	FormatRDFN3 Format = "application/rdf+n3"
	// FormatIronJSON is the linked JSON format produced by the transformer.
	FormatIronJSON Format = "application/iron+json"
	// FormatIronCSV is the linked CSV format produced by the transformer.
	FormatIronCSV Format = "application/iron+csv"
	// FormatNTriples is N-Triples.
	FormatNTriples Format = "application/n-triples"
	// FormatJSONLD is JSON-LD.
	FormatJSONLD Format = "application/ld+json"
)

// Formats lists every supported format, compact XML first.
var Formats = []Format{
	FormatXML,
	FormatJSON,
	FormatRDFXML,
	FormatRDFN3,
	FormatIronJSON,
	FormatIronCSV,
	FormatNTriples,
	FormatJSONLD,
}

// Delegated reports whether the format is produced by the linked-format
// transformer rather than locally.
func (f Format) Delegated() bool {
	return f == FormatIronJSON || f == FormatIronCSV
}

// Decodable reports whether documents of this format can be imported.
func (f Format) Decodable() bool {
	return f == FormatXML || f == FormatJSON
}

// Extension returns a conventional file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatXML:
		return ".xml"
	case FormatJSON:
		return ".json"
	case FormatRDFXML:
		return ".rdf"
	case FormatRDFN3:
		return ".n3"
	case FormatIronJSON:
		return ".iron.json"
	case FormatIronCSV:
		return ".csv"
	case FormatNTriples:
		return ".nt"
	case FormatJSONLD:
		return ".jsonld"
	default:
		return ""
	}
}

// ParseFormat normalizes a media type or short name.
func ParseFormat(value string) (Format, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if idx := strings.IndexByte(value, ';'); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	switch value {
	case "text/xml", "application/xml", "xml", "structxml":
		return FormatXML, true
	case "application/json", "json", "structjson":
		return FormatJSON, true
	case "application/rdf+xml", "rdfxml", "rdf":
		return FormatRDFXML, true
	case "application/rdf+n3", "text/n3", "text/rdf+n3", "n3":
		return FormatRDFN3, true
	case "application/iron+json", "ironjson", "irjson":
		return FormatIronJSON, true
	case "application/iron+csv", "ironcsv", "commonjson", "csv":
		return FormatIronCSV, true
	case "application/n-triples", "ntriples", "nt":
		return FormatNTriples, true
	case "application/ld+json", "jsonld", "json-ld":
		return FormatJSONLD, true
	default:
		return "", false
	}
}

// Negotiate picks the best supported format of an Accept header. An empty
// header or */* selects compact XML.
func Negotiate(accept string) (Format, bool) {
	accept = strings.TrimSpace(accept)
	if accept == "" {
		return FormatXML, true
	}
	type candidate struct {
		value string
		q     float64
	}
	var candidates []candidate
	for _, part := range strings.Split(accept, ",") {
		fields := strings.Split(part, ";")
		c := candidate{value: strings.TrimSpace(fields[0]), q: 1}
		for _, param := range fields[1:] {
			param = strings.TrimSpace(param)
			if v, ok := strings.CutPrefix(param, "q="); ok {
				if q, err := strconv.ParseFloat(v, 64); err == nil {
					c.q = q
				}
			}
		}
		if c.q > 0 {
			candidates = append(candidates, c)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].q > candidates[j].q
	})
	for _, c := range candidates {
		if c.value == "*/*" || c.value == "text/*" {
			return FormatXML, true
		}
		if c.value == "application/*" {
			return FormatJSON, true
		}
		if f, ok := ParseFormat(c.value); ok {
			return f, true
		}
	}
	return "", false
}
