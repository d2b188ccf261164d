package resultset

import (
	"io"

	"github.com/tidwall/gjson"
)

// decodeStructJSON imports the structured JSON format.
func decodeStructJSON(d *decodePass, r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &Error{Code: ErrCodeIOError, Format: d.format, Err: err}
	}
	if !gjson.ValidBytes(data) {
		return nil, malformed(d.format, "invalid json document", nil)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, malformed(d.format, "document is not an object", nil)
	}
	subjects := doc.Get("resultset.subject")
	if !doc.Get("resultset").Exists() || (subjects.Exists() && !subjects.IsArray()) {
		return nil, malformed(d.format, "missing resultset.subject array", nil)
	}

	doc.Get("prefixes").ForEach(func(key, value gjson.Result) bool {
		if key.String() != "" && value.String() != "" {
			d.prefixes.Bind(key.String(), value.String())
		}
		return true
	})

	store := NewStoreWithPrefixes(d.prefixes)
	subjects.ForEach(func(_, s gjson.Result) bool {
		uri := s.Get("uri").String()
		if uri == "" {
			d.warn(ErrCodeEmptyAtomSkipped, "", "", "subject without uri skipped")
			return true
		}
		rec := NewRecord(uri)
		if t := s.Get("type").String(); t != "" {
			rec.addType(d.expand(t, uri))
		}
		s.Get("predicate").ForEach(func(_, entry gjson.Result) bool {
			entry.ForEach(func(key, value gjson.Result) bool {
				decodeStructJSONValue(d, rec, d.expand(key.String(), uri), value)
				return true
			})
			return true
		})
		d.addRecord(store, rec)
		return true
	})
	return store, nil
}

func decodeStructJSONValue(d *decodePass, rec *Record, predicate string, value gjson.Result) {
	switch {
	case value.IsArray():
		value.ForEach(func(_, v gjson.Result) bool {
			decodeStructJSONValue(d, rec, predicate, v)
			return true
		})
	case value.IsObject():
		reify := decodeStructJSONReify(d, rec.URI, value.Get("reify"))
		if uri := value.Get("uri"); uri.Exists() {
			if predicate == RDFType {
				if uri.String() != "" {
					rec.addType(d.expand(uri.String(), rec.URI))
				}
				return
			}
			rec.Add(predicate, Resource{
				URI:   d.expand(uri.String(), rec.URI),
				Type:  d.expand(value.Get("type").String(), rec.URI),
				Reify: reify,
			})
			return
		}
		datatype := d.expand(value.Get("type").String(), rec.URI)
		if datatype == RDFSLiteral {
			datatype = ""
		}
		rec.Add(predicate, Literal{
			Value:    value.Get("value").String(),
			Datatype: datatype,
			Lang:     value.Get("lang").String(),
			Reify:    reify,
		})
	case value.Type == gjson.Null:
		d.warn(ErrCodeEmptyAtomSkipped, rec.URI, predicate, "null value ignored")
	default:
		rec.Add(predicate, Literal{Value: value.String()})
	}
}

func decodeStructJSONReify(d *decodePass, subject string, reifies gjson.Result) *Reification {
	if !reifies.IsArray() {
		return nil
	}
	reify := NewReification()
	reifies.ForEach(func(_, r gjson.Result) bool {
		if t := r.Get("type").String(); t != "" {
			reify.Add(d.expand(t, subject), r.Get("value").String())
		}
		return true
	})
	if reify.Len() == 0 {
		return nil
	}
	return reify
}
