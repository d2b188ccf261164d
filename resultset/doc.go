// Package resultset provides the record graph shared by the web service
// endpoints and the codecs that move it across the wire.
//
// A Store groups Records by dataset. Records are built with a Builder,
// which expands CURIEs through a PrefixRegistry, so the model itself only
// holds absolute URIs:
//
//	rec := resultset.NewBuilder("http://example.org/r1").
//	    AddType("foaf:Person").
//	    SetPrefLabel("Alice").
//	    SetResource("foaf:knows", "http://example.org/r2",
//	        resultset.NewReification().Add("wsf:objectLabel", "Bob"), "foaf:Person").
//	    Finish()
//
//	store := resultset.NewStore()
//	store.Add(rec)
//
// Encode serializes a store in one of the supported formats:
//   - Compact XML (text/xml), the pipeline format exchanged between services
//   - Structured JSON (application/json)
//   - RDF/XML, RDF/N3, N-Triples and JSON-LD
//   - The linked JSON and CSV formats, produced by a LinkedTransformer from
//     the compact XML form
//
// Decode imports compact XML and structured JSON back into a Store. While
// decoding, well-known label and description predicates are promoted to the
// PrefLabel, AltLabels, Description and PrefURL fields.
//
// Problems confined to one value or record never fail a document. They are
// returned as Warnings; see ErrorCode for the codes.
//
// The query subpackage reads compact XML documents without building a Store.
package resultset
