package resultset

// Namespace URIs of the core vocabularies.
const (
	NSOWL      = "http://www.w3.org/2002/07/owl#"
	NSRDF      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS     = "http://www.w3.org/2000/01/rdf-schema#"
	NSIron     = "http://purl.org/ontology/iron#"
	NSXSD      = "http://www.w3.org/2001/XMLSchema#"
	NSWSF      = "http://purl.org/ontology/wsf#"
	NSDCTerms  = "http://purl.org/dc/terms/"
	NSDC       = "http://purl.org/dc/elements/1.1/"
	NSFOAF     = "http://xmlns.com/foaf/0.1/"
	NSDOAP     = "http://usefulinc.com/ns/doap#"
	NSSKOS2004 = "http://www.w3.org/2004/02/skos/core#"
	NSSKOS2008 = "http://www.w3.org/2008/05/skos#"
	NSGeoname  = "http://www.geonames.org/ontology#"
)

// Well-known terms used by the model and the codecs.
const (
	RDFType      = NSRDF + "type"
	RDFStatement = NSRDF + "Statement"
	RDFSubject   = NSRDF + "subject"
	RDFPredicate = NSRDF + "predicate"
	RDFObject    = NSRDF + "object"

	RDFSLiteral = NSRDFS + "Literal"
	RDFSLabel   = NSRDFS + "label"
	RDFSComment = NSRDFS + "comment"

	OWLThing = NSOWL + "Thing"

	IronPrefLabel   = NSIron + "prefLabel"
	IronAltLabel    = NSIron + "altLabel"
	IronDescription = NSIron + "description"
	IronPrefURL     = NSIron + "prefURL"

	WSFObjectLabel = NSWSF + "objectLabel"

	DCTermsIsPartOf = NSDCTerms + "isPartOf"
)

// UnspecifiedDataset is the dataset bucket of records without dcterms:isPartOf.
const UnspecifiedDataset = "unspecified"

// corePrefixes seeds every new registry, in declaration order.
var corePrefixes = []struct{ prefix, ns string }{
	{"owl", NSOWL},
	{"rdf", NSRDF},
	{"rdfs", NSRDFS},
	{"iron", NSIron},
	{"xsd", NSXSD},
	{"wsf", NSWSF},
	{"dcterms", NSDCTerms},
	{"dc", NSDC},
	{"foaf", NSFOAF},
	{"doap", NSDOAP},
	{"skos", NSSKOS2004},
	{"skos2008", NSSKOS2008},
	{"geoname", NSGeoname},
}

// Priority lists for promoting well-known predicates to record fields.
// Order matters: the first predicate present on a record wins.
var (
	prefLabelPriority = []string{
		IronPrefLabel,
		NSDCTerms + "title",
		NSDC + "title",
		NSDOAP + "name",
		NSFOAF + "name",
		RDFSLabel,
		NSSKOS2004 + "prefLabel",
		NSSKOS2008 + "prefLabel",
		NSGeoname + "name",
	}

	altLabelPriority = []string{
		IronAltLabel,
		NSSKOS2004 + "altLabel",
		NSSKOS2008 + "altLabel",
		NSDCTerms + "alternative",
		NSGeoname + "alternateName",
	}

	descriptionPriority = []string{
		IronDescription,
		NSDCTerms + "description",
		NSDC + "description",
		RDFSComment,
		NSSKOS2004 + "definition",
		NSSKOS2008 + "definition",
	}

	prefURLPriority = []string{
		IronPrefURL,
	}
)
