package resultset

import "sort"

// promoteFields fills PrefLabel, AltLabels, Description and PrefURL of a
// record read from a document, walking the fixed priority lists. The first
// predicate present wins. A winning iron: predicate is removed from the
// generic statements so it is not written twice; other label predicates stay
// and their values are also folded into AltLabels. A value is folded once and
// never when it is the preferred label.
func promoteFields(rec *Record) {
	labelWinner, labels := firstLiterals(rec, prefLabelPriority)
	if labelWinner != "" {
		rec.PrefLabel = labels[0]
	}

	folded := newLabelSet(rec.PrefLabel, rec.AltLabels)
	for _, p := range altLabelPriority {
		rec.AltLabels = folded.appendNew(rec.AltLabels, nonEmptyLiterals(rec, p))
	}
	for _, p := range prefLabelPriority {
		rec.AltLabels = folded.appendNew(rec.AltLabels, nonEmptyLiterals(rec, p))
	}
	rec.removeStatement(IronAltLabel)
	rec.removeStatement(IronPrefLabel)

	descWinner, descriptions := firstLiterals(rec, descriptionPriority)
	if descWinner != "" {
		rec.Description = descriptions[0]
		if descWinner == IronDescription {
			rec.removeStatement(IronDescription)
		}
	}

	urlWinner, urls := firstLiterals(rec, prefURLPriority)
	if urlWinner == "" {
		// iron:prefURL is sometimes written as a resource.
		for _, v := range rec.Values(IronPrefURL) {
			if res, ok := v.(Resource); ok && res.URI != "" {
				urlWinner, urls = IronPrefURL, []string{res.URI}
				break
			}
		}
	}
	if urlWinner != "" {
		rec.PrefURL = urls[0]
		rec.removeStatement(IronPrefURL)
	}
}

func firstLiterals(rec *Record, priority []string) (string, []string) {
	for _, p := range priority {
		if values := nonEmptyLiterals(rec, p); len(values) > 0 {
			return p, values
		}
	}
	return "", nil
}

func nonEmptyLiterals(rec *Record, predicate string) []string {
	var out []string
	for _, v := range rec.Literals(predicate) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// labelSet tracks the label values already present on a record.
type labelSet map[string]struct{}

func newLabelSet(pref string, alts []string) labelSet {
	set := labelSet{}
	if pref != "" {
		set[pref] = struct{}{}
	}
	for _, v := range alts {
		set[v] = struct{}{}
	}
	return set
}

func (s labelSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

// appendNew appends the values of vs not yet in the set to dst.
func (s labelSet) appendNew(dst, vs []string) []string {
	for _, v := range vs {
		if v == "" || s.has(v) {
			continue
		}
		s[v] = struct{}{}
		dst = append(dst, v)
	}
	return dst
}

// statementLabels returns the non-empty literals of the label predicates
// kept in the generic statements of rec.
func statementLabels(rec *Record) labelSet {
	set := labelSet{}
	for _, priority := range [][]string{prefLabelPriority, altLabelPriority} {
		for _, p := range priority {
			for _, v := range nonEmptyLiterals(rec, p) {
				set[v] = struct{}{}
			}
		}
	}
	return set
}

// effectiveLabels returns the preferred label of rec and the sorted set of its
// alternative labels, counting label values held in generic statements as a
// parser would promote them.
func effectiveLabels(rec *Record) (string, []string) {
	pref := rec.PrefLabel
	if pref == "" {
		if _, labels := firstLiterals(rec, prefLabelPriority); len(labels) > 0 {
			pref = labels[0]
		}
	}
	set := newLabelSet("", rec.AltLabels)
	for v := range statementLabels(rec) {
		set[v] = struct{}{}
	}
	delete(set, pref)
	alts := make([]string, 0, len(set))
	for v := range set {
		if v != "" {
			alts = append(alts, v)
		}
	}
	sort.Strings(alts)
	return pref, alts
}

// effectiveDescription returns Description, else the first description
// literal a parser would promote.
func effectiveDescription(rec *Record) string {
	if rec.Description != "" {
		return rec.Description
	}
	_, descriptions := firstLiterals(rec, descriptionPriority)
	if len(descriptions) > 0 {
		return descriptions[0]
	}
	return ""
}
