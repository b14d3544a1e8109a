package classify

import (
	"strings"

	"parts-manager/core/reconcile"

	"golang.org/x/text/cases"
)

// MaxDescriptionKeywords is how many description words become keywords.
const MaxDescriptionKeywords = 4

// stopWords are skipped when taking keywords from a description.
var stopWords = map[string]struct{}{
	"and": {},
	"the": {},
	"in":  {},
	"or":  {},
	"a":   {},
}

// keywordSet is an ordered set of lowercase keywords, unique under case folding.
type keywordSet struct {
	fold  cases.Caser
	seen  map[string]struct{}
	words []string
}

func newKeywordSet() *keywordSet {
	return &keywordSet{
		fold:  cases.Fold(),
		seen:  make(map[string]struct{}),
		words: []string{},
	}
}

// add appends the lowercase form of word unless it is empty or already present.
func (k *keywordSet) add(word string) bool {
	if word == "" {
		return false
	}
	key := k.fold.String(word)
	if _, dup := k.seen[key]; dup {
		return false
	}
	k.seen[key] = struct{}{}
	k.words = append(k.words, lower(word))
	return true
}

// DetermineKeywords derives search keywords for a subject, in this order:
// names of all matched part types, the manufacturer part number, up to four
// non-stopword description words, additional part numbers, the mounting type.
// Missing fields are skipped.
func DetermineKeywords(s Subject, t Taxonomy) []string {
	kw := newKeywordSet()

	for _, m := range MatchTaxonomy(s, t) {
		kw.add(m.PartType.Name)
	}

	kw.add(s.ManufacturerPartNumber)

	added := 0
	for _, word := range strings.Fields(lower(s.Description)) {
		if added >= MaxDescriptionKeywords {
			break
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		if kw.add(word) {
			added++
		}
	}

	for _, pn := range s.AdditionalPartNumbers {
		kw.add(pn)
	}

	kw.add(s.MountingType)

	return kw.words
}

// ClassifyMetadata assigns the part type and keywords of a canonical record.
func ClassifyMetadata(m *reconcile.PartMetadata, t Taxonomy) {
	s := MetadataSubject(*m)
	m.PartType = ""
	if pt, ok := DeterminePartType(s, t); ok {
		m.PartType = pt.Name
	}
	m.Keywords = DetermineKeywords(s, t)
}

// ClassifyCommonPart assigns the part type and keywords of a list-oriented record.
func ClassifyCommonPart(p *reconcile.CommonPart, t Taxonomy) {
	s := CommonPartSubject(*p)
	p.PartType = ""
	if pt, ok := DeterminePartType(s, t); ok {
		p.PartType = pt.Name
	}
	p.Keywords = DetermineKeywords(s, t)
}
