package classify

import (
	"sort"
	"strings"

	"parts-manager/core/reconcile"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Subject is the text of a record that classification looks at.
type Subject struct {
	// MatchFields are searched for part type names, in order.
	MatchFields            []string
	ManufacturerPartNumber string
	Description            string
	AdditionalPartNumbers  []string
	MountingType           string
}

// MetadataSubject exposes a canonical record to the classifier.
func MetadataSubject(m reconcile.PartMetadata) Subject {
	return Subject{
		MatchFields:            []string{m.Description, m.DetailedDescription, m.PartNumber, m.DatasheetURL},
		ManufacturerPartNumber: m.ManufacturerPartNumber,
		Description:            m.Description,
		AdditionalPartNumbers:  m.AdditionalPartNumbers,
		MountingType:           m.MountingType,
	}
}

// CommonPartSubject exposes a list-oriented record to the classifier.
// Every datasheet URL of the record is searched.
func CommonPartSubject(p reconcile.CommonPart) Subject {
	fields := make([]string, 0, 2+len(p.DatasheetURLs))
	fields = append(fields, p.Description, p.ManufacturerPartNumber)
	fields = append(fields, p.DatasheetURLs...)
	return Subject{
		MatchFields:            fields,
		ManufacturerPartNumber: p.ManufacturerPartNumber,
		Description:            p.Description,
		AdditionalPartNumbers:  p.AdditionalPartNumbers,
		MountingType:           p.MountingType,
	}
}

// Match is a part type that occurs in a subject.
type Match struct {
	PartType PartType
	// Count is incremented once per taxonomy entry that matched, however many fields hit.
	Count int
	// Index is the position of the part type's first entry in the taxonomy.
	Index int
}

type matchKey struct {
	id   int64
	name string
}

// MatchTaxonomy returns the part types whose name occurs, case-insensitively,
// in any of the subject's match fields. Results are in taxonomy order.
func MatchTaxonomy(s Subject, t Taxonomy) []Match {
	fold := cases.Fold()
	fields := make([]string, 0, len(s.MatchFields))
	for _, f := range s.MatchFields {
		if f != "" {
			fields = append(fields, fold.String(f))
		}
	}

	var matches []Match
	positions := make(map[matchKey]int)
	for i, pt := range t.types {
		if pt.Name == "" {
			continue
		}
		needle := fold.String(pt.Name)
		if !containsAny(fields, needle) {
			continue
		}
		key := matchKey{id: pt.ID, name: pt.Name}
		if pos, seen := positions[key]; seen {
			matches[pos].Count++
			continue
		}
		positions[key] = len(matches)
		matches = append(matches, Match{PartType: pt, Count: 1, Index: i})
	}
	return matches
}

func containsAny(haystacks []string, needle string) bool {
	for _, h := range haystacks {
		if strings.Contains(h, needle) {
			return true
		}
	}
	return false
}

// Rank orders matches by count descending, then by taxonomy index ascending.
// The input is not modified.
func Rank(matches []Match) []Match {
	ranked := make([]Match, len(matches))
	copy(ranked, matches)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Index < ranked[j].Index
	})
	return ranked
}

// DeterminePartType returns the best matching part type, or false if none matched.
func DeterminePartType(s Subject, t Taxonomy) (PartType, bool) {
	ranked := Rank(MatchTaxonomy(s, t))
	if len(ranked) == 0 {
		return PartType{}, false
	}
	return ranked[0].PartType, true
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
