package service

import (
	"sort"
	"strings"
)

// Named is a record searchable by given name and surnames.
type Named interface {
	NameParts() (name, paternal, maternal string)
	FullName() string
}

// SearchTokens splits a query on whitespace.
func SearchTokens(query string) []string {
	return strings.Fields(query)
}

// Matches reports whether every token occurs, case-insensitively, in at
// least one of the record's name parts.
func Matches(r Named, tokens []string) bool {
	name, paternal, maternal := r.NameParts()
	parts := []string{strings.ToLower(name), strings.ToLower(paternal), strings.ToLower(maternal)}

	for _, token := range tokens {
		token = strings.ToLower(token)
		found := false
		for _, p := range parts {
			if strings.Contains(p, token) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Rank keeps the records matching query and orders given-name prefix
// matches first, then paternal-surname prefix matches, then by full name.
func Rank[T Named](records []T, query string) []T {
	tokens := SearchTokens(query)
	if len(tokens) == 0 {
		return []T{}
	}
	lowered := strings.ToLower(strings.TrimSpace(query))

	type keyed struct {
		record      T
		notName     bool
		notPaternal bool
		full        string
	}

	matched := make([]keyed, 0, len(records))
	for _, r := range records {
		if !Matches(r, tokens) {
			continue
		}
		name, paternal, _ := r.NameParts()
		matched = append(matched, keyed{
			record:      r,
			notName:     !strings.HasPrefix(strings.ToLower(name), lowered),
			notPaternal: !strings.HasPrefix(strings.ToLower(paternal), lowered),
			full:        strings.ToLower(r.FullName()),
		})
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.notName != b.notName {
			return !a.notName
		}
		if a.notPaternal != b.notPaternal {
			return !a.notPaternal
		}
		return a.full < b.full
	})

	out := make([]T, len(matched))
	for i, k := range matched {
		out[i] = k.record
	}
	return out
}
