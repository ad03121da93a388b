// Package similarity scores product names for relatedness. It is a cheap
// token-overlap heuristic, not a fuzzy matcher.
package similarity

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// MinTokenLength drops short tokens such as sizes ("1l") and articles.
	MinTokenLength = 3
	// MinMatchRatio is the share of reference tokens a candidate must contain.
	MinMatchRatio = 0.3
)

// Tokens lower-cases name, splits it on whitespace and keeps tokens of at
// least MinTokenLength characters. Duplicates are kept.
func Tokens(name string) []string {
	fields := strings.Fields(strings.ToLower(name))
	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= MinTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Score is the overlap between a reference token set and one candidate name.
type Score struct {
	Matches int
	Ratio   float64
}

// Qualifies reports whether the candidate is related enough to be shown.
func (s Score) Qualifies() bool {
	return s.Matches >= 1 && s.Ratio >= MinMatchRatio
}

// Scorer holds the tokenized reference so many candidates can be scored cheaply.
type Scorer struct {
	tokens []string
}

// NewScorer tokenizes the reference name.
func NewScorer(reference string) Scorer {
	return Scorer{tokens: Tokens(reference)}
}

// Empty reports whether the reference produced no qualifying tokens, in which
// case nothing can be similar to it.
func (s Scorer) Empty() bool {
	return len(s.tokens) == 0
}

// Score counts reference tokens occurring as substrings of the lower-cased
// candidate. Ratio divides by the token count, duplicates included.
func (s Scorer) Score(candidate string) Score {
	if s.Empty() {
		return Score{}
	}
	name := strings.ToLower(candidate)
	matches := 0
	for _, tok := range s.tokens {
		if strings.Contains(name, tok) {
			matches++
		}
	}
	return Score{
		Matches: matches,
		Ratio:   float64(matches) / float64(len(s.tokens)),
	}
}

// Ranked pairs a candidate index with its score.
type Ranked struct {
	Index int
	Score Score
}

// Rank scores every candidate name, keeps the qualifying ones and orders them
// by ratio then match count, both descending. Equal entries keep input order.
// limit <= 0 means no truncation.
func Rank(reference string, candidates []string, limit int) []Ranked {
	scorer := NewScorer(reference)
	if scorer.Empty() {
		return nil
	}

	ranked := make([]Ranked, 0, len(candidates))
	for i, name := range candidates {
		score := scorer.Score(name)
		if !score.Qualifies() {
			continue
		}
		ranked = append(ranked, Ranked{Index: i, Score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i].Score, ranked[j].Score
		if a.Ratio != b.Ratio {
			return a.Ratio > b.Ratio
		}
		return a.Matches > b.Matches
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
