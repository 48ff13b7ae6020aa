package progress

import (
	"sort"
	"strings"
)

// CorpusEntry is one exercise name a user has logged in a given mode,
// paired with its kind. Corpus order is first-seen order and is significant
// for tie-breaking.
type CorpusEntry struct {
	Name string
	Kind ExerciseKind
}

// Match is a corpus entry accepted for a query, carrying its similarity
// score for ranking.
type Match struct {
	CorpusEntry
	Score float64
}

// Queries shorter than this (after stripping whitespace) must clear a
// minimum trigram score, otherwise single letters match nearly everything.
const (
	shortQueryRunes    = 3
	shortQueryMinScore = 0.1
)

// Resolve narrows a free-text query to the corpus entries it plausibly
// refers to. Acceptance uses a rule ladder (substring either direction,
// whitespace-stripped substring, token overlap, prefix); accepted entries
// are ranked by trigram similarity, ties kept in corpus order. An empty
// result means "no match", which is not an error.
func Resolve(query string, corpus []CorpusEntry) []Match {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	qStripped := stripSpaces(q)
	shortQuery := len([]rune(qStripped)) < shortQueryRunes
	qTrigrams := trigrams(q)

	var matches []Match
	for _, entry := range corpus {
		name := strings.ToLower(strings.TrimSpace(entry.Name))
		if name == "" || !accepts(q, qStripped, name) {
			continue
		}
		score := diceCoefficient(qTrigrams, trigrams(name))
		if shortQuery && score < shortQueryMinScore {
			continue
		}
		matches = append(matches, Match{CorpusEntry: entry, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// accepts applies the acceptance ladder in order, returning on the first
// rule that fires. Both inputs are already lowercased and trimmed.
func accepts(q, qStripped, name string) bool {
	// Rule 1: substring containment either direction.
	if strings.Contains(name, q) || strings.Contains(q, name) {
		return true
	}

	// Rule 2: containment with whitespace removed.
	nameStripped := stripSpaces(name)
	if strings.Contains(nameStripped, qStripped) || strings.Contains(qStripped, nameStripped) {
		return true
	}

	// Rule 3: any query word of length >2 overlaps any name word.
	qWords := longWords(q)
	nWords := longWords(name)
	for _, qw := range qWords {
		for _, nw := range nWords {
			if strings.Contains(nw, qw) || strings.Contains(qw, nw) {
				return true
			}
		}
	}

	// Rule 4: prefix match, whole-string or per-word.
	if strings.HasPrefix(name, q) || strings.HasPrefix(q, name) {
		return true
	}
	for _, nw := range strings.Fields(name) {
		if strings.HasPrefix(nw, q) || strings.HasPrefix(q, nw) {
			return true
		}
	}
	return false
}

// CanonicalKind picks the exercise kind to treat as authoritative for a
// match set: the kind occurring most often wins, ties broken by whichever
// kind appeared first. The second return is false for an empty match set.
func CanonicalKind(matches []Match) (ExerciseKind, bool) {
	if len(matches) == 0 {
		return "", false
	}

	counts := make(map[ExerciseKind]int)
	var order []ExerciseKind
	for _, m := range matches {
		if _, seen := counts[m.Kind]; !seen {
			order = append(order, m.Kind)
		}
		counts[m.Kind]++
	}

	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, true
}

// Names returns the distinct exercise names in a match set, in rank order.
func Names(matches []Match) []string {
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}
	return names
}

func stripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func longWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(s) {
		if len([]rune(w)) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// trigrams returns the set of 3-rune windows over s padded with two leading
// and two trailing spaces, so short strings still produce a usable set.
func trigrams(s string) map[string]struct{} {
	runes := []rune("  " + s + "  ")
	set := make(map[string]struct{}, len(runes))
	for i := 0; i+3 <= len(runes); i++ {
		set[string(runes[i:i+3])] = struct{}{}
	}
	return set
}

// diceCoefficient is 2*|A∩B| / (|A|+|B|), in [0,1].
func diceCoefficient(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(a)+len(b))
}
