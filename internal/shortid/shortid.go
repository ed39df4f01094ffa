// Package shortid implements the deterministic short-ID allocator
// (§4.5): every entity visible in a single command invocation gets a
// compact, 2+ character, [a-z0-9-] identifier, with "zz" reserved for
// the unstaged working tree.
package shortid

import (
	"fmt"
	"strings"
)

// EntityKind discriminates the Entity tagged union.
type EntityKind int

const (
	Unstaged EntityKind = iota
	Branch
	Commit
	File
	CommitFile
)

// Entity is one allocatable thing: a branch, a commit, a tracked file,
// one changed file within a commit, or the reserved unstaged sentinel.
type Entity struct {
	Kind EntityKind
	// Name holds the branch name or file stem (extension stripped) for
	// Branch/File; the OID for Commit and CommitFile.
	Name string
	// Index is the changed-file index within Name's commit, valid only
	// for CommitFile.
	Index int
}

// reservedUnstaged is excluded from every other entity's candidate set.
const reservedUnstaged = "zz"

// Allocator assigns and remembers short IDs for one command invocation.
type Allocator struct {
	ids      map[int]string // index into entities -> assigned id
	entities []Entity
	byID     map[string]Entity
	usedIDs  map[string]bool
	usedInit map[byte]bool // first characters already spent
}

// New allocates IDs for entities in input order (§4.5 Assignment) and
// returns an Allocator holding both directions of the mapping.
func New(entities []Entity) *Allocator {
	a := &Allocator{
		ids:      map[int]string{},
		entities: entities,
		byID:     map[string]Entity{},
		usedIDs:  map[string]bool{},
		usedInit: map[byte]bool{},
	}
	for i, e := range entities {
		id := a.assign(e)
		a.ids[i] = id
		a.byID[id] = e
		a.usedIDs[id] = true
		if len(id) > 0 {
			a.usedInit[id[0]] = true
		}
	}
	return a
}

// ID returns the short ID assigned to the i-th input entity.
func (a *Allocator) ID(i int) string { return a.ids[i] }

// Resolve is the reverse lookup: id -> entity, built at allocation
// time (§4.5 "Reverse lookup").
func (a *Allocator) Resolve(id string) (Entity, bool) {
	e, ok := a.byID[id]
	return e, ok
}

func (a *Allocator) assign(e Entity) string {
	candidates := candidatesFor(e)

	// Prefer a candidate whose first character hasn't been used by any
	// previously assigned id.
	for _, c := range candidates {
		if !a.usedIDs[c] && !a.usedInit[c[0]] {
			return c
		}
	}
	for _, c := range candidates {
		if !a.usedIDs[c] {
			return c
		}
	}

	// All candidates taken (e.g. identical source strings): suffix the
	// first candidate with 1, 2, … until unique.
	base := candidates[0]
	for n := 1; ; n++ {
		c := fmt.Sprintf("%s%d", base, n)
		if !a.usedIDs[c] {
			return c
		}
	}
}

func candidatesFor(e Entity) []string {
	switch e.Kind {
	case Unstaged:
		return []string{reservedUnstaged}
	case Commit, CommitFile:
		return excludeReserved(hexPrefixes(e.Name))
	case Branch, File:
		return excludeReserved(wordCandidates(e.Name))
	default:
		return []string{"xx"}
	}
}

// excludeReserved drops reservedUnstaged from candidates, so "zz" is
// never assigned to anything but the Unstaged entity (§4.5 allocator
// invariant). If every generated candidate collided with the reserved
// token (e.g. a single-character name whose only 2-char candidate is
// "zz"), it falls back to a base distinct from it so assign's numeric-
// suffix tier still has something to work from.
func excludeReserved(candidates []string) []string {
	out := candidates[:0:0]
	for _, c := range candidates {
		if c != reservedUnstaged {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		out = []string{reservedUnstaged + "0"}
	}
	return out
}

// hexPrefixes returns successive hex prefixes of length 2, 3, 4, ...
func hexPrefixes(oid string) []string {
	var out []string
	for n := 2; n <= len(oid); n++ {
		out = append(out, oid[:n])
	}
	if len(out) == 0 {
		out = []string{oid}
	}
	return out
}

// words splits name on -, _, / and drops a trailing file extension.
func words(name string) []string {
	stem := name
	if idx := strings.LastIndexByte(stem, '.'); idx > 0 {
		stem = stem[:idx]
	}
	var words []string
	for _, w := range strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_' || r == '/'
	}) {
		if w != "" {
			words = append(words, strings.ToLower(w))
		}
	}
	if len(words) == 0 {
		words = []string{strings.ToLower(stem)}
	}
	return words
}

// wordCandidates generates the 2-char candidate sequence for a branch
// or file name (§4.5): multi-word names take each ordered word pair in
// turn and pair the first word's characters, one at a time, with every
// character of the second word; single-word names emit every ordered
// character pair; both exhaust
// 2-char candidates before falling back to round-robin 3-char
// prefixes.
func wordCandidates(name string) []string {
	ws := words(name)
	var two []string
	if len(ws) >= 2 {
		two = multiWordPairs(ws)
	} else {
		two = singleWordPairs(ws[0])
	}

	seen := map[string]bool{}
	var out []string
	for _, c := range two {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	out = append(out, threeCharFallback(ws)...)
	return out
}

// multiWordPairs emits (words[i][a], words[j][b]) for i<j, first
// candidate = initials of the first two words, then alternative
// second-character choices before varying the first character.
func multiWordPairs(ws []string) []string {
	var out []string
	for i := 0; i < len(ws); i++ {
		for j := i + 1; j < len(ws); j++ {
			wi, wj := ws[i], ws[j]
			for a := 0; a < len(wi); a++ {
				for b := 0; b < len(wj); b++ {
					out = append(out, string(wi[a])+string(wj[b]))
				}
			}
		}
	}
	return out
}

// singleWordPairs emits (s[i], s[j]) for i<j across a single word.
func singleWordPairs(s string) []string {
	var out []string
	for i := 0; i < len(s); i++ {
		for j := i + 1; j < len(s); j++ {
			out = append(out, string(s[i])+string(s[j]))
		}
	}
	if len(out) == 0 && len(s) > 0 {
		out = append(out, string(s[0])+string(s[0]))
	}
	return out
}

// threeCharFallback builds 3-char prefixes by round-robin interleaving
// the available words' characters, used once every 2-char candidate
// is exhausted.
func threeCharFallback(ws []string) []string {
	joined := strings.Join(ws, "")
	var out []string
	maxLen := 0
	for _, w := range ws {
		if len(w) > maxLen {
			maxLen = len(w)
		}
	}
	for n := 3; n <= len(joined)+2; n++ {
		var b strings.Builder
		for i := 0; b.Len() < n && i < maxLen; i++ {
			for _, w := range ws {
				if i < len(w) {
					b.WriteByte(w[i])
				}
				if b.Len() >= n {
					break
				}
			}
		}
		if b.Len() >= n {
			out = append(out, b.String()[:n])
		}
	}
	return out
}
