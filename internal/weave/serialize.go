package weave

import (
	"fmt"
	"strings"
)

// Serialize emits the rebase-merges todo program for w (§4.3). It
// rejects any Weave violating §3 invariants before emitting a single
// line, so a broken graph never reaches the rebase driver.
//
// Sections whose Commits has become empty (legal only transiently
// during mutation, per invariant 7) are dropped from the program along
// with any Merge entry referencing them, rather than rejected.
func Serialize(w *Weave) (string, error) {
	pruned := prune(w)
	if err := pruned.Validate(); err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "label %s\n", OntoLabel)

	for _, s := range pruned.Sections {
		writeSection(&b, s)
	}

	fmt.Fprintf(&b, "reset %s\n", OntoLabel)
	for _, e := range pruned.Line {
		writeLineEntry(&b, e)
	}

	return b.String(), nil
}

// prune returns a copy of w with empty sections (and the Merge entries
// referencing them) removed, per invariant 7.
func prune(w *Weave) *Weave {
	out := &Weave{Base: w.Base}
	drop := map[string]bool{}
	for _, s := range w.Sections {
		if len(s.Commits) == 0 {
			drop[s.Label] = true
			continue
		}
		cp := *s
		cp.Commits = append([]CommitEntry(nil), s.Commits...)
		cp.BranchNames = append([]string(nil), s.BranchNames...)
		out.Sections = append(out.Sections, &cp)
	}
	for _, e := range w.Line {
		if e.Kind == EntryMerge && drop[e.Label] {
			continue
		}
		out.Line = append(out.Line, e)
	}
	return out
}

func writeSection(b *strings.Builder, s *BranchSection) {
	fmt.Fprintf(b, "reset %s\n", s.ResetTarget)
	for _, c := range s.Commits {
		writeCommitLine(b, c)
	}
	fmt.Fprintf(b, "label %s\n", s.Label)
	for _, name := range s.BranchNames {
		fmt.Fprintf(b, "update-ref refs/heads/%s\n", name)
	}
}

func writeCommitLine(b *strings.Builder, c CommitEntry) {
	fmt.Fprintf(b, "%s %s %s\n", c.Command, c.AbbrevHash, c.MessageFirstLine)
	for _, name := range c.UpdateRefs {
		fmt.Fprintf(b, "update-ref refs/heads/%s\n", name)
	}
}

func writeLineEntry(b *strings.Builder, e IntegrationEntry) {
	switch e.Kind {
	case EntryPick:
		writeCommitLine(b, e.Commit)
	case EntryMerge:
		if e.OriginalOID != "" {
			fmt.Fprintf(b, "merge -C %s %s # Merge branch '%s'\n", e.OriginalOID, e.Label, e.Label)
		} else {
			fmt.Fprintf(b, "merge %s\n", e.Label)
		}
	}
}
