package weave

import (
	"fmt"

	"github.com/git-loom/loom/internal/loomerr"
)

// Validate checks the invariants visible in w alone (section labels
// unique and not "onto", branch names on every section with commits,
// reset targets, Merge labels, no commit in two places, Fixup
// placement) and returns a BuilderInvariantViolation describing the
// first one it finds broken, or nil if w is well-formed. Serialize
// calls it on the pruned Weave before emitting any todo text.
func (w *Weave) Validate() error {
	seenLabels := map[string]bool{}
	for _, s := range w.Sections {
		if s.Label == OntoLabel {
			return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("section uses reserved label %q", OntoLabel))
		}
		if seenLabels[s.Label] {
			return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("duplicate section label %q", s.Label))
		}
		seenLabels[s.Label] = true
		if len(s.BranchNames) == 0 && len(s.Commits) > 0 {
			return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("section %q has commits but no branch names", s.Label))
		}
	}

	// Invariant 3: reset_target is "onto" or an earlier section's label.
	seenSoFar := map[string]bool{}
	for _, s := range w.Sections {
		if s.ResetTarget != OntoLabel && !seenSoFar[s.ResetTarget] {
			return loomerr.NewBuilderInvariantViolation(
				fmt.Sprintf("section %q resets onto %q, which is not onto or an earlier section", s.Label, s.ResetTarget))
		}
		seenSoFar[s.Label] = true
	}

	// Invariant 1: every Merge.Label resolves to exactly one section.
	for _, e := range w.Line {
		if e.Kind != EntryMerge {
			continue
		}
		if w.SectionByLabel(e.Label) == nil {
			return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("merge entry references unknown section %q", e.Label))
		}
	}

	// Invariant 5: no CommitEntry appears in both a section and Line.
	seenOIDs := map[OID]string{}
	for _, s := range w.Sections {
		for _, c := range s.Commits {
			if where, ok := seenOIDs[c.OID]; ok {
				return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("commit %s appears in both %s and %s", c.OID, where, s.Label))
			}
			seenOIDs[c.OID] = "section " + s.Label
		}
	}
	for _, e := range w.Line {
		if e.Kind != EntryPick {
			continue
		}
		if where, ok := seenOIDs[e.Commit.OID]; ok {
			return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("commit %s appears in both %s and the integration line", e.Commit.OID, where))
		}
		seenOIDs[e.Commit.OID] = "the integration line"
	}

	// Invariant 6: Fixup is immediately preceded by Pick/Edit in its
	// own container.
	check := func(container []CommitEntry, where string) error {
		for i, c := range container {
			if c.Command != Fixup {
				continue
			}
			if i == 0 || (container[i-1].Command != Pick && container[i-1].Command != Edit) {
				return loomerr.NewBuilderInvariantViolation(
					fmt.Sprintf("fixup commit %s in %s is not preceded by a pick/edit", c.OID, where))
			}
		}
		return nil
	}
	for _, s := range w.Sections {
		if err := check(s.Commits, "section "+s.Label); err != nil {
			return err
		}
	}
	// The integration line's container includes Merge entries: a Fixup
	// immediately following a Merge is not preceded by a Pick/Edit "in
	// its container" even though the nearest earlier Pick further back
	// would satisfy a flattened check.
	for i, e := range w.Line {
		if e.Kind != EntryPick || e.Commit.Command != Fixup {
			continue
		}
		if i == 0 || w.Line[i-1].Kind != EntryPick ||
			(w.Line[i-1].Commit.Command != Pick && w.Line[i-1].Commit.Command != Edit) {
			return loomerr.NewBuilderInvariantViolation(
				fmt.Sprintf("fixup commit %s in the integration line is not preceded by a pick/edit", e.Commit.OID))
		}
	}

	return nil
}
