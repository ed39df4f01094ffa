package weave

import (
	"fmt"

	"github.com/git-loom/loom/internal/loomerr"
)

// removeCommitAt deletes the commit at index i from container and
// returns the shrunk slice.
func removeCommitAt(container []CommitEntry, i int) []CommitEntry {
	return append(container[:i:i], container[i+1:]...)
}

// dropSection removes a section and the Merge entry referencing it.
func (w *Weave) dropSection(label string) {
	for i, s := range w.Sections {
		if s.Label == label {
			w.Sections = append(w.Sections[:i:i], w.Sections[i+1:]...)
			break
		}
	}
	for i, e := range w.Line {
		if e.Kind == EntryMerge && e.Label == label {
			w.Line = append(w.Line[:i:i], w.Line[i+1:]...)
			break
		}
	}
}

// DropCommit removes the commit with oid from wherever it lives. If
// removing it empties a section, the section and its Merge entry are
// also removed (§4.2 drop_commit).
func (w *Weave) DropCommit(oid OID) error {
	for _, s := range w.Sections {
		for i, c := range s.Commits {
			if c.OID == oid {
				s.Commits = removeCommitAt(s.Commits, i)
				if len(s.Commits) == 0 {
					w.dropSection(s.Label)
				}
				return nil
			}
		}
	}
	for i, e := range w.Line {
		if e.Kind == EntryPick && e.Commit.OID == oid {
			w.Line = append(w.Line[:i:i], w.Line[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("drop_commit: %w", &commitNotFound{OID: oid})
}

type commitNotFound struct{ OID OID }

func (e *commitNotFound) Error() string { return fmt.Sprintf("commit %s not present in weave", e.OID) }

// DropBranch removes the section whose BranchNames contains name (or
// whose Label equals name) plus its Merge entry (§4.2 drop_branch).
func (w *Weave) DropBranch(name string) error {
	s := w.SectionByBranch(name)
	if s == nil {
		return loomerr.NewBranchNotWoven(name)
	}
	w.dropSection(s.Label)
	return nil
}

// MoveCommit removes oid from its current location and appends it to
// the section owning toBranch. If toBranch's section is co-located
// with other branches, the section is split: the base section keeps
// its reset_target, commits, and BranchNames minus toBranch; a new
// stacked section (reset_target = base section's label) holds only
// the moved commit under toBranch (§4.2 move_commit).
func (w *Weave) MoveCommit(oid OID, toBranch string) error {
	c, ok := w.extractCommit(oid, false)
	if !ok {
		return fmt.Errorf("move_commit: %w", &commitNotFound{OID: oid})
	}
	c.Command = Pick
	c.UpdateRefs = nil

	target := w.SectionByBranch(toBranch)
	if target == nil {
		return loomerr.NewBranchNotWoven(toBranch)
	}

	if len(target.BranchNames) > 1 {
		w.splitCoLocated(target, toBranch, c)
		return nil
	}

	target.Commits = append(target.Commits, c)
	return nil
}

// extractCommit removes and returns the commit with oid from wherever
// it lives (section or line). With dropEmpty set, a section it empties
// is dropped as DropCommit does; otherwise the emptied section stays
// (Serialize prunes it).
func (w *Weave) extractCommit(oid OID, dropEmpty bool) (CommitEntry, bool) {
	for _, s := range w.Sections {
		for i, c := range s.Commits {
			if c.OID == oid {
				out := c.Clone()
				s.Commits = removeCommitAt(s.Commits, i)
				if dropEmpty && len(s.Commits) == 0 {
					w.dropSection(s.Label)
				}
				return out, true
			}
		}
	}
	for i, e := range w.Line {
		if e.Kind == EntryPick && e.Commit.OID == oid {
			out := e.Commit.Clone()
			w.Line = append(w.Line[:i:i], w.Line[i+1:]...)
			return out, true
		}
	}
	return CommitEntry{}, false
}

// splitCoLocated implements the co-located split: target keeps
// reset_target and its commits, loses toBranch from BranchNames; a new
// stacked section is created holding only c under toBranch, and the
// Merge entry that referenced target is repointed at the new
// (outermost) section.
func (w *Weave) splitCoLocated(target *BranchSection, toBranch string, c CommitEntry) {
	kept := make([]string, 0, len(target.BranchNames)-1)
	for _, b := range target.BranchNames {
		if b != toBranch {
			kept = append(kept, b)
		}
	}
	target.BranchNames = kept

	newSection := &BranchSection{
		ResetTarget: target.Label,
		Commits:     []CommitEntry{c},
		Label:       toBranch,
		BranchNames: []string{toBranch},
	}

	// Insert immediately after target in dependency order.
	idx := -1
	for i, s := range w.Sections {
		if s == target {
			idx = i
			break
		}
	}
	w.Sections = append(w.Sections[:idx+1], append([]*BranchSection{newSection}, w.Sections[idx+1:]...)...)

	for i, e := range w.Line {
		if e.Kind == EntryMerge && e.Label == target.Label {
			w.Line[i] = MergeEntry("", newSection.Label)
			break
		}
	}
}

// FixupCommit removes src and re-inserts it immediately after tgt's
// Pick/Edit entry with command Fixup (§4.2 fixup_commit). tgt must not
// be a merge; src must be topologically after tgt in the same
// container ordering that results once both are located.
func (w *Weave) FixupCommit(src, tgt OID) error {
	tgtSection, _, _, found := w.FindCommit(tgt)
	if !found {
		return fmt.Errorf("fixup_commit target: %w", &commitNotFound{OID: tgt})
	}

	c, ok := w.extractCommit(src, true)
	if !ok {
		return fmt.Errorf("fixup_commit source: %w", &commitNotFound{OID: src})
	}
	c.Command = Fixup

	// Re-resolve tgt's location: extracting src may have shifted
	// indices within tgt's own container.
	if tgtSection != nil {
		section := w.SectionByLabel(tgtSection.Label)
		if section == nil {
			return fmt.Errorf("fixup_commit: %w", &commitNotFound{OID: tgt})
		}
		idx := indexOfCommit(section.Commits, tgt)
		if idx < 0 {
			return fmt.Errorf("fixup_commit: %w", &commitNotFound{OID: tgt})
		}
		section.Commits = insertCommitAt(section.Commits, idx+1, c)
		return nil
	}

	idx := indexOfLinePick(w.Line, tgt)
	if idx < 0 {
		return fmt.Errorf("fixup_commit: %w", &commitNotFound{OID: tgt})
	}
	w.Line = append(w.Line[:idx+1], append([]IntegrationEntry{PickEntry(c)}, w.Line[idx+1:]...)...)
	return nil
}

func indexOfCommit(commits []CommitEntry, oid OID) int {
	for i, c := range commits {
		if c.OID == oid {
			return i
		}
	}
	return -1
}

func indexOfLinePick(line []IntegrationEntry, oid OID) int {
	for i, e := range line {
		if e.Kind == EntryPick && e.Commit.OID == oid {
			return i
		}
	}
	return -1
}

func insertCommitAt(container []CommitEntry, i int, c CommitEntry) []CommitEntry {
	out := make([]CommitEntry, 0, len(container)+1)
	out = append(out, container[:i]...)
	out = append(out, c)
	out = append(out, container[i:]...)
	return out
}

// EditCommit switches oid's command to Edit. Idempotent (§4.2
// edit_commit).
func (w *Weave) EditCommit(oid OID) error {
	for _, s := range w.Sections {
		for i, c := range s.Commits {
			if c.OID == oid {
				s.Commits[i].Command = Edit
				return nil
			}
		}
	}
	for i, e := range w.Line {
		if e.Kind == EntryPick && e.Commit.OID == oid {
			w.Line[i].Commit.Command = Edit
			return nil
		}
	}
	return fmt.Errorf("edit_commit: %w", &commitNotFound{OID: oid})
}

// WeaveBranch takes the non-woven branch recorded in some Pick entry's
// UpdateRefs on Line, moves every Line entry up to and including that
// entry into a new section, and appends a Merge entry referencing it
// (§4.2 weave_branch).
func (w *Weave) WeaveBranch(name string) error {
	cut := -1
	for i, e := range w.Line {
		if e.Kind != EntryPick {
			continue
		}
		for _, b := range e.Commit.UpdateRefs {
			if b == name {
				cut = i
			}
		}
	}
	if cut < 0 {
		return loomerr.NewNotInIntegrationRange(name)
	}

	commits := make([]CommitEntry, 0, cut+1)
	for i := 0; i <= cut; i++ {
		c := w.Line[i].Commit.Clone()
		if i == cut {
			c.UpdateRefs = removeString(c.UpdateRefs, name)
		}
		commits = append(commits, c)
	}
	w.Line = append([]IntegrationEntry(nil), w.Line[cut+1:]...)

	section := &BranchSection{
		ResetTarget: OntoLabel,
		Commits:     commits,
		Label:       name,
		BranchNames: []string{name},
	}
	w.Sections = append(w.Sections, section)
	w.Line = append(w.Line, MergeEntry("", name))
	return nil
}

func removeString(in []string, s string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

// ReassignBranch swaps the section label and Merge reference from drop
// to keep and removes drop from BranchNames. Used when dropping a
// co-located branch that shares a tip with a sibling (§4.2
// reassign_branch).
func (w *Weave) ReassignBranch(drop, keep string) error {
	s := w.SectionByBranch(drop)
	if s == nil {
		return loomerr.NewBranchNotWoven(drop)
	}
	if !s.hasBranch(keep) {
		return loomerr.NewBranchNotWoven(keep)
	}
	s.BranchNames = removeString(s.BranchNames, drop)
	if s.Label == drop {
		oldLabel := s.Label
		s.Label = keep
		for _, other := range w.Sections {
			if other.ResetTarget == oldLabel {
				other.ResetTarget = keep
			}
		}
		for i, e := range w.Line {
			if e.Kind == EntryMerge && e.Label == oldLabel {
				w.Line[i].Label = keep
			}
		}
	}
	return nil
}

// AddBranchSection inserts a new section in dependency order (§4.2
// add_branch_section). Dependency order requires reset is "onto" or
// an already-present section's label.
func (w *Weave) AddBranchSection(label string, names []string, commits []CommitEntry, reset string) error {
	if w.SectionByLabel(label) != nil {
		return loomerr.NewDuplicateBranch(label)
	}
	if reset != OntoLabel && w.SectionByLabel(reset) == nil {
		return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("reset target %q does not exist", reset))
	}
	w.Sections = append(w.Sections, &BranchSection{
		ResetTarget: reset,
		Commits:     commits,
		Label:       label,
		BranchNames: names,
	})
	return nil
}

// AddMerge inserts a Merge entry at position (append to the tail when
// position < 0 or position >= len(Line)) (§4.2 add_merge).
func (w *Weave) AddMerge(label string, originalOID OID, position int) error {
	if w.SectionByLabel(label) == nil {
		return loomerr.NewBuilderInvariantViolation(fmt.Sprintf("add_merge: unknown section %q", label))
	}
	entry := MergeEntry(originalOID, label)
	if position < 0 || position >= len(w.Line) {
		w.Line = append(w.Line, entry)
		return nil
	}
	w.Line = append(w.Line[:position:position], append([]IntegrationEntry{entry}, w.Line[position:]...)...)
	return nil
}
