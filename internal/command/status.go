package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/git-loom/loom/internal/shortid"
	"github.com/git-loom/loom/internal/weave"
)

// StatusOptions mirrors §6's `status [-f|--files] [N]`.
type StatusOptions struct {
	Files bool
	Limit int
}

// SectionStatus classifies one section the way status (§4.7) reports
// it: woven (single branch_names entry), co-located (more than one),
// or empty (transient, dropped before serialization but still worth
// flagging to the user mid-edit).
type SectionStatus struct {
	Label       string
	BranchNames []string
	ShortIDs    []string
	CommitCount int
	CoLocated   bool
	Empty       bool
}

// Report is status's read-only rendering of the current Weave.
type Report struct {
	CurrentBranch string
	Base          weave.OID
	Sections      []SectionStatus
	NonWoven      []string // branch names on the integration line
	LineLength    int
}

// Status builds the topology, classifies sections, allocates short
// IDs, and returns a Report (§4.7 "status"). Read-only: it runs no
// rebase and mutates nothing.
func Status(ctx context.Context, env *Env, opts StatusOptions) (Report, error) {
	w, err := buildWeave(ctx, env)
	if err != nil {
		return Report{}, err
	}
	entities := entitiesForStatus(w)
	alloc := shortid.New(entities)

	idsForBranch := func(section *weave.BranchSection) []string {
		var ids []string
		for i, e := range entities {
			if e.Kind != shortid.Branch {
				continue
			}
			for _, n := range section.BranchNames {
				if e.Name == n {
					ids = append(ids, alloc.ID(i))
				}
			}
		}
		sort.Strings(ids)
		return ids
	}

	r := Report{Base: w.Base, LineLength: len(w.Line)}
	r.CurrentBranch, _ = env.Repo.CurrentBranch(ctx)

	for _, s := range w.Sections {
		r.Sections = append(r.Sections, SectionStatus{
			Label:       s.Label,
			BranchNames: append([]string(nil), s.BranchNames...),
			ShortIDs:    idsForBranch(s),
			CommitCount: len(s.Commits),
			CoLocated:   len(s.BranchNames) > 1,
			Empty:       len(s.Commits) == 0,
		})
	}
	for _, e := range w.Line {
		if e.Kind == weave.EntryPick {
			r.NonWoven = append(r.NonWoven, e.Commit.UpdateRefs...)
		}
	}
	return r, nil
}

// Render writes a human-readable rendering of Report to env.Out,
// honoring opts.Limit (0 means unlimited) the way §6's `status [N]`
// caps the number of sections shown.
func Render(env *Env, r Report, opts StatusOptions) {
	fmt.Fprintf(env.Out, "On branch %s\n", r.CurrentBranch)
	shown := 0
	for _, s := range r.Sections {
		if opts.Limit > 0 && shown >= opts.Limit {
			fmt.Fprintf(env.Out, "... %d more section(s)\n", len(r.Sections)-shown)
			break
		}
		tag := "woven"
		switch {
		case s.Empty:
			tag = "empty"
		case s.CoLocated:
			tag = "co-located"
		}
		fmt.Fprintf(env.Out, "  [%s] %s (%s) %d commit(s)\n", tag, s.Label, joinIDs(s.ShortIDs, s.BranchNames), s.CommitCount)
		shown++
	}
	if len(r.NonWoven) > 0 {
		fmt.Fprintf(env.Out, "non-woven: %v\n", r.NonWoven)
	}
}

func joinIDs(ids, names []string) string {
	if len(ids) == 0 {
		return fmt.Sprintf("%v", names)
	}
	out := ""
	for i, id := range ids {
		if i > 0 {
			out += ","
		}
		out += id
	}
	return out
}
