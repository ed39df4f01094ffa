package command

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/shortid"
	"github.com/git-loom/loom/internal/weave"
)

// AbsorbOptions mirrors §6's `absorb [-n] [files…]`.
type AbsorbOptions struct {
	Files  []string
	DryRun bool
}

// AbsorbPlan is one file's resolved fixup target, or the reason it was
// skipped.
type AbsorbPlan struct {
	Path    string
	Target  weave.OID
	Skipped string
}

// Absorb maps each changed tracked file to the single in-scope commit
// that introduced every line the working tree touches, then folds the
// files assigned to the same commit into one fixup commit per target
// and replays the Weave once (§4.7 "absorb"). A file is skipped when
// its touched lines trace to more than one commit, or to a commit
// outside merge-base..HEAD (a commit not present anywhere in the
// Weave, which by construction excludes merges too).
func Absorb(ctx context.Context, env *Env, opts AbsorbOptions) (*weave.Weave, []AbsorbPlan, error) {
	w, err := buildWeave(ctx, env)
	if err != nil {
		return nil, nil, err
	}

	paths, err := absorbCandidates(ctx, env, opts.Files)
	if err != nil {
		return w, nil, err
	}

	assignments := map[weave.OID][]string{}
	var plans []AbsorbPlan
	for _, path := range paths {
		oid, ok, err := absorbTarget(ctx, env, w, path)
		if err != nil {
			return w, nil, err
		}
		if !ok {
			plans = append(plans, AbsorbPlan{Path: path, Skipped: "no single in-scope commit introduced all touched lines"})
			continue
		}
		assignments[oid] = append(assignments[oid], path)
		plans = append(plans, AbsorbPlan{Path: path, Target: oid})
	}

	if len(assignments) == 0 {
		return w, plans, loomerr.NewNothingToAbsorb()
	}
	if opts.DryRun {
		return w, plans, nil
	}

	targets := make([]weave.OID, 0, len(assignments))
	for oid := range assignments {
		targets = append(targets, oid)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })

	for _, oid := range targets {
		if err := env.Repo.StagePaths(ctx, assignments[oid]); err != nil {
			return w, plans, err
		}
		tempOID, err := env.Repo.Commit(ctx, "loom: absorb fixup")
		if err != nil {
			return w, plans, err
		}
		if err := w.FixupCommit(weave.OID(tempOID), oid); err != nil {
			return w, plans, err
		}
	}
	return w, plans, executeWeave(ctx, env, w)
}

// RenderAbsorbPlan writes the dry-run/applied report in the style of
// "f1.txt -> C1" / "f2.txt - skipped (...)" to env.Out.
func RenderAbsorbPlan(env *Env, w *weave.Weave, plans []AbsorbPlan) {
	entities := entitiesForStatus(w)
	idx := map[weave.OID]int{}
	for i, e := range entities {
		if e.Kind == shortid.Commit {
			idx[weave.OID(e.Name)] = i
		}
	}
	alloc := shortid.New(entities)
	for _, p := range plans {
		if p.Skipped != "" {
			fmt.Fprintf(env.Out, "%s - skipped (%s)\n", p.Path, p.Skipped)
			continue
		}
		if i, ok := idx[p.Target]; ok {
			fmt.Fprintf(env.Out, "%s -> %s\n", p.Path, alloc.ID(i))
			continue
		}
		fmt.Fprintf(env.Out, "%s -> %s\n", p.Path, p.Target)
	}
}

// absorbCandidates returns the tracked, modified files absorb should
// consider: the caller's explicit list when given, otherwise every
// modified (not untracked) path from `git status --porcelain`.
func absorbCandidates(ctx context.Context, env *Env, given []string) ([]string, error) {
	if len(given) > 0 {
		return given, nil
	}
	lines, err := env.Repo.StatusPorcelain(ctx)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, line := range lines {
		if len(line) < 4 || strings.HasPrefix(line, "??") {
			continue
		}
		paths = append(paths, strings.TrimSpace(line[3:]))
	}
	return paths, nil
}

// absorbTarget resolves path's single introducing commit, or ok=false
// if the touched lines disagree, none exist, or the commit is not
// present in the Weave.
func absorbTarget(ctx context.Context, env *Env, w *weave.Weave, path string) (weave.OID, bool, error) {
	diff, err := env.Repo.DiffUnified(ctx, path)
	if err != nil {
		return "", false, err
	}
	touched := parseTouchedLines(diff)
	if len(touched) == 0 {
		return "", false, nil
	}

	blameOIDs, err := env.Repo.BlamePorcelain(ctx, path)
	if err != nil {
		return "", false, err
	}

	var found weave.OID
	for _, ln := range touched {
		if ln < 1 || ln > len(blameOIDs) {
			return "", false, nil
		}
		oid := weave.OID(blameOIDs[ln-1])
		if found == "" {
			found = oid
		} else if found != oid {
			return "", false, nil
		}
	}
	if found == "" {
		return "", false, nil
	}
	if _, _, _, ok := w.FindCommit(found); !ok {
		return "", false, nil
	}
	return found, true, nil
}

// parseTouchedLines extracts the HEAD-side line numbers a unified diff
// (with --unified=0, so hunks carry no untouched context) modifies.
// A pure insertion (old hunk count 0) anchors to no existing HEAD line
// and is conservatively treated as touching nothing, since there is no
// single line to attribute it to.
func parseTouchedLines(diff string) []int {
	var lines []int
	for _, raw := range strings.Split(diff, "\n") {
		if !strings.HasPrefix(raw, "@@ -") {
			continue
		}
		rest := raw[len("@@ -"):]
		end := strings.IndexByte(rest, ' ')
		if end < 0 {
			continue
		}
		start, count := parseHunkSpec(rest[:end])
		for i := 0; i < count; i++ {
			lines = append(lines, start+i)
		}
	}
	return lines
}

func parseHunkSpec(spec string) (int, int) {
	start, countStr, found := strings.Cut(spec, ",")
	n, err := strconv.Atoi(start)
	if err != nil {
		return 0, 0
	}
	if !found {
		return n, 1
	}
	count, err := strconv.Atoi(countStr)
	if err != nil {
		return n, 0
	}
	return n, count
}
