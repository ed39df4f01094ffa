package topology

import (
	"context"
	"sort"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/weave"
)

// Build constructs a Weave for the repository q queries, anchored at
// the merge-base between HEAD and the current branch's configured
// upstream (§4.1). It fails with loomerr.NoUpstream or
// loomerr.DetachedHead when the preconditions for an integration Weave
// are not met; callers that only need a single-commit reword fall back
// to BuildLinear instead.
func Build(ctx context.Context, q Query) (*weave.Weave, error) {
	bare, err := q.IsBare(ctx)
	if err != nil {
		return nil, err
	}
	if bare {
		return nil, loomerr.NewBareRepo("")
	}

	current, err := q.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}

	upstream, ok, err := q.Upstream(ctx, current)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, loomerr.NewNoUpstream(current)
	}

	head, err := q.Resolve(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	base, err := q.MergeBase(ctx, string(head), upstream)
	if err != nil {
		return nil, err
	}

	chain, err := firstParentChain(ctx, q, head, base)
	if err != nil {
		return nil, err
	}

	w := weave.New(base)
	b := &builder{ctx: ctx, q: q, w: w, currentBranch: current}
	return w, b.run(chain)
}

// builder holds the mutable bookkeeping used while walking the chain.
type builder struct {
	ctx           context.Context
	q             Query
	w             *weave.Weave
	currentBranch string

	// sectionOwner maps a commit OID collected into some already-built
	// section to that section's label, used to detect stacked
	// branches: a side branch whose walk lands on a commit already
	// owned by an earlier section forks from that section, not onto.
	sectionOwner map[weave.OID]string
	// onLine marks every commit that sits on the first-parent chain,
	// used as an additional stop condition for side-branch walks that
	// rejoin the mainline below a later merge.
	onLine map[weave.OID]bool
}

func (b *builder) run(chain []CommitInfo) error {
	b.sectionOwner = map[weave.OID]string{}
	b.onLine = map[weave.OID]bool{}
	for _, c := range chain {
		b.onLine[c.OID] = true
	}

	for _, c := range chain {
		if len(c.Parents) >= 2 {
			if err := b.weaveMerge(c); err != nil {
				return err
			}
			continue
		}
		refs, err := b.nonWovenRefs(c.OID)
		if err != nil {
			return err
		}
		entry := weave.CommitEntry{
			OID:              c.OID,
			AbbrevHash:       c.Abbrev,
			MessageFirstLine: c.Subject,
			Command:          weave.Pick,
			UpdateRefs:       refs,
		}
		b.w.Line = append(b.w.Line, weave.PickEntry(entry))
	}
	return nil
}

// nonWovenRefs returns every local branch pointing at oid other than
// the branch currently checked out.
func (b *builder) nonWovenRefs(oid weave.OID) ([]string, error) {
	names, err := b.q.BranchesAt(b.ctx, oid)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, n := range names {
		if n != b.currentBranch {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out, nil
}

// weaveMerge handles a first-parent-chain commit with two parents: its
// second parent is the tip of a side branch folded into a new section.
func (b *builder) weaveMerge(merge CommitInfo) error {
	tip := merge.Parents[1]
	if tip == b.w.Base {
		// Empty side branch: not represented at all.
		return nil
	}

	commits, stop, err := b.walkSideBranch(tip)
	if err != nil {
		return err
	}
	if len(commits) == 0 {
		// The side branch contributed nothing new (e.g. a fast-forward
		// merge of an already-integrated tip); treat as empty.
		return nil
	}

	reset := weave.OntoLabel
	if owner, ok := b.sectionOwner[stop]; ok {
		reset = owner
	}

	branchNames, err := b.q.BranchesAt(b.ctx, tip)
	if err != nil {
		return err
	}
	sort.Strings(branchNames)
	label := syntheticLabel(merge, commits)
	if len(branchNames) > 0 {
		label = branchNames[0]
	} else {
		branchNames = []string{label}
	}

	section := &weave.BranchSection{
		ResetTarget: reset,
		Commits:     commits,
		Label:       label,
		BranchNames: branchNames,
	}
	b.w.Sections = append(b.w.Sections, section)
	for _, c := range commits {
		b.sectionOwner[c.OID] = label
	}

	b.w.Line = append(b.w.Line, weave.MergeEntry(merge.OID, label))
	return nil
}

// syntheticLabel names a side-branch section with no matching ref, so
// the invariant that BranchNames is non-empty still holds. This only
// fires for topology the tool itself never produces (a merge whose
// side branch ref was deleted after merging); the resulting label is
// not a real branch and its update-ref line will create one.
func syntheticLabel(merge CommitInfo, commits []weave.CommitEntry) string {
	tip := commits[len(commits)-1]
	return "detached-" + tip.AbbrevHash
}

// walkSideBranch follows first parents from tip until it reaches the
// base, a commit already owned by an earlier section, or a commit on
// the main first-parent chain, collecting non-merge commits
// oldest-first. It returns the stop commit (exclusive) for reset_target
// determination.
func (b *builder) walkSideBranch(tip weave.OID) ([]weave.CommitEntry, weave.OID, error) {
	var reversed []weave.CommitEntry
	cur := tip
	for {
		if cur == b.w.Base {
			break
		}
		if _, owned := b.sectionOwner[cur]; owned {
			break
		}
		if b.onLine[cur] {
			break
		}
		info, err := b.q.CommitInfo(b.ctx, cur)
		if err != nil {
			return nil, "", err
		}
		if len(info.Parents) < 2 {
			reversed = append(reversed, weave.CommitEntry{
				OID:              info.OID,
				AbbrevHash:       info.Abbrev,
				MessageFirstLine: info.Subject,
				Command:          weave.Pick,
			})
		}
		if len(info.Parents) == 0 {
			cur = ""
			break
		}
		cur = info.Parents[0]
	}
	commits := make([]weave.CommitEntry, len(reversed))
	for i, c := range reversed {
		commits[len(reversed)-1-i] = c
	}
	return commits, cur, nil
}

// firstParentChain walks HEAD following first parents down to (and
// excluding) base, returning the chain oldest-first.
func firstParentChain(ctx context.Context, q Query, head, base weave.OID) ([]CommitInfo, error) {
	var reversed []CommitInfo
	cur := head
	for cur != base {
		info, err := q.CommitInfo(ctx, cur)
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, info)
		if len(info.Parents) == 0 {
			break
		}
		cur = info.Parents[0]
	}
	out := make([]CommitInfo, len(reversed))
	for i, c := range reversed {
		out[len(reversed)-1-i] = c
	}
	return out, nil
}

// BuildLinear returns a degenerate, section-less Weave used by command
// families that must work without a configured upstream (§4.1
// "Non-integration fallback"): Sections is empty and Line is the list
// of Pick entries from root to HEAD.
func BuildLinear(ctx context.Context, q Query, root weave.OID) (*weave.Weave, error) {
	head, err := q.Resolve(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	w := weave.New(root)
	cur := head
	var reversed []weave.IntegrationEntry
	for cur != root && cur != "" {
		info, err := q.CommitInfo(ctx, cur)
		if err != nil {
			return nil, err
		}
		reversed = append(reversed, weave.PickEntry(weave.CommitEntry{
			OID:              info.OID,
			AbbrevHash:       info.Abbrev,
			MessageFirstLine: info.Subject,
			Command:          weave.Pick,
		}))
		if len(info.Parents) == 0 {
			break
		}
		cur = info.Parents[0]
	}
	w.Line = make([]weave.IntegrationEntry, len(reversed))
	for i, e := range reversed {
		w.Line[len(reversed)-1-i] = e
	}
	return w, nil
}
