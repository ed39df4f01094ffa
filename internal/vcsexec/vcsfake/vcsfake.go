// Package vcsfake is an in-memory implementation of topology.Query and
// resolve.Query, used to unit-test the topology builder without
// spawning a real git process.
package vcsfake

import (
	"context"
	"fmt"
	"sort"

	"github.com/git-loom/loom/internal/loomerr"
	"github.com/git-loom/loom/internal/topology"
	"github.com/git-loom/loom/internal/weave"
)

// Commit is a fake commit record.
type Commit struct {
	OID     weave.OID
	Abbrev  string
	Subject string
	Parents []weave.OID
	// ChangedFiles lists the paths this commit touched, for
	// ChangedFileCount.
	ChangedFiles []string
}

// Repo is a hand-built fake repository graph.
type Repo struct {
	Commits       map[weave.OID]Commit
	Branches      map[string]weave.OID
	Upstreams     map[string]string
	Current       string
	Bare          bool
	Detached      bool
	HeadOID       weave.OID
	WorkingChange map[string]bool
}

// New returns an empty fake repo.
func New() *Repo {
	return &Repo{
		Commits:       map[weave.OID]Commit{},
		Branches:      map[string]weave.OID{},
		Upstreams:     map[string]string{},
		WorkingChange: map[string]bool{},
	}
}

// AddCommit registers a commit in the graph.
func (r *Repo) AddCommit(c Commit) {
	r.Commits[c.OID] = c
}

// SetBranch points a branch at oid.
func (r *Repo) SetBranch(name string, oid weave.OID) {
	r.Branches[name] = oid
}

func (r *Repo) IsBare(ctx context.Context) (bool, error) { return r.Bare, nil }

func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	if r.Detached {
		return "", loomerr.NewDetachedHead(string(r.HeadOID))
	}
	return r.Current, nil
}

func (r *Repo) Upstream(ctx context.Context, branch string) (string, bool, error) {
	u, ok := r.Upstreams[branch]
	return u, ok, nil
}

func (r *Repo) MergeBase(ctx context.Context, a, b string) (weave.OID, error) {
	ao, err := r.Resolve(ctx, a)
	if err != nil {
		return "", err
	}
	bo, err := r.Resolve(ctx, b)
	if err != nil {
		return "", err
	}
	ancestorsA := r.ancestors(ao)
	cur := bo
	for {
		if ancestorsA[cur] {
			return cur, nil
		}
		c, ok := r.Commits[cur]
		if !ok || len(c.Parents) == 0 {
			return "", fmt.Errorf("no common ancestor between %s and %s", a, b)
		}
		cur = c.Parents[0]
	}
}

func (r *Repo) ancestors(oid weave.OID) map[weave.OID]bool {
	seen := map[weave.OID]bool{}
	var walk func(weave.OID)
	walk = func(o weave.OID) {
		if o == "" || seen[o] {
			return
		}
		seen[o] = true
		if c, ok := r.Commits[o]; ok {
			for _, p := range c.Parents {
				walk(p)
			}
		}
	}
	walk(oid)
	return seen
}

func (r *Repo) Resolve(ctx context.Context, rev string) (weave.OID, error) {
	if rev == "HEAD" {
		if r.HeadOID != "" {
			return r.HeadOID, nil
		}
		if oid, ok := r.Branches[r.Current]; ok {
			return oid, nil
		}
		return "", fmt.Errorf("HEAD unresolved")
	}
	if oid, ok := r.Branches[rev]; ok {
		return oid, nil
	}
	if _, ok := r.Commits[weave.OID(rev)]; ok {
		return weave.OID(rev), nil
	}
	return "", fmt.Errorf("unknown revision %q", rev)
}

func (r *Repo) ResolveRevision(ctx context.Context, token string) (weave.OID, bool, error) {
	oid, err := r.Resolve(ctx, token)
	if err != nil {
		return "", false, nil
	}
	return oid, true, nil
}

func (r *Repo) CommitInfo(ctx context.Context, oid weave.OID) (topology.CommitInfo, error) {
	c, ok := r.Commits[oid]
	if !ok {
		return topology.CommitInfo{}, fmt.Errorf("unknown commit %s", oid)
	}
	return topology.CommitInfo{OID: c.OID, Abbrev: c.Abbrev, Subject: c.Subject, Parents: c.Parents}, nil
}

func (r *Repo) BranchesAt(ctx context.Context, oid weave.OID) ([]string, error) {
	var names []string
	for name, tip := range r.Branches {
		if tip == oid {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (r *Repo) BranchExists(ctx context.Context, name string) bool {
	_, ok := r.Branches[name]
	return ok
}

func (r *Repo) ChangedFileCount(ctx context.Context, oid weave.OID) (int, error) {
	c, ok := r.Commits[oid]
	if !ok {
		return 0, fmt.Errorf("unknown commit %s", oid)
	}
	return len(c.ChangedFiles), nil
}

func (r *Repo) HasWorkingTreeChange(ctx context.Context, path string) (bool, error) {
	return r.WorkingChange[path], nil
}
