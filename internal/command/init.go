package command

import (
	"context"

	"github.com/git-loom/loom/internal/loomerr"
)

// InitOptions mirrors §6's `init [name]`.
type InitOptions struct {
	Name string
}

// Init auto-detects an upstream (current branch's configured upstream,
// else the user config's fallback branch list tested against
// configured remotes in order, else an interactive prompt) and creates
// a new integration branch tracking it, then switches to it — a single
// atomic VCS operation (§4.7 "init").
func Init(ctx context.Context, env *Env, opts InitOptions) error {
	name := opts.Name
	if name == "" {
		name = "integration"
	}
	if env.Repo.BranchExists(ctx, name) {
		return loomerr.NewDuplicateBranch(name)
	}
	if reason, ok := invalidBranchName(name); ok {
		return loomerr.NewInvalidName(name, reason)
	}

	upstream, err := detectUpstream(ctx, env)
	if err != nil {
		return err
	}

	return env.Repo.CreateTrackingBranch(ctx, name, upstream)
}

// detectUpstream implements the Config precedence SPEC_FULL.md adds
// for init: current branch's configured upstream first, then the
// fallback branch list tested against configured remotes, then a
// Prompter fallback.
func detectUpstream(ctx context.Context, env *Env) (string, error) {
	if current, err := env.Repo.CurrentBranch(ctx); err == nil {
		if up, ok, err := env.Repo.Upstream(ctx, current); err == nil && ok {
			return up, nil
		}
	}

	remotes, err := env.Repo.Remotes(ctx)
	if err != nil {
		return "", err
	}
	candidates, err := loadFallbackBranches()
	if err != nil {
		return "", err
	}
	for _, remote := range remotes {
		for _, branch := range candidates {
			ref := remote + "/" + branch
			if _, ok, err := env.Repo.ResolveRevision(ctx, ref); err == nil && ok {
				return ref, nil
			}
		}
	}

	if env.Prompter == nil {
		return "", loomerr.NewNoUpstream("")
	}
	choice, err := env.Prompter.Choose("select upstream branch", candidates)
	if err != nil {
		return "", err
	}
	return choice, nil
}

// invalidBranchName applies the validation rules SPEC_FULL.md's
// SUPPLEMENTED FEATURES section makes concrete for branch/init: non-
// empty after trim, no whitespace, no leading '-', not "onto" or "zz".
func invalidBranchName(name string) (string, bool) {
	trimmed := trimSpace(name)
	if trimmed == "" {
		return "name is empty", true
	}
	if trimmed != name {
		return "name has leading or trailing whitespace", true
	}
	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' {
			return "name contains whitespace", true
		}
	}
	if name[0] == '-' {
		return "name starts with '-'", true
	}
	if name == "onto" {
		return "name is reserved ('onto')", true
	}
	if name == "zz" {
		return "name is reserved ('zz')", true
	}
	return "", false
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
