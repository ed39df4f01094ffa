// Package loomerr is the typed error taxonomy surfaced to the CLI
// front-end. Every kind is a distinct struct type with a matching
// IsXxx predicate, following the shape of modules/git/error.go in
// the codebase this tool borrows its conventions from: callers branch
// on predicates instead of matching error strings.
package loomerr

import "fmt"

// NotARepo is returned when the current directory is not inside a
// working copy of any repository.
type NotARepo struct{ Path string }

func (e *NotARepo) Error() string { return fmt.Sprintf("not a git repository: %s", e.Path) }

func NewNotARepo(path string) error { return &NotARepo{Path: path} }

func IsNotARepo(err error) bool {
	_, ok := err.(*NotARepo)
	return ok
}

// BareRepo is returned when the repository has no working tree.
type BareRepo struct{ GitDir string }

func (e *BareRepo) Error() string {
	return fmt.Sprintf("bare repository has no working tree: %s", e.GitDir)
}

func NewBareRepo(gitDir string) error { return &BareRepo{GitDir: gitDir} }

func IsBareRepo(err error) bool {
	_, ok := err.(*BareRepo)
	return ok
}

// DetachedHead is returned when HEAD does not point at a branch.
type DetachedHead struct{ OID string }

func (e *DetachedHead) Error() string { return fmt.Sprintf("HEAD is detached at %s", e.OID) }

func NewDetachedHead(oid string) error { return &DetachedHead{OID: oid} }

func IsDetachedHead(err error) bool {
	_, ok := err.(*DetachedHead)
	return ok
}

// NoUpstream is returned when the current branch has no configured
// upstream and the command requires one.
type NoUpstream struct{ Branch string }

func (e *NoUpstream) Error() string {
	return fmt.Sprintf("branch '%s' has no upstream configured", e.Branch)
}

func NewNoUpstream(branch string) error { return &NoUpstream{Branch: branch} }

func IsNoUpstream(err error) bool {
	_, ok := err.(*NoUpstream)
	return ok
}

// VCSVersionTooOld is returned when the host git binary predates the
// update-refs semantics this tool relies on (git >= 2.38).
type VCSVersionTooOld struct {
	Found    string
	Required string
}

func (e *VCSVersionTooOld) Error() string {
	return fmt.Sprintf("git %s is too old, %s or later is required", e.Found, e.Required)
}

func NewVCSVersionTooOld(found, required string) error {
	return &VCSVersionTooOld{Found: found, Required: required}
}

func IsVCSVersionTooOld(err error) bool {
	_, ok := err.(*VCSVersionTooOld)
	return ok
}

// UnresolvedTarget is returned when no resolver rule matches a token.
type UnresolvedTarget struct{ Token string }

func (e *UnresolvedTarget) Error() string {
	return fmt.Sprintf("unable to resolve '%s' to a commit, branch, or file", e.Token)
}

func NewUnresolvedTarget(token string) error { return &UnresolvedTarget{Token: token} }

func IsUnresolvedTarget(err error) bool {
	_, ok := err.(*UnresolvedTarget)
	return ok
}

// AmbiguousTarget is returned when a token matches more than one kind
// of entity and the resolver's precedence rules could not settle it.
type AmbiguousTarget struct {
	Token string
	Kinds []string
}

func (e *AmbiguousTarget) Error() string {
	return fmt.Sprintf("'%s' is ambiguous: matches %v", e.Token, e.Kinds)
}

func NewAmbiguousTarget(token string, kinds []string) error {
	return &AmbiguousTarget{Token: token, Kinds: kinds}
}

func IsAmbiguousTarget(err error) bool {
	_, ok := err.(*AmbiguousTarget)
	return ok
}

// InvalidName is returned when a proposed branch name fails validation.
type InvalidName struct {
	Name   string
	Reason string
}

func (e *InvalidName) Error() string {
	return fmt.Sprintf("invalid branch name '%s': %s", e.Name, e.Reason)
}

func NewInvalidName(name, reason string) error { return &InvalidName{Name: name, Reason: reason} }

func IsInvalidName(err error) bool {
	_, ok := err.(*InvalidName)
	return ok
}

// DuplicateBranch is returned when a branch name is already in use.
type DuplicateBranch struct{ Name string }

func (e *DuplicateBranch) Error() string { return fmt.Sprintf("branch '%s' already exists", e.Name) }

func NewDuplicateBranch(name string) error { return &DuplicateBranch{Name: name} }

func IsDuplicateBranch(err error) bool {
	_, ok := err.(*DuplicateBranch)
	return ok
}

// NotOnIntegration is returned when a command that must run from the
// integration branch is invoked elsewhere.
type NotOnIntegration struct{ Current string }

func (e *NotOnIntegration) Error() string {
	return fmt.Sprintf("'%s' is not the integration branch", e.Current)
}

func NewNotOnIntegration(current string) error { return &NotOnIntegration{Current: current} }

func IsNotOnIntegration(err error) bool {
	_, ok := err.(*NotOnIntegration)
	return ok
}

// BranchNotWoven is returned when an operation that requires a woven
// branch section is given a branch that has no section.
type BranchNotWoven struct{ Name string }

func (e *BranchNotWoven) Error() string { return fmt.Sprintf("branch '%s' is not woven", e.Name) }

func NewBranchNotWoven(name string) error { return &BranchNotWoven{Name: name} }

func IsBranchNotWoven(err error) bool {
	_, ok := err.(*BranchNotWoven)
	return ok
}

// NotInIntegrationRange is returned when a branch tip is not reachable
// between the merge-base and HEAD of the integration branch.
type NotInIntegrationRange struct{ Name string }

func (e *NotInIntegrationRange) Error() string {
	return fmt.Sprintf("'%s' is not in the integration range (base, HEAD]", e.Name)
}

func NewNotInIntegrationRange(name string) error { return &NotInIntegrationRange{Name: name} }

func IsNotInIntegrationRange(err error) bool {
	_, ok := err.(*NotInIntegrationRange)
	return ok
}

// NothingToCommit is returned when a commit command has no staged
// changes and no files to stage.
type NothingToCommit struct{}

func (e *NothingToCommit) Error() string { return "nothing to commit" }

func NewNothingToCommit() error { return &NothingToCommit{} }

func IsNothingToCommit(err error) bool {
	_, ok := err.(*NothingToCommit)
	return ok
}

// NothingToAbsorb is returned when absorb finds no tracked working
// tree modification that cleanly traces to a single in-scope commit.
type NothingToAbsorb struct{}

func (e *NothingToAbsorb) Error() string { return "nothing to absorb" }

func NewNothingToAbsorb() error { return &NothingToAbsorb{} }

func IsNothingToAbsorb(err error) bool {
	_, ok := err.(*NothingToAbsorb)
	return ok
}

// MergeNotSplittable is returned when split targets a merge commit.
type MergeNotSplittable struct{ OID string }

func (e *MergeNotSplittable) Error() string {
	return fmt.Sprintf("commit %s is a merge and cannot be split", e.OID)
}

func NewMergeNotSplittable(oid string) error { return &MergeNotSplittable{OID: oid} }

func IsMergeNotSplittable(err error) bool {
	_, ok := err.(*MergeNotSplittable)
	return ok
}

// SingleFileNotSplittable is returned when split targets a commit that
// changes fewer than two files.
type SingleFileNotSplittable struct{ OID string }

func (e *SingleFileNotSplittable) Error() string {
	return fmt.Sprintf("commit %s changes a single file and cannot be split", e.OID)
}

func NewSingleFileNotSplittable(oid string) error { return &SingleFileNotSplittable{OID: oid} }

func IsSingleFileNotSplittable(err error) bool {
	_, ok := err.(*SingleFileNotSplittable)
	return ok
}

// RebaseConflict carries the captured stderr of a rebase that stopped
// on a merge conflict. The user resolves it and re-runs the command;
// the engine does not attempt automatic resolution.
type RebaseConflict struct{ Captured string }

func (e *RebaseConflict) Error() string {
	return fmt.Sprintf("rebase stopped on a conflict:\n%s", e.Captured)
}

func NewRebaseConflict(captured string) error { return &RebaseConflict{Captured: captured} }

func IsRebaseConflict(err error) bool {
	_, ok := err.(*RebaseConflict)
	return ok
}

// RebaseFailed carries the captured stderr of a rebase that failed for
// a reason other than a conflict.
type RebaseFailed struct{ Captured string }

func (e *RebaseFailed) Error() string {
	return fmt.Sprintf("rebase failed:\n%s", e.Captured)
}

func NewRebaseFailed(captured string) error { return &RebaseFailed{Captured: captured} }

func IsRebaseFailed(err error) bool {
	_, ok := err.(*RebaseFailed)
	return ok
}

// WorkingTreePreservationFailed is returned when the driver's abort
// path itself could not restore the working tree. Surfaced verbatim;
// there is no automatic remediation left to attempt.
type WorkingTreePreservationFailed struct{ Captured string }

func (e *WorkingTreePreservationFailed) Error() string {
	return fmt.Sprintf("failed to restore working tree after aborting rebase:\n%s", e.Captured)
}

func NewWorkingTreePreservationFailed(captured string) error {
	return &WorkingTreePreservationFailed{Captured: captured}
}

func IsWorkingTreePreservationFailed(err error) bool {
	_, ok := err.(*WorkingTreePreservationFailed)
	return ok
}

// BuilderInvariantViolation indicates a bug: a Weave mutation or the
// serializer observed a graph that violates one of the invariants in
// spec §3. It is programmer-visible, not user-actionable.
type BuilderInvariantViolation struct{ Detail string }

func (e *BuilderInvariantViolation) Error() string {
	return fmt.Sprintf("builder invariant violated: %s", e.Detail)
}

func NewBuilderInvariantViolation(detail string) error {
	return &BuilderInvariantViolation{Detail: detail}
}

func IsBuilderInvariantViolation(err error) bool {
	_, ok := err.(*BuilderInvariantViolation)
	return ok
}
