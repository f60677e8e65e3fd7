package endevor

import "context"

// Progress receives coarse step descriptions while a gateway call runs.
// Implementations must tolerate being called from a single goroutine
// only; a nil-safe no-op is available via NopProgress.
type Progress func(message string)

// NopProgress discards progress reports.
func NopProgress(string) {}

// Report forwards to the progress callback when one is set.
func (p Progress) Report(message string) {
	if p != nil {
		p(message)
	}
}

// Gateway is the remote element service boundary. All calls are
// synchronous from the caller's perspective and settle exactly once.
// Mutating calls report reservation contention as a signout-kind error
// and stale tokens as a fingerprint-mismatch-kind error; the two are
// mutually exclusive per call. Update is atomic: it either fully applies
// with a fresh fingerprint or fails with no remote state change.
type Gateway interface {
	Retrieve(ctx context.Context, progress Progress, connection ConnectionDetails, identity ElementIdentity) (ElementContent, error)
	RetrieveWithSignout(ctx context.Context, progress Progress, connection ConnectionDetails, identity ElementIdentity, signOut SignOutParams) (ElementContent, error)
	Update(ctx context.Context, progress Progress, connection ConnectionDetails, target ElementMapPath, changeControl ChangeControlValue, content ElementContent) (UpdateResult, error)
	SignOut(ctx context.Context, progress Progress, connection ConnectionDetails, identity ElementIdentity, signOut SignOutParams) error
	SignIn(ctx context.Context, progress Progress, connection ConnectionDetails, identity ElementIdentity) error
	Generate(ctx context.Context, progress Progress, connection ConnectionDetails, identity ElementIdentity, changeControl ChangeControlValue, options GenerateOptions) error
	RetrieveListing(ctx context.Context, progress Progress, connection ConnectionDetails, identity ElementIdentity) (string, error)
}
