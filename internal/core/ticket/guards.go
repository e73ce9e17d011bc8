package ticket

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// SaveContext provides context for the save guard.
type SaveContext struct {
	// ExpectedVersion is the content version the editor loaded.
	// Empty means the caller accepts last-writer-wins.
	ExpectedVersion string
	// CurrentVersion is the version of the table as stored now.
	CurrentVersion string
}

// CanSave evaluates whether edits may be written.
// Rules:
// - With no expected version, always allowed
// - Otherwise the stored table must still be the version the editor loaded
func CanSave(ctx SaveContext) GuardResult {
	if ctx.ExpectedVersion == "" {
		return GuardResult{Allowed: true}
	}

	if ctx.ExpectedVersion != ctx.CurrentVersion {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("table changed since you loaded it (version %s, you loaded %s). Reload and reapply your edits", ctx.CurrentVersion, ctx.ExpectedVersion),
		}
	}

	return GuardResult{Allowed: true}
}

// FacetContext provides context for facet column validation.
type FacetContext struct {
	Column string
}

// CanAggregate evaluates whether a column is one of the reported facets.
func CanAggregate(ctx FacetContext) GuardResult {
	switch ctx.Column {
	case ColumnStatus, ColumnModule, ColumnOrder:
		return GuardResult{Allowed: true}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("unknown facet %q (expected %s, %s or %s)", ctx.Column, ColumnStatus, ColumnModule, ColumnOrder),
	}
}
