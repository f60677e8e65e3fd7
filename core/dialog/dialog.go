// Package dialog declares the user-consent surface the protocol needs.
// Implementations live at the edges: a terminal prompter in the CLI, the
// host editor's quick picks elsewhere, scripted fakes in tests.
package dialog

import "github.com/eclipse-che4z/endevor-bridge/core/endevor"

// SignOutDecision is the answer to a signout consent prompt.
// AutomaticSignOut asks the protocol to stop prompting and sign out
// automatically for future sessions.
type SignOutDecision struct {
	SignOutElements  bool
	AutomaticSignOut bool
}

// Dialog asks the user for the decisions the protocol cannot make on its
// own. Every call is a suspension point; callers must re-read any state
// they cached before asking.
type Dialog interface {
	// AskForChangeControlValue prompts for ccid/comment, prefilled from
	// the previous value. ok is false when the user cancelled.
	AskForChangeControlValue(prefill endevor.ChangeControlValue) (value endevor.ChangeControlValue, ok bool)

	// AskToSignOutElements asks consent to sign out the named elements.
	AskToSignOutElements(names []string) SignOutDecision

	// AskToOverrideSignOut asks consent to take over somebody else's
	// reservation for the named elements.
	AskToOverrideSignOut(names []string) bool

	// AskForUploadLocation prompts for an upload target, prefilled from
	// the originating search context. ok is false when none was chosen.
	AskForUploadLocation(prefill endevor.SearchLocation) (target endevor.ElementMapPath, ok bool)

	// AskToShowListing offers to show the processor listing for the
	// named elements after a generate.
	AskToShowListing(names []string) bool
}
