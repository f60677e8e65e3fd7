// Package editflow is the top-level state machine over the element edit
// lifecycle: open for edit, write back, resolve contention and
// conflicts, discard. It composes the signout coordinator and the
// conflict resolver and emits exactly one outcome action per committed
// operation.
package editflow

import (
	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/conflict"
	"github.com/eclipse-che4z/endevor-bridge/core/dialog"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/signout"
	"github.com/eclipse-che4z/endevor-bridge/core/workspace"
)

// Orchestrator wires the protocol's collaborators together. All methods
// run on a single goroutine; every gateway call and every dialog prompt
// is a suspension point after which editor and file state are re-read,
// never assumed.
type Orchestrator struct {
	Gateway   endevor.Gateway
	Workspace workspace.Workspace
	Dialog    dialog.Dialog
	Dispatch  actions.Dispatch
	Signout   *signout.Coordinator
	Conflict  *conflict.Resolver

	// SignOutOnEdit makes open-for-edit acquire the reservation up
	// front instead of waiting for the first rejected write.
	SignOutOnEdit bool
}

func refOf(searchContext endevor.SearchContext) actions.Ref {
	return actions.Ref{
		ConnectionID:     searchContext.ConnectionID,
		SearchLocationID: searchContext.SearchLocationID,
	}
}

func identityAt(target endevor.ElementMapPath, extension string) endevor.ElementIdentity {
	return endevor.ElementIdentity{ElementMapPath: target, Extension: extension}
}
