// Package actions defines the outcome notifications the protocol emits
// for the external state store. The store owns all downstream tree and
// UI refresh; the protocol only promises to dispatch exactly one outcome
// per committed operation.
package actions

import "github.com/eclipse-che4z/endevor-bridge/core/endevor"

// Type discriminates dispatched actions.
type Type string

const (
	TypeElementAdded                 Type = "element_added"
	TypeElementUpdatedInPlace        Type = "element_updated_in_place"
	TypeElementUpdatedFromUpTheMap   Type = "element_updated_from_up_the_map"
	TypeElementSignedOut             Type = "element_signed_out"
	TypeElementSignedIn              Type = "element_signed_in"
	TypeElementGeneratedInPlace      Type = "element_generated_in_place"
	TypeElementGeneratedWithCopyBack Type = "element_generated_with_copy_back"
)

// Action is any dispatched outcome notification.
type Action interface {
	Type() Type
}

// Ref identifies the store entries that own the affected elements.
// Connection and search location are referenced by id.
type Ref struct {
	ConnectionID     string
	SearchLocationID string
}

type ElementAdded struct {
	Ref     Ref
	Element endevor.ElementIdentity
}

func (ElementAdded) Type() Type { return TypeElementAdded }

type ElementUpdatedInPlace struct {
	Ref     Ref
	Element endevor.ElementIdentity
}

func (ElementUpdatedInPlace) Type() Type { return TypeElementUpdatedInPlace }

// ElementUpdatedFromUpTheMap reports a write that targeted a different,
// already existing map position than the one the element was found at.
type ElementUpdatedFromUpTheMap struct {
	Ref          Ref
	Target       endevor.ElementIdentity
	PathUpTheMap endevor.ElementIdentity
	TreePath     endevor.SubSystemMapPath
}

func (ElementUpdatedFromUpTheMap) Type() Type { return TypeElementUpdatedFromUpTheMap }

type ElementSignedOut struct {
	Ref      Ref
	Elements []endevor.ElementIdentity
}

func (ElementSignedOut) Type() Type { return TypeElementSignedOut }

type ElementSignedIn struct {
	Ref     Ref
	Element endevor.ElementIdentity
}

func (ElementSignedIn) Type() Type { return TypeElementSignedIn }

type ElementGeneratedInPlace struct {
	Ref     Ref
	Element endevor.ElementIdentity
}

func (ElementGeneratedInPlace) Type() Type { return TypeElementGeneratedInPlace }

type ElementGeneratedWithCopyBack struct {
	Ref        Ref
	Target     endevor.ElementIdentity
	CopiedFrom endevor.ElementIdentity
	NoSource   bool
}

func (ElementGeneratedWithCopyBack) Type() Type { return TypeElementGeneratedWithCopyBack }

// Dispatch delivers one action to the external store. Implementations
// must not block on UI work.
type Dispatch func(Action)

// Send forwards to the dispatcher when one is wired.
func (d Dispatch) Send(action Action) {
	if d != nil {
		d(action)
	}
}
