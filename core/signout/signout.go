// Package signout converts "write rejected: not signed out to you" into
// either a completed reservation or a definitive, user-visible refusal.
// The remote repository is the mutual-exclusion authority; this package
// only negotiates with it and with the user.
package signout

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/dialog"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
)

// Preferences carries the "always sign out automatically" switch the
// consent prompt can flip for future sessions. Accessed from a single
// goroutine, like the rest of the protocol.
type Preferences struct {
	automatic bool
}

func (p *Preferences) Automatic() bool {
	return p != nil && p.automatic
}

func (p *Preferences) SetAutomatic(value bool) {
	if p != nil {
		p.automatic = value
	}
}

// Coordinator drives the signout recovery state machine. Per resolve
// attempt there is exactly one plain signout call and at most one
// override call, gated on explicit user consent.
type Coordinator struct {
	Gateway     endevor.Gateway
	Dialog      dialog.Dialog
	Dispatch    actions.Dispatch
	Preferences *Preferences
}

// Resolve acquires the signout reservation for identity so the caller
// can retry the write that was rejected. On success an ownership-changed
// action has been dispatched before control returns. Every failure path
// names the element and wraps the proximate cause.
func (c *Coordinator) Resolve(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, changeControl endevor.ChangeControlValue, ref actions.Ref) error {
	if !c.Preferences.Automatic() {
		decision := c.Dialog.AskToSignOutElements([]string{identity.Name})
		if decision.AutomaticSignOut {
			c.Preferences.SetAutomatic(true)
		}
		if !decision.SignOutElements && !decision.AutomaticSignOut {
			glog.V(1).Infof("signout of element %s not selected by user", identity.Name)
			return errors.New(errors.KindGeneric, identity.Name, fmt.Sprintf("unable to sign out element %s: sign out not selected", identity.Name))
		}
	}

	progress.Report(fmt.Sprintf("Signing out element %s", identity.Name))
	err := c.Gateway.SignOut(ctx, progress, connection, identity, endevor.SignOutParams{ChangeControlValue: changeControl})
	if err == nil {
		c.dispatchSignedOut(ref, identity)
		return nil
	}
	if !errors.IsSignout(err) {
		glog.Errorf("sign out of element %s failed: %v", identity.Name, err)
		return errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to sign out element %s: %v", identity.Name, err))
	}

	// Somebody else holds the reservation. Overriding needs explicit
	// consent and is attempted at most once.
	if !c.Dialog.AskToOverrideSignOut([]string{identity.Name}) {
		glog.V(1).Infof("override signout of element %s declined by user", identity.Name)
		return errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("element %s is signed out to somebody else", identity.Name))
	}
	progress.Report(fmt.Sprintf("Overriding signout of element %s", identity.Name))
	overrideErr := c.Gateway.SignOut(ctx, progress, connection, identity, endevor.SignOutParams{
		ChangeControlValue: changeControl,
		OverrideSignOut:    true,
	})
	if overrideErr != nil {
		glog.Errorf("override sign out of element %s failed: %v", identity.Name, overrideErr)
		return errors.Wrap(overrideErr, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to override sign out of element %s: %v", identity.Name, overrideErr))
	}
	c.dispatchSignedOut(ref, identity)
	return nil
}

// BatchResult reports one batch signout run. Failures on some elements
// do not roll back successes on others.
type BatchResult struct {
	SignedOut []endevor.ElementIdentity
	Failed    []error
}

// Batch signs out several elements sequentially and dispatches a single
// aggregate ownership action only after every element was attempted.
func (c *Coordinator) Batch(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identities []endevor.ElementIdentity, changeControl endevor.ChangeControlValue, ref actions.Ref) BatchResult {
	result := BatchResult{}
	for _, identity := range identities {
		progress.Report(fmt.Sprintf("Signing out element %s", identity.Name))
		err := c.Gateway.SignOut(ctx, progress, connection, identity, endevor.SignOutParams{ChangeControlValue: changeControl})
		if err != nil {
			glog.Errorf("batch sign out of element %s failed: %v", identity.Name, err)
			result.Failed = append(result.Failed, errors.Wrap(err, errors.KindOf(err), identity.Name, fmt.Sprintf("unable to sign out element %s: %v", identity.Name, err)))
			continue
		}
		result.SignedOut = append(result.SignedOut, identity)
	}
	if len(result.SignedOut) > 0 {
		c.Dispatch.Send(actions.ElementSignedOut{Ref: ref, Elements: result.SignedOut})
	}
	return result
}

// SignIn releases the caller's reservation on identity.
func (c *Coordinator) SignIn(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, ref actions.Ref) error {
	progress.Report(fmt.Sprintf("Signing in element %s", identity.Name))
	if err := c.Gateway.SignIn(ctx, progress, connection, identity); err != nil {
		glog.Errorf("sign in of element %s failed: %v", identity.Name, err)
		return errors.Wrap(err, errors.KindOf(err), identity.Name, fmt.Sprintf("unable to sign in element %s: %v", identity.Name, err))
	}
	c.Dispatch.Send(actions.ElementSignedIn{Ref: ref, Element: identity})
	return nil
}

func (c *Coordinator) dispatchSignedOut(ref actions.Ref, identity endevor.ElementIdentity) {
	c.Dispatch.Send(actions.ElementSignedOut{Ref: ref, Elements: []endevor.ElementIdentity{identity}})
}
