package editflow

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
	"github.com/eclipse-che4z/endevor-bridge/core/schema/v1/session"
)

// OpenForEdit retrieves an element into a fresh working file and returns
// the working-copy locator that carries the whole session from here on.
// With SignOutOnEdit the reservation is acquired first; a contended
// reservation goes through the signout coordinator before the retrieve
// is retried once.
func (o *Orchestrator) OpenForEdit(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, searchContext endevor.SearchContext, changeControl endevor.ChangeControlValue) (locator.Locator, error) {
	locators, err := o.OpenForEditAll(ctx, progress, connection, []endevor.ElementIdentity{identity}, searchContext, changeControl)
	if err != nil {
		return "", err
	}
	return locators[0], nil
}

// OpenForEditAll opens several elements sequentially. When automatic
// signout happens as part of the retrieve, a single ownership action is
// dispatched for the whole batch; recovery through the coordinator
// dispatches per element as it happens. The first failure stops the
// batch; already opened elements stay open.
func (o *Orchestrator) OpenForEditAll(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identities []endevor.ElementIdentity, searchContext endevor.SearchContext, changeControl endevor.ChangeControlValue) ([]locator.Locator, error) {
	ref := refOf(searchContext)
	locators := make([]locator.Locator, 0, len(identities))
	autoSignedOut := make([]endevor.ElementIdentity, 0, len(identities))
	for _, identity := range identities {
		encoded, signedOut, err := o.openOne(ctx, progress, connection, identity, searchContext, changeControl, ref)
		if err != nil {
			if len(autoSignedOut) > 0 {
				o.Dispatch.Send(actions.ElementSignedOut{Ref: ref, Elements: autoSignedOut})
			}
			return nil, err
		}
		if signedOut {
			autoSignedOut = append(autoSignedOut, identity)
		}
		locators = append(locators, encoded)
	}
	if len(autoSignedOut) > 0 {
		o.Dispatch.Send(actions.ElementSignedOut{Ref: ref, Elements: autoSignedOut})
	}
	return locators, nil
}

func (o *Orchestrator) openOne(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, searchContext endevor.SearchContext, changeControl endevor.ChangeControlValue, ref actions.Ref) (locator.Locator, bool, error) {
	progress.Report(fmt.Sprintf("Retrieving element %s", identity.Name))

	var content endevor.ElementContent
	var err error
	signedOut := false
	if o.SignOutOnEdit {
		content, err = o.Gateway.RetrieveWithSignout(ctx, progress, connection, identity, endevor.SignOutParams{ChangeControlValue: changeControl})
		if errors.IsSignout(err) {
			if resolveErr := o.Signout.Resolve(ctx, progress, connection, identity, changeControl, ref); resolveErr != nil {
				return "", false, resolveErr
			}
			// Coordinator already dispatched the ownership change.
			content, err = o.Gateway.RetrieveWithSignout(ctx, progress, connection, identity, endevor.SignOutParams{ChangeControlValue: changeControl})
		} else if err == nil {
			signedOut = true
		}
	} else {
		content, err = o.Gateway.Retrieve(ctx, progress, connection, identity)
	}
	if err != nil {
		glog.Errorf("retrieve of element %s failed: %v", identity.Name, err)
		return "", false, errors.Wrap(err, errors.KindOf(err), identity.Name, fmt.Sprintf("unable to retrieve element %s: %v", identity.Name, err))
	}

	workingFile, err := o.Workspace.CreateWorkingFile(identity, content.Content)
	if err != nil {
		glog.Errorf("materialize working file for element %s failed: %v", identity.Name, err)
		return "", false, errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to materialize working file for element %s: %v", identity.Name, err))
	}
	encoded, err := locator.EncodeEdited(session.EditedElement{
		Element:       identity,
		Fingerprint:   content.Fingerprint,
		Connection:    connection,
		SearchContext: searchContext,
		WorkingFile:   workingFile,
	})
	if err != nil {
		glog.Errorf("encode session for element %s failed: %v", identity.Name, err)
		return "", false, errors.Wrap(err, errors.KindGeneric, identity.Name, fmt.Sprintf("unable to encode edit session for element %s: %v", identity.Name, err))
	}
	glog.V(1).Infof("element %s opened for edit at %s, fingerprint %s", identity.Name, workingFile, content.Fingerprint)
	return encoded, signedOut, nil
}
