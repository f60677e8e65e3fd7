package editflow

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
)

// GenerateOutcome reports a committed generate. A processor step that
// exceeded its acceptable return code is still a committed generate;
// MaxRcExceeded marks it and Listing carries the processor listing when
// the user asked to see it.
type GenerateOutcome struct {
	MaxRcExceeded bool
	Listing       string
}

// GenerateInPlace generates the element at its own location. There is no
// fingerprint in the generate path; contention follows the same
// signout-retry shape as upload.
func (o *Orchestrator) GenerateInPlace(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, searchContext endevor.SearchContext, changeControl endevor.ChangeControlValue) (GenerateOutcome, error) {
	return o.generate(ctx, progress, connection, identity, searchContext, changeControl, endevor.GenerateOptions{}, actions.ElementGeneratedInPlace{
		Ref:     refOf(searchContext),
		Element: identity,
	})
}

// GenerateWithCopyBack generates into the search location, copying the
// element back from where it was found up the map. With noSource the
// element body is not copied, only generated.
func (o *Orchestrator) GenerateWithCopyBack(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, searchContext endevor.SearchContext, changeControl endevor.ChangeControlValue, noSource bool) (GenerateOutcome, error) {
	treePath := searchContext.TreePath
	target := endevor.ElementIdentity{
		ElementMapPath: endevor.ElementMapPath{
			Configuration: treePath.Configuration,
			Environment:   treePath.Environment,
			System:        treePath.System,
			SubSystem:     treePath.SubSystem,
			StageNumber:   treePath.StageNumber,
			Type:          identity.Type,
			Name:          identity.Name,
		},
		Extension: identity.Extension,
	}
	return o.generate(ctx, progress, connection, identity, searchContext, changeControl, endevor.GenerateOptions{CopyBack: true, NoSource: noSource}, actions.ElementGeneratedWithCopyBack{
		Ref:        refOf(searchContext),
		Target:     target,
		CopiedFrom: identity,
		NoSource:   noSource,
	})
}

func (o *Orchestrator) generate(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, searchContext endevor.SearchContext, changeControl endevor.ChangeControlValue, options endevor.GenerateOptions, outcome actions.Action) (GenerateOutcome, error) {
	name := identity.Name
	progress.Report(fmt.Sprintf("Generating element %s", name))
	err := o.Gateway.Generate(ctx, progress, connection, identity, changeControl, options)
	if errors.IsSignout(err) {
		if resolveErr := o.Signout.Resolve(ctx, progress, connection, identity, changeControl, refOf(searchContext)); resolveErr != nil {
			return GenerateOutcome{}, resolveErr
		}
		progress.Report(fmt.Sprintf("Generating element %s after signout", name))
		err = o.Gateway.Generate(ctx, progress, connection, identity, changeControl, options)
	}

	maxRcExceeded := errors.IsProcessorStepMaxRc(err)
	if err != nil && !maxRcExceeded {
		glog.Errorf("generate of element %s failed: %v", name, err)
		return GenerateOutcome{}, errors.Wrap(err, errors.KindOf(err), name, fmt.Sprintf("unable to generate element %s: %v", name, err))
	}

	o.Dispatch.Send(outcome)
	result := GenerateOutcome{MaxRcExceeded: maxRcExceeded}
	if !maxRcExceeded {
		return result, nil
	}

	// The generate committed, but a processor step tripped its return
	// code ceiling; offer the listing so the user can see why.
	glog.V(1).Infof("generate of element %s exceeded processor step max rc: %v", name, err)
	if !o.Dialog.AskToShowListing([]string{name}) {
		return result, nil
	}
	listing, listingErr := o.Gateway.RetrieveListing(ctx, progress, connection, identity)
	if listingErr != nil {
		glog.Errorf("retrieve listing of element %s failed: %v", name, listingErr)
		return result, nil
	}
	result.Listing = listing
	return result, nil
}
