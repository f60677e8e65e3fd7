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

// UploadOutcome is the result of one upload entry. Either the write
// committed, or a conflict moved the session into a comparison view and
// the next write must come through ApplyComparison.
type UploadOutcome struct {
	Committed  bool
	Comparison locator.Locator
}

// Upload writes the working copy back to the remote repository. The
// change-control value is asked once per upload; the file's bytes are
// read only after all prompts settled, so nothing the user typed during
// a prompt is lost. A contended reservation is resolved through the
// signout coordinator and the update is re-attempted once with the same
// content and fingerprint; a stale fingerprint hands the session to the
// conflict resolver and returns without an outcome action.
func (o *Orchestrator) Upload(ctx context.Context, progress endevor.Progress, encoded locator.Locator) (UploadOutcome, error) {
	edited, err := locator.DecodeEdited(encoded)
	if err != nil {
		return UploadOutcome{}, err
	}
	name := edited.Element.Name

	if err := o.Workspace.SaveIfDirty(edited.WorkingFile); err != nil {
		glog.Errorf("save working file of element %s failed: %v", name, err)
		return UploadOutcome{}, errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to save working file of element %s: %v", name, err))
	}
	if !o.Workspace.EditorOpen(edited.WorkingFile) {
		return UploadOutcome{}, errors.New(errors.KindGeneric, name, fmt.Sprintf("working file of element %s is no longer open", name))
	}

	changeControl, ok := o.Dialog.AskForChangeControlValue(endevor.ChangeControlValue{})
	if !ok {
		return UploadOutcome{}, errors.New(errors.KindGeneric, name, fmt.Sprintf("upload of element %s cancelled: change control value not specified", name))
	}
	target, ok := o.chooseUploadTarget(edited)
	if !ok {
		return UploadOutcome{}, errors.New(errors.KindGeneric, name, fmt.Sprintf("upload of element %s cancelled: upload location not selected", name))
	}

	// Prompts are suspension points; re-check the editor and re-read the
	// bytes now instead of trusting anything read before them.
	if !o.Workspace.EditorOpen(edited.WorkingFile) {
		return UploadOutcome{}, errors.New(errors.KindGeneric, name, fmt.Sprintf("working file of element %s was closed during upload", name))
	}
	content, err := o.Workspace.ReadFile(edited.WorkingFile)
	if err != nil {
		glog.Errorf("read working file of element %s failed: %v", name, err)
		return UploadOutcome{}, errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to read working file of element %s: %v", name, err))
	}

	payload := endevor.ElementContent{Content: content, Fingerprint: edited.Fingerprint}
	result, err := o.updateWithSignoutRetry(ctx, progress, edited.Connection, edited.Element, target, changeControl, payload, refOf(edited.SearchContext))
	if errors.IsFingerprintMismatch(err) {
		comparison, resolveErr := o.Conflict.Resolve(ctx, progress, edited, target, changeControl, err)
		if resolveErr != nil {
			return UploadOutcome{}, resolveErr
		}
		return UploadOutcome{Comparison: comparison}, nil
	}
	if err != nil {
		return UploadOutcome{}, err
	}

	o.cleanupSessionFiles(name, edited.WorkingFile)
	o.dispatchCommitted(edited, target, result)
	return UploadOutcome{Committed: true}, nil
}

// chooseUploadTarget picks where the write goes. The element's own
// location is used unless the originating search pinned a different,
// fully specified map position; then the user picks, prefilled from the
// search context.
func (o *Orchestrator) chooseUploadTarget(edited session.EditedElement) (endevor.ElementMapPath, bool) {
	overall := edited.SearchContext.Overall
	if !fullySpecified(overall) {
		return edited.Element.ElementMapPath, true
	}
	pinned := endevor.ElementMapPath{
		Configuration: overall.Configuration,
		Environment:   overall.Environment,
		System:        overall.System,
		SubSystem:     overall.SubSystem,
		StageNumber:   overall.StageNumber,
		Type:          overall.Type,
		Name:          edited.Element.Name,
	}
	if endevor.SameLocation(pinned, edited.Element.ElementMapPath) {
		return edited.Element.ElementMapPath, true
	}
	return o.Dialog.AskForUploadLocation(overall)
}

func fullySpecified(overall endevor.SearchLocation) bool {
	return overall.Environment != "" &&
		overall.StageNumber != "" &&
		overall.System != "" &&
		overall.SubSystem != "" &&
		overall.Type != ""
}

// updateWithSignoutRetry performs the update call, resolving at most one
// signout rejection through the coordinator before re-attempting with
// the same content and fingerprint. Signout does not invalidate a
// fingerprint.
func (o *Orchestrator) updateWithSignoutRetry(ctx context.Context, progress endevor.Progress, connection endevor.ConnectionDetails, identity endevor.ElementIdentity, target endevor.ElementMapPath, changeControl endevor.ChangeControlValue, payload endevor.ElementContent, ref actions.Ref) (endevor.UpdateResult, error) {
	name := identity.Name
	progress.Report(fmt.Sprintf("Uploading element %s", name))
	result, err := o.Gateway.Update(ctx, progress, connection, target, changeControl, payload)
	if err == nil {
		return result, nil
	}
	if errors.IsFingerprintMismatch(err) {
		return endevor.UpdateResult{}, err
	}
	if !errors.IsSignout(err) {
		glog.Errorf("upload of element %s failed: %v", name, err)
		return endevor.UpdateResult{}, errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to upload element %s: %v", name, err))
	}

	if resolveErr := o.Signout.Resolve(ctx, progress, connection, identity, changeControl, ref); resolveErr != nil {
		return endevor.UpdateResult{}, resolveErr
	}
	progress.Report(fmt.Sprintf("Uploading element %s after signout", name))
	result, err = o.Gateway.Update(ctx, progress, connection, target, changeControl, payload)
	if err != nil {
		if errors.IsFingerprintMismatch(err) {
			return endevor.UpdateResult{}, err
		}
		glog.Errorf("upload of element %s after signout failed: %v", name, err)
		return endevor.UpdateResult{}, errors.Wrap(err, errors.KindOf(err), name, fmt.Sprintf("unable to upload element %s: %v", name, err))
	}
	return result, nil
}

// dispatchCommitted emits exactly one outcome action for a committed
// write, shaped by how the target relates to the element's original
// location.
func (o *Orchestrator) dispatchCommitted(edited session.EditedElement, target endevor.ElementMapPath, result endevor.UpdateResult) {
	ref := refOf(edited.SearchContext)
	switch {
	case endevor.SameLocation(target, edited.Element.ElementMapPath):
		o.Dispatch.Send(actions.ElementUpdatedInPlace{Ref: ref, Element: identityAt(target, edited.Element.Extension)})
	case result.Created:
		o.Dispatch.Send(actions.ElementAdded{Ref: ref, Element: identityAt(target, edited.Element.Extension)})
	default:
		o.Dispatch.Send(actions.ElementUpdatedFromUpTheMap{
			Ref:          ref,
			Target:       identityAt(target, edited.Element.Extension),
			PathUpTheMap: edited.Element,
			TreePath:     edited.SearchContext.TreePath,
		})
	}
}

// cleanupSessionFiles closes views and removes the named session files.
// Failures are traced, never raised; a committed upload must not fail on
// local cleanup.
func (o *Orchestrator) cleanupSessionFiles(name string, paths ...string) {
	if err := o.Workspace.CloseViews(paths...); err != nil {
		glog.V(2).Infof("close views for element %s: %v", name, err)
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := o.Workspace.DeleteFile(path); err != nil {
			glog.V(2).Infof("delete session file %s of element %s: %v", path, name, err)
		}
	}
}
