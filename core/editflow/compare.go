package editflow

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

// ApplyComparison commits the writable side of a comparison view. The
// upload target, change-control value, and fingerprint all come from
// the comparison locator; after a conflict they exist nowhere else. A
// contended reservation is resolved inline and the update re-attempted
// once; a second stale fingerprint opens a fresh comparison against the
// newest remote version.
func (o *Orchestrator) ApplyComparison(ctx context.Context, progress endevor.Progress, encoded locator.Locator) (UploadOutcome, error) {
	compared, err := locator.DecodeCompared(encoded)
	if err != nil {
		return UploadOutcome{}, err
	}
	name := compared.Element.Name

	if err := o.Workspace.SaveIfDirty(compared.WorkingFile); err != nil {
		glog.Errorf("save comparison result of element %s failed: %v", name, err)
		return UploadOutcome{}, errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to save comparison result of element %s: %v", name, err))
	}
	if !o.Workspace.EditorOpen(compared.WorkingFile) {
		return UploadOutcome{}, errors.New(errors.KindGeneric, name, fmt.Sprintf("comparison view of element %s is no longer open", name))
	}
	content, err := o.Workspace.ReadFile(compared.WorkingFile)
	if err != nil {
		glog.Errorf("read comparison result of element %s failed: %v", name, err)
		return UploadOutcome{}, errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to read comparison result of element %s: %v", name, err))
	}

	payload := endevor.ElementContent{Content: content, Fingerprint: compared.Fingerprint}
	result, err := o.updateWithSignoutRetry(ctx, progress, compared.Connection, compared.Element, compared.UploadTarget, compared.ChangeControl, payload, refOf(compared.SearchContext))
	if errors.IsFingerprintMismatch(err) {
		// The remote moved again while the user was merging. Open a new
		// comparison against the newest version; the stale counterpart
		// file is replaced.
		next, resolveErr := o.Conflict.Resolve(ctx, progress, compared.EditedElement, compared.UploadTarget, compared.ChangeControl, err)
		if resolveErr != nil {
			return UploadOutcome{}, resolveErr
		}
		o.cleanupSessionFiles(name, compared.RemoteFile)
		return UploadOutcome{Comparison: next}, nil
	}
	if err != nil {
		return UploadOutcome{}, err
	}

	o.cleanupSessionFiles(name, compared.WorkingFile, compared.RemoteFile)
	o.dispatchCommitted(compared.EditedElement, compared.UploadTarget, result)
	return UploadOutcome{Committed: true}, nil
}
