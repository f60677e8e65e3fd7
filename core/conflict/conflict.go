// Package conflict converts a stale-fingerprint rejection into a
// user-mediated merge: the current remote version is fetched and shown
// beside the local working copy, and the pending upload state moves into
// a comparison locator. The write itself is not retried here; the next
// write for the session must come through the apply-comparison path.
package conflict

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
	"github.com/eclipse-che4z/endevor-bridge/core/schema/v1/session"
	"github.com/eclipse-che4z/endevor-bridge/core/workspace"
)

type Resolver struct {
	Gateway   endevor.Gateway
	Workspace workspace.Workspace
}

// Resolve fetches the remote version of the session's element, persists
// it as a counterpart file, and opens a diff view addressed by the
// returned comparison locator. The local working copy's bytes are never
// touched. target and changeControl are the pending upload state that
// was rejected; mismatch is the rejection itself and stays the proximate
// cause if the fetch fails.
func (r *Resolver) Resolve(ctx context.Context, progress endevor.Progress, edited session.EditedElement, target endevor.ElementMapPath, changeControl endevor.ChangeControlValue, mismatch error) (locator.Locator, error) {
	name := edited.Element.Name
	progress.Report(fmt.Sprintf("Fetching remote version of element %s", name))
	remote, err := r.Gateway.Retrieve(ctx, progress, edited.Connection, edited.Element)
	if err != nil {
		glog.Errorf("conflict resolution for element %s: fetch of remote version failed: %v", name, err)
		return "", errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to resolve conflict for element %s (%v): %v", name, mismatch, err))
	}

	remoteFile, err := r.Workspace.CreateCounterpartFile(edited.WorkingFile, remote.Content)
	if err != nil {
		glog.Errorf("conflict resolution for element %s: persist remote version failed: %v", name, err)
		return "", errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to persist remote version of element %s: %v", name, err))
	}

	compared := session.ComparedElement{
		EditedElement: edited,
		UploadTarget:  target,
		ChangeControl: changeControl,
		RemoteFile:    remoteFile,
	}
	// The write that resolves the conflict must carry the fingerprint of
	// the version the user is merging against, not the stale one.
	compared.Fingerprint = remote.Fingerprint

	encoded, err := locator.EncodeCompared(compared)
	if err != nil {
		glog.Errorf("conflict resolution for element %s: encode comparison session failed: %v", name, err)
		return "", errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to encode comparison session for element %s: %v", name, err))
	}
	if err := r.Workspace.OpenDiff(remoteFile, encoded, edited.WorkingFile); err != nil {
		glog.Errorf("conflict resolution for element %s: open diff failed: %v", name, err)
		return "", errors.Wrap(err, errors.KindGeneric, name, fmt.Sprintf("unable to open comparison view for element %s: %v", name, err))
	}
	glog.V(1).Infof("conflict for element %s handed to comparison view, remote fingerprint %s", name, remote.Fingerprint)
	return encoded, nil
}
