package editflow

import (
	"github.com/golang/glog"

	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

// Discard tears down a session of any kind: views are closed and every
// temp file the locator names is removed best effort. Discard is
// idempotent and never fails on cleanup; the only reportable error is a
// locator that cannot be decoded at all.
func (o *Orchestrator) Discard(encoded locator.Locator) error {
	decoded, err := locator.Decode(encoded)
	if err != nil {
		return err
	}
	switch {
	case decoded.Edited != nil:
		o.discardFiles(decoded.Edited.Element.Name, decoded.Edited.WorkingFile)
	case decoded.Compared != nil:
		o.discardFiles(decoded.Compared.Element.Name, decoded.Compared.WorkingFile, decoded.Compared.RemoteFile)
	}
	return nil
}

func (o *Orchestrator) discardFiles(name string, paths ...string) {
	if err := o.Workspace.SaveIfDirty(paths[0]); err != nil {
		glog.V(2).Infof("flush before discard of element %s: %v", name, err)
	}
	o.cleanupSessionFiles(name, paths...)
	glog.V(1).Infof("session of element %s discarded", name)
}
