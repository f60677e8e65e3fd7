// Package workspace is the boundary to the host editor and the local
// file system: working files, counterpart files, diff views, and editor
// state. The protocol owns no files beyond what a session's locator
// names.
package workspace

import (
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

// Workspace is consumed by the edit/upload protocol. Each session's
// files are created with session-unique names; two sessions never share
// a path.
type Workspace interface {
	// CreateWorkingFile materializes retrieved content into a fresh
	// working file and returns its path.
	CreateWorkingFile(element endevor.ElementIdentity, content string) (string, error)

	// CreateCounterpartFile persists the remote version of an element
	// next to its working file, named so it cannot collide with it.
	CreateCounterpartFile(workingFile string, content string) (string, error)

	// ReadFile returns the current bytes of a session file. Callers must
	// re-read after every suspension point instead of caching content.
	ReadFile(path string) (string, error)

	// DeleteFile removes a session file. A file that is already gone is
	// not an error; discard relies on that.
	DeleteFile(path string) error

	// SaveIfDirty flushes unsaved editor state for path to disk.
	SaveIfDirty(path string) error

	// EditorOpen reports whether the host still has a view bound to
	// path. The protocol must not assume a view survives an await.
	EditorOpen(path string) bool

	// OpenDiff shows the remote file read-only beside a writable view
	// addressed by the comparison locator.
	OpenDiff(remoteFile string, writable locator.Locator, workingFile string) error

	// CloseViews closes any editor views bound to the given paths.
	CloseViews(paths ...string) error
}
