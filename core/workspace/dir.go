package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/fsx"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

const defaultExtension = "txt"

// DirWorkspace keeps session files under a single directory. It serves
// hosts without their own document model: files on disk are the
// documents, so SaveIfDirty is satisfied by construction and EditorOpen
// means the file still exists. Diff views are delegated to an optional
// hook.
type DirWorkspace struct {
	root string

	// ShowDiff is invoked by OpenDiff when set. Without it OpenDiff only
	// verifies that both sides exist.
	ShowDiff func(remoteFile string, writable locator.Locator, workingFile string) error
}

// NewDirWorkspace ensures root exists and returns a workspace rooted
// there.
func NewDirWorkspace(root string) (*DirWorkspace, error) {
	trimmed := strings.TrimSpace(root)
	if trimmed == "" {
		return nil, fmt.Errorf("workspace root is required")
	}
	if err := os.MkdirAll(trimmed, 0o750); err != nil {
		return nil, fmt.Errorf("create workspace root: %w", err)
	}
	return &DirWorkspace{root: trimmed}, nil
}

// Root returns the directory session files live under.
func (w *DirWorkspace) Root() string {
	return w.root
}

func (w *DirWorkspace) CreateWorkingFile(element endevor.ElementIdentity, content string) (string, error) {
	extension := strings.ToLower(strings.TrimSpace(element.Extension))
	if extension == "" {
		extension = defaultExtension
	}
	name := fmt.Sprintf("%s-%s.%s", element.Name, ulid.Make().String(), extension)
	path := filepath.Join(w.root, name)
	if err := fsx.WriteFileAtomic(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("materialize working file for %s: %w", element.Name, err)
	}
	return path, nil
}

func (w *DirWorkspace) CreateCounterpartFile(workingFile string, content string) (string, error) {
	extension := filepath.Ext(workingFile)
	stem := strings.TrimSuffix(filepath.Base(workingFile), extension)
	name := fmt.Sprintf("%s-remote-%s%s", stem, ulid.Make().String(), extension)
	path := filepath.Join(filepath.Dir(workingFile), name)
	if err := fsx.WriteFileAtomic(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("materialize remote counterpart of %s: %w", filepath.Base(workingFile), err)
	}
	return path, nil
}

func (w *DirWorkspace) ReadFile(path string) (string, error) {
	// #nosec G304 -- paths come from session locators this process encoded.
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	return string(raw), nil
}

func (w *DirWorkspace) DeleteFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete session file: %w", err)
	}
	return nil
}

func (w *DirWorkspace) SaveIfDirty(string) error {
	return nil
}

func (w *DirWorkspace) EditorOpen(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (w *DirWorkspace) OpenDiff(remoteFile string, writable locator.Locator, workingFile string) error {
	for _, path := range []string{remoteFile, workingFile} {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("diff side missing: %w", err)
		}
	}
	if w.ShowDiff != nil {
		return w.ShowDiff(remoteFile, writable, workingFile)
	}
	return nil
}

func (w *DirWorkspace) CloseViews(...string) error {
	return nil
}
