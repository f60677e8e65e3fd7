package editflow

import (
	"context"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/conflict"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
	"github.com/eclipse-che4z/endevor-bridge/core/signout"
	"github.com/eclipse-che4z/endevor-bridge/core/workspace"
	"github.com/eclipse-che4z/endevor-bridge/internal/testutil"
)

type harness struct {
	gateway      *testutil.FakeGateway
	dialog       *testutil.ScriptedDialog
	recorder     *testutil.ActionRecorder
	workspace    *workspace.DirWorkspace
	orchestrator *Orchestrator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ws, err := workspace.NewDirWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	gateway := &testutil.FakeGateway{}
	scripted := &testutil.ScriptedDialog{}
	recorder := &testutil.ActionRecorder{}
	dispatch := recorder.Dispatch()
	coordinator := &signout.Coordinator{
		Gateway:     gateway,
		Dialog:      scripted,
		Dispatch:    dispatch,
		Preferences: &signout.Preferences{},
	}
	return &harness{
		gateway:   gateway,
		dialog:    scripted,
		recorder:  recorder,
		workspace: ws,
		orchestrator: &Orchestrator{
			Gateway:   gateway,
			Workspace: ws,
			Dialog:    scripted,
			Dispatch:  dispatch,
			Signout:   coordinator,
			Conflict:  &conflict.Resolver{Gateway: gateway, Workspace: ws},
		},
	}
}

// open retrieves ELM with fingerprint f1 and returns its working-copy
// locator.
func (h *harness) open(t *testing.T) locator.Locator {
	t.Helper()
	h.gateway.RetrieveQueue = append(h.gateway.RetrieveQueue, testutil.RetrieveOutcome{
		Content: endevor.ElementContent{Content: "original content", Fingerprint: "f1"},
	})
	encoded, err := h.orchestrator.OpenForEdit(context.Background(), nil, testutil.Connection(), testutil.Identity(), testutil.SearchContext(), endevor.ChangeControlValue{})
	if err != nil {
		t.Fatalf("open for edit: %v", err)
	}
	return encoded
}

func (h *harness) edit(t *testing.T, encoded locator.Locator, content string) {
	t.Helper()
	edited, err := locator.DecodeEdited(encoded)
	if err != nil {
		t.Fatalf("decode working-copy locator: %v", err)
	}
	testutil.WriteFile(t, edited.WorkingFile, []byte(content))
}

func (h *harness) acceptChangeControl() {
	h.dialog.ChangeControlAnswers = append(h.dialog.ChangeControlAnswers, testutil.ChangeControlAnswer{
		Value: endevor.ChangeControlValue{CCID: "CCID1", Comment: "edit"},
		OK:    true,
	})
}
