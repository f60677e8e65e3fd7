package conflict

import (
	"context"
	"strings"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
	"github.com/eclipse-che4z/endevor-bridge/core/schema/v1/session"
	"github.com/eclipse-che4z/endevor-bridge/core/workspace"
	"github.com/eclipse-che4z/endevor-bridge/internal/testutil"
)

func editedSession(t *testing.T, ws *workspace.DirWorkspace) session.EditedElement {
	t.Helper()
	workingFile, err := ws.CreateWorkingFile(testutil.Identity(), "local edit")
	if err != nil {
		t.Fatalf("create working file: %v", err)
	}
	return session.EditedElement{
		Element:       testutil.Identity(),
		Fingerprint:   "f1",
		Connection:    testutil.Connection(),
		SearchContext: testutil.SearchContext(),
		WorkingFile:   workingFile,
	}
}

func TestResolveOpensDiffWithFreshFingerprint(t *testing.T) {
	ws, err := workspace.NewDirWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	edited := editedSession(t, ws)
	gateway := &testutil.FakeGateway{
		RetrieveQueue: []testutil.RetrieveOutcome{
			{Content: endevor.ElementContent{Content: "remote edit", Fingerprint: "f2"}},
		},
	}
	diffOpened := false
	ws.ShowDiff = func(remoteFile string, writable locator.Locator, workingFile string) error {
		diffOpened = true
		if workingFile != edited.WorkingFile {
			t.Fatalf("writable side must be the working copy, got %s", workingFile)
		}
		return nil
	}
	resolver := &Resolver{Gateway: gateway, Workspace: ws}

	target := testutil.Identity().ElementMapPath
	changeControl := endevor.ChangeControlValue{CCID: "CCID1", Comment: "edit"}
	mismatch := errors.FingerprintMismatch("ELM", "fingerprint is stale")

	encoded, err := resolver.Resolve(context.Background(), nil, edited, target, changeControl, mismatch)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !diffOpened {
		t.Fatal("expected a diff view")
	}
	if gateway.CountOp("retrieve") != 1 {
		t.Fatalf("expected one retrieve, got %v", gateway.Ops())
	}

	compared, err := locator.DecodeCompared(encoded)
	if err != nil {
		t.Fatalf("decode comparison locator: %v", err)
	}
	if compared.Fingerprint != "f2" {
		t.Fatalf("comparison session must carry the fresh fingerprint, got %s", compared.Fingerprint)
	}
	if compared.UploadTarget != target {
		t.Fatalf("pending target lost: %+v", compared.UploadTarget)
	}
	if compared.ChangeControl != changeControl {
		t.Fatalf("pending change control lost: %+v", compared.ChangeControl)
	}
	if compared.WorkingFile != edited.WorkingFile {
		t.Fatalf("working file path lost: %s", compared.WorkingFile)
	}
	if compared.RemoteFile == compared.WorkingFile {
		t.Fatal("remote counterpart must not collide with the working copy")
	}

	// The local working copy's bytes are never overwritten by resolution.
	local, err := ws.ReadFile(edited.WorkingFile)
	if err != nil {
		t.Fatalf("read working copy: %v", err)
	}
	if local != "local edit" {
		t.Fatalf("working copy changed: %q", local)
	}
	remote, err := ws.ReadFile(compared.RemoteFile)
	if err != nil {
		t.Fatalf("read counterpart: %v", err)
	}
	if remote != "remote edit" {
		t.Fatalf("unexpected counterpart content: %q", remote)
	}
}

func TestResolveFetchFailureKeepsMismatchAsProximateCause(t *testing.T) {
	ws, err := workspace.NewDirWorkspace(t.TempDir())
	if err != nil {
		t.Fatalf("new workspace: %v", err)
	}
	edited := editedSession(t, ws)
	gateway := &testutil.FakeGateway{
		RetrieveQueue: []testutil.RetrieveOutcome{
			{Err: errors.New(errors.KindGeneric, "ELM", "connection refused")},
		},
	}
	resolver := &Resolver{Gateway: gateway, Workspace: ws}

	mismatch := errors.FingerprintMismatch("ELM", "fingerprint is stale")
	_, err = resolver.Resolve(context.Background(), nil, edited, testutil.Identity().ElementMapPath, endevor.ChangeControlValue{}, mismatch)
	if err == nil {
		t.Fatal("expected error when remote fetch fails")
	}
	if errors.ElementOf(err) != "ELM" {
		t.Fatalf("error must name the element, got %q", errors.ElementOf(err))
	}
	if !strings.Contains(err.Error(), "fingerprint is stale") {
		t.Fatalf("original mismatch must stay reported: %v", err)
	}
}
