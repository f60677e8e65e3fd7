package testutil

import (
	"context"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
)

func TestFakeGatewayPopsQueuedOutcomesInOrder(t *testing.T) {
	gateway := &FakeGateway{
		UpdateQueue: []UpdateOutcome{
			{Err: errors.Signout("ELM", "signed out to somebody else")},
			{Result: endevor.UpdateResult{ReturnCode: 0}},
		},
	}
	_, err := gateway.Update(context.Background(), nil, Connection(), Identity().ElementMapPath, endevor.ChangeControlValue{}, endevor.ElementContent{})
	if !errors.IsSignout(err) {
		t.Fatalf("expected scripted signout error, got %v", err)
	}
	if _, err := gateway.Update(context.Background(), nil, Connection(), Identity().ElementMapPath, endevor.ChangeControlValue{}, endevor.ElementContent{}); err != nil {
		t.Fatalf("expected scripted success, got %v", err)
	}
	if got := gateway.CountOp("update"); got != 2 {
		t.Fatalf("expected 2 recorded update calls, got %d", got)
	}
}

func TestFakeGatewayExhaustedQueueReadsAsSuccess(t *testing.T) {
	gateway := &FakeGateway{}
	if err := gateway.SignOut(context.Background(), nil, Connection(), Identity(), endevor.SignOutParams{}); err != nil {
		t.Fatalf("expected default success, got %v", err)
	}
}

func TestActionRecorderOrdersAndCounts(t *testing.T) {
	recorder := &ActionRecorder{}
	dispatch := recorder.Dispatch()
	dispatch(actions.ElementSignedOut{})
	dispatch(actions.ElementUpdatedInPlace{})
	types := recorder.Types()
	if len(types) != 2 || types[0] != actions.TypeElementSignedOut || types[1] != actions.TypeElementUpdatedInPlace {
		t.Fatalf("unexpected recorded order: %v", types)
	}
	if recorder.CountType(actions.TypeElementSignedOut) != 1 {
		t.Fatal("expected one signed-out action")
	}
}

func TestScriptedDialogDefaultsToDecline(t *testing.T) {
	scripted := &ScriptedDialog{}
	decision := scripted.AskToSignOutElements([]string{"ELM"})
	if decision.SignOutElements || decision.AutomaticSignOut {
		t.Fatal("exhausted dialog queue must decline")
	}
	if scripted.AskToOverrideSignOut([]string{"ELM"}) {
		t.Fatal("exhausted dialog queue must decline override")
	}
	if scripted.PromptCount("signOut") != 1 || scripted.PromptCount("override") != 1 {
		t.Fatalf("unexpected prompt record: %v", scripted.Prompts)
	}
}
