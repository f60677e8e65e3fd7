package editflow

import (
	"context"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/dialog"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/errors"
	"github.com/eclipse-che4z/endevor-bridge/internal/testutil"
)

func testChangeControl() endevor.ChangeControlValue {
	return endevor.ChangeControlValue{CCID: "CCID1", Comment: "generate"}
}

func TestGenerateInPlaceDispatchesOutcome(t *testing.T) {
	h := newHarness(t)
	outcome, err := h.orchestrator.GenerateInPlace(context.Background(), nil, testutil.Connection(), testutil.Identity(), testutil.SearchContext(), testChangeControl())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if outcome.MaxRcExceeded {
		t.Fatal("clean generate must not report max rc")
	}
	if h.recorder.CountType(actions.TypeElementGeneratedInPlace) != 1 {
		t.Fatalf("expected one generated action, got %v", h.recorder.Types())
	}
	if h.dialog.PromptCount("showListing") != 0 {
		t.Fatal("clean generate must not offer the listing")
	}
}

// Scenario: a processor step exceeds its return code ceiling. The
// generate still committed: the outcome action is dispatched and the
// listing is offered.
func TestGenerateMaxRcStillCommitsAndOffersListing(t *testing.T) {
	h := newHarness(t)
	h.gateway.GenerateQueue = []error{errors.ProcessorStepMaxRc("ELM", "C1G0129E processor rc 12 exceeds 8")}
	h.dialog.ShowListingAnswers = []bool{true}
	h.gateway.ListingQueue = []testutil.ListingOutcome{{Listing: "IEF142I STEP WAS EXECUTED"}}

	outcome, err := h.orchestrator.GenerateInPlace(context.Background(), nil, testutil.Connection(), testutil.Identity(), testutil.SearchContext(), testChangeControl())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !outcome.MaxRcExceeded {
		t.Fatal("expected max rc marker")
	}
	if outcome.Listing == "" {
		t.Fatal("expected the processor listing")
	}
	if h.recorder.CountType(actions.TypeElementGeneratedInPlace) != 1 {
		t.Fatalf("expected one generated action, got %v", h.recorder.Types())
	}
	if h.dialog.PromptCount("showListing") != 1 {
		t.Fatalf("expected one listing offer, got %v", h.dialog.Prompts)
	}
}

func TestGenerateMaxRcDeclinedListingSkipsFetch(t *testing.T) {
	h := newHarness(t)
	h.gateway.GenerateQueue = []error{errors.ProcessorStepMaxRc("ELM", "C1G0129E")}
	h.dialog.ShowListingAnswers = []bool{false}

	outcome, err := h.orchestrator.GenerateInPlace(context.Background(), nil, testutil.Connection(), testutil.Identity(), testutil.SearchContext(), testChangeControl())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if outcome.Listing != "" {
		t.Fatal("declined listing must not be fetched")
	}
	if h.gateway.CountOp("retrieveListing") != 0 {
		t.Fatalf("no listing fetch expected, got %v", h.gateway.Ops())
	}
}

func TestGenerateUnexpectedErrorSuppressesOutcomeAndListing(t *testing.T) {
	h := newHarness(t)
	h.gateway.GenerateQueue = []error{errors.New(errors.KindGeneric, "ELM", "processor not found")}

	_, err := h.orchestrator.GenerateInPlace(context.Background(), nil, testutil.Connection(), testutil.Identity(), testutil.SearchContext(), testChangeControl())
	if err == nil {
		t.Fatal("expected generate failure")
	}
	if len(h.recorder.Actions) != 0 {
		t.Fatalf("no action expected, got %v", h.recorder.Types())
	}
	if h.dialog.PromptCount("showListing") != 0 {
		t.Fatal("failed generate must not offer the listing")
	}
}

func TestGenerateResolvesSignoutThenRetries(t *testing.T) {
	h := newHarness(t)
	h.gateway.GenerateQueue = []error{
		errors.Signout("ELM", "not signed out to you"),
		nil,
	}
	h.dialog.SignOutAnswers = []dialog.SignOutDecision{{SignOutElements: true}}

	if _, err := h.orchestrator.GenerateInPlace(context.Background(), nil, testutil.Connection(), testutil.Identity(), testutil.SearchContext(), testChangeControl()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if h.gateway.CountOp("generate") != 2 {
		t.Fatalf("expected one retry after signout recovery, got %v", h.gateway.Ops())
	}
	types := h.recorder.Types()
	if len(types) != 2 || types[0] != actions.TypeElementSignedOut || types[1] != actions.TypeElementGeneratedInPlace {
		t.Fatalf("ownership action must precede the outcome action: %v", types)
	}
}

func TestGenerateWithCopyBackTargetsTreePath(t *testing.T) {
	h := newHarness(t)
	searchContext := testutil.SearchContext()
	searchContext.TreePath.Environment = "QA"
	searchContext.TreePath.StageNumber = "2"

	outcome, err := h.orchestrator.GenerateWithCopyBack(context.Background(), nil, testutil.Connection(), testutil.Identity(), searchContext, testChangeControl(), false)
	if err != nil {
		t.Fatalf("generate with copy back: %v", err)
	}
	if outcome.MaxRcExceeded {
		t.Fatal("clean generate must not report max rc")
	}
	if h.recorder.CountType(actions.TypeElementGeneratedWithCopyBack) != 1 {
		t.Fatalf("expected copy-back action, got %v", h.recorder.Types())
	}
	action := h.recorder.Actions[0].(actions.ElementGeneratedWithCopyBack)
	if action.Target.Environment != "QA" || action.Target.StageNumber != "2" {
		t.Fatalf("copy-back target must follow the tree path: %+v", action.Target)
	}
	if action.CopiedFrom.Environment != "DEV" {
		t.Fatalf("copy-back must record the source location: %+v", action.CopiedFrom)
	}
}
