// Package testutil provides scripted collaborators for protocol tests:
// a gateway with per-operation response queues, a dialog with canned
// answers, and an action recorder standing in for the external store.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/dialog"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
)

func WriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("create parent directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) []byte {
	t.Helper()
	content, err := os.ReadFile(path) // #nosec G304 -- test helper for controlled paths.
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return content
}

// Identity returns the identity most tests edit.
func Identity() endevor.ElementIdentity {
	return endevor.ElementIdentity{
		ElementMapPath: endevor.ElementMapPath{
			Configuration: "CONFIG1",
			Environment:   "DEV",
			System:        "SYS",
			SubSystem:     "SUBSYS",
			StageNumber:   "1",
			Type:          "TYP",
			Name:          "ELM",
		},
		Extension: "cbl",
	}
}

// Connection returns connection details for tests.
func Connection() endevor.ConnectionDetails {
	return endevor.ConnectionDetails{
		Protocol:           "https",
		HostName:           "endevor.example.com",
		Port:               8080,
		BasePath:           "/EndevorService/api/v2",
		RejectUnauthorized: true,
		Credential:         endevor.Credential{User: "user1", Password: "secret"},
	}
}

// SearchContext returns the discovery scope used by tests.
func SearchContext() endevor.SearchContext {
	identity := Identity()
	return endevor.SearchContext{
		ConnectionID:     "connection-1",
		SearchLocationID: "search-location-1",
		Overall: endevor.SearchLocation{
			Configuration: identity.Configuration,
			Environment:   identity.Environment,
		},
		TreePath: endevor.SubSystemMapPath{
			Configuration: identity.Configuration,
			Environment:   identity.Environment,
			StageNumber:   identity.StageNumber,
			System:        identity.System,
			SubSystem:     identity.SubSystem,
		},
	}
}

// GatewayCall records one gateway invocation, in order.
type GatewayCall struct {
	Op            string
	Identity      endevor.ElementIdentity
	Target        endevor.ElementMapPath
	SignOut       endevor.SignOutParams
	ChangeControl endevor.ChangeControlValue
	Content       endevor.ElementContent
}

// RetrieveOutcome scripts one Retrieve/RetrieveWithSignout response.
type RetrieveOutcome struct {
	Content endevor.ElementContent
	Err     error
}

// UpdateOutcome scripts one Update response.
type UpdateOutcome struct {
	Result endevor.UpdateResult
	Err    error
}

// ListingOutcome scripts one RetrieveListing response.
type ListingOutcome struct {
	Listing string
	Err     error
}

// FakeGateway pops one scripted outcome per call; an exhausted queue
// yields the zero outcome, which reads as success.
type FakeGateway struct {
	Calls []GatewayCall

	RetrieveQueue []RetrieveOutcome
	UpdateQueue   []UpdateOutcome
	SignOutQueue  []error
	SignInQueue   []error
	GenerateQueue []error
	ListingQueue  []ListingOutcome
}

var _ endevor.Gateway = (*FakeGateway)(nil)

func (g *FakeGateway) Retrieve(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, identity endevor.ElementIdentity) (endevor.ElementContent, error) {
	g.Calls = append(g.Calls, GatewayCall{Op: "retrieve", Identity: identity})
	outcome := popOutcome(&g.RetrieveQueue)
	return outcome.Content, outcome.Err
}

func (g *FakeGateway) RetrieveWithSignout(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, identity endevor.ElementIdentity, signOut endevor.SignOutParams) (endevor.ElementContent, error) {
	g.Calls = append(g.Calls, GatewayCall{Op: "retrieveWithSignout", Identity: identity, SignOut: signOut})
	outcome := popOutcome(&g.RetrieveQueue)
	return outcome.Content, outcome.Err
}

func (g *FakeGateway) Update(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, target endevor.ElementMapPath, changeControl endevor.ChangeControlValue, content endevor.ElementContent) (endevor.UpdateResult, error) {
	g.Calls = append(g.Calls, GatewayCall{Op: "update", Target: target, ChangeControl: changeControl, Content: content})
	outcome := popOutcome(&g.UpdateQueue)
	return outcome.Result, outcome.Err
}

func (g *FakeGateway) SignOut(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, identity endevor.ElementIdentity, signOut endevor.SignOutParams) error {
	g.Calls = append(g.Calls, GatewayCall{Op: "signOut", Identity: identity, SignOut: signOut})
	return popOutcome(&g.SignOutQueue)
}

func (g *FakeGateway) SignIn(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, identity endevor.ElementIdentity) error {
	g.Calls = append(g.Calls, GatewayCall{Op: "signIn", Identity: identity})
	return popOutcome(&g.SignInQueue)
}

func (g *FakeGateway) Generate(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, identity endevor.ElementIdentity, changeControl endevor.ChangeControlValue, _ endevor.GenerateOptions) error {
	g.Calls = append(g.Calls, GatewayCall{Op: "generate", Identity: identity, ChangeControl: changeControl})
	return popOutcome(&g.GenerateQueue)
}

func (g *FakeGateway) RetrieveListing(_ context.Context, _ endevor.Progress, _ endevor.ConnectionDetails, identity endevor.ElementIdentity) (string, error) {
	g.Calls = append(g.Calls, GatewayCall{Op: "retrieveListing", Identity: identity})
	outcome := popOutcome(&g.ListingQueue)
	return outcome.Listing, outcome.Err
}

// Ops lists the recorded operation names in call order.
func (g *FakeGateway) Ops() []string {
	ops := make([]string, 0, len(g.Calls))
	for _, call := range g.Calls {
		ops = append(ops, call.Op)
	}
	return ops
}

// CountOp counts recorded calls of one operation.
func (g *FakeGateway) CountOp(op string) int {
	count := 0
	for _, call := range g.Calls {
		if call.Op == op {
			count++
		}
	}
	return count
}

func popOutcome[T any](queue *[]T) T {
	var zero T
	if len(*queue) == 0 {
		return zero
	}
	head := (*queue)[0]
	*queue = (*queue)[1:]
	return head
}

// UploadLocationAnswer scripts one AskForUploadLocation response.
type UploadLocationAnswer struct {
	Target endevor.ElementMapPath
	OK     bool
}

// ChangeControlAnswer scripts one AskForChangeControlValue response.
type ChangeControlAnswer struct {
	Value endevor.ChangeControlValue
	OK    bool
}

// ScriptedDialog answers prompts from canned queues and records which
// prompts ran. Exhausted queues answer with declines.
type ScriptedDialog struct {
	Prompts []string

	SignOutAnswers        []dialog.SignOutDecision
	OverrideAnswers       []bool
	ChangeControlAnswers  []ChangeControlAnswer
	UploadLocationAnswers []UploadLocationAnswer
	ShowListingAnswers    []bool
}

var _ dialog.Dialog = (*ScriptedDialog)(nil)

func (d *ScriptedDialog) AskForChangeControlValue(endevor.ChangeControlValue) (endevor.ChangeControlValue, bool) {
	d.Prompts = append(d.Prompts, "changeControl")
	answer := popOutcome(&d.ChangeControlAnswers)
	return answer.Value, answer.OK
}

func (d *ScriptedDialog) AskToSignOutElements([]string) dialog.SignOutDecision {
	d.Prompts = append(d.Prompts, "signOut")
	return popOutcome(&d.SignOutAnswers)
}

func (d *ScriptedDialog) AskToOverrideSignOut([]string) bool {
	d.Prompts = append(d.Prompts, "override")
	return popOutcome(&d.OverrideAnswers)
}

func (d *ScriptedDialog) AskForUploadLocation(endevor.SearchLocation) (endevor.ElementMapPath, bool) {
	d.Prompts = append(d.Prompts, "uploadLocation")
	answer := popOutcome(&d.UploadLocationAnswers)
	return answer.Target, answer.OK
}

func (d *ScriptedDialog) AskToShowListing([]string) bool {
	d.Prompts = append(d.Prompts, "showListing")
	return popOutcome(&d.ShowListingAnswers)
}

// PromptCount counts how often one prompt kind ran.
func (d *ScriptedDialog) PromptCount(kind string) int {
	count := 0
	for _, prompt := range d.Prompts {
		if prompt == kind {
			count++
		}
	}
	return count
}

// ActionRecorder collects dispatched actions in order.
type ActionRecorder struct {
	Actions []actions.Action
}

// Dispatch returns a dispatcher that records into the recorder.
func (r *ActionRecorder) Dispatch() actions.Dispatch {
	return func(action actions.Action) {
		r.Actions = append(r.Actions, action)
	}
}

// Types lists the recorded action types in dispatch order.
func (r *ActionRecorder) Types() []actions.Type {
	types := make([]actions.Type, 0, len(r.Actions))
	for _, action := range r.Actions {
		types = append(types, action.Type())
	}
	return types
}

// CountType counts recorded actions of one type.
func (r *ActionRecorder) CountType(actionType actions.Type) int {
	count := 0
	for _, action := range r.Actions {
		if action.Type() == actionType {
			count++
		}
	}
	return count
}
