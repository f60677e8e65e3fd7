package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
)

func scriptedTerminal(input string) (*terminalDialog, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return newTerminalDialog(strings.NewReader(input), out), out
}

func TestAskForChangeControlValuePrefersPreset(t *testing.T) {
	terminal, _ := scriptedTerminal("")
	preset := endevor.ChangeControlValue{CCID: "CCID1", Comment: "edit"}
	terminal.presetChangeControl = &preset

	value, ok := terminal.AskForChangeControlValue(endevor.ChangeControlValue{})
	if !ok || value != preset {
		t.Fatalf("preset change control must be used, got %+v ok=%v", value, ok)
	}
}

func TestAskForChangeControlValueReadsAnswersAndPrefill(t *testing.T) {
	terminal, out := scriptedTerminal("CCID2\n\n")

	value, ok := terminal.AskForChangeControlValue(endevor.ChangeControlValue{CCID: "CCID1", Comment: "prefilled"})
	if !ok {
		t.Fatal("expected accepted prompt")
	}
	if value.CCID != "CCID2" {
		t.Fatalf("explicit answer must win, got %q", value.CCID)
	}
	if value.Comment != "prefilled" {
		t.Fatalf("empty answer must fall back to the prefill, got %q", value.Comment)
	}
	if !strings.Contains(out.String(), "CCID") {
		t.Fatalf("prompt missing: %q", out.String())
	}
}

func TestAskForChangeControlValueCancelsOnEOF(t *testing.T) {
	terminal, _ := scriptedTerminal("")
	if _, ok := terminal.AskForChangeControlValue(endevor.ChangeControlValue{}); ok {
		t.Fatal("EOF must cancel the prompt")
	}
}

func TestAskToSignOutElementsAnswers(t *testing.T) {
	cases := []struct {
		name          string
		input         string
		wantSignOut   bool
		wantAutomatic bool
	}{
		{name: "yes", input: "y\n", wantSignOut: true},
		{name: "always", input: "a\n", wantSignOut: true, wantAutomatic: true},
		{name: "no", input: "n\n"},
		{name: "default is no", input: "\n"},
	}
	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			terminal, _ := scriptedTerminal(testCase.input)
			decision := terminal.AskToSignOutElements([]string{"ELM"})
			if decision.SignOutElements != testCase.wantSignOut || decision.AutomaticSignOut != testCase.wantAutomatic {
				t.Fatalf("unexpected decision %+v", decision)
			}
		})
	}
}

func TestAskToSignOutElementsAutomaticSkipsPrompt(t *testing.T) {
	terminal, out := scriptedTerminal("")
	terminal.autoSignOut = true

	decision := terminal.AskToSignOutElements([]string{"ELM"})
	if !decision.SignOutElements || !decision.AutomaticSignOut {
		t.Fatalf("automatic mode must accept without prompting, got %+v", decision)
	}
	if out.Len() != 0 {
		t.Fatalf("no prompt expected, got %q", out.String())
	}
}

func TestAskForUploadLocationUsesPrefill(t *testing.T) {
	// Accept every prefilled field, then type the element name.
	terminal, _ := scriptedTerminal("\n\n\n\n\n\nELM\n")
	prefill := endevor.SearchLocation{
		Configuration: "CONFIG1",
		Environment:   "QA",
		StageNumber:   "2",
		System:        "SYS",
		SubSystem:     "SUBSYS",
		Type:          "TYP",
	}

	target, ok := terminal.AskForUploadLocation(prefill)
	if !ok {
		t.Fatal("expected accepted prompt")
	}
	want := endevor.ElementMapPath{
		Configuration: "CONFIG1",
		Environment:   "QA",
		StageNumber:   "2",
		System:        "SYS",
		SubSystem:     "SUBSYS",
		Type:          "TYP",
		Name:          "ELM",
	}
	if target != want {
		t.Fatalf("unexpected target %+v", target)
	}
}

func TestAskForUploadLocationCancelsOnEmptyRequiredField(t *testing.T) {
	// No prefill for configuration and an empty answer: cancelled.
	terminal, _ := scriptedTerminal("\n")
	if _, ok := terminal.AskForUploadLocation(endevor.SearchLocation{}); ok {
		t.Fatal("empty required field must cancel the prompt")
	}
}

func TestAskToShowListingPreset(t *testing.T) {
	terminal, out := scriptedTerminal("")
	yes := true
	terminal.presetShowListing = &yes

	if !terminal.AskToShowListing([]string{"ELM"}) {
		t.Fatal("preset listing answer must be used")
	}
	if out.Len() != 0 {
		t.Fatalf("no prompt expected, got %q", out.String())
	}
}
