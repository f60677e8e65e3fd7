package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/eclipse-che4z/endevor-bridge/core/dialog"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
)

// terminalDialog answers protocol prompts on the terminal. Flags can
// preset individual answers so scripted invocations never block on
// stdin.
type terminalDialog struct {
	in  *bufio.Reader
	out io.Writer

	presetChangeControl *endevor.ChangeControlValue
	presetShowListing   *bool
	autoSignOut         bool
}

var _ dialog.Dialog = (*terminalDialog)(nil)

func newTerminalDialog(in io.Reader, out io.Writer) *terminalDialog {
	return &terminalDialog{in: bufio.NewReader(in), out: out}
}

func (d *terminalDialog) readLine() (string, bool) {
	line, err := d.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

func (d *terminalDialog) ask(prompt string, fallback string) (string, bool) {
	if fallback != "" {
		fmt.Fprintf(d.out, "%s [%s]: ", prompt, fallback)
	} else {
		fmt.Fprintf(d.out, "%s: ", prompt)
	}
	answer, ok := d.readLine()
	if !ok {
		return "", false
	}
	if answer == "" {
		return fallback, true
	}
	return answer, true
}

func (d *terminalDialog) askYesNo(prompt string) bool {
	fmt.Fprintf(d.out, "%s [y/N]: ", prompt)
	answer, ok := d.readLine()
	if !ok {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}

func (d *terminalDialog) AskForChangeControlValue(prefill endevor.ChangeControlValue) (endevor.ChangeControlValue, bool) {
	if d.presetChangeControl != nil {
		return *d.presetChangeControl, true
	}
	ccid, ok := d.ask("CCID", prefill.CCID)
	if !ok || ccid == "" {
		return endevor.ChangeControlValue{}, false
	}
	comment, ok := d.ask("Comment", prefill.Comment)
	if !ok || comment == "" {
		return endevor.ChangeControlValue{}, false
	}
	return endevor.ChangeControlValue{CCID: ccid, Comment: comment}, true
}

func (d *terminalDialog) AskToSignOutElements(names []string) dialog.SignOutDecision {
	if d.autoSignOut {
		return dialog.SignOutDecision{SignOutElements: true, AutomaticSignOut: true}
	}
	fmt.Fprintf(d.out, "Sign out %s? [y/N/a(lways)]: ", strings.Join(names, ", "))
	answer, ok := d.readLine()
	if !ok {
		return dialog.SignOutDecision{}
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return dialog.SignOutDecision{SignOutElements: true}
	case "a", "always":
		return dialog.SignOutDecision{SignOutElements: true, AutomaticSignOut: true}
	default:
		return dialog.SignOutDecision{}
	}
}

func (d *terminalDialog) AskToOverrideSignOut(names []string) bool {
	return d.askYesNo(fmt.Sprintf("Element %s is signed out to somebody else. Override?", strings.Join(names, ", ")))
}

func (d *terminalDialog) AskForUploadLocation(prefill endevor.SearchLocation) (endevor.ElementMapPath, bool) {
	fmt.Fprintln(d.out, "Choose the upload location.")
	target := endevor.ElementMapPath{}
	fields := []struct {
		prompt   string
		fallback string
		value    *string
	}{
		{"Configuration", prefill.Configuration, &target.Configuration},
		{"Environment", prefill.Environment, &target.Environment},
		{"Stage number", prefill.StageNumber, &target.StageNumber},
		{"System", prefill.System, &target.System},
		{"Subsystem", prefill.SubSystem, &target.SubSystem},
		{"Type", prefill.Type, &target.Type},
		{"Element name", "", &target.Name},
	}
	for _, field := range fields {
		answer, ok := d.ask(field.prompt, field.fallback)
		if !ok || answer == "" {
			return endevor.ElementMapPath{}, false
		}
		*field.value = answer
	}
	return target, true
}

func (d *terminalDialog) AskToShowListing(names []string) bool {
	if d.presetShowListing != nil {
		return *d.presetShowListing
	}
	return d.askYesNo(fmt.Sprintf("A processor step of %s exceeded its max return code. Show the listing?", strings.Join(names, ", ")))
}
