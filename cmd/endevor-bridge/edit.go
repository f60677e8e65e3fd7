package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

type editOutput struct {
	OK          bool         `json:"ok"`
	Locator     string       `json:"locator,omitempty"`
	WorkingFile string       `json:"workingFile,omitempty"`
	Events      []eventEntry `json:"events,omitempty"`
	Error       string       `json:"error,omitempty"`
}

func runEdit(arguments []string) int {
	flagSet := flag.NewFlagSet("edit", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var elements elementFlags
	var signOut bool
	var ccid string
	var comment string
	var jsonOutput bool
	elements.register(flagSet)
	flagSet.BoolVar(&signOut, "signout", false, "retrieve with signout")
	flagSet.StringVar(&ccid, "ccid", "", "change control id for the signout")
	flagSet.StringVar(&comment, "comment", "", "change control comment for the signout")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")

	if err := flagSet.Parse(normalizeArgs(arguments, map[string]bool{"signout": true, "json": true})); err != nil {
		return writeEditOutput(jsonOutput, editOutput{Error: err.Error()}, exitInvalidInput)
	}
	identity, err := elements.identity()
	if err != nil {
		return writeEditOutput(jsonOutput, editOutput{Error: err.Error()}, exitInvalidInput)
	}

	session, err := newApp(appOptions{changeControl: changeControlOption(ccid, comment)})
	if err != nil {
		return writeEditOutput(jsonOutput, editOutput{Error: err.Error()}, exitError)
	}
	session.orchestrator.SignOutOnEdit = session.orchestrator.SignOutOnEdit || signOut

	encoded, err := session.orchestrator.OpenForEdit(context.Background(), session.progress(), session.config.Connection, identity, elements.searchContext(), endevor.ChangeControlValue{CCID: ccid, Comment: comment})
	if err != nil {
		return writeEditOutput(jsonOutput, editOutput{Error: err.Error(), Events: session.events.entries}, exitError)
	}
	edited, err := locator.DecodeEdited(encoded)
	if err != nil {
		return writeEditOutput(jsonOutput, editOutput{Error: err.Error()}, exitError)
	}
	return writeEditOutput(jsonOutput, editOutput{
		OK:          true,
		Locator:     string(encoded),
		WorkingFile: edited.WorkingFile,
		Events:      session.events.entries,
	}, exitOK)
}

func writeEditOutput(jsonOutput bool, output editOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.OK {
		fmt.Printf("working file: %s\n", output.WorkingFile)
		fmt.Printf("locator: %s\n", output.Locator)
		return exitCode
	}
	fmt.Printf("edit error: %s\n", output.Error)
	return exitCode
}
