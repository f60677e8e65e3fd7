package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/eclipse-che4z/endevor-bridge/core/editflow"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
)

type generateOutput struct {
	OK            bool         `json:"ok"`
	MaxRcExceeded bool         `json:"maxRcExceeded,omitempty"`
	Listing       string       `json:"listing,omitempty"`
	Events        []eventEntry `json:"events,omitempty"`
	Error         string       `json:"error,omitempty"`
}

func runGenerate(arguments []string) int {
	flagSet := flag.NewFlagSet("generate", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var elements elementFlags
	var copyBack bool
	var noSource bool
	var showListing bool
	var ccid string
	var comment string
	var jsonOutput bool
	elements.register(flagSet)
	flagSet.BoolVar(&copyBack, "copy-back", false, "generate into the search location, copying the element back")
	flagSet.BoolVar(&noSource, "no-source", false, "with --copy-back, generate without copying the element body")
	flagSet.BoolVar(&showListing, "show-listing", false, "fetch the processor listing without asking when a step exceeds its max rc")
	flagSet.StringVar(&ccid, "ccid", "", "change control id")
	flagSet.StringVar(&comment, "comment", "", "change control comment")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")

	boolFlags := map[string]bool{"copy-back": true, "no-source": true, "show-listing": true, "json": true}
	if err := flagSet.Parse(normalizeArgs(arguments, boolFlags)); err != nil {
		return writeGenerateOutput(jsonOutput, generateOutput{Error: err.Error()}, exitInvalidInput)
	}
	identity, err := elements.identity()
	if err != nil {
		return writeGenerateOutput(jsonOutput, generateOutput{Error: err.Error()}, exitInvalidInput)
	}
	if noSource && !copyBack {
		return writeGenerateOutput(jsonOutput, generateOutput{Error: "--no-source requires --copy-back"}, exitInvalidInput)
	}

	options := appOptions{changeControl: changeControlOption(ccid, comment)}
	if showListing {
		options.showListing = &showListing
	}
	session, err := newApp(options)
	if err != nil {
		return writeGenerateOutput(jsonOutput, generateOutput{Error: err.Error()}, exitError)
	}

	changeControl := endevor.ChangeControlValue{CCID: ccid, Comment: comment}
	var outcome editflow.GenerateOutcome
	if copyBack {
		outcome, err = session.orchestrator.GenerateWithCopyBack(context.Background(), session.progress(), session.config.Connection, identity, elements.searchContext(), changeControl, noSource)
	} else {
		outcome, err = session.orchestrator.GenerateInPlace(context.Background(), session.progress(), session.config.Connection, identity, elements.searchContext(), changeControl)
	}
	if err != nil {
		return writeGenerateOutput(jsonOutput, generateOutput{Error: err.Error(), Events: session.events.entries}, exitError)
	}
	return writeGenerateOutput(jsonOutput, generateOutput{
		OK:            true,
		MaxRcExceeded: outcome.MaxRcExceeded,
		Listing:       outcome.Listing,
		Events:        session.events.entries,
	}, exitOK)
}

func writeGenerateOutput(jsonOutput bool, output generateOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.OK {
		if output.MaxRcExceeded {
			fmt.Println("generate: committed, but a processor step exceeded its max return code")
		} else {
			fmt.Println("generate: committed")
		}
		if output.Listing != "" {
			fmt.Println(output.Listing)
		}
		return exitCode
	}
	fmt.Printf("generate error: %s\n", output.Error)
	return exitCode
}
