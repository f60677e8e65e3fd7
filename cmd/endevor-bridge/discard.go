package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

type discardOutput struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func runDiscard(arguments []string) int {
	flagSet := flag.NewFlagSet("discard", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")

	if err := flagSet.Parse(normalizeArgs(arguments, map[string]bool{"json": true})); err != nil {
		return writeDiscardOutput(jsonOutput, discardOutput{Error: err.Error()}, exitInvalidInput)
	}
	if flagSet.NArg() != 1 {
		return writeDiscardOutput(jsonOutput, discardOutput{Error: "expected exactly one locator argument"}, exitInvalidInput)
	}

	session, err := newApp(appOptions{offline: true})
	if err != nil {
		return writeDiscardOutput(jsonOutput, discardOutput{Error: err.Error()}, exitError)
	}
	if err := session.orchestrator.Discard(locator.Locator(flagSet.Arg(0))); err != nil {
		return writeDiscardOutput(jsonOutput, discardOutput{Error: err.Error()}, exitInvalidInput)
	}
	return writeDiscardOutput(jsonOutput, discardOutput{OK: true}, exitOK)
}

func writeDiscardOutput(jsonOutput bool, output discardOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.OK {
		fmt.Println("discard: session files removed")
		return exitCode
	}
	fmt.Printf("discard error: %s\n", output.Error)
	return exitCode
}
