package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
)

type signinOutput struct {
	OK     bool         `json:"ok"`
	Events []eventEntry `json:"events,omitempty"`
	Error  string       `json:"error,omitempty"`
}

func runSignin(arguments []string) int {
	flagSet := flag.NewFlagSet("signin", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var elements elementFlags
	var jsonOutput bool
	elements.register(flagSet)
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")

	if err := flagSet.Parse(normalizeArgs(arguments, map[string]bool{"json": true})); err != nil {
		return writeSigninOutput(jsonOutput, signinOutput{Error: err.Error()}, exitInvalidInput)
	}
	identity, err := elements.identity()
	if err != nil {
		return writeSigninOutput(jsonOutput, signinOutput{Error: err.Error()}, exitInvalidInput)
	}

	session, err := newApp(appOptions{})
	if err != nil {
		return writeSigninOutput(jsonOutput, signinOutput{Error: err.Error()}, exitError)
	}
	ref := actions.Ref{ConnectionID: elements.connectionID, SearchLocationID: elements.searchLocationID}
	if err := session.coordinator.SignIn(context.Background(), session.progress(), session.config.Connection, identity, ref); err != nil {
		return writeSigninOutput(jsonOutput, signinOutput{Error: err.Error(), Events: session.events.entries}, exitError)
	}
	return writeSigninOutput(jsonOutput, signinOutput{OK: true, Events: session.events.entries}, exitOK)
}

func writeSigninOutput(jsonOutput bool, output signinOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.OK {
		fmt.Println("signin: reservation released")
		return exitCode
	}
	fmt.Printf("signin error: %s\n", output.Error)
	return exitCode
}
