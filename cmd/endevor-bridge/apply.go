package main

import (
	"context"
	"flag"
	"io"

	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

func runApply(arguments []string) int {
	flagSet := flag.NewFlagSet("apply", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var jsonOutput bool
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")

	if err := flagSet.Parse(normalizeArgs(arguments, map[string]bool{"json": true})); err != nil {
		return writeUploadOutput("apply", jsonOutput, uploadOutput{Error: err.Error()}, exitInvalidInput)
	}
	if flagSet.NArg() != 1 {
		return writeUploadOutput("apply", jsonOutput, uploadOutput{Error: "expected exactly one comparison locator argument"}, exitInvalidInput)
	}

	session, err := newApp(appOptions{})
	if err != nil {
		return writeUploadOutput("apply", jsonOutput, uploadOutput{Error: err.Error()}, exitError)
	}
	outcome, err := session.orchestrator.ApplyComparison(context.Background(), session.progress(), locator.Locator(flagSet.Arg(0)))
	return writeUploadResult("apply", jsonOutput, session, outcome, err)
}
