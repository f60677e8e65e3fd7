package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/eclipse-che4z/endevor-bridge/core/editflow"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
)

type uploadOutput struct {
	OK         bool         `json:"ok"`
	Committed  bool         `json:"committed,omitempty"`
	Comparison string       `json:"comparison,omitempty"`
	RemoteFile string       `json:"remoteFile,omitempty"`
	Events     []eventEntry `json:"events,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func runUpload(arguments []string) int {
	flagSet := flag.NewFlagSet("upload", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	var ccid string
	var comment string
	var jsonOutput bool
	flagSet.StringVar(&ccid, "ccid", "", "change control id, prompted when omitted")
	flagSet.StringVar(&comment, "comment", "", "change control comment, prompted when omitted")
	flagSet.BoolVar(&jsonOutput, "json", false, "emit JSON output")

	if err := flagSet.Parse(normalizeArgs(arguments, map[string]bool{"json": true})); err != nil {
		return writeUploadOutput("upload", jsonOutput, uploadOutput{Error: err.Error()}, exitInvalidInput)
	}
	if flagSet.NArg() != 1 {
		return writeUploadOutput("upload", jsonOutput, uploadOutput{Error: "expected exactly one locator argument"}, exitInvalidInput)
	}

	session, err := newApp(appOptions{changeControl: changeControlOption(ccid, comment)})
	if err != nil {
		return writeUploadOutput("upload", jsonOutput, uploadOutput{Error: err.Error()}, exitError)
	}
	outcome, err := session.orchestrator.Upload(context.Background(), session.progress(), locator.Locator(flagSet.Arg(0)))
	return writeUploadResult("upload", jsonOutput, session, outcome, err)
}

func writeUploadResult(command string, jsonOutput bool, session *app, outcome editflow.UploadOutcome, err error) int {
	if err != nil {
		return writeUploadOutput(command, jsonOutput, uploadOutput{Error: err.Error(), Events: session.events.entries}, exitError)
	}
	output := uploadOutput{
		OK:        true,
		Committed: outcome.Committed,
		Events:    session.events.entries,
	}
	if outcome.Committed {
		return writeUploadOutput(command, jsonOutput, output, exitOK)
	}
	compared, decodeErr := locator.DecodeCompared(outcome.Comparison)
	if decodeErr != nil {
		return writeUploadOutput(command, jsonOutput, uploadOutput{Error: decodeErr.Error()}, exitError)
	}
	output.Comparison = string(outcome.Comparison)
	output.RemoteFile = compared.RemoteFile
	return writeUploadOutput(command, jsonOutput, output, exitConflict)
}

func writeUploadOutput(command string, jsonOutput bool, output uploadOutput, exitCode int) int {
	if jsonOutput {
		return writeJSONOutput(output, exitCode)
	}
	if output.OK && output.Committed {
		fmt.Printf("%s: committed\n", command)
		return exitCode
	}
	if output.OK {
		fmt.Printf("%s: remote changed since retrieve, merge required\n", command)
		fmt.Printf("remote file: %s\n", output.RemoteFile)
		fmt.Printf("comparison locator: %s\n", output.Comparison)
		return exitCode
	}
	fmt.Printf("%s error: %s\n", command, output.Error)
	return exitCode
}
