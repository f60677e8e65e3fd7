package main

import (
	"flag"
	"fmt"
	"os"
)

// version is stamped at release time via ldflags; default stays dev for local builds.
var version = "0.0.0-dev"

const (
	exitOK           = 0
	exitError        = 1
	exitInvalidInput = 2

	// exitConflict means an upload ended in a comparison session rather
	// than a commit; the printed locator resumes it.
	exitConflict = 3
)

func main() {
	os.Exit(run(os.Args))
}

func run(arguments []string) int {
	configureLogging()
	if len(arguments) < 2 {
		fmt.Println("endevor-bridge", version)
		return exitOK
	}

	switch arguments[1] {
	case "edit":
		return runEdit(arguments[2:])
	case "upload":
		return runUpload(arguments[2:])
	case "apply":
		return runApply(arguments[2:])
	case "discard":
		return runDiscard(arguments[2:])
	case "generate":
		return runGenerate(arguments[2:])
	case "signin":
		return runSignin(arguments[2:])
	case "version", "--version", "-v":
		fmt.Println("endevor-bridge", version)
		return exitOK
	default:
		printUsage()
		return exitInvalidInput
	}
}

// configureLogging routes glog to stderr so stdout stays parseable; the
// ENDEVOR_VERBOSITY env var raises the V level without polluting the
// subcommand flag sets.
func configureLogging() {
	_ = flag.Set("logtostderr", "true")
	if verbosity := os.Getenv("ENDEVOR_VERBOSITY"); verbosity != "" {
		_ = flag.Set("v", verbosity)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  endevor-bridge edit --environment <env> --system <sys> --subsystem <subsys> --stage <n> --type <type> --element <name> [--configuration <conf>] [--extension <ext>] [--signout] [--ccid <ccid> --comment <text>] [--json]")
	fmt.Println("  endevor-bridge upload <locator> [--ccid <ccid> --comment <text>] [--json]")
	fmt.Println("  endevor-bridge apply <locator> [--json]")
	fmt.Println("  endevor-bridge discard <locator> [--json]")
	fmt.Println("  endevor-bridge generate --environment <env> --system <sys> --subsystem <subsys> --stage <n> --type <type> --element <name> [--copy-back [--no-source]] [--ccid <ccid> --comment <text>] [--show-listing] [--json]")
	fmt.Println("  endevor-bridge signin --environment <env> --system <sys> --subsystem <subsys> --stage <n> --type <type> --element <name> [--json]")
	fmt.Println("  endevor-bridge version")
	fmt.Println("")
	fmt.Println("Connection details come from ENDEVOR_-prefixed environment variables or a .env file.")
}
