package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/eclipse-che4z/endevor-bridge/core/actions"
	"github.com/eclipse-che4z/endevor-bridge/core/conflict"
	"github.com/eclipse-che4z/endevor-bridge/core/config"
	"github.com/eclipse-che4z/endevor-bridge/core/editflow"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/endevor/rest"
	"github.com/eclipse-che4z/endevor-bridge/core/locator"
	"github.com/eclipse-che4z/endevor-bridge/core/signout"
	"github.com/eclipse-che4z/endevor-bridge/core/workspace"
)

// eventEntry is one dispatched outcome action, rendered for output.
type eventEntry struct {
	Type     string   `json:"type"`
	Elements []string `json:"elements,omitempty"`
}

type eventLog struct {
	entries []eventEntry
}

func (l *eventLog) dispatch(action actions.Action) {
	l.entries = append(l.entries, eventEntry{
		Type:     string(action.Type()),
		Elements: elementNames(action),
	})
}

func elementNames(action actions.Action) []string {
	switch a := action.(type) {
	case actions.ElementAdded:
		return []string{a.Element.Name}
	case actions.ElementUpdatedInPlace:
		return []string{a.Element.Name}
	case actions.ElementUpdatedFromUpTheMap:
		return []string{a.Target.Name}
	case actions.ElementSignedOut:
		names := make([]string, 0, len(a.Elements))
		for _, element := range a.Elements {
			names = append(names, element.Name)
		}
		return names
	case actions.ElementSignedIn:
		return []string{a.Element.Name}
	case actions.ElementGeneratedInPlace:
		return []string{a.Element.Name}
	case actions.ElementGeneratedWithCopyBack:
		return []string{a.Target.Name}
	default:
		return nil
	}
}

// app wires a configured session: REST gateway, directory workspace,
// terminal dialog, and the orchestrator on top of them.
type app struct {
	config       config.Config
	events       *eventLog
	orchestrator *editflow.Orchestrator
	coordinator  *signout.Coordinator
}

type appOptions struct {
	changeControl *endevor.ChangeControlValue
	showListing   *bool

	// offline skips the credential prompt for commands that never reach
	// the gateway, like discard.
	offline bool
}

func newApp(options appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cfg.Connection.Credential.Password == "" && !options.offline {
		password, err := promptPassword(cfg.Connection.Credential.User)
		if err != nil {
			return nil, err
		}
		cfg.Connection.Credential.Password = password
	}

	gateway, err := rest.NewClient()
	if err != nil {
		return nil, err
	}
	ws, err := workspace.NewDirWorkspace(cfg.WorkspaceDir)
	if err != nil {
		return nil, err
	}
	ws.ShowDiff = func(remoteFile string, writable locator.Locator, workingFile string) error {
		fmt.Fprintf(os.Stderr, "Remote version: %s (read-only)\n", remoteFile)
		fmt.Fprintf(os.Stderr, "Your version:   %s\n", workingFile)
		fmt.Fprintf(os.Stderr, "Merge your version, then run: endevor-bridge apply %s\n", writable)
		return nil
	}

	terminal := newTerminalDialog(os.Stdin, os.Stderr)
	terminal.presetChangeControl = options.changeControl
	terminal.presetShowListing = options.showListing
	terminal.autoSignOut = cfg.AutomaticSignOut

	events := &eventLog{}
	preferences := &signout.Preferences{}
	preferences.SetAutomatic(cfg.AutomaticSignOut)
	coordinator := &signout.Coordinator{
		Gateway:     gateway,
		Dialog:      terminal,
		Dispatch:    events.dispatch,
		Preferences: preferences,
	}
	return &app{
		config:      cfg,
		events:      events,
		coordinator: coordinator,
		orchestrator: &editflow.Orchestrator{
			Gateway:       gateway,
			Workspace:     ws,
			Dialog:        terminal,
			Dispatch:      events.dispatch,
			Signout:       coordinator,
			Conflict:      &conflict.Resolver{Gateway: gateway, Workspace: ws},
			SignOutOnEdit: cfg.SignOutOnEdit,
		},
	}, nil
}

func (a *app) progress() endevor.Progress {
	return func(message string) {
		fmt.Fprintln(os.Stderr, message)
	}
}

func promptPassword(user string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("ENDEVOR_PASSWORD is required when stdin is not a terminal")
	}
	fmt.Fprintf(os.Stderr, "Password for %s: ", user)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func writeJSONOutput(output any, exitCode int) int {
	encoded, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Println(`{"ok":false,"error":"failed to encode output"}`)
		return exitError
	}
	fmt.Println(string(encoded))
	return exitCode
}

// elementFlags registers the map-path flags shared by the commands that
// address an element directly rather than through a locator.
type elementFlags struct {
	configuration    string
	environment      string
	system           string
	subsystem        string
	stage            string
	elementType      string
	name             string
	extension        string
	connectionID     string
	searchLocationID string
}

func (f *elementFlags) register(flagSet *flag.FlagSet) {
	flagSet.StringVar(&f.configuration, "configuration", "", "endevor configuration (instance)")
	flagSet.StringVar(&f.environment, "environment", "", "environment of the element")
	flagSet.StringVar(&f.system, "system", "", "system of the element")
	flagSet.StringVar(&f.subsystem, "subsystem", "", "subsystem of the element")
	flagSet.StringVar(&f.stage, "stage", "", "stage number of the element")
	flagSet.StringVar(&f.elementType, "type", "", "type of the element")
	flagSet.StringVar(&f.name, "element", "", "element name")
	flagSet.StringVar(&f.extension, "extension", "", "file extension for the working file")
	flagSet.StringVar(&f.connectionID, "connection-id", "terminal", "store id of the connection")
	flagSet.StringVar(&f.searchLocationID, "search-location-id", "terminal", "store id of the search location")
}

func (f *elementFlags) identity() (endevor.ElementIdentity, error) {
	required := map[string]string{
		"--configuration": f.configuration,
		"--environment":   f.environment,
		"--system":        f.system,
		"--subsystem":     f.subsystem,
		"--stage":         f.stage,
		"--type":          f.elementType,
		"--element":       f.name,
	}
	missing := make([]string, 0, len(required))
	for name, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return endevor.ElementIdentity{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return endevor.ElementIdentity{
		ElementMapPath: endevor.ElementMapPath{
			Configuration: f.configuration,
			Environment:   f.environment,
			System:        f.system,
			SubSystem:     f.subsystem,
			StageNumber:   f.stage,
			Type:          f.elementType,
			Name:          f.name,
		},
		Extension: f.extension,
	}, nil
}

func (f *elementFlags) searchContext() endevor.SearchContext {
	return endevor.SearchContext{
		ConnectionID:     f.connectionID,
		SearchLocationID: f.searchLocationID,
		Overall: endevor.SearchLocation{
			Configuration: f.configuration,
			Environment:   f.environment,
		},
		TreePath: endevor.SubSystemMapPath{
			Configuration: f.configuration,
			Environment:   f.environment,
			StageNumber:   f.stage,
			System:        f.system,
			SubSystem:     f.subsystem,
		},
	}
}

func changeControlOption(ccid string, comment string) *endevor.ChangeControlValue {
	if strings.TrimSpace(ccid) == "" && strings.TrimSpace(comment) == "" {
		return nil
	}
	return &endevor.ChangeControlValue{CCID: ccid, Comment: comment}
}
