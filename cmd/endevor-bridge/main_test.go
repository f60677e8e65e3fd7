package main

import "testing"

func TestRunVersion(t *testing.T) {
	if code := run([]string{"endevor-bridge", "version"}); code != exitOK {
		t.Fatalf("version must exit ok, got %d", code)
	}
	if code := run([]string{"endevor-bridge"}); code != exitOK {
		t.Fatalf("bare invocation must exit ok, got %d", code)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if code := run([]string{"endevor-bridge", "frobnicate"}); code != exitInvalidInput {
		t.Fatalf("unknown command must exit with invalid input, got %d", code)
	}
}

func TestEditRequiresElementCoordinates(t *testing.T) {
	if code := runEdit([]string{"--environment", "DEV"}); code != exitInvalidInput {
		t.Fatalf("incomplete element coordinates must exit with invalid input, got %d", code)
	}
}

func TestUploadRequiresLocatorArgument(t *testing.T) {
	if code := runUpload([]string{"--json"}); code != exitInvalidInput {
		t.Fatalf("upload without a locator must exit with invalid input, got %d", code)
	}
	if code := runUpload([]string{"one", "two"}); code != exitInvalidInput {
		t.Fatalf("upload with two locators must exit with invalid input, got %d", code)
	}
}

func TestApplyRequiresLocatorArgument(t *testing.T) {
	if code := runApply([]string{}); code != exitInvalidInput {
		t.Fatalf("apply without a locator must exit with invalid input, got %d", code)
	}
}

func TestDiscardRejectsCorruptLocator(t *testing.T) {
	t.Setenv("ENDEVOR_HOST", "endevor.example.com")
	t.Setenv("ENDEVOR_WORKSPACE_DIR", t.TempDir())
	if code := runDiscard([]string{"not-a-locator"}); code != exitInvalidInput {
		t.Fatalf("discard of a corrupt locator must exit with invalid input, got %d", code)
	}
}

func TestGenerateNoSourceRequiresCopyBack(t *testing.T) {
	arguments := []string{
		"--configuration", "CONFIG1",
		"--environment", "DEV",
		"--system", "SYS",
		"--subsystem", "SUBSYS",
		"--stage", "1",
		"--type", "TYP",
		"--element", "ELM",
		"--no-source",
	}
	if code := runGenerate(arguments); code != exitInvalidInput {
		t.Fatalf("--no-source without --copy-back must exit with invalid input, got %d", code)
	}
}
