package validate

import (
	"encoding/json"
	"testing"

	"github.com/eclipse-che4z/endevor-bridge/core/endevor"
	"github.com/eclipse-che4z/endevor-bridge/core/schema/v1/session"
	"github.com/eclipse-che4z/endevor-bridge/internal/testutil"
)

func editedPayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(session.EditedElement{
		Element:       testutil.Identity(),
		Fingerprint:   "f1",
		Connection:    testutil.Connection(),
		SearchContext: testutil.SearchContext(),
		WorkingFile:   "/tmp/ELM-01.cbl",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return payload
}

func TestValidateEditedElementPayload(t *testing.T) {
	if err := ValidateSessionPayload(session.KindEditedElement, editedPayload(t)); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateComparedElementPayload(t *testing.T) {
	payload, err := json.Marshal(session.ComparedElement{
		EditedElement: session.EditedElement{
			Element:       testutil.Identity(),
			Fingerprint:   "f2",
			Connection:    testutil.Connection(),
			SearchContext: testutil.SearchContext(),
			WorkingFile:   "/tmp/ELM-01.cbl",
		},
		UploadTarget:  testutil.Identity().ElementMapPath,
		ChangeControl: endevor.ChangeControlValue{CCID: "CCID1", Comment: "edit"},
		RemoteFile:    "/tmp/ELM-01-remote-01.cbl",
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := ValidateSessionPayload(session.KindComparedElement, payload); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}
}

func TestValidateRejectsMissingFields(t *testing.T) {
	if err := ValidateSessionPayload(session.KindEditedElement, []byte(`{}`)); err == nil {
		t.Fatal("empty payload must be rejected")
	}
	if err := ValidateSessionPayload(session.KindComparedElement, editedPayload(t)); err == nil {
		t.Fatal("an edited-element payload must not validate as a comparison")
	}
}

func TestValidateRejectsUnknownKind(t *testing.T) {
	if err := ValidateSessionPayload(session.Kind("mystery"), editedPayload(t)); err == nil {
		t.Fatal("unknown kind must be rejected")
	}
}

func TestValidateRejectsWrongTypes(t *testing.T) {
	var payload map[string]any
	if err := json.Unmarshal(editedPayload(t), &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	payload["workingFile"] = 42
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := ValidateSessionPayload(session.KindEditedElement, raw); err == nil {
		t.Fatal("mistyped field must be rejected")
	}
}
