// Package locator encodes edit-session state into opaque, self-describing
// strings that survive round trips through the host editor. The locator
// is the only persistence an in-flight edit has; nothing can be recovered
// elsewhere, so encoding must be lossless and decoding must refuse
// anything it cannot fully verify.
package locator

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gowebpki/jcs"

	"github.com/eclipse-che4z/endevor-bridge/core/errors"
	"github.com/eclipse-che4z/endevor-bridge/core/schema/validate"
	"github.com/eclipse-che4z/endevor-bridge/core/schema/v1/session"
)

// Scheme marks a locator as ours. Decode rejects anything else before
// looking at the payload.
const Scheme = "endevor"

// Locator is the opaque wire form: "endevor+<kind>:<base64url(JCS JSON)>".
type Locator string

// Decoded is the closed union a Decode produces. Exactly one of Edited
// and Compared is set, matching Kind.
type Decoded struct {
	Kind     session.Kind
	Edited   *session.EditedElement
	Compared *session.ComparedElement
}

// EncodeEdited serializes a working-copy session.
func EncodeEdited(payload session.EditedElement) (Locator, error) {
	return encode(session.KindEditedElement, payload)
}

// EncodeCompared serializes a comparison session.
func EncodeCompared(payload session.ComparedElement) (Locator, error) {
	return encode(session.KindComparedElement, payload)
}

func encode(kind session.Kind, payload any) (Locator, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s session: %w", kind, err)
	}
	// Canonical form (RFC 8785) so equal sessions always encode equally.
	canonical, err := jcs.Transform(raw)
	if err != nil {
		return "", fmt.Errorf("canonicalize %s session: %w", kind, err)
	}
	encoded := base64.RawURLEncoding.EncodeToString(canonical)
	return Locator(Scheme + "+" + string(kind) + ":" + encoded), nil
}

// Decode parses and verifies a locator of any supported kind. The scheme
// marker, the kind discriminator, and the payload schema are all checked
// before the payload is trusted; any mismatch yields an invalid-locator
// error, never a partial result.
func Decode(value Locator) (Decoded, error) {
	kind, payload, err := split(value)
	if err != nil {
		return Decoded{}, err
	}
	if err := validate.ValidateSessionPayload(kind, payload); err != nil {
		return Decoded{}, errors.Wrap(err, errors.KindInvalidLocator, "", fmt.Sprintf("locator payload rejected for kind %s", kind))
	}
	switch kind {
	case session.KindEditedElement:
		var edited session.EditedElement
		if err := json.Unmarshal(payload, &edited); err != nil {
			return Decoded{}, errors.Wrap(err, errors.KindInvalidLocator, "", "locator payload is not a valid edited-element session")
		}
		return Decoded{Kind: kind, Edited: &edited}, nil
	case session.KindComparedElement:
		var compared session.ComparedElement
		if err := json.Unmarshal(payload, &compared); err != nil {
			return Decoded{}, errors.Wrap(err, errors.KindInvalidLocator, "", "locator payload is not a valid compared-element session")
		}
		return Decoded{Kind: kind, Compared: &compared}, nil
	default:
		return Decoded{}, errors.InvalidLocator(fmt.Sprintf("unsupported session kind: %s", kind))
	}
}

// DecodeEdited decodes a locator that must be a working-copy session.
func DecodeEdited(value Locator) (session.EditedElement, error) {
	decoded, err := Decode(value)
	if err != nil {
		return session.EditedElement{}, err
	}
	if decoded.Kind != session.KindEditedElement {
		return session.EditedElement{}, errors.InvalidLocator(fmt.Sprintf("expected %s locator, got %s", session.KindEditedElement, decoded.Kind))
	}
	return *decoded.Edited, nil
}

// DecodeCompared decodes a locator that must be a comparison session.
func DecodeCompared(value Locator) (session.ComparedElement, error) {
	decoded, err := Decode(value)
	if err != nil {
		return session.ComparedElement{}, err
	}
	if decoded.Kind != session.KindComparedElement {
		return session.ComparedElement{}, errors.InvalidLocator(fmt.Sprintf("expected %s locator, got %s", session.KindComparedElement, decoded.Kind))
	}
	return *decoded.Compared, nil
}

// KindOf reports the session kind a locator claims without decoding its
// payload. Routing only; a claimed kind is verified on Decode.
func KindOf(value Locator) (session.Kind, error) {
	kind, _, err := split(value)
	if err != nil {
		return "", err
	}
	return kind, nil
}

func split(value Locator) (session.Kind, []byte, error) {
	text := string(value)
	head, body, found := strings.Cut(text, ":")
	if !found {
		return "", nil, errors.InvalidLocator("locator has no payload separator")
	}
	scheme, kind, found := strings.Cut(head, "+")
	if !found || scheme != Scheme {
		return "", nil, errors.InvalidLocator(fmt.Sprintf("unexpected locator scheme: %s", head))
	}
	if kind == "" {
		return "", nil, errors.InvalidLocator("locator has no session kind")
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.KindInvalidLocator, "", "locator payload is not valid base64")
	}
	return session.Kind(kind), payload, nil
}
