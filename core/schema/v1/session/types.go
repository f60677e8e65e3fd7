package session

import "github.com/eclipse-che4z/endevor-bridge/core/endevor"

// Kind discriminates the session payloads a locator can carry. A locator
// is the only persistent record of an in-flight edit, so the kind must be
// recoverable from the locator alone.
type Kind string

const (
	KindEditedElement   Kind = "edited-element"
	KindComparedElement Kind = "compared-element"
)

// EditedElement is the working-copy session: an element retrieved into a
// local working file, with everything needed to write it back later.
type EditedElement struct {
	Element       endevor.ElementIdentity   `json:"element"`
	Fingerprint   endevor.Fingerprint       `json:"fingerprint"`
	Connection    endevor.ConnectionDetails `json:"connection"`
	SearchContext endevor.SearchContext     `json:"searchContext"`
	WorkingFile   string                    `json:"workingFile"`
}

// ComparedElement is the comparison session produced by conflict
// resolution: the working-copy fields plus the pending upload state and
// the freshly fetched remote counterpart. Once a conflict is detected the
// pending target, change control value, and fingerprint live only here.
type ComparedElement struct {
	EditedElement
	UploadTarget  endevor.ElementMapPath     `json:"uploadTarget"`
	ChangeControl endevor.ChangeControlValue `json:"changeControl"`
	RemoteFile    string                     `json:"remoteFile"`
}
