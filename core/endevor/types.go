package endevor

import (
	"strconv"
	"strings"
)

// ElementMapPath locates a position in the Endevor map. It is also the
// target of an update, which may differ from the element's original
// location when writing up the map.
type ElementMapPath struct {
	Configuration string `json:"configuration"`
	Environment   string `json:"environment"`
	System        string `json:"system"`
	SubSystem     string `json:"subSystem"`
	StageNumber   string `json:"stageNumber"`
	Type          string `json:"type"`
	Name          string `json:"name"`
}

// ElementIdentity is an element's original map location plus its optional
// file extension.
type ElementIdentity struct {
	ElementMapPath
	Extension string `json:"extension,omitempty"`
}

// SameLocation reports whether two identities denote the same map
// position. Extension is deliberately ignored.
func SameLocation(left ElementMapPath, right ElementMapPath) bool {
	return left.Configuration == right.Configuration &&
		left.Environment == right.Environment &&
		left.System == right.System &&
		left.SubSystem == right.SubSystem &&
		left.StageNumber == right.StageNumber &&
		left.Type == right.Type &&
		left.Name == right.Name
}

// Credential authenticates against the Endevor web services endpoint.
type Credential struct {
	User     string `json:"user"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
}

// ConnectionDetails is the remote endpoint a session talks to. The
// protocol passes it through unchanged.
type ConnectionDetails struct {
	Protocol           string     `json:"protocol"`
	HostName           string     `json:"hostName"`
	Port               int        `json:"port"`
	BasePath           string     `json:"basePath"`
	RejectUnauthorized bool       `json:"rejectUnauthorized"`
	Credential         Credential `json:"credential"`
}

// BaseURL renders the endpoint root, normalizing the base path.
func (c ConnectionDetails) BaseURL() string {
	basePath := "/" + strings.Trim(c.BasePath, "/")
	if basePath == "/" {
		basePath = ""
	}
	protocol := c.Protocol
	if protocol == "" {
		protocol = "https"
	}
	return protocol + "://" + c.HostName + ":" + strconv.Itoa(c.Port) + basePath
}

// SearchLocation is the possibly partially specified scope a search ran
// in. Empty fields mean "any".
type SearchLocation struct {
	Configuration string `json:"configuration"`
	Environment   string `json:"environment,omitempty"`
	StageNumber   string `json:"stageNumber,omitempty"`
	System        string `json:"system,omitempty"`
	SubSystem     string `json:"subSystem,omitempty"`
	Type          string `json:"type,omitempty"`
}

// SubSystemMapPath is the precise subsystem position an element was
// located through.
type SubSystemMapPath struct {
	Configuration string `json:"configuration"`
	Environment   string `json:"environment"`
	StageNumber   string `json:"stageNumber"`
	System        string `json:"system"`
	SubSystem     string `json:"subSystem"`
}

// SearchContext records where an element was discovered and which
// connection/search-location entries of the external store own it.
type SearchContext struct {
	ConnectionID     string           `json:"connectionId"`
	SearchLocationID string           `json:"searchLocationId"`
	Overall          SearchLocation   `json:"overall"`
	TreePath         SubSystemMapPath `json:"treePath"`
}

// Fingerprint is the opaque optimistic-concurrency token returned by a
// retrieve and required on every update.
type Fingerprint string

// ChangeControlValue is the audit metadata every mutating call carries.
type ChangeControlValue struct {
	CCID    string `json:"ccid"`
	Comment string `json:"comment"`
}

// SignOutParams parameterizes a signout request. Override must only be
// set after the user explicitly confirmed taking over somebody else's
// reservation.
type SignOutParams struct {
	ChangeControlValue ChangeControlValue `json:"changeControlValue"`
	OverrideSignOut    bool               `json:"overrideSignOut,omitempty"`
}

// ElementContent pairs retrieved bytes with the fingerprint that must
// accompany the next write of that content.
type ElementContent struct {
	Content     string      `json:"content"`
	Fingerprint Fingerprint `json:"fingerprint"`
}

// GenerateOptions selects between generating an element in place and
// generating with copy back, optionally without source.
type GenerateOptions struct {
	CopyBack bool `json:"copyBack,omitempty"`
	NoSource bool `json:"noSource,omitempty"`
}

// UpdateResult reports a committed update. Created is set when the
// write materialized the element at a previously nonexistent location.
type UpdateResult struct {
	ReturnCode int  `json:"returnCode"`
	Created    bool `json:"created,omitempty"`
}
