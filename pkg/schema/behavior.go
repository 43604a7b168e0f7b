// Package schema holds the types shared by every collection generation: auth
// blocks, events, variables and the legacy/structured classification of the
// fields that exist in both shapes.
package schema

// Behavior groups the auth, script and variable fields that collections,
// folders and requests of a v1 document have in common. Auth and scripts can
// appear twice: as structured fields (Auth, Events) and as legacy flat fields
// (CurrentHelper/HelperAttributes, PreRequestScript/Tests).
type Behavior struct {
	Auth             *Auth          `json:"auth,omitempty"`
	CurrentHelper    string         `json:"currentHelper,omitempty"`
	HelperAttributes map[string]any `json:"helperAttributes,omitempty"`
	Events           []Event        `json:"events,omitempty"`
	PreRequestScript string         `json:"preRequestScript,omitempty"`
	Tests            string         `json:"tests,omitempty"`
	Variables        []Variable     `json:"variables,omitempty"`
}

// Family names a group of fields that has a legacy and a structured shape.
type Family int

const (
	FamilyAuth Family = iota
	FamilyEvent
)

// IsLegacy reports whether b carries the legacy shape of the given family.
// Helper attributes without a helper name are not legacy auth.
func IsLegacy(b *Behavior, f Family) bool {
	if b == nil {
		return false
	}
	switch f {
	case FamilyAuth:
		return b.CurrentHelper != ""
	case FamilyEvent:
		return b.PreRequestScript != "" || b.Tests != ""
	}
	return false
}

// AuthSource is the authoritative auth representation of a node: either
// LegacyAuth or StructuredAuth. A nil AuthSource means the node has no auth.
type AuthSource interface {
	authSource()
}

// LegacyAuth is auth given as a helper name and a flat attribute bag.
type LegacyAuth struct {
	Helper     string
	Attributes map[string]any
}

// StructuredAuth is auth given as a kind-tagged parameter block.
type StructuredAuth struct {
	Auth *Auth
}

func (LegacyAuth) authSource()     {}
func (StructuredAuth) authSource() {}

// EventSource is the authoritative script representation of a node: either
// LegacyScripts or StructuredEvents. A nil EventSource means no scripts.
type EventSource interface {
	eventSource()
}

// LegacyScripts are scripts given as two multi-line strings.
type LegacyScripts struct {
	PreRequest string
	Tests      string
}

// StructuredEvents are scripts given as an event list.
type StructuredEvents struct {
	Events []Event
}

func (LegacyScripts) eventSource()    {}
func (StructuredEvents) eventSource() {}
