// Package lookup holds the static name tables shared by the normalizer and
// the converters. The tables are built once at init and never written again,
// so they are safe for concurrent reads.
package lookup

// NoAuthHelper is the legacy helper name that stands for "no auth".
const NoAuthHelper = "normal"

// NoAuthKind is the structured auth kind that stands for "no auth".
const NoAuthKind = "noauth"

// helperToKind maps legacy v1 helper names to structured auth kinds.
var helperToKind = map[string]string{
	"basicAuth":  "basic",
	"digestAuth": "digest",
	"hawkAuth":   "hawk",
	"oAuth1":     "oauth1",
	"awsSigV4":   "awsv4",
	NoAuthHelper: NoAuthKind,
}

// bodyToDataMode maps v2 request body modes to v1 data modes.
var bodyToDataMode = map[string]string{
	"urlencoded": "urlencoded",
	"formdata":   "params",
	"raw":        "raw",
	"file":       "binary",
	"graphql":    "graphql",
}

var (
	kindToHelper   = invert(helperToKind)
	dataModeToBody = invert(bodyToDataMode)
)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// KindForHelper returns the structured auth kind for a legacy helper name.
// The "normal" helper has no kind: it reports ("", true).
func KindForHelper(helper string) (string, bool) {
	if helper == NoAuthHelper {
		return "", true
	}
	kind, ok := helperToKind[helper]
	return kind, ok
}

// HelperForKind returns the legacy helper name for a structured auth kind.
func HelperForKind(kind string) (string, bool) {
	helper, ok := kindToHelper[kind]
	return helper, ok
}

// DataModeFor returns the v1 data mode for a v2 body mode.
func DataModeFor(bodyMode string) (string, bool) {
	mode, ok := bodyToDataMode[bodyMode]
	return mode, ok
}

// BodyModeFor returns the v2 body mode for a v1 data mode.
func BodyModeFor(dataMode string) (string, bool) {
	mode, ok := dataModeToBody[dataMode]
	return mode, ok
}

// Helpers lists every legacy helper name known to the tables.
func Helpers() []string {
	out := make([]string, 0, len(helperToKind))
	for h := range helperToKind {
		out = append(out, h)
	}
	return out
}
