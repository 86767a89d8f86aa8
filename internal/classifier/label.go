package classifier

import "strings"

// Label is the two-valued output of classification.
type Label string

const (
	// LabelYes means the text adheres to guidelines (low risk).
	LabelYes Label = "Yes"

	// LabelNo means the text does not adhere to guidelines (higher risk).
	LabelNo Label = "No"
)

// Normalize maps a free-text model reply to a canonical label.
//
// The check order is fixed: "yes" is searched before "no", both
// case-insensitive substring matches, so a reply containing both (for
// example "No, this is not a yes case") normalizes to Yes regardless of
// word position. Downstream consumers of classified sheets depend on
// this precedence; do not reorder the checks.
//
// The second return value is false when neither token is present; the
// label then defaults to No and callers should surface the reply as a
// warning.
func Normalize(reply string) (Label, bool) {
	lower := strings.ToLower(reply)
	switch {
	case strings.Contains(lower, "yes"):
		return LabelYes, true
	case strings.Contains(lower, "no"):
		return LabelNo, true
	default:
		return LabelNo, false
	}
}
