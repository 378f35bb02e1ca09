package document

import "fmt"

// Status is the review state of a document.
type Status uint8

const (
	StatusDraft Status = iota
	StatusReview
	StatusApproved

	numStatuses
)

type statusInfo struct {
	name  string
	label string
	tone  string
}

// statusTable is indexed by Status. The assertion below fails to compile when a
// status constant is added without a row here.
var statusTable = [...]statusInfo{
	StatusDraft:    {name: "draft", label: "Черновик", tone: "gray"},
	StatusReview:   {name: "review", label: "На проверке", tone: "yellow"},
	StatusApproved: {name: "approved", label: "Утвержден", tone: "green"},
}

var _ = [1]struct{}{}[len(statusTable)-int(numStatuses)]

// Statuses lists every status in declaration order.
func Statuses() []Status {
	out := make([]Status, 0, numStatuses)
	for s := Status(0); s < numStatuses; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is one of the declared statuses.
func (s Status) Valid() bool { return s < numStatuses }

func (s Status) String() string {
	if !s.Valid() {
		return fmt.Sprintf("status(%d)", uint8(s))
	}
	return statusTable[s].name
}

// Label is the human-readable name shown on the status badge.
func (s Status) Label() string {
	if !s.Valid() {
		return s.String()
	}
	return statusTable[s].label
}

// Tone is the badge colour family.
func (s Status) Tone() string {
	if !s.Valid() {
		return "gray"
	}
	return statusTable[s].tone
}

// ParseStatus maps a wire name back to a Status.
func ParseStatus(name string) (Status, error) {
	for s := Status(0); s < numStatuses; s++ {
		if statusTable[s].name == name {
			return s, nil
		}
	}
	return 0, &ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", name)}
}

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid status %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	v, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
