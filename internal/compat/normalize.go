package compat

// Status is the normalized support state of one browser.
type Status int

const (
	StatusUnknown Status = iota
	StatusYes
	StatusNo
)

func (s Status) String() string {
	switch s {
	case StatusYes:
		return "yes"
	case StatusNo:
		return "no"
	default:
		return "unknown"
	}
}

// Support is a normalized status with an optional "<version>+" label.
type Support struct {
	Status  Status
	Version string
}

// Normalize converts a single support record.
//
//   - removed          => No, ""
//   - added absent/false => Unknown, ""
//   - added true       => Yes, ""
//   - added "54"       => Yes, "54+"
//
// Timelines and malformed records normalize to Unknown; use Rows to expand
// a timeline.
func Normalize(r SupportRecord) Support {
	switch r.Kind {
	case KindRemoved:
		return Support{Status: StatusNo}
	case KindFlag:
		if r.Flag {
			return Support{Status: StatusYes}
		}
		return Support{Status: StatusUnknown}
	case KindVersion:
		return Support{Status: StatusYes, Version: r.Version + "+"}
	default:
		return Support{Status: StatusUnknown}
	}
}

// Rows normalizes r into display rows: one per timeline entry, or a single
// row otherwise. Every entry of a timeline is kept, not just the latest.
func Rows(r SupportRecord) []Support {
	if r.Kind != KindTimeline {
		return []Support{Normalize(r)}
	}
	if len(r.Timeline) == 0 {
		return []Support{{Status: StatusUnknown}}
	}
	rows := make([]Support, 0, len(r.Timeline))
	for _, entry := range r.Timeline {
		rows = append(rows, Normalize(entry))
	}
	return rows
}
