package compat

import (
	"bytes"
	"encoding/json"
)

// RecordKind tags the shape a SupportRecord was decoded from.
type RecordKind int

const (
	KindMissing   RecordKind = iota // null, or no "added" information
	KindFlag                        // true / false
	KindVersion                     // "54"
	KindRemoved                     // {"version_removed": ...}
	KindTimeline                    // [record, record, ...]
	KindMalformed                   // anything else
)

func (k RecordKind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindFlag:
		return "flag"
	case KindVersion:
		return "version"
	case KindRemoved:
		return "removed"
	case KindTimeline:
		return "timeline"
	default:
		return "malformed"
	}
}

// SupportRecord is one browser's raw support data for one feature.
type SupportRecord struct {
	Kind     RecordKind
	Flag     bool            // KindFlag
	Version  string          // KindVersion
	Timeline []SupportRecord // KindTimeline, oldest first as published
}

// UnmarshalJSON decodes any JSON value. Unrecognized shapes become
// KindMalformed; decoding itself never fails.
func (r *SupportRecord) UnmarshalJSON(data []byte) error {
	*r = parseRecord(data, true)
	return nil
}

// parseRecord decodes raw. Timelines are accepted only at the top level.
func parseRecord(raw []byte, allowTimeline bool) SupportRecord {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return SupportRecord{Kind: KindMissing}
	}

	switch raw[0] {
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return SupportRecord{Kind: KindMalformed}
		}
		return SupportRecord{Kind: KindFlag, Flag: b}

	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return SupportRecord{Kind: KindMalformed}
		}
		if s == "" {
			return SupportRecord{Kind: KindFlag, Flag: false}
		}
		return SupportRecord{Kind: KindVersion, Version: s}

	case '{':
		var obj struct {
			Added   json.RawMessage `json:"version_added"`
			Removed json.RawMessage `json:"version_removed"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return SupportRecord{Kind: KindMalformed}
		}
		if isSet(obj.Removed) {
			return SupportRecord{Kind: KindRemoved}
		}
		added := parseRecord(obj.Added, false)
		switch added.Kind {
		case KindMissing, KindFlag, KindVersion:
			return added
		default:
			return SupportRecord{Kind: KindMalformed}
		}

	case '[':
		if !allowTimeline {
			return SupportRecord{Kind: KindMalformed}
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return SupportRecord{Kind: KindMalformed}
		}
		timeline := make([]SupportRecord, 0, len(items))
		for _, item := range items {
			timeline = append(timeline, parseRecord(item, false))
		}
		return SupportRecord{Kind: KindTimeline, Timeline: timeline}
	}

	return SupportRecord{Kind: KindMalformed}
}

// isSet reports whether a version_removed value marks a removal:
// anything except absent, null, false and "".
func isSet(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return false
	}
	return true
}
