// Package instant normalizes the timestamp shapes found in stored documents
// and form input into time.Time.
package instant

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"google.golang.org/protobuf/types/known/timestamppb"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// Normalize converts v to an instant. It accepts time.Time, *time.Time,
// *timestamppb.Timestamp, ISO-8601 strings, and epoch-seconds pairs
// ({seconds, nanoseconds} or {_seconds, _nanoseconds}). The second result is
// false when v is absent or malformed.
func Normalize(v any) (time.Time, bool) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return valid(t)
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return valid(*t)
	case *timestamppb.Timestamp:
		if t == nil || t.CheckValid() != nil {
			return time.Time{}, false
		}
		return valid(t.AsTime())
	case string:
		return parseString(t)
	case map[string]any:
		return parsePair(t)
	}
	return time.Time{}, false
}

func valid(t time.Time) (time.Time, bool) {
	if t.IsZero() {
		return time.Time{}, false
	}
	return t.UTC(), true
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return valid(t)
		}
	}
	return time.Time{}, false
}

func parsePair(m map[string]any) (time.Time, bool) {
	secRaw, ok := m["seconds"]
	if !ok {
		secRaw, ok = m["_seconds"]
	}
	if !ok {
		return time.Time{}, false
	}
	sec, ok := toInt64(secRaw)
	if !ok {
		return time.Time{}, false
	}

	var nanos int64
	nanoRaw, ok := m["nanoseconds"]
	if !ok {
		nanoRaw, ok = m["_nanoseconds"]
	}
	if ok {
		n, ok := toInt64(nanoRaw)
		if !ok || n < 0 || n >= int64(time.Second) {
			return time.Time{}, false
		}
		nanos = n
	}

	ts := &timestamppb.Timestamp{Seconds: sec, Nanos: int32(nanos)}
	if err := ts.CheckValid(); err != nil {
		return time.Time{}, false
	}
	return valid(ts.AsTime())
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}
