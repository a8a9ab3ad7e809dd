package baas

import (
	"encoding/json"
	"errors"
	"time"
)

var errInvalidTimestamp = errors.New("invalid document timestamp")

// Timestamp is the document store encoding of an instant: whole seconds since the
// epoch plus a nanosecond remainder.
type Timestamp struct {
	Seconds     int64 `json:"_seconds"`
	Nanoseconds int64 `json:"_nanoseconds"`
}

func TimestampFrom(value time.Time) Timestamp {
	if value.IsZero() {
		return Timestamp{}
	}
	return Timestamp{Seconds: value.Unix(), Nanoseconds: int64(value.Nanosecond())}
}

func (ts Timestamp) Time() time.Time {
	if ts.Seconds == 0 && ts.Nanoseconds == 0 {
		return time.Time{}
	}
	return time.Unix(ts.Seconds, ts.Nanoseconds).UTC()
}

// UnmarshalJSON accepts the object form and null.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*ts = Timestamp{}
		return nil
	}
	type rawTimestamp Timestamp
	var raw rawTimestamp
	if err := json.Unmarshal(data, &raw); err != nil {
		return errInvalidTimestamp
	}
	if raw.Nanoseconds < 0 || raw.Nanoseconds >= int64(time.Second) {
		return errInvalidTimestamp
	}
	*ts = Timestamp(raw)
	return nil
}

// OptionalTimestamp encodes a nil time as JSON null.
func OptionalTimestamp(value *time.Time) *Timestamp {
	if value == nil {
		return nil
	}
	ts := TimestampFrom(*value)
	return &ts
}

func (ts *Timestamp) TimePtr() *time.Time {
	if ts == nil {
		return nil
	}
	value := ts.Time()
	if value.IsZero() {
		return nil
	}
	return &value
}
