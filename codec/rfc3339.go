package codec

import (
	"fmt"
	"time"

	"github.com/reoring/goprops/jsonschema"
	"github.com/reoring/goprops/types"
)

// TimeRFC3339 returns a plugin that stores time.Time as an RFC3339 string.
// Serialization normalizes to UTC.
func TimeRFC3339() types.CustomType { return rfc3339Plugin{} }

type rfc3339Plugin struct{}

func (rfc3339Plugin) Name() string { return "Time" }

func (rfc3339Plugin) IsInstance(v any) bool {
	_, ok := v.(time.Time)
	return ok
}

func (rfc3339Plugin) Serialize(v any) (any, error) {
	t, ok := v.(time.Time)
	if !ok {
		return nil, fmt.Errorf("expected time.Time, got %T", v)
	}
	return formatRFC3339Canonical(t), nil
}

func (rfc3339Plugin) Deserialize(plain any) (any, error) {
	switch v := plain.(type) {
	case string:
		return parseRFC3339(v)
	case time.Time:
		return v, nil
	}
	return nil, fmt.Errorf("expected RFC3339 string, got %T", plain)
}

func (rfc3339Plugin) JSONSchema() (*jsonschema.Schema, error) {
	return &jsonschema.Schema{Type: "string", Format: "date-time"}, nil
}

// Duration returns a plugin that stores time.Duration in its String form
// (for example "1h30m").
func Duration() types.CustomType { return durationPlugin{} }

type durationPlugin struct{}

func (durationPlugin) Name() string { return "Duration" }

func (durationPlugin) IsInstance(v any) bool {
	_, ok := v.(time.Duration)
	return ok
}

func (durationPlugin) Serialize(v any) (any, error) {
	d, ok := v.(time.Duration)
	if !ok {
		return nil, fmt.Errorf("expected time.Duration, got %T", v)
	}
	return d.String(), nil
}

func (durationPlugin) Deserialize(plain any) (any, error) {
	s, ok := plain.(string)
	if !ok {
		return nil, fmt.Errorf("expected duration string, got %T", plain)
	}
	return time.ParseDuration(s)
}

func (durationPlugin) JSONSchema() (*jsonschema.Schema, error) {
	return &jsonschema.Schema{Type: "string", Pattern: `^-?([0-9]+(\.[0-9]*)?(ns|us|µs|ms|s|m|h))+$|^0$`}, nil
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func formatRFC3339Canonical(t time.Time) string {
	// Go trims trailing zeros of RFC3339Nano.
	return t.UTC().Format(time.RFC3339Nano)
}
