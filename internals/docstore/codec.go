package docstore

import (
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"
)

// timestampKey tags an encoded Timestamp inside persisted JSON so the
// backends that only keep JSON can hand back a typed value.
const timestampKey = "__timestamp"

// EncodeValue turns a document value into something JSON can carry.
func EncodeValue(v any) any {
	switch x := v.(type) {
	case Timestamp:
		return map[string]any{timestampKey: x.UTC().Format(time.RFC3339Nano)}
	case *Timestamp:
		if x == nil {
			return nil
		}
		return map[string]any{timestampKey: x.UTC().Format(time.RFC3339Nano)}
	case map[string]any:
		return EncodeData(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = EncodeValue(e)
		}
		return out
	default:
		return v
	}
}

// DecodeValue reverses EncodeValue.
func DecodeValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		if raw, ok := x[timestampKey].(string); ok && len(x) == 1 {
			if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
				return Timestamp{Time: t}
			}
		}
		return DecodeData(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = DecodeValue(e)
		}
		return out
	default:
		return v
	}
}

func EncodeData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = EncodeValue(v)
	}
	return out
}

func DecodeData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = DecodeValue(v)
	}
	return out
}

// Marshal encodes document data as JSON.
func Marshal(data map[string]any) ([]byte, error) {
	b, err := sonic.Marshal(EncodeData(data))
	if err != nil {
		return nil, errors.Wrap(err, "encode document")
	}
	return b, nil
}

// Unmarshal decodes JSON produced by Marshal.
func Unmarshal(b []byte) (map[string]any, error) {
	var raw map[string]any
	if err := sonic.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "decode document")
	}
	if raw == nil {
		raw = map[string]any{}
	}
	return DecodeData(raw), nil
}

// MarshalValue encodes a single field value, used by stores that keep one
// JSON blob per field.
func MarshalValue(v any) (string, error) {
	b, err := sonic.Marshal(EncodeValue(v))
	if err != nil {
		return "", errors.Wrap(err, "encode field")
	}
	return string(b), nil
}

func UnmarshalValue(s string) (any, error) {
	var v any
	if err := sonic.UnmarshalString(s, &v); err != nil {
		return nil, errors.Wrap(err, "decode field")
	}
	return DecodeValue(v), nil
}
