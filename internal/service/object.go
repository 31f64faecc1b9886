package service

import (
	"encoding/json"
	"github.com/buger/jsonparser"
)

// Object is an opaque provider payload. Only the fields this package relies on get accessors;
// everything else stays reachable through Raw or Decode.
type Object struct {
	raw json.RawMessage
}

func NewObject(raw []byte) Object {
	if len(raw) == 0 {
		return Object{}
	}

	return Object{raw: append(json.RawMessage(nil), raw...)}
}

func newObjectFrom(v any) Object {
	raw, err := json.Marshal(v)
	if err != nil {
		return Object{}
	}

	return Object{raw: raw}
}

func (o Object) IsEmpty() bool {
	return len(o.raw) == 0
}

func (o Object) Raw() json.RawMessage {
	return o.raw
}

func (o Object) Decode(v any) error {
	if o.IsEmpty() {
		return json.Unmarshal([]byte("null"), v)
	}

	return json.Unmarshal(o.raw, v)
}

func (o Object) MarshalJSON() ([]byte, error) {
	if o.IsEmpty() {
		return []byte("null"), nil
	}

	return o.raw, nil
}

// String returns the string at the given key path, or "" when it is absent or not a string.
func (o Object) String(keys ...string) string {
	value, err := jsonparser.GetString(o.raw, keys...)
	if err != nil {
		return ""
	}

	return value
}

// Int returns the integer at the given key path, or 0 when it is absent or not a number.
func (o Object) Int(keys ...string) int64 {
	value, err := jsonparser.GetInt(o.raw, keys...)
	if err != nil {
		return 0
	}

	return value
}

func (o Object) ID() string {
	return o.String("id")
}

func (o Object) Type() string {
	return o.String("object")
}

func (o Object) URL() string {
	return o.String("url")
}

// Amount reads "amount", falling back to "amount_total" used by checkout sessions.
func (o Object) Amount() int64 {
	if _, _, _, err := jsonparser.Get(o.raw, "amount"); err == nil {
		return o.Int("amount")
	}

	return o.Int("amount_total")
}

func (o Object) Currency() string {
	return o.String("currency")
}

func (o Object) Metadata() map[string]string {
	metadata := make(map[string]string)

	_ = jsonparser.ObjectEach(o.raw, func(key []byte, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.String {
			return nil
		}

		parsed, err := jsonparser.ParseString(value)
		if err != nil {
			return nil
		}

		metadata[string(key)] = parsed
		return nil
	}, "metadata")

	return metadata
}
