package lob

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ObjectType is the literal "object" tag carried by every API resource.
type ObjectType string

const (
	ObjectAddress          ObjectType = "address"
	ObjectUSVerification   ObjectType = "us_verification"
	ObjectUSAutocompletion ObjectType = "us_autocompletion"
	ObjectUSZipLookup      ObjectType = "us_zip_lookup"
	ObjectIntlVerification ObjectType = "intl_verification"
	ObjectPostcard         ObjectType = "postcard"
	ObjectLetter           ObjectType = "letter"
	ObjectCheck            ObjectType = "check"
	ObjectBankAccount      ObjectType = "bank_account"
	ObjectTrackingEvent    ObjectType = "tracking_event"
	ObjectEvent            ObjectType = "event"
	ObjectEventType        ObjectType = "event_type"
	ObjectEnvelope         ObjectType = "envelope"
	ObjectList             ObjectType = "list"
)

// ObjectMismatchError is returned when a payload's object tag is not the one
// the target type expects.
type ObjectMismatchError struct {
	Expected ObjectType
	Found    string
}

func (e *ObjectMismatchError) Error() string {
	return fmt.Sprintf("expected object %q, found %q", e.Expected, e.Found)
}

// decodeObject checks the object tag of data before decoding it into v.
// v must not be a type whose UnmarshalJSON calls decodeObject again.
func decodeObject(data []byte, want ObjectType, v any) error {
	var probe struct {
		Object *string `json:"object"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	found := ""
	if probe.Object != nil {
		found = *probe.Object
	}
	if found != string(want) {
		return &ObjectMismatchError{Expected: want, Found: found}
	}
	return json.Unmarshal(data, v)
}

// encodeObject marshals v, a JSON object, with the object tag prepended.
func encodeObject(tag ObjectType, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if len(data) < 2 || data[0] != '{' {
		return nil, fmt.Errorf("cannot tag non-object encoding of %T", v)
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + len(tag) + 12)
	buf.WriteString(`{"object":`)
	tagJSON, _ := json.Marshal(string(tag))
	buf.Write(tagJSON)
	if rest := bytes.TrimSpace(data[1:]); len(rest) > 0 && rest[0] != '}' {
		buf.WriteByte(',')
	}
	buf.Write(data[1:])
	return buf.Bytes(), nil
}
