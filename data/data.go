// Package data provides the building blocks for typed test data: a Source marker saying
// where a value came from, strict JSON deserialization that refuses payloads which do not
// match the target type, and canonical comparison that ignores field order.
package data

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/sylph-test/sylph/framework/helpers"
)

// Source says where a data object's values originated. Comparing an object built by the
// test ("automation") against the same object read back from an API or a UI is the core
// assertion pattern this package supports.
type Source string

const (
	SourceAutomation Source = "automation"
	SourceAPIRequest Source = "api_request"
	SourceApp        Source = "app"
)

// Object is embedded in test data types to carry the Source marker. The marker is
// excluded from serialization and from equality.
type Object struct {
	source Source
}

func (o *Object) Source() Source          { return o.source }
func (o *Object) SetSource(source Source) { o.source = source }

// Sourced is implemented by any type that embeds Object.
type Sourced interface {
	SetSource(Source)
}

// ContractViolation is returned when a payload does not deserialize cleanly into the
// expected type, which in an automated test usually means the system under test broke
// its data contract.
type ContractViolation struct {
	TargetType string
	Err        error
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("payload did not match %s: %s", e.TargetType, e.Err)
}

func (e *ContractViolation) Unwrap() error { return e.Err }

// Decode deserializes a JSON payload into T, rejecting unknown fields. On failure it
// returns the zero value and a ContractViolation, never a partially filled value. If T
// embeds Object, the source marker is set on the result.
func Decode[T any](jsonData []byte, source Source) (T, error) {
	var value T
	decoder := json.NewDecoder(bytes.NewReader(jsonData))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&value); err != nil {
		var zero T
		// TypeOf on the pointer keeps this working when T is an interface type, where
		// TypeOf(zero) would be nil.
		return zero, &ContractViolation{TargetType: reflect.TypeOf(&zero).Elem().String(), Err: err}
	}
	if sourced, ok := any(&value).(Sourced); ok {
		sourced.SetSource(source)
	}
	return value, nil
}

// DecodeValue is Decode for a payload that is already an unmarshaled value rather than
// raw JSON, such as a field of type interface{} from a larger document.
func DecodeValue[T any](value interface{}, source Source) (T, error) {
	return Decode[T](helpers.AsJSON(value), source)
}

// Fields returns the serialized form of a data object as a map, which is convenient for
// asserting on a subset of properties.
func Fields(value interface{}) (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(helpers.AsJSON(value), &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// Equal compares two data objects by their canonical serialized form, so field order and
// the Source marker do not matter.
func Equal(a, b interface{}) bool {
	return helpers.JSONEqual(helpers.AsJSON(a), helpers.AsJSON(b))
}
