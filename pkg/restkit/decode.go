package restkit

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode converts a decoded JSON value (as returned by resource operations)
// into T, matching struct fields by their json tags.
func Decode[T any](value any) (T, error) {
	var out T

	err := DecodeInto(value, &out)

	return out, err
}

// DecodeInto converts a decoded JSON value into the value pointed to by out.
func DecodeInto(value any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc("2006-01-02T15:04:05Z07:00"),
		),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(value)
	if err != nil {
		return fmt.Errorf("decoding %T: %w", out, err)
	}

	return nil
}
