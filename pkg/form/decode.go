package form

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode binds the visible value of n into out (a pointer), weakly typed.
func Decode(n Node, out any) error {
	return decode(n.Value(), out)
}

// DecodeFull binds the full value of n into out.
func DecodeFull(n Node, out any) error {
	return decode(n.FullValue(), out)
}

func decode(v, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		TagName:          "form",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode form value: %w", err)
	}
	return nil
}
