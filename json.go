package kukan

import (
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json/jsontext"
)

// MarshalJSONTo encodes the Index as the array [position, generation].
func (i Index) MarshalJSONTo(enc *jsontext.Encoder) error {
	if err := enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.Uint(uint64(i.position))); err != nil {
		return err
	}
	if err := enc.WriteToken(jsontext.Uint(uint64(i.generation))); err != nil {
		return err
	}
	return enc.WriteToken(jsontext.EndArray)
}

// UnmarshalJSONFrom decodes the array form written by MarshalJSONTo.
func (i *Index) UnmarshalJSONFrom(dec *jsontext.Decoder) error {
	tok, err := dec.ReadToken()
	if err != nil {
		return err
	}
	if tok.Kind() != '[' {
		return fmt.Errorf("%w: expected array, got %v", ErrMalformedIndex, tok.Kind())
	}
	var parts [2]uint32
	for n := range parts {
		if parts[n], err = readUint32(dec); err != nil {
			return err
		}
	}
	tok, err = dec.ReadToken()
	if err != nil {
		return err
	}
	if tok.Kind() != ']' {
		return fmt.Errorf("%w: expected two elements", ErrMalformedIndex)
	}
	*i = FromRawParts(parts[0], parts[1])
	return nil
}

func readUint32(dec *jsontext.Decoder) (uint32, error) {
	tok, err := dec.ReadToken()
	if err != nil {
		return 0, err
	}
	if tok.Kind() != '0' {
		return 0, fmt.Errorf("%w: expected number, got %v", ErrMalformedIndex, tok.Kind())
	}
	v, err := strconv.ParseUint(tok.String(), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedIndex, err)
	}
	return uint32(v), nil
}
