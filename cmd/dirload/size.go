// size.go - a flag.Value for size-suffixed buffer flags
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import "github.com/opencoff/go-utils"

// sizeValue is a pflag.Value wrapping go-utils' size parser, so
// --read_buffer_size/--write_buffer_size accept both a plain integer
// and a "64k"/"1M"-suffixed size (a superset of spec's plain-integer
// requirement; NormalizeBufferSize still rejects anything over
// MaxBufferSize after parsing).
type sizeValue uint64

func newSizeValue(def uint64, p *uint64) *sizeValue {
	*p = def
	return (*sizeValue)(p)
}

func (v *sizeValue) String() string {
	if v == nil {
		return "0"
	}
	return utils.HumanizeSize(uint64(*v))
}

func (v *sizeValue) Set(s string) error {
	z, err := utils.ParseSize(s)
	if err != nil {
		return err
	}
	*v = sizeValue(z)
	return nil
}

func (v *sizeValue) Type() string {
	return "size"
}
