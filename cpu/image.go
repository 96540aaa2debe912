package cpu

import (
	"encoding/binary"
	"io"
	"iter"
)

// Image is a program image: an origin address and the words placed there.
type Image struct {
	Origin uint16
	Words  []uint16
}

// ReadImage parses an image from r. The first big-endian word is the origin,
// and every following big-endian word is loaded at consecutive addresses.
func ReadImage(r io.Reader) (img *Image, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return
	}

	return ParseImage(data)
}

// ParseImage parses an image from a byte buffer.
func ParseImage(data []byte) (img *Image, err error) {
	if len(data) < 2 {
		err = &ErrImage{Offset: len(data), Err: ErrMalformedImage}
		return
	}
	if len(data)%2 != 0 {
		err = &ErrImage{Offset: len(data) - 1, Err: ErrMalformedImage}
		return
	}

	img = &Image{
		Origin: binary.BigEndian.Uint16(data[0:2]),
		Words:  make([]uint16, 0, (len(data)-2)/2),
	}
	for n := 2; n < len(data); n += 2 {
		img.Words = append(img.Words, binary.BigEndian.Uint16(data[n:n+2]))
	}

	return
}

// MarshalBinary returns the image in its file format.
func (img *Image) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 0, 2+2*len(img.Words))
	data = binary.BigEndian.AppendUint16(data, img.Origin)
	for _, word := range img.Words {
		data = binary.BigEndian.AppendUint16(data, word)
	}
	return
}

// Load places the image into memory, wrapping past 0xFFFF.
func (img *Image) Load(mem *Memory) {
	mem.Load(img.Origin, img.Words)
}

// Contains reports whether addr was loaded from this image.
func (img *Image) Contains(addr uint16) bool {
	return uint16(addr-img.Origin) < uint16(len(img.Words)) || len(img.Words) > 0xffff
}

// Codes returns an iterator over the address and instruction of each word.
func (img *Image) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		addr := img.Origin
		for _, word := range img.Words {
			if !yield(addr, Code{Word: word}) {
				return
			}
			addr++
		}
	}
}

// NewImage creates an image from a sequence of instructions.
func NewImage(origin uint16, codes ...Code) (img *Image) {
	img = &Image{Origin: origin}
	for _, code := range codes {
		img.Words = append(img.Words, code.Word)
	}
	return
}
