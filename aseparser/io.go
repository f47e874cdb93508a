package aseparser

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"os"
)

// Decode decodes an Aseprite file held in memory.
func Decode(data []byte, opts ...Option) (*File, error) {
	return newDecoder(opts).decode(data)
}

// Read decodes an Aseprite file from r.
func Read(r io.Reader, opts ...Option) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("aseparser: reading: %w", err)
	}
	return Decode(data, opts...)
}

// DecodeFile loads and decodes the Aseprite file at path.
func DecodeFile(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(data, opts...)
}

// MustDecodeFile loads and decodes an Aseprite file from the given path.
// It panics if the file cannot be opened or parsed.
func MustDecodeFile(path string, opts ...Option) *File {
	f, err := DecodeFile(path, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// MustDecodeFileSystem loads and decodes an Aseprite file from the given fs path.
// It panics if the file cannot be opened or parsed.
func MustDecodeFileSystem(fsys fs.FS, path string, opts ...Option) *File {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		panic(err)
	}
	f, err := Decode(data, opts...)
	if err != nil {
		panic(err)
	}
	return f
}

// DecodeConfig returns the canvas size of an Aseprite file without
// decoding its frames.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return image.Config{}, err
	}
	rd := newReader(hdr[:], 0)
	h := readHeader(rd)
	if rd.err != nil {
		return image.Config{}, rd.err
	}
	if h.colorDepth != 32 {
		return image.Config{}, &FormatError{Offset: 12, Msg: fmt.Sprintf("color depth %d is not supported, only 32-bit RGBA", h.colorDepth)}
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      h.width,
		Height:     h.height,
	}, nil
}
