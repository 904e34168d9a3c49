// Package compress holds the compressors object stores use for frames at rest.
package compress

import (
	"bytes"
	"io/ioutil"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Compressor turns a frame into its at-rest form and back.
// Uncompress must be the inverse of Compress.
type Compressor interface {
	Compress([]byte) ([]byte, error)
	Uncompress([]byte) ([]byte, error)
}

// Default is the compressor used for loose objects:
// zlib at the default level, as in a VCS object database.
var Default Compressor = Zlib{Level: zlib.DefaultCompression}

// Zlib is a Compressor implementing the RFC1950 zlib format.
type Zlib struct {
	Level int
}

// Compress implements Compressor.Compress.
func (z Zlib) Compress(inp []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w, err := zlib.NewWriterLevel(buf, clampLevel(z.Level))
	if err != nil {
		return nil, errors.Wrap(err, "creating zlib writer")
	}
	if _, err = w.Write(inp); err != nil {
		return nil, errors.Wrap(err, "zlib-compressing")
	}
	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "finishing zlib stream")
	}
	return buf.Bytes(), nil
}

// Uncompress implements Compressor.Uncompress.
func (Zlib) Uncompress(inp []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(inp))
	if err != nil {
		return nil, errors.Wrap(err, "opening zlib stream")
	}
	defer r.Close()
	out, err := ioutil.ReadAll(r)
	return out, errors.Wrap(err, "zlib-uncompressing")
}

// Flate is a Compressor implementing raw RFC1951 DEFLATE compression.
type Flate struct {
	Level int
}

// Compress implements Compressor.Compress.
func (f Flate) Compress(inp []byte) ([]byte, error) {
	buf := new(bytes.Buffer)
	w, err := flate.NewWriter(buf, clampLevel(f.Level))
	if err != nil {
		return nil, errors.Wrap(err, "creating flate writer")
	}
	if _, err = w.Write(inp); err != nil {
		return nil, errors.Wrap(err, "flate-compressing")
	}
	if err = w.Close(); err != nil {
		return nil, errors.Wrap(err, "finishing flate stream")
	}
	return buf.Bytes(), nil
}

// Uncompress implements Compressor.Uncompress.
func (Flate) Uncompress(inp []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(inp))
	defer r.Close()
	out, err := ioutil.ReadAll(r)
	return out, errors.Wrap(err, "flate-uncompressing")
}

// None stores frames as-is.
type None struct{}

// Compress implements Compressor.Compress.
func (None) Compress(inp []byte) ([]byte, error) { return inp, nil }

// Uncompress implements Compressor.Uncompress.
func (None) Uncompress(inp []byte) ([]byte, error) { return inp, nil }

// ByName returns the compressor with the given name
// ("zlib", "flate", or "none") at the given level.
func ByName(name string, level int) (Compressor, error) {
	switch name {
	case "", "zlib":
		return Zlib{Level: level}, nil
	case "flate":
		return Flate{Level: level}, nil
	case "none":
		return None{}, nil
	default:
		return nil, errors.Errorf("unknown compressor %q", name)
	}
}

func clampLevel(level int) int {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return flate.DefaultCompression
	}
	return level
}
