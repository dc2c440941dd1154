package corpus

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bastiangx/linkmatch/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format is a fixture encoding.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatMsgpack
	FormatMsgpackZstd
)

var ErrUnknownFormat = errors.New("unknown corpus format")

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatMsgpack:
		return "msgpack"
	case FormatMsgpackZstd:
		return "msgpack+zstd"
	default:
		return "unknown"
	}
}

// FormatFor picks the format from the file name.
func FormatFor(path string) Format {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".mpk.zst"):
		return FormatMsgpackZstd
	case strings.HasSuffix(name, ".mpk"):
		return FormatMsgpack
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// Load reads a fixture file.
func Load(path string) (*File, error) {
	format := FormatFor(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := Decode(fh, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debugf("Loaded %d sentences from %s (%s)", len(f.Sentences), path, format)
	return f, nil
}

// Save writes f to path in the format its extension names.
func Save(f *File, path string) error {
	format := FormatFor(path)
	if format == FormatUnknown {
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, f, format)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Decode reads a fixture in the given format.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatMsgpack:
		if err := msgpack.NewDecoder(r).Decode(&f); err != nil {
			return nil, err
		}
	case FormatMsgpackZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		if err := msgpack.NewDecoder(zr).Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownFormat
	}
	return &f, nil
}

// Encode writes f in the given format.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	case FormatMsgpack:
		return msgpack.NewEncoder(w).Encode(f)
	case FormatMsgpackZstd:
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return err
		}
		if err := msgpack.NewEncoder(zw).Encode(f); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	default:
		return ErrUnknownFormat
	}
}
