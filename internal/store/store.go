package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/genricoloni/playersnap/internal/domain"
)

// ErrDecode matches every DecodeError via errors.Is
var ErrDecode = errors.New("malformed state record")

// DecodeError reports persisted content that is present but cannot be turned into a valid record
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %v", ErrDecode, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Save writes rec to w as indented JSON. The empty record is written as {}.
func Save(w io.Writer, rec domain.Record) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("refusing to save: %w", err)
	}

	var data []byte
	if rec.IsEmpty() {
		data = []byte("{}")
	} else {
		var err error
		data, err = json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}
	return nil
}

// Load reads a record from r.
// Blank input yields (nil, nil): there is nothing to resume.
// Present but invalid input yields a *DecodeError.
func Load(r io.Reader) (*domain.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	return decode(data)
}

// wireRecord accepts position written either as an integer or as an
// integral float such as 42.0
type wireRecord struct {
	domain.Record
	Position json.Number `json:"position"`
}

func parsePosition(n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid position %q: %w", n, err)
	}
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("position %s is not a whole number of microseconds", n)
	}
	return int64(f), nil
}

func decode(data []byte) (*domain.Record, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var wire wireRecord
	if err := dec.Decode(&wire); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if dec.More() {
		return nil, &DecodeError{Err: errors.New("trailing data after record")}
	}
	pos, err := parsePosition(wire.Position)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	rec := wire.Record
	rec.Position = pos
	if err := rec.Validate(); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &rec, nil
}

// SaveFile writes rec to path atomically (temp file, then rename)
func SaveFile(path string, rec domain.Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}

	if err := Save(f, rec); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to close state file: %w", err)
	}

	return os.Rename(tmp, path)
}

// LoadFile reads the record stored at path.
// A missing file is treated like an empty one.
func LoadFile(path string) (*domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}
	return decode(data)
}
