// Package placement encodes rigid placements as tabular axis-angle records
// and persists them as CSV batches keyed by occurrence label.
package placement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mahaarbo/step-to-meshes/pkg/spatial"
)

// MetersPerUnit converts source CAD length units (millimeters) to the meters
// stored in placement files. Applied to translations at the serialization
// boundary only; in-memory placements stay in source units.
const MetersPerUnit = 1e-3

// Header is the column layout of a placements file.
var Header = []string{"Label", "x [m]", "y [m]", "z [m]", "axis_x", "axis_y", "axis_z", "angle"}

// ErrMalformedRecord indicates a placements row with the wrong field count or
// non-numeric fields.
var ErrMalformedRecord = errors.New("placement: malformed record")

// Row pairs an occurrence label with its placement.
type Row struct {
	Label     string
	Placement spatial.Placement
}

// Encode returns the CSV fields for one placement: translation in meters,
// then unit axis and angle in radians.
func Encode(label string, p spatial.Placement) []string {
	return []string{
		label,
		formatFloat(p.Base.X * MetersPerUnit),
		formatFloat(p.Base.Y * MetersPerUnit),
		formatFloat(p.Base.Z * MetersPerUnit),
		formatFloat(p.Axis.X),
		formatFloat(p.Axis.Y),
		formatFloat(p.Axis.Z),
		formatFloat(p.Angle),
	}
}

// Decode parses one data row back into a labeled placement in source units.
func Decode(fields []string) (Row, error) {
	if len(fields) != len(Header) {
		return Row{}, fmt.Errorf("%w: got %d fields, want %d", ErrMalformedRecord, len(fields), len(Header))
	}
	vals := make([]float64, len(fields)-1)
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Row{}, fmt.Errorf("%w: field %q is not numeric", ErrMalformedRecord, f)
		}
		vals[i] = v
	}
	return Row{
		Label: fields[0],
		Placement: spatial.Placement{
			Base:  spatial.Vec3{X: vals[0] / MetersPerUnit, Y: vals[1] / MetersPerUnit, Z: vals[2] / MetersPerUnit},
			Axis:  spatial.Vec3{X: vals[3], Y: vals[4], Z: vals[5]},
			Angle: vals[6],
		},
	}, nil
}

// WriteBatch writes a header row followed by one row per entry, in input
// order, truncating any existing file. Parent directories are created.
func WriteBatch(path string, rows []Row) error {
	return writeBatch(path, rows, false)
}

// AppendBatch appends rows to an existing placements file, writing the
// header only when the file is created by this call.
func AppendBatch(path string, rows []Row) error {
	return writeBatch(path, rows, true)
}

func writeBatch(path string, rows []Row, appendMode bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("placement: create directory for %q: %w", path, err)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmt.Errorf("placement: open %q: %w", path, err)
	}
	defer f.Close()

	writeHeader := !appendMode
	if appendMode {
		if info, err := f.Stat(); err == nil && info.Size() == 0 {
			writeHeader = true
		}
	}

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("placement: write header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(Encode(row.Label, row.Placement)); err != nil {
			return fmt.Errorf("placement: write row %q: %w", row.Label, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("placement: flush %q: %w", path, err)
	}
	return f.Close()
}

// ReadBatch reads a placements file back into labeled placements, preserving
// row order. The header row is required.
func ReadBatch(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("placement: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // field count validated per row for a precise error

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("placement: read %q: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q has no header row", ErrMalformedRecord, path)
	}

	rows := make([]Row, 0, len(records)-1)
	for i, rec := range records[1:] {
		row, err := Decode(rec)
		if err != nil {
			return nil, fmt.Errorf("%q row %d: %w", path, i+1, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SanitizeLabel makes a part label safe for file paths and CSV rows,
// replacing the occurrence separator ":" with "__" and path separators
// with "_".
func SanitizeLabel(label string) string {
	label = strings.ReplaceAll(label, ":", "__")
	label = strings.ReplaceAll(label, "/", "_")
	label = strings.ReplaceAll(label, "\\", "_")
	return label
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
