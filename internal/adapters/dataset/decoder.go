package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/parquet-go/parquet-go"

	"github.com/okian/gridiron/internal/domain/model"
)

// Rejects counts excluded rows by reason.
type Rejects map[string]int

// Total sums rejected rows across reasons.
func (r Rejects) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

func (r Rejects) merge(o Rejects) {
	for k, v := range o {
		r[k] += v
	}
}

// Decoder turns season file bytes into plays. It is safe for concurrent use.
type Decoder struct {
	zstdDecoder *zstd.Decoder
}

// NewDecoder creates a new season file decoder.
func NewDecoder() (*Decoder, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Decoder{zstdDecoder: dec}, nil
}

// Close releases decoder resources.
func (d *Decoder) Close() {
	if d.zstdDecoder != nil {
		d.zstdDecoder.Close()
	}
}

// Decode parses data in the given format. Malformed rows are excluded and
// counted; a file that cannot be decoded at all returns an error wrapping
// ErrDecode or ErrMissingColumn.
func (d *Decoder) Decode(f Format, data []byte) ([]model.Play, Rejects, error) {
	switch f {
	case FormatCSV:
		return DecodeCSV(bytes.NewReader(data))
	case FormatCSVGzip:
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: gzip: %v", ErrDecode, err)
		}
		defer zr.Close()
		return DecodeCSV(zr)
	case FormatCSVZstd:
		raw, err := d.zstdDecoder.DecodeAll(data, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: zstd: %v", ErrDecode, err)
		}
		return DecodeCSV(bytes.NewReader(raw))
	case FormatParquet:
		return DecodeParquet(data)
	}
	return nil, nil, fmt.Errorf("%w: unsupported format %q", ErrDecode, f)
}

// DecodeCSV reads a CSV stream with a header row.
func DecodeCSV(r io.Reader) ([]model.Play, Rejects, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	names, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: empty file", ErrDecode)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: header: %v", ErrDecode, err)
	}
	h, err := resolveHeader(names)
	if err != nil {
		return nil, nil, err
	}

	var plays []model.Play
	rejects := Rejects{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		p, reason := h.parseRecord(rec)
		if reason != "" {
			rejects[reason]++
			continue
		}
		plays = append(plays, p)
	}
	return plays, rejects, nil
}

// DecodeParquet reads a parquet file written with the Play schema.
func DecodeParquet(data []byte) ([]model.Play, Rejects, error) {
	rows, err := parquet.Read[model.Play](bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: parquet: %v", ErrDecode, err)
	}
	return keepValid(rows)
}

// EncodeParquet writes plays as a parquet file.
func EncodeParquet(w io.Writer, plays []model.Play) error {
	if err := parquet.Write(w, plays); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}
	return nil
}

// keepValid filters rows in place, counting rejections.
func keepValid(rows []model.Play) ([]model.Play, Rejects, error) {
	rejects := Rejects{}
	out := rows[:0]
	for i := range rows {
		if reason := validate(&rows[i]); reason != "" {
			rejects[reason]++
			continue
		}
		out = append(out, rows[i])
	}
	return out, rejects, nil
}
