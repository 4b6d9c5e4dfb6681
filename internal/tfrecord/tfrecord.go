// Package tfrecord reads and writes the TFRecord framing used by TensorFlow:
// each record is stored as
//
//	uint64 length | uint32 masked crc32c(length) | data | uint32 masked crc32c(data)
//
// with all integers little-endian.
package tfrecord

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

const (
	headerSize = 8 + 4
	footerSize = 4
	maskDelta  = 0xa282ead8

	// MaxRecordSize bounds the length a reader will allocate for one record.
	MaxRecordSize = 1 << 31
)

// ErrCorrupt reports a checksum mismatch or an implausible record length.
var ErrCorrupt = errors.New("tfrecord: corrupt record")

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// MaskedCRC returns the masked CRC32C of data.
func MaskedCRC(data []byte) uint32 {
	crc := crc32.Checksum(data, castagnoli)
	return ((crc >> 15) | (crc << 17)) + maskDelta
}

// Writer appends framed records to an underlying writer.
type Writer struct {
	w   io.Writer
	buf [headerSize]byte
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write frames and writes one record.
func (w *Writer) Write(record []byte) error {
	binary.LittleEndian.PutUint64(w.buf[:8], uint64(len(record)))
	binary.LittleEndian.PutUint32(w.buf[8:], MaskedCRC(w.buf[:8]))
	if _, err := w.w.Write(w.buf[:]); err != nil {
		return fmt.Errorf("write record header: %w", err)
	}
	if _, err := w.w.Write(record); err != nil {
		return fmt.Errorf("write record data: %w", err)
	}
	var footer [footerSize]byte
	binary.LittleEndian.PutUint32(footer[:], MaskedCRC(record))
	if _, err := w.w.Write(footer[:]); err != nil {
		return fmt.Errorf("write record footer: %w", err)
	}
	return nil
}

// FrameSize returns the on-disk size of a record with the given payload length.
func FrameSize(payload int) int64 {
	return int64(headerSize + payload + footerSize)
}

// Reader iterates over framed records.
type Reader struct {
	r io.Reader
}

// NewReader returns a Reader on r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next returns the next record. It returns io.EOF at a clean end of stream,
// io.ErrUnexpectedEOF for a truncated record and ErrCorrupt when a checksum
// does not match.
func (r *Reader) Next() ([]byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r.r, header[:]); err != nil {
		return nil, err
	}
	length := binary.LittleEndian.Uint64(header[:8])
	if MaskedCRC(header[:8]) != binary.LittleEndian.Uint32(header[8:]) {
		return nil, fmt.Errorf("%w: length checksum mismatch", ErrCorrupt)
	}
	if length > MaxRecordSize {
		return nil, fmt.Errorf("%w: record length %d exceeds limit", ErrCorrupt, length)
	}

	data := make([]byte, int(length)+footerSize)
	if _, err := io.ReadFull(r.r, data); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}
	record := data[:length]
	if MaskedCRC(record) != binary.LittleEndian.Uint32(data[length:]) {
		return nil, fmt.Errorf("%w: data checksum mismatch", ErrCorrupt)
	}
	return record, nil
}

// ReadAll returns every record in r.
func ReadAll(r io.Reader) ([][]byte, error) {
	reader := NewReader(r)
	var out [][]byte
	for {
		record, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("record %d: %w", len(out), err)
		}
		out = append(out, record)
	}
}
