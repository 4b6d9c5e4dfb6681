package edf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// File is a fully decoded EDF or EDF+ file.
type File struct {
	Header Header
	// Samples holds physical-unit samples per signal, indexed like
	// Header.Signals. Annotation signals have a nil entry.
	Samples [][]float64
	// Annotations holds the decoded EDF+ time-stamped annotation lists in
	// file order, excluding the per-record time-keeping entries.
	Annotations []TAL
}

// ParseFile opens and decodes the EDF file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return Parse(bufio.NewReaderSize(f, 64*1024), info.Size())
}

// maxPreallocRecords bounds sample preallocation when the stream length is
// unknown and the header count cannot be checked against it.
const maxPreallocRecords = 4096

// Parse decodes an EDF stream. size is the total stream length in bytes; it
// resolves an unknown (-1) data-record count and rejects a declared count the
// stream cannot hold. Pass a negative size to skip both and read until EOF
// (or the declared count).
func Parse(r io.Reader, size int64) (*File, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	recordBytes := h.RecordBytes()
	numRecords := h.NumRecords
	if size >= 0 {
		available := (size - int64(h.HeaderBytes)) / int64(recordBytes)
		if numRecords == -1 {
			numRecords = int(available)
		} else if int64(numRecords) > available {
			return nil, fmt.Errorf("data record %d of %d: %w", available, numRecords, io.ErrUnexpectedEOF)
		}
	}

	file := &File{Header: h, Samples: make([][]float64, len(h.Signals))}
	for i, sig := range h.Signals {
		if sig.IsAnnotations() {
			continue
		}
		capacity := 0
		if numRecords > 0 {
			capacity = min(numRecords, maxPreallocRecords) * sig.SamplesPerRecord
		}
		file.Samples[i] = make([]float64, 0, capacity)
	}

	buf := make([]byte, recordBytes)
	read := 0
	for numRecords < 0 || read < numRecords {
		if _, err := io.ReadFull(r, buf); err != nil {
			if numRecords < 0 && errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("data record %d of %d: %w", read, numRecords, truncated(err))
		}
		if err := file.decodeRecord(read, buf); err != nil {
			return nil, err
		}
		read++
	}
	file.Header.NumRecords = read
	return file, nil
}

func (f *File) decodeRecord(index int, buf []byte) error {
	off := 0
	for i, sig := range f.Header.Signals {
		n := sig.SamplesPerRecord * 2
		chunk := buf[off : off+n]
		off += n
		if sig.IsAnnotations() {
			tals, err := parseTALs(chunk)
			if err != nil {
				return fmt.Errorf("data record %d: annotations: %w", index, err)
			}
			f.Annotations = append(f.Annotations, tals...)
			continue
		}
		for j := 0; j < n; j += 2 {
			digital := int16(binary.LittleEndian.Uint16(chunk[j:]))
			f.Samples[i] = append(f.Samples[i], sig.Physical(digital))
		}
	}
	return nil
}

func truncated(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}
