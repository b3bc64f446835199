// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package encoder

import (
	"bytes"
	"encoding"
	"encoding/binary"
	"errors"
	"io"
	"strconv"

	grep "github.com/thaliaarchi/decus-grep"
)

// Pattern signature and version are written to the header of an encoded
// Pattern. Patterns are encoded with the current PatternVersion and its
// format.
const (
	PatternSignature uint32 = 0x444750
	PatternVersion   uint16 = 1
)

const headerSize = 6

// Pattern wraps a compiled pattern to implement encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler.
type Pattern struct {
	*grep.Pattern
}

var (
	_ encoding.BinaryMarshaler   = Pattern{}
	_ encoding.BinaryUnmarshaler = (*Pattern)(nil)
)

// EncodePatternTo encodes given p to w io.Writer.
func EncodePatternTo(p *grep.Pattern, w io.Writer) error {
	data, err := Pattern{p}.MarshalBinary()
	if err != nil {
		return err
	}
	n, err := w.Write(data)
	if err != nil {
		return err
	}
	if n != len(data) {
		return errors.New("short write")
	}
	return nil
}

// DecodePatternFrom decodes a *grep.Pattern from given r io.Reader.
func DecodePatternFrom(r io.Reader) (*grep.Pattern, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	var p Pattern
	if err := p.UnmarshalBinary(buf.Bytes()); err != nil {
		return nil, err
	}
	return p.Pattern, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p Pattern) MarshalBinary() ([]byte, error) {
	if p.Pattern == nil {
		return nil, &grep.Error{
			Name:    "encoder.Pattern.MarshalBinary",
			Message: "nil pattern",
		}
	}
	switch PatternVersion {
	case 1:
		code := p.Bytes()
		data := make([]byte, headerSize, headerSize+binary.MaxVarintLen64+len(code))
		binary.BigEndian.PutUint32(data[0:4], PatternSignature)
		binary.BigEndian.PutUint16(data[4:6], PatternVersion)
		data = binary.AppendUvarint(data, uint64(len(code)))
		return append(data, code...), nil
	default:
		panic("invalid Pattern version:" + strconv.Itoa(int(PatternVersion)))
	}
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. The bytecode is
// not validated.
func (p *Pattern) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return &grep.Error{
			Name:    "encoder.Pattern.UnmarshalBinary",
			Message: "invalid data",
		}
	}

	sig := binary.BigEndian.Uint32(data[0:4])
	if sig != PatternSignature {
		return &grep.Error{
			Name:    "encoder.Pattern.UnmarshalBinary",
			Message: "signature mismatch",
		}
	}

	version := binary.BigEndian.Uint16(data[4:6])
	switch version {
	case PatternVersion:
		return p.patternV1Decoder(data[headerSize:])
	default:
		return &grep.Error{
			Name:    "encoder.Pattern.UnmarshalBinary",
			Message: "unsupported version:" + strconv.Itoa(int(version)),
		}
	}
}

func (p *Pattern) patternV1Decoder(data []byte) error {
	size, n := binary.Uvarint(data)
	if n <= 0 {
		return &grep.Error{
			Name:    "encoder.Pattern.UnmarshalBinary",
			Message: "invalid length",
		}
	}
	data = data[n:]
	if size == 0 || uint64(len(data)) != size {
		return &grep.Error{
			Name: "encoder.Pattern.UnmarshalBinary",
			Message: "length mismatch: want " + strconv.FormatUint(size, 10) +
				", got " + strconv.Itoa(len(data)),
		}
	}
	p.Pattern = grep.FromBytes(data)
	return nil
}
