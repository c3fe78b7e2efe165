// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package packdata

import (
	"encoding/binary"
	"io"

	"go.chromium.org/luci/common/errors"
)

// TrailerSize is the size in bytes of the bundle trailer: a little-endian
// uint64 holding the byte offset at which the payload begins.
const TrailerSize = 8

// WriteTrailer writes the 8-byte trailer for a payload beginning at
// offset.
func WriteTrailer(w io.Writer, offset uint64) error {
	var buf [TrailerSize]byte
	binary.LittleEndian.PutUint64(buf[:], offset)
	_, err := w.Write(buf[:])
	return err
}

// ParseTrailer seeks to the end of rs, reads the trailer, and returns the
// payload offset and length.
//
// The offset is measured from the beginning of the FILE (as defined by
// io.Seeker), never from the current position of rs. ParseTrailer seeks
// back to wherever rs was positioned before the call, so it can be
// invoked any number of times on the same reader and will return the
// same values each time.
//
// Files too small to carry a trailer, and trailers whose offset points at
// or past the trailer itself, are rejected with an error rather than
// surfacing later as a nonsensical seek.
func ParseTrailer(rs io.ReadSeeker) (offset, payloadLen int64, err error) {
	curOffset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return
	}
	if size < TrailerSize {
		err = errors.Reason("file too small to carry a trailer: %d bytes", size).Err()
		return
	}
	if _, err = rs.Seek(-TrailerSize, io.SeekEnd); err != nil {
		return
	}
	var buf [TrailerSize]byte
	if _, err = io.ReadFull(rs, buf[:]); err != nil {
		return
	}

	rawOffset := binary.LittleEndian.Uint64(buf[:])
	payloadEnd := size - TrailerSize
	if rawOffset > uint64(payloadEnd) {
		err = errors.Reason("malformed trailer: offset 0x%x past payload end 0x%x",
			rawOffset, payloadEnd).Err()
		return
	}
	offset = int64(rawOffset)
	payloadLen = payloadEnd - offset

	// finally seek back to where we started
	_, err = rs.Seek(curOffset, io.SeekStart)
	return
}

// PayloadReader positions rs at the start of the payload region and
// returns a reader covering exactly the payload bytes. The returned
// reader stops before the trailer; it can never read into the 8 offset
// bytes themselves.
func PayloadReader(rs io.ReadSeeker) (io.Reader, int64, error) {
	offset, payloadLen, err := ParseTrailer(rs)
	if err != nil {
		return nil, 0, err
	}
	if _, err := rs.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, errors.Annotate(err, "seeking to payload").Err()
	}
	return io.LimitReader(rs, payloadLen), payloadLen, nil
}
