// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pack

import (
	"io"

	"go.chromium.org/luci/common/errors"

	"github.com/Sekai-Engine/sekai-pack/pack/packdata"
)

type readSeekCloser interface {
	io.Reader
	io.Seeker
	io.Closer
}

// OpenedBundle represents an Open'd bundle file. It reads the bundle
// without modifying it; a bundle is immutable after assembly.
type OpenedBundle struct {
	r readSeekCloser

	didUnpack bool
	didClose  bool

	// Offset is the byte offset at which the payload begins. It equals
	// the launcher stub's length.
	Offset int64

	// PayloadLen is the byte length of the compressed payload region.
	PayloadLen int64
}

// Open reads and validates the bundle trailer and positions r at the
// start of the payload.
//
// The same validation the launcher performs applies here: the decoded
// offset must land before the trailer, or the bundle is malformed.
func Open(r readSeekCloser) (*OpenedBundle, error) {
	offset, payloadLen, err := packdata.ParseTrailer(r)
	if err != nil {
		return nil, errors.Annotate(err, "reading trailer").Err()
	}
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return nil, errors.Annotate(err, "seeking to payload").Err()
	}
	return &OpenedBundle{
		r:          r,
		Offset:     offset,
		PayloadLen: payloadLen,
	}, nil
}

// Payload returns a reader over the compressed payload bytes. The reader
// is bounded: it stops before the trailer. Reading the payload consumes
// the underlying reader, so Payload and UnpackTo are mutually exclusive
// and single-use.
func (b *OpenedBundle) Payload() io.Reader {
	return io.LimitReader(b.r, b.PayloadLen)
}

// Close closes the underlying reader.
func (b *OpenedBundle) Close() error {
	if b.didClose {
		return nil
	}
	b.didClose = true
	return b.r.Close()
}
