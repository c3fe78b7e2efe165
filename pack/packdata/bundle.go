// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package packdata

import (
	"io"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/iotools"
)

// WriteBundle writes a complete bundle to w: the launcher stub bytes,
// then the payload bytes, then the trailer recording where the payload
// begins.
//
// The trailer value is defined only as "length of the bytes written
// before the payload", so it is taken from a count of the stub bytes as
// they are written; the write order and the offset computation cannot
// diverge.
func WriteBundle(w io.Writer, stub, payload io.Reader) (offset uint64, err error) {
	cw := &iotools.CountingWriter{Writer: w}

	if _, err = io.Copy(cw, stub); err != nil {
		return 0, errors.Annotate(err, "writing launcher stub").Err()
	}
	offset = uint64(cw.Count)

	if _, err = io.Copy(cw, payload); err != nil {
		return 0, errors.Annotate(err, "writing payload").Err()
	}

	if err = WriteTrailer(cw, offset); err != nil {
		return 0, errors.Annotate(err, "writing trailer").Err()
	}
	return offset, nil
}
