// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package sekaipack packages a main executable together with its resource
// directories into a single self-contained, self-extracting binary. The
// produced file needs no installer and no archive shipped alongside it:
// running it extracts its own resources and hands control to the original
// program.
//
// A bundle has a fairly basic format:
//   - launcher stub: a small native program compiled at bundle time. Its
//     length is not stored anywhere; it is implicitly the payload offset.
//   - payload: a tar.gz archive of the staged resource tree (the main
//     executable renamed to a fixed well-known name, plus each resource
//     directory under its original name).
//   - trailer: exactly 8 bytes, a little-endian uint64 equal to the byte
//     offset at which the payload begins.
//
// For every bundle, file_size == offset + payload_length + 8 holds. The
// trailer alone is sufficient to locate the payload: read the last 8
// bytes, seek to the decoded offset, and everything up to file_size-8 is
// the payload. The launcher stub does exactly this at run time, extracts
// the payload into a fresh temporary directory, and replaces its own
// process image with the staged main program.
//
// The bundler shells out to the native toolchain (a C compiler, cp, and
// tar); those integrations live behind the narrow pack/toolchain
// interface so they can be swapped or faked in tests.
//
// The format stores no checksum: payload integrity verification is out of
// scope. Malformed trailers are detected only by bounds checks (the
// decoded offset must land before the trailer itself).
package sekaipack
