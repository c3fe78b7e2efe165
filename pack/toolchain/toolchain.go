// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package toolchain abstracts the external tools the bundler shells out
// to: the native C compiler, a recursive copy, and tar for creating and
// extracting the payload. The concrete invocations sit behind a narrow
// interface so they can be swapped or faked in tests.
package toolchain

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

// Toolchain is the set of external operations the bundling pipeline
// needs. All methods are synchronous: they block until the underlying
// tool exits. There is no timeout or cancellation; the context is used
// for logging only.
type Toolchain interface {
	// Compile compiles the single C source file src into a standalone
	// binary at out.
	Compile(ctx context.Context, src, out string) error

	// CopyTree recursively copies the directory src into the directory
	// dst, preserving src's base name (the copy lands at
	// dst/basename(src)).
	CopyTree(ctx context.Context, src, dst string) error

	// Archive compresses the contents of dir into a tar.gz at out.
	// Member paths are rooted at dir's immediate contents; dir's own
	// name does not appear in the archive.
	Archive(ctx context.Context, dir, out string) error

	// Extract unpacks the tar.gz at archive into the directory dir.
	Extract(ctx context.Context, archive, dir string) error
}

// System is a Toolchain that shells out to the host's cc, cp and tar.
type System struct {
	// CC overrides the C compiler command. Empty means "cc".
	CC string
}

var _ Toolchain = System{}

func (s System) compiler() string {
	if s.CC != "" {
		return s.CC
	}
	return "cc"
}

// Compile invokes the C compiler. The launcher stub needs nothing beyond
// the system C library and zlib.
func (s System) Compile(ctx context.Context, src, out string) error {
	return run(ctx, s.compiler(), "-o", out, src, "-lz")
}

// CopyTree invokes cp -r.
func (s System) CopyTree(ctx context.Context, src, dst string) error {
	return run(ctx, "cp", "-r", src, dst)
}

// Archive invokes tar -czf rooted inside dir, so member paths start at
// dir's contents rather than at dir itself.
func (s System) Archive(ctx context.Context, dir, out string) error {
	return run(ctx, "tar", "-czf", out, "-C", dir, ".")
}

// Extract invokes tar -xzf rooted at dir.
func (s System) Extract(ctx context.Context, archive, dir string) error {
	return run(ctx, "tar", "-xzf", archive, "-C", dir)
}

// run executes a tool and waits for it. On a non-zero exit the tool's
// combined stdout+stderr is attached to the returned error; that output
// is the only diagnostic channel these tools have.
func run(ctx context.Context, name string, args ...string) error {
	logging.Debugf(ctx, "exec: %s %s", name, strings.Join(args, " "))
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return errors.Annotate(err, "%s %s: %s",
			name, strings.Join(args, " "), bytes.TrimSpace(out)).Err()
	}
	return nil
}
