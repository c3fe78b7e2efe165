// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pack

import (
	"context"
	"os"
	"path/filepath"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"github.com/Sekai-Engine/sekai-pack/pack/packdata"
	"github.com/Sekai-Engine/sekai-pack/pack/stub"
	"github.com/Sekai-Engine/sekai-pack/pack/toolchain"
)

// DefaultOutput is the bundle path used when the caller doesn't name one.
const DefaultOutput = "bundled_app"

type createOptionData struct {
	tc toolchain.Toolchain
}

// CreateOption functions can be supplied to Create.
type CreateOption func(*createOptionData)

// WithToolchain overrides the external toolchain used for compilation,
// copying and archiving. The default shells out to the host cc/cp/tar.
func WithToolchain(tc toolchain.Toolchain) CreateOption {
	return func(o *createOptionData) {
		o.tc = tc
	}
}

// Create builds a self-extracting bundle at outPath from mainExe and the
// given resource directories.
//
// The pipeline is strictly sequential: generate and compile the launcher
// stub, stage and archive the resources, then write stub|payload|trailer
// and mark the result executable. The main executable is checked before
// any work begins; nothing is created if it is missing. All intermediate
// artifacts live in a per-invocation temporary directory which is removed
// on every return path.
func Create(ctx context.Context, mainExe string, resourceDirs []string, outPath string, options ...CreateOption) error {
	opts := createOptionData{tc: toolchain.System{}}
	for _, o := range options {
		o(&opts)
	}

	if _, err := os.Stat(mainExe); err != nil {
		return errors.Annotate(err, "main executable %q", mainExe).Err()
	}

	buildDir, err := os.MkdirTemp("", "sekai-pack-build-")
	if err != nil {
		return errors.Annotate(err, "creating build directory").Err()
	}
	defer os.RemoveAll(buildDir)

	logging.Infof(ctx, "compiling launcher")
	source, err := stub.Source()
	if err != nil {
		return err
	}
	srcPath := filepath.Join(buildDir, "launcher.c")
	if err := os.WriteFile(srcPath, []byte(source), 0644); err != nil {
		return errors.Annotate(err, "writing launcher source").Err()
	}
	stubPath := filepath.Join(buildDir, "launcher")
	if err := opts.tc.Compile(ctx, srcPath, stubPath); err != nil {
		return errors.Annotate(err, "compiling launcher").Err()
	}

	logging.Infof(ctx, "creating resource package")
	payloadPath := filepath.Join(buildDir, packdata.PayloadFileName)
	if err := PackageResources(ctx, opts.tc, mainExe, resourceDirs, payloadPath); err != nil {
		return err
	}

	logging.Infof(ctx, "assembling %s", outPath)
	if err := assemble(stubPath, payloadPath, outPath); err != nil {
		return err
	}

	if err := markExecutable(outPath); err != nil {
		return errors.Annotate(err, "marking %q executable", outPath).Err()
	}
	return nil
}

// assemble writes the final bundle: stub bytes, payload bytes, trailer.
// A partially written output is removed on failure.
func assemble(stubPath, payloadPath, outPath string) error {
	stubFile, err := os.Open(stubPath)
	if err != nil {
		return errors.Annotate(err, "opening compiled stub").Err()
	}
	defer stubFile.Close()

	payloadFile, err := os.Open(payloadPath)
	if err != nil {
		return errors.Annotate(err, "opening payload").Err()
	}
	defer payloadFile.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return errors.Annotate(err, "creating bundle file").Err()
	}

	if _, err := packdata.WriteBundle(out, stubFile, payloadFile); err != nil {
		out.Close()
		os.Remove(outPath)
		return errors.Annotate(err, "assembling bundle").Err()
	}
	if err := out.Close(); err != nil {
		os.Remove(outPath)
		return errors.Annotate(err, "closing bundle file").Err()
	}
	return nil
}
