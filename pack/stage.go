// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pack implements the bundling pipeline: staging resources,
// compiling the launcher stub, assembling bundle files, and reading them
// back.
package pack

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"

	"github.com/Sekai-Engine/sekai-pack/pack/packdata"
	"github.com/Sekai-Engine/sekai-pack/pack/toolchain"
)

// PackageResources stages the main executable and the given resource
// directories into an ephemeral tree and compresses that tree into a
// tar.gz blob at archivePath.
//
// The main executable is staged under the fixed name the launcher stub
// expects. Resource paths that don't exist or aren't directories are
// skipped: a missing optional resource directory must not abort
// packaging. The staging tree is removed on every return path.
func PackageResources(ctx context.Context, tc toolchain.Toolchain, mainExe string, resourceDirs []string, archivePath string) error {
	stageDir, err := os.MkdirTemp("", "sekai-pack-stage-")
	if err != nil {
		return errors.Annotate(err, "creating staging directory").Err()
	}
	defer os.RemoveAll(stageDir)

	if err := copyFile(mainExe, filepath.Join(stageDir, packdata.MainProgramName)); err != nil {
		return errors.Annotate(err, "staging main executable").Err()
	}

	for _, dir := range resourceDirs {
		st, err := os.Stat(dir)
		if err != nil || !st.IsDir() {
			logging.Debugf(ctx, "skipping resource %q: not a directory", dir)
			continue
		}
		if err := tc.CopyTree(ctx, dir, stageDir); err != nil {
			return errors.Annotate(err, "staging resource directory %q", dir).Err()
		}
	}

	if err := tc.Archive(ctx, stageDir, archivePath); err != nil {
		return errors.Annotate(err, "archiving staged tree").Err()
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
