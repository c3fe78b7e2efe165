// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package packdata

// These constants are the naming contract between the resource packager
// (which lays out the staged tree) and the launcher stub (which consumes
// it at run time). They are baked into the generated stub source, so
// changing one requires rebuilding every bundle.
const (
	// MainProgramName is the fixed name the main executable is staged
	// under. The launcher stub execs exactly this file after extraction.
	MainProgramName = "sekai.x86_64"

	// PayloadFileName is the name the launcher stub gives the carved-out
	// payload inside the extraction directory before handing it to tar.
	PayloadFileName = "resources.tar.gz"

	// PathFlagPrefix is prepended to the extraction directory path to
	// form the synthesized first argument passed to the main program.
	PathFlagPrefix = "--path="
)
