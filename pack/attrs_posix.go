// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build !windows

package pack

import "os"

// markExecutable grants owner/group/other execute on the bundle so it
// can be launched directly.
func markExecutable(path string) error {
	return os.Chmod(path, 0755)
}
