// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

//go:build windows

package pack

// Windows has no execute permission bits; nothing to mark.
func markExecutable(path string) error {
	return nil
}
