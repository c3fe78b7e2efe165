// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package packdata implements IO routines for reading and writing the
// pieces of the bundle format: the 8-byte offset trailer, the payload
// region, and the assembly of a complete bundle. It also holds the naming
// contract shared between the bundler and the generated launcher stub.
package packdata
