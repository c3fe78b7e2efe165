// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pack

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

func ensureRoot(root string) error {
	st, err := os.Stat(root)
	if os.IsNotExist(err) {
		return errors.Annotate(os.MkdirAll(root, 0777), "making root dir").Err()
	}
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return errors.Reason("%q exists and is not a directory", root).Err()
	}
	f, err := os.Open(root)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Readdirnames(1); err != io.EOF {
		return errors.Reason("dir %q not empty", root).Err()
	}
	return nil
}

// UnpackTo does a streaming unpack of the entire payload to the provided
// location, the same way the launcher stub's extraction would lay it out.
//
// root must be either a non-existent path, or a path to an empty
// directory.
//
// It is invalid to call UnpackTo twice, or to call it on a Close()'d
// bundle.
func (b *OpenedBundle) UnpackTo(ctx context.Context, root string) error {
	if b.didUnpack || b.didClose {
		return errors.New("can only unpack once/cannot unpack a closed bundle")
	}
	b.didUnpack = true

	root, err := filepath.Abs(root)
	if err != nil {
		return errors.Annotate(err, "making abspath").Err()
	}
	if err := ensureRoot(root); err != nil {
		return errors.Annotate(err, "checking root").Err()
	}

	gz, err := gzip.NewReader(b.Payload())
	if err != nil {
		return errors.Annotate(err, "opening payload").Err()
	}

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Annotate(err, "reading payload archive").Err()
		}

		// tar was invoked as `tar -czf ... -C dir .`, so member names
		// come through as "./path".
		name := filepath.Clean(filepath.FromSlash(hdr.Name))
		if name == "." {
			continue
		}
		if name == ".." || strings.HasPrefix(name, ".."+string(filepath.Separator)) {
			return errors.Reason("payload entry %q escapes the extraction root", hdr.Name).Err()
		}
		target := filepath.Join(root, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0777); err != nil {
				return errors.Annotate(err, "making dir %q", name).Err()
			}

		case tar.TypeSymlink:
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return errors.Annotate(err, "writing symlink %q -> %q", name, hdr.Linkname).Err()
			}

		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0777); err != nil {
				return errors.Annotate(err, "making parent of %q", name).Err()
			}
			if err := writeEntry(target, name, tr, os.FileMode(hdr.Mode)&0777); err != nil {
				return err
			}

		default:
			logging.Warningf(ctx, "skipping unsupported entry %q (type %d)", hdr.Name, hdr.Typeflag)
		}
	}

	return errors.Annotate(gz.Close(), "finishing payload decompression").Err()
}

func writeEntry(target, rel string, r io.Reader, mode os.FileMode) error {
	f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return errors.Annotate(err, "creating file %q", rel).Err()
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return errors.Annotate(err, "writing file %q", rel).Err()
	}
	return errors.Annotate(f.Close(), "closing file %q", rel).Err()
}
