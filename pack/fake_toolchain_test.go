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

	"github.com/klauspost/compress/gzip"
	"go.chromium.org/luci/common/errors"

	"github.com/Sekai-Engine/sekai-pack/pack/toolchain"
)

// fakeToolchain implements toolchain.Toolchain in-process so the whole
// pipeline can be exercised without cc, cp or tar installed. Its Archive
// mimics `tar -czf out -C dir .`, including the "./" member prefix.
type fakeToolchain struct {
	// stubBytes is what Compile "produces".
	stubBytes []byte

	// failCopy makes CopyTree fail, for the external-tool-failure path.
	failCopy bool

	compiledSources []string
}

var _ toolchain.Toolchain = (*fakeToolchain)(nil)

func (f *fakeToolchain) Compile(ctx context.Context, src, out string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.Annotate(err, "fake compile").Err()
	}
	f.compiledSources = append(f.compiledSources, string(data))
	return os.WriteFile(out, f.stubBytes, 0755)
}

func (f *fakeToolchain) CopyTree(ctx context.Context, src, dst string) error {
	if f.failCopy {
		return errors.Reason("fake cp: boom").Err()
	}
	base := filepath.Base(src)
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, base, rel)
		if info.IsDir() {
			return os.MkdirAll(target, 0777)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, info.Mode()&0777)
	})
}

func (f *fakeToolchain) Archive(ctx context.Context, dir, out string) error {
	outFile, err := os.Create(out)
	if err != nil {
		return err
	}
	gz := gzip.NewWriter(outFile)
	tw := tar.NewWriter(gz)

	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = "./" + filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		outFile.Close()
		return err
	}
	if err := tw.Close(); err != nil {
		outFile.Close()
		return err
	}
	if err := gz.Close(); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}

func (f *fakeToolchain) Extract(ctx context.Context, archive, dir string) error {
	in, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer in.Close()
	gz, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name := filepath.Clean(filepath.FromSlash(hdr.Name))
		if name == "." {
			continue
		}
		target := filepath.Join(dir, name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0777); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0777); err != nil {
				return err
			}
			data, err := io.ReadAll(tr)
			if err != nil {
				return err
			}
			if err := os.WriteFile(target, data, os.FileMode(hdr.Mode)&0777); err != nil {
				return err
			}
		}
	}
}

// payloadMembers lists the member names of a tar.gz blob.
func payloadMembers(r io.Reader) ([]string, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	tr := tar.NewReader(gz)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, hdr.Name)
	}
}
