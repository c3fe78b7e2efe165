// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// sekai-pack-inspect shows what's inside a bundle produced by sekai-pack
// without running it: the payload offset recorded in the trailer, the
// payload size, and the archived members. With -x it unpacks the payload
// into a directory, reproducing the tree the launcher would extract.
//
// Usage:
//
//	sekai-pack-inspect <bundle>
//	sekai-pack-inspect -x <dir> <bundle>
package main

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/pflag"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging/gologger"

	"github.com/Sekai-Engine/sekai-pack/pack"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("sekai-pack-inspect", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	extractTo := fs.StringP("extract", "x", "", "unpack the payload into this directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: sekai-pack-inspect [-x dir] <bundle>")
		return errors.Reason("exactly one bundle argument required").Err()
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		return errors.Annotate(err, "opening bundle").Err()
	}
	defer f.Close()

	b, err := pack.Open(f)
	if err != nil {
		return err
	}

	fmt.Printf("payload offset: %d\n", b.Offset)
	fmt.Printf("payload size:   %d\n", b.PayloadLen)

	if *extractTo != "" {
		ctx := gologger.StdConfig.Use(context.Background())
		if err := b.UnpackTo(ctx, *extractTo); err != nil {
			return err
		}
		fmt.Printf("extracted to:   %s\n", *extractTo)
		return nil
	}

	return listMembers(b.Payload())
}

func listMembers(payload io.Reader) error {
	gz, err := gzip.NewReader(payload)
	if err != nil {
		return errors.Annotate(err, "opening payload").Err()
	}
	tr := tar.NewReader(gz)
	fmt.Println("members:")
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Annotate(err, "reading payload archive").Err()
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			fmt.Printf("    %s/\n", hdr.Name)
		default:
			fmt.Printf("    %s (%d bytes)\n", hdr.Name, hdr.Size)
		}
	}
}
