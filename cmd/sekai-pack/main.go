// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// sekai-pack packages a main executable together with its resource
// directories into a single self-contained, self-extracting binary.
//
// Usage:
//
//	sekai-pack <main-executable> [resource-dirs...] [-o output]
package main

import (
	"context"
	"fmt"
	"os"

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

// invocation is a parsed command line.
type invocation struct {
	mainExe      string
	resourceDirs []string
	output       string
}

func parseArgs(args []string) (*invocation, error) {
	fs := pflag.NewFlagSet("sekai-pack", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	output := fs.StringP("output", "o", pack.DefaultOutput, "output file path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		return nil, errors.Reason("main executable argument required").Err()
	}
	return &invocation{
		mainExe:      fs.Arg(0),
		resourceDirs: fs.Args()[1:],
		output:       *output,
	}, nil
}

func run(args []string) error {
	inv, err := parseArgs(args)
	if err != nil {
		printUsage()
		return err
	}

	ctx := gologger.StdConfig.Use(context.Background())

	fmt.Printf("Packaging: %s -> %s\n", inv.mainExe, inv.output)
	if err := pack.Create(ctx, inv.mainExe, inv.resourceDirs, inv.output); err != nil {
		return err
	}
	fmt.Printf("Successfully created: %s\n", inv.output)
	return nil
}

func printUsage() {
	fmt.Fprint(os.Stderr, `sekai-pack - package an executable with its resources

USAGE
    sekai-pack <main-executable> [resource-dirs...] [-o output]

EXAMPLE
    sekai-pack test_env/sekai.x86_64 test_env/script test_env/sounds -o bundled_sekai

Resource directories that don't exist are skipped. The output defaults
to "`+pack.DefaultOutput+`" and is marked executable. Running the
produced bundle extracts its resources into a fresh temporary directory
and execs the original program with `+"`--path=<dir>`"+` prepended to
its arguments.
`)
}
