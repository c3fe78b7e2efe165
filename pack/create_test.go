// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pack

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"

	"github.com/Sekai-Engine/sekai-pack/pack/packdata"
	"github.com/Sekai-Engine/sekai-pack/pack/stub"
)

func TestCreate(t *testing.T) {
	t.Parallel()

	Convey("Create", t, func() {
		ctx := context.Background()
		stubBytes := []byte("#!fake-launcher-stub\n")
		tc := &fakeToolchain{stubBytes: stubBytes}

		work := t.TempDir()
		mainExe := filepath.Join(work, "game")
		So(os.WriteFile(mainExe, []byte("main program bytes"), 0755), ShouldBeNil)

		script := filepath.Join(work, "script")
		So(os.MkdirAll(script, 0777), ShouldBeNil)
		So(os.WriteFile(filepath.Join(script, "boot.lua"), []byte("print 'hi'"), 0644), ShouldBeNil)

		sounds := filepath.Join(work, "sounds")
		So(os.MkdirAll(filepath.Join(sounds, "bgm"), 0777), ShouldBeNil)
		So(os.WriteFile(filepath.Join(sounds, "bgm", "title.ogg"), []byte("ogg"), 0644), ShouldBeNil)

		outPath := filepath.Join(work, "bundled_game")

		Convey("missing main executable", func() {
			err := Create(ctx, filepath.Join(work, "nope"), []string{script}, outPath, WithToolchain(tc))
			So(err, ShouldErrLike, "main executable")

			Convey("performs no work", func() {
				_, statErr := os.Stat(outPath)
				So(os.IsNotExist(statErr), ShouldBeTrue)
				So(tc.compiledSources, ShouldBeEmpty)
			})
		})

		Convey("full pipeline", func() {
			missing := filepath.Join(work, "optional-but-absent")
			err := Create(ctx, mainExe, []string{script, missing, sounds}, outPath, WithToolchain(tc))
			So(err, ShouldBeNil)

			data, err := os.ReadFile(outPath)
			So(err, ShouldBeNil)

			Convey("compiles the generated launcher source", func() {
				So(tc.compiledSources, ShouldHaveLength, 1)
				want, err := stub.Source()
				So(err, ShouldBeNil)
				So(tc.compiledSources[0], ShouldEqual, want)
			})

			Convey("bundle starts with the stub bytes", func() {
				So(string(data[:len(stubBytes)]), ShouldEqual, string(stubBytes))
			})

			Convey("trailer decodes to the stub length", func() {
				tail := data[len(data)-packdata.TrailerSize:]
				So(binary.LittleEndian.Uint64(tail), ShouldEqual, len(stubBytes))
			})

			Convey("output is executable", func() {
				if runtime.GOOS == "windows" {
					return
				}
				st, err := os.Stat(outPath)
				So(err, ShouldBeNil)
				So(st.Mode()&0111, ShouldEqual, os.FileMode(0111))
			})

			Convey("round trips through Open/UnpackTo", func() {
				f, err := os.Open(outPath)
				So(err, ShouldBeNil)

				b, err := Open(f)
				So(err, ShouldBeNil)
				So(b.Offset, ShouldEqual, len(stubBytes))

				root := filepath.Join(work, "extracted")
				So(b.UnpackTo(ctx, root), ShouldBeNil)
				So(b.Close(), ShouldBeNil)

				Convey("top level holds exactly the renamed main and the existing dirs", func() {
					entries, err := os.ReadDir(root)
					So(err, ShouldBeNil)
					names := make([]string, len(entries))
					for i, e := range entries {
						names[i] = e.Name()
					}
					sort.Strings(names)
					So(names, ShouldResemble, []string{packdata.MainProgramName, "script", "sounds"})
				})

				Convey("contents survive the round trip", func() {
					main, err := os.ReadFile(filepath.Join(root, packdata.MainProgramName))
					So(err, ShouldBeNil)
					So(string(main), ShouldEqual, "main program bytes")

					ogg, err := os.ReadFile(filepath.Join(root, "sounds", "bgm", "title.ogg"))
					So(err, ShouldBeNil)
					So(string(ogg), ShouldEqual, "ogg")
				})
			})
		})

		Convey("no resource directories at all still bundles", func() {
			err := Create(ctx, mainExe, nil, outPath, WithToolchain(tc))
			So(err, ShouldBeNil)

			f, err := os.Open(outPath)
			So(err, ShouldBeNil)
			b, err := Open(f)
			So(err, ShouldBeNil)
			defer b.Close()

			names, err := payloadMembers(b.Payload())
			So(err, ShouldBeNil)
			So(names, ShouldResemble, []string{"./" + packdata.MainProgramName})
		})
	})
}
