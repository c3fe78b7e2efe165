// Copyright 2026 The Sekai Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package stub generates the launcher program that forms the front of
// every bundle. The launcher is a fixed C template, regenerated and
// recompiled on every bundling run; it has no user-configurable parts.
//
// At run time the launcher locates its own binary, reads the 8-byte
// trailer, carves the payload into a fresh temporary directory, extracts
// it with tar, and replaces its own process image with the staged main
// program. The extraction directory is deliberately left behind on the
// success path: the main program reads its resources from there for the
// rest of its run.
package stub

import (
	"bytes"
	"text/template"

	"go.chromium.org/luci/common/errors"

	"github.com/Sekai-Engine/sekai-pack/pack/packdata"
)

// Version is the fixed identification string the launcher prints for
// --version. That flag is consumed by the launcher itself and never
// forwarded to the main program.
const Version = "sekai-pack launcher 1.0"

// tempDirTemplate is the mkdtemp template for the per-launch extraction
// directory. Each launch gets its own directory, so concurrent launches
// of the same bundle never share state.
const tempDirTemplate = "/tmp/sekai_bundle_XXXXXX"

type templateParams struct {
	Version      string
	MainName     string
	PayloadName  string
	PathPrefix   string
	TempTemplate string
	TrailerSize  int
}

// The C template uses << >> delimiters; {{ }} would collide with C
// braces.
var sourceTemplate = template.Must(
	template.New("launcher").Delims("<<", ">>").Parse(launcherC))

// Source renders the launcher C source.
func Source() (string, error) {
	buf := &bytes.Buffer{}
	err := sourceTemplate.Execute(buf, templateParams{
		Version:      Version,
		MainName:     packdata.MainProgramName,
		PayloadName:  packdata.PayloadFileName,
		PathPrefix:   packdata.PathFlagPrefix,
		TempTemplate: tempDirTemplate,
		TrailerSize:  packdata.TrailerSize,
	})
	if err != nil {
		return "", errors.Annotate(err, "rendering launcher source").Err()
	}
	return buf.String(), nil
}

const launcherC = `#include <stdio.h>
#include <stdlib.h>
#include <string.h>
#include <unistd.h>
#include <sys/stat.h>
#include <fcntl.h>
#include <stdint.h>

int main(int argc, char *argv[]) {
    if (argc > 1 && strcmp(argv[1], "--version") == 0) {
        printf("<<.Version>>\n");
        return 0;
    }

    char exe_path[4096];
    ssize_t len = readlink("/proc/self/exe", exe_path, sizeof(exe_path) - 1);
    if (len == -1) {
        perror("launcher: readlink /proc/self/exe");
        return 1;
    }
    exe_path[len] = '\0';

    char temp_template[] = "<<.TempTemplate>>";
    char *temp_dir = mkdtemp(temp_template);
    if (!temp_dir) {
        perror("launcher: mkdtemp");
        return 1;
    }

    int exe_fd = open(exe_path, O_RDONLY);
    if (exe_fd == -1) {
        perror("launcher: open self");
        return 1;
    }

    struct stat st;
    if (fstat(exe_fd, &st) == -1) {
        perror("launcher: fstat self");
        close(exe_fd);
        return 1;
    }
    off_t file_size = st.st_size;

    uint64_t offset;
    if (lseek(exe_fd, file_size - <<.TrailerSize>>, SEEK_SET) == -1) {
        perror("launcher: seek to trailer");
        close(exe_fd);
        return 1;
    }
    if (read(exe_fd, &offset, sizeof(offset)) != sizeof(offset)) {
        perror("launcher: read trailer");
        close(exe_fd);
        return 1;
    }
    if (offset > (uint64_t)(file_size - <<.TrailerSize>>)) {
        fprintf(stderr, "launcher: malformed trailer\n");
        close(exe_fd);
        return 1;
    }

    if (lseek(exe_fd, (off_t)offset, SEEK_SET) == -1) {
        perror("launcher: seek to payload");
        close(exe_fd);
        return 1;
    }

    char payload_path[4608];
    snprintf(payload_path, sizeof(payload_path), "%s/<<.PayloadName>>", temp_dir);

    int payload_fd = open(payload_path, O_CREAT | O_WRONLY | O_TRUNC, 0644);
    if (payload_fd == -1) {
        perror("launcher: create payload file");
        close(exe_fd);
        return 1;
    }

    /* The final read is capped so it never reads past the end of the
     * payload into the 8 trailer bytes. */
    char buffer[4096];
    off_t remaining = file_size - <<.TrailerSize>> - (off_t)offset;
    while (remaining > 0) {
        size_t want = remaining < (off_t)sizeof(buffer) ? (size_t)remaining : sizeof(buffer);
        ssize_t got = read(exe_fd, buffer, want);
        if (got <= 0) {
            perror("launcher: read payload");
            close(exe_fd);
            close(payload_fd);
            return 1;
        }
        if (write(payload_fd, buffer, got) != got) {
            perror("launcher: write payload");
            close(exe_fd);
            close(payload_fd);
            return 1;
        }
        remaining -= got;
    }

    close(exe_fd);
    close(payload_fd);

    char extract_cmd[9472];
    snprintf(extract_cmd, sizeof(extract_cmd), "tar -xzf '%s' -C '%s'", payload_path, temp_dir);
    if (system(extract_cmd) != 0) {
        fprintf(stderr, "launcher: extracting payload failed\n");
        return 1;
    }
    unlink(payload_path);

    char main_path[4608];
    snprintf(main_path, sizeof(main_path), "%s/<<.MainName>>", temp_dir);
    chmod(main_path, 0755);

    char path_arg[4608];
    snprintf(path_arg, sizeof(path_arg), "<<.PathPrefix>>%s", temp_dir);

    char *exec_args[argc + 3];
    exec_args[0] = main_path;
    exec_args[1] = path_arg;

    int j = 2;
    for (int i = 1; i < argc; i++) {
        if (strcmp(argv[i], "--version") != 0) {
            exec_args[j++] = argv[i];
        }
    }
    exec_args[j] = NULL;

    execv(main_path, exec_args);

    /* execv only returns on failure. */
    perror("launcher: exec main program");

    char cleanup_cmd[4864];
    snprintf(cleanup_cmd, sizeof(cleanup_cmd), "rm -rf '%s'", temp_dir);
    system(cleanup_cmd);

    return 1;
}
`
