// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package tfk

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gvallee/go_exec/pkg/advexec"
	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_util/pkg/util"
)

const (
	// ID is the internal ID for the TensorFlow runtime
	ID = "tensorflow"
)

func parseVersionOutput(output string) (string, error) {
	lines := strings.Split(output, "\n")
	version := strings.TrimRight(lines[0], "\n")
	if version == "" {
		return "", fmt.Errorf("invalid output format")
	}
	return version, nil
}

// DetectFromDir tries to figure out which version of the TensorFlow runtime
// is installed in a given directory, e.g., /tfk
func DetectFromDir(dir string) (string, string, error) {
	libDir := filepath.Join(dir, "lib")
	if !util.PathExists(libDir) {
		return "", "", fmt.Errorf("%s does not exist, not a TensorFlow runtime", libDir)
	}

	interpreter, err := exec.LookPath(defaults.Interpreter)
	if err != nil {
		return "", "", fmt.Errorf("unable to find %s: %s", defaults.Interpreter, err)
	}

	var versionCmd advexec.Advcmd
	versionCmd.BinPath = interpreter
	versionCmd.CmdArgs = append(versionCmd.CmdArgs, "-c")
	versionCmd.CmdArgs = append(versionCmd.CmdArgs, "import tensorflow; print(tensorflow.__version__)")
	versionCmd.Env = append(versionCmd.Env, defaults.EnvLDLibraryPath+"="+libDir)
	res := versionCmd.Run()
	if res.Err != nil {
		return "", "", fmt.Errorf("unable to query the TensorFlow version: %s; stderr: %s", res.Err, res.Stderr)
	}
	version, err := parseVersionOutput(res.Stdout)
	if err != nil {
		return "", "", err
	}

	return ID, version, nil
}
