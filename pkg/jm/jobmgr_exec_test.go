// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package jm

import (
	"io/ioutil"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/pkg/environ"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
)

func clearManagedVars(t *testing.T) {
	for _, v := range environ.Defaults() {
		t.Setenv(v.Key, "")
	}
}

// fakeCheckout creates a directory that passes the training checkout
// validation
func fakeCheckout(t *testing.T) string {
	dir := t.TempDir()
	wrapper := filepath.Join(dir, defaults.WrapperScript)
	err := ioutil.WriteFile(wrapper, []byte(""), 0644)
	if err != nil {
		t.Fatalf("unable to create %s: %s", wrapper, err)
	}
	return dir
}

func TestExecDetect(t *testing.T) {
	interpreter, lookErr := exec.LookPath(defaults.Interpreter)

	loaded, jobmgr := ExecDetect()
	if lookErr != nil {
		if loaded {
			t.Fatalf("exec job manager loaded without %s", defaults.Interpreter)
		}
		t.Skipf("%s cannot be used on this platform", defaults.Interpreter)
	}

	if !loaded {
		t.Fatalf("unable to load the exec job manager")
	}
	if jobmgr.ID != ExecID {
		t.Fatalf("unexpected job manager ID: %s", jobmgr.ID)
	}
	if jobmgr.BinPath != interpreter {
		t.Fatalf("unexpected interpreter path: %s", jobmgr.BinPath)
	}
}

func TestBuildCmd(t *testing.T) {
	clearManagedVars(t)
	t.Setenv(defaults.EnvModelDir, "gs://bucket/run7")

	j := trainjob.FromEnvironment()
	jobmgr := JM{ID: ExecID, BinPath: "/usr/bin/python3"}

	cmd := buildCmd(j, &jobmgr)
	if cmd.BinPath != "/usr/bin/python3" {
		t.Fatalf("unexpected binary path: %s", cmd.BinPath)
	}

	cmdLine := strings.Join(cmd.CmdArgs, " ")
	if !strings.HasPrefix(cmdLine, defaults.WrapperScript+" "+defaults.TrainerScript+" --use_tpu") {
		t.Fatalf("unexpected command line: %s", cmdLine)
	}
	if !strings.Contains(cmdLine, "--tfds_data_dir "+defaults.TfdsDataDir) {
		t.Fatalf("the tensorflow_datasets directory is missing from the command line: %s", cmdLine)
	}
	if !strings.Contains(cmdLine, "--model_dir gs://bucket/run7") {
		t.Fatalf("the model directory override is missing from the command line: %s", cmdLine)
	}

	found := false
	for _, e := range cmd.Env {
		if e == defaults.EnvDatasets+"="+defaults.Datasets {
			found = true
		}
	}
	if !found {
		t.Fatalf("%s is missing from the command environment", defaults.EnvDatasets)
	}
}

// TestExecSubmitInvalidCheckout makes sure a setup failure surfaces before
// the training command is ever started
func TestExecSubmitInvalidCheckout(t *testing.T) {
	clearManagedVars(t)

	loaded, jobmgr := ExecDetect()
	if !loaded {
		t.Skipf("%s cannot be used on this platform", defaults.Interpreter)
	}

	j := trainjob.FromEnvironment()
	var sysCfg sys.Config
	sysCfg.CurPath = t.TempDir() // no wrapper script in there

	res := jobmgr.Submit(j, &sysCfg)
	if res.Err == nil {
		t.Fatalf("submission succeeded on an invalid training checkout")
	}
}

func TestExecSubmit(t *testing.T) {
	clearManagedVars(t)

	loaded, jobmgr := ExecDetect()
	if !loaded {
		t.Skipf("%s cannot be used on this platform", defaults.Interpreter)
	}

	j := trainjob.FromEnvironment()
	var sysCfg sys.Config
	sysCfg.CurPath = fakeCheckout(t)

	res := jobmgr.Submit(j, &sysCfg)
	if res.Err != nil {
		t.Fatalf("submission failed: %s, stdout:%s, stderr:%s", res.Err, res.Stdout, res.Stderr)
	}
}
