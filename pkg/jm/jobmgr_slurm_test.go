// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package jm

import (
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
)

var partition = flag.String("partition", "", "Name of Slurm partition to use to run the test")
var scratchDir = flag.String("scratch", "", "Scratch directory to use to execute the test")

func TestGenerateBatchScriptContent(t *testing.T) {
	clearManagedVars(t)
	t.Setenv(defaults.EnvModelDir, "gs://bucket/run7")

	j := trainjob.FromEnvironment()
	j.Partition = "tpu"
	j.BatchScript = "/tmp/does-not-matter.sh"

	var sysCfg sys.Config
	sysCfg.ScratchDir = "/scratch"

	scriptText, err := generateBatchScriptContent(j, &sysCfg)
	if err != nil {
		t.Fatalf("unable to generate the batch script content: %s", err)
	}

	if !strings.HasPrefix(scriptText, "#!/bin/bash\n") {
		t.Fatalf("invalid script preamble:\n%s", scriptText)
	}
	for _, directive := range []string{"--partition=tpu", "--nodes=1", "--ntasks=1", "--error=", "--output="} {
		if !strings.Contains(scriptText, directive) {
			t.Fatalf("directive %s is missing from the script:\n%s", directive, scriptText)
		}
	}
	if !strings.Contains(scriptText, "export "+defaults.EnvModelDir+"=\"gs://bucket/run7\"\n") {
		t.Fatalf("the model directory override is missing from the script:\n%s", scriptText)
	}
	if !strings.Contains(scriptText, "export "+defaults.EnvDatasets+"=\""+defaults.Datasets+"\"\n") {
		t.Fatalf("the datasets pattern is missing from the script:\n%s", scriptText)
	}
}

func TestSetupTrainJob(t *testing.T) {
	clearManagedVars(t)

	j := trainjob.FromEnvironment()

	var sysCfg sys.Config
	sysCfg.ScratchDir = t.TempDir()
	sysCfg.CurPath = fakeCheckout(t)
	j.BatchScript = filepath.Join(sysCfg.ScratchDir, "test_run_script.sh")

	err := setupTrainJob(j, &sysCfg)
	if err != nil {
		t.Fatalf("unable to create the batch script: %s", err)
	}

	b, err := ioutil.ReadFile(j.BatchScript)
	if err != nil {
		t.Fatalf("failed to read the batch script: %s", err)
	}
	scriptText := string(b)
	expectedCmd := defaults.Interpreter + " " + strings.Join(j.CommandArgs(), " ")
	if !strings.Contains(scriptText, expectedCmd) {
		t.Fatalf("the training command is missing from the script:\n%s", scriptText)
	}
}

// TestSlurmSubmit tests detecting, setting and submitting a basic Slurm job,
// assuming the system has Slurm installed (otherwise the test is skipped)
func TestSlurmSubmit(t *testing.T) {
	loaded, jobmgr := SlurmDetect()
	if !loaded {
		t.Skip("slurm cannot be used on this platform")
	}

	clearManagedVars(t)
	j := trainjob.FromEnvironment()
	j.Partition = *partition

	var sysCfg sys.Config
	var err error
	sysCfg.ScratchDir, err = ioutil.TempDir(*scratchDir, "")
	if err != nil {
		t.Fatalf("unable to create scratch directory: %s", err)
	}
	defer os.RemoveAll(sysCfg.ScratchDir)
	sysCfg.CurPath = fakeCheckout(t)
	j.BatchScript = filepath.Join(sysCfg.ScratchDir, "test_run_script.sh")

	err = slurmLoad(&jobmgr, &sysCfg)
	if err != nil {
		t.Fatalf("unable to load Slurm: %s", err)
	}

	res := slurmSubmit(j, &jobmgr, &sysCfg)
	if res.Err != nil {
		t.Fatalf("test failed: %s, stdout:%s, stderr:%s", res.Err, res.Stdout, res.Stderr)
	}

	t.Logf("Slurm batch script: %s\n", j.BatchScript)
}
