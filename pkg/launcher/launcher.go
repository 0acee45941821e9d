// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package launcher

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gvallee/go_exec/pkg/advexec"
	"github.com/gvallee/go_exec/pkg/results"
	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/pkg/jm"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
)

// Info gathers all the details to start a job
type Info struct {
	// Cmd represents the command to launch a job
	Cmd advexec.Advcmd
}

// Load gathers all the details to start launching training jobs
func Load() (sys.Config, jm.JM, error) {
	var cfg sys.Config
	var jobmgr jm.JM

	/* Figure out the directory of this binary */
	var err error
	cfg.CurPath, err = os.Getwd()
	if err != nil {
		return cfg, jobmgr, fmt.Errorf("cannot detect current directory")
	}

	// Load the job manager component first
	jobmgr = jm.Detect()
	err = jobmgr.Load(&cfg)
	if err != nil {
		return cfg, jobmgr, fmt.Errorf("unable to load the job manager: %s", err)
	}

	return cfg, jobmgr, nil
}

// CommandString renders the full training command a job resolves to, mainly
// for dry runs and logs
func CommandString(j *trainjob.Job) string {
	return defaults.Interpreter + " " + strings.Join(j.CommandArgs(), " ")
}

// Run executes a training job through the job manager that was detected.
// This is a blocking function, it returns when the job has completed.
func Run(j *trainjob.Job, jobmgr *jm.JM, sysCfg *sys.Config) (results.Result, advexec.Result) {
	var execRes advexec.Result
	var expRes results.Result
	expRes.Pass = true
	errorMsg := ""

	// We submit the job
	execRes = jobmgr.Submit(j, sysCfg)
	if execRes.Err != nil {
		// The command simply failed and the Go runtime caught it
		expRes.Pass = false
		errorMsg = fmt.Sprintf("[ERROR] Command failed - stdout: %s - stderr: %s - err: %s\n", execRes.Stdout, execRes.Stderr, execRes.Err)
		log.Printf("%s", errorMsg)
	}

	if !expRes.Pass {
		expRes.Note = errorMsg
	}

	return expRes, execRes
}

// Exec replaces the launcher's process image with the training command so
// that the exit code and signals propagate directly from the training
// process. It returns only when the handoff could not happen.
func Exec(j *trainjob.Job, jobmgr *jm.JM, sysCfg *sys.Config) error {
	return jm.Exec(j, jobmgr, sysCfg)
}
