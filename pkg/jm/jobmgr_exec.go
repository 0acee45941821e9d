// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package jm

import (
	"fmt"
	"log"
	"os/exec"
	"syscall"

	"github.com/gvallee/go_exec/pkg/advexec"
	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/pkg/environ"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
)

// execGetOutput retrieves the training process's output after the completion of a job
func execGetOutput(j *trainjob.Job, sysCfg *sys.Config) string {
	return j.OutBuffer.String()
}

// execGetError retrieves the error messages from the training process after the completion of a job
func execGetError(j *trainjob.Job, sysCfg *sys.Config) string {
	return j.ErrBuffer.String()
}

// buildCmd assembles the training command for a given job: the Python
// interpreter with the fixed wrapper/entrypoint/flags arguments and the
// fully-specified environment
func buildCmd(j *trainjob.Job, jobmgr *JM) advexec.Advcmd {
	var cmd advexec.Advcmd
	cmd.BinPath = jobmgr.BinPath
	cmd.CmdArgs = append(cmd.CmdArgs, j.CommandArgs()...)
	cmd.Env = j.Environ()
	return cmd
}

// execSubmit starts the training command on the host and waits for its
// completion, capturing stdout/stderr
func execSubmit(j *trainjob.Job, jobmgr *JM, sysCfg *sys.Config) advexec.Result {
	var res advexec.Result

	// Sanity checks
	if j == nil || jobmgr.BinPath == "" {
		res.Err = fmt.Errorf("job is undefined")
		return res
	}

	err := j.Validate(sysCfg)
	if err != nil {
		res.Err = fmt.Errorf("job is invalid: %s", err)
		return res
	}

	cmd := buildCmd(j, jobmgr)
	cmd.ExecDir = sysCfg.CurPath

	j.SetOutputFn(execGetOutput)
	j.SetErrorFn(execGetError)

	cmdRes := cmd.Run()
	j.OutBuffer.WriteString(cmdRes.Stdout)
	j.ErrBuffer.WriteString(cmdRes.Stderr)
	return cmdRes
}

// Exec replaces the current process image with the training command. On
// success the function never returns: the training process inherits the
// launcher's identity, exit code and signal handling. Any returned error
// means the training process was never started.
func Exec(j *trainjob.Job, jobmgr *JM, sysCfg *sys.Config) error {
	if jobmgr.ID != ExecID {
		return fmt.Errorf("process replacement requires the %s job manager (detected: %s)", ExecID, jobmgr.ID)
	}
	if jobmgr.BinPath == "" {
		return fmt.Errorf("undefined interpreter path")
	}

	err := j.Validate(sysCfg)
	if err != nil {
		return fmt.Errorf("job is invalid: %s", err)
	}

	// Export so the environment table is fully specified before handoff
	err = environ.Export(j.Env)
	if err != nil {
		return fmt.Errorf("unable to export the environment: %s", err)
	}

	argv := append([]string{jobmgr.BinPath}, j.CommandArgs()...)
	return syscall.Exec(jobmgr.BinPath, argv, j.Environ())
}

// ExecDetect is the function used by our job management framework to figure
// out if the training command can be started directly on the host. This is
// the default job manager: the only requirement is a Python interpreter.
func ExecDetect() (bool, JM) {
	var jm JM
	var err error

	jm.BinPath, err = exec.LookPath(defaults.Interpreter)
	if err != nil {
		log.Printf("* %s not detected", defaults.Interpreter)
		return false, jm
	}

	jm.ID = ExecID
	jm.submitJM = execSubmit

	return true, jm
}
