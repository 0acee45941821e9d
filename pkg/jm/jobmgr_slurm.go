// Copyright (c) 2019, Sylabs Inc. All rights reserved.
// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package jm

import (
	"fmt"
	"io/ioutil"
	"log"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gvallee/go_exec/pkg/advexec"
	"github.com/gvallee/go_hpcjob/pkg/hpcjob"
	"github.com/gvallee/go_slurm/pkg/slurm"
	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	islurm "github.com/gvallee/go_tpu_launcher/internal/pkg/slurm"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
	"github.com/gvallee/go_util/pkg/util"
)

const slurmJobIDPrefix = "Submitted batch job "

// SlurmDetect is the function used by our job management framework to figure out if Slurm can be used and
// if so return a JM structure with all the "function pointers" to interact with Slurm through our generic
// API.
func SlurmDetect() (bool, JM) {
	var jm JM
	var err error

	jm.BinPath, err = exec.LookPath("sbatch")
	if err != nil {
		log.Println("* Slurm not detected")
		return false, jm
	}

	_, err = exec.LookPath("squeue")
	if err != nil {
		log.Println("* Slurm not detected (no squeue command available)")
		return false, jm
	}

	jm.ID = SlurmID
	jm.submitJM = slurmSubmit
	jm.loadJM = slurmLoad
	jm.jobStatusJM = slurmJobStatus
	jm.numJobsJM = slurmNumJobs

	return true, jm
}

// slurmGetOutput reads the content of the Slurm output file that is associated to a job
func slurmGetOutput(j *trainjob.Job, sysCfg *sys.Config) string {
	outputFile := getJobOutputFilePath(j, sysCfg)
	output, err := ioutil.ReadFile(outputFile)
	if err != nil {
		return ""
	}

	return string(output)
}

// slurmGetError reads the content of the Slurm error file that is associated to a job
func slurmGetError(j *trainjob.Job, sysCfg *sys.Config) string {
	errorFile := getJobErrorFilePath(j, sysCfg)
	errorTxt, err := ioutil.ReadFile(errorFile)
	if err != nil {
		return ""
	}

	return string(errorTxt)
}

// slurmLoad is the function called when trying to load a JM module
func slurmLoad(jobmgr *JM, sysCfg *sys.Config) error {
	// jobmgr.BinPath has been set during Detect()
	return nil
}

func slurmJobStatus(jobmgr *JM, jobIDs []int) ([]hpcjob.Status, error) {
	if jobmgr == nil {
		return nil, fmt.Errorf("undefined job manager object")
	}

	return slurm.JobStatus(jobIDs)
}

func slurmNumJobs(jobmgr *JM, partitionName string, user string) (int, error) {
	if jobmgr == nil {
		return 0, fmt.Errorf("undefined job manager object")
	}

	return slurm.GetNumJobs(partitionName, user)
}

func getJobOutFilenamePrefix(j *trainjob.Job) string {
	if j.Name != "" {
		return "job-" + j.Name
	}
	return "job"
}

func getJobOutputFilePath(j *trainjob.Job, sysCfg *sys.Config) string {
	outputFilename := getJobOutFilenamePrefix(j) + ".out"
	path := filepath.Join(sysCfg.ScratchDir, outputFilename)
	return path
}

func getJobErrorFilePath(j *trainjob.Job, sysCfg *sys.Config) string {
	errorFilename := getJobOutFilenamePrefix(j) + ".err"
	path := filepath.Join(sysCfg.ScratchDir, errorFilename)
	return path
}

func generateBatchScriptContent(j *trainjob.Job, sysCfg *sys.Config) (string, error) {
	// TempFile is supposed to set the path to the batch script
	if j.BatchScript == "" {
		return "", fmt.Errorf("batch script path is undefined")
	}

	scriptText := "#!/bin/bash\n#\n"
	if j.Partition != "" {
		scriptText += islurm.ScriptCmdPrefix + " --partition=" + j.Partition + "\n"
	}

	// The training command is a single host-side process; the accelerator work
	// happens on the remote TPU pod
	scriptText += islurm.ScriptCmdPrefix + " --nodes=1\n"
	scriptText += islurm.ScriptCmdPrefix + " --ntasks=1\n"

	scriptText += islurm.ScriptCmdPrefix + " --error=" + getJobErrorFilePath(j, sysCfg) + "\n"
	scriptText += islurm.ScriptCmdPrefix + " --output=" + getJobOutputFilePath(j, sysCfg) + "\n"

	// The batch job must see the exact same fully-specified environment as a
	// direct launch
	scriptText += "\n"
	for _, v := range j.Env {
		scriptText += "export " + v.Key + "=\"" + v.Value + "\"\n"
	}

	return scriptText, nil
}

func setupTrainJob(j *trainjob.Job, sysCfg *sys.Config) error {
	scriptText, err := generateBatchScriptContent(j, sysCfg)
	if err != nil {
		return err
	}

	// Add the training command
	scriptText += "\ncd " + sysCfg.CurPath + "\n"
	scriptText += defaults.Interpreter + " " + strings.Join(j.CommandArgs(), " ") + "\n"

	err = ioutil.WriteFile(j.BatchScript, []byte(scriptText), 0644)
	if err != nil {
		return fmt.Errorf("unable to write to file %s: %s", j.BatchScript, err)
	}

	log.Printf("-> Job script successfully created: %s", j.BatchScript)

	return nil
}

func generateJobScript(j *trainjob.Job, sysCfg *sys.Config) error {
	// Sanity checks
	if j == nil {
		return fmt.Errorf("undefined job")
	}

	if sysCfg.ScratchDir == "" {
		return fmt.Errorf("undefined scratch directory")
	}

	// Create the batch script
	if j.BatchScript == "" {
		err := TempFile(j, sysCfg)
		if err != nil {
			return fmt.Errorf("unable to create temporary file: %s", err)
		}
	}

	return setupTrainJob(j, sysCfg)
}

// slurmSubmit prepares the batch script necessary to start a given job.
//
// Note that a script does not need any specific environment to be submitted
func slurmSubmit(j *trainjob.Job, jobmgr *JM, sysCfg *sys.Config) advexec.Result {
	var cmd advexec.Advcmd
	var resExec advexec.Result

	// Sanity checks
	if j == nil || !util.FileExists(jobmgr.BinPath) {
		resExec.Err = fmt.Errorf("job is undefined")
		return resExec
	}

	if !util.PathExists(sysCfg.ScratchDir) {
		resExec.Err = fmt.Errorf("scratch directory does not exist")
		return resExec
	}

	err := j.Validate(sysCfg)
	if err != nil {
		resExec.Err = fmt.Errorf("job is invalid: %s", err)
		return resExec
	}

	err = generateJobScript(j, sysCfg)
	if err != nil {
		resExec.Err = fmt.Errorf("unable to generate Slurm script: %s", err)
		return resExec
	}
	if j.BatchScript == "" {
		resExec.Err = fmt.Errorf("undefined batch script path")
		return resExec
	}

	cmd.BinPath = jobmgr.BinPath
	cmd.ExecDir = sysCfg.CurPath
	// We want the default to be blocking sbatch but users can request non-blocking
	if !j.NonBlocking {
		cmd.CmdArgs = append(cmd.CmdArgs, "-W")
	}
	if len(jobmgr.CmdArgs) > 0 {
		cmd.CmdArgs = append(cmd.CmdArgs, jobmgr.CmdArgs...)
	}
	cmd.CmdArgs = append(cmd.CmdArgs, j.BatchScript)

	j.SetOutputFn(slurmGetOutput)
	j.SetErrorFn(slurmGetError)

	cmdRes := cmd.Run()
	if strings.HasPrefix(cmdRes.Stdout, slurmJobIDPrefix) {
		jobIDStr := strings.TrimPrefix(cmdRes.Stdout, slurmJobIDPrefix)
		jobIDStr = strings.TrimRight(jobIDStr, "\n")
		j.ID, err = strconv.Atoi(jobIDStr)
		if err != nil {
			resExec.Err = fmt.Errorf("unable to get job ID: %s", err)
			return resExec
		}
	}

	return cmdRes
}
