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
	"os"
	"path/filepath"

	"github.com/gvallee/go_exec/pkg/advexec"
	"github.com/gvallee/go_hpcjob/pkg/hpcjob"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
	"github.com/gvallee/go_util/pkg/util"
)

const (
	// ExecID is the value set to JM.ID when the training command shall be started directly on the host
	ExecID = "exec"

	// SlurmID is the value set to JM.ID when Slurm shall be used to submit a job
	SlurmID = "slurm"
)

// LoadFn loads a specific job manager once detected
type LoadFn func(*JM, *sys.Config) error

// SubmitFn is a "function pointer" that lets us submit a new job
type SubmitFn func(*trainjob.Job, *JM, *sys.Config) advexec.Result

// JobStatusFn is a "function pointer" that lets us query the status of jobs
type JobStatusFn func(*JM, []int) ([]hpcjob.Status, error)

// NumJobsFn is a "function pointer" that lets us query how many jobs are running on a target
type NumJobsFn func(*JM, string, string) (int, error)

// JM is the structure representing a specific JM
type JM struct {
	// ID identifies which job manager has been detected on the system
	ID string

	// BinPath is the path to the binary used to start jobs
	BinPath string

	// CmdArgs is the set of arguments the job manager's binary always needs
	CmdArgs []string

	loadJM LoadFn

	submitJM SubmitFn

	jobStatusJM JobStatusFn

	numJobsJM NumJobsFn
}

// Load is the function to use to load the JM component
func (jobmgr *JM) Load(sysCfg *sys.Config) error {
	if jobmgr.loadJM == nil {
		return nil
	}
	return jobmgr.loadJM(jobmgr, sysCfg)
}

// Submit sends a job for execution through the current job manager
func (jobmgr *JM) Submit(j *trainjob.Job, sysCfg *sys.Config) advexec.Result {
	var res advexec.Result
	if jobmgr.submitJM == nil {
		res.Err = fmt.Errorf("job manager does not implement job submission")
		return res
	}
	return jobmgr.submitJM(j, jobmgr, sysCfg)
}

// JobStatus returns the status of a list of jobs
func (jobmgr *JM) JobStatus(jobIDs []int) ([]hpcjob.Status, error) {
	if jobmgr.jobStatusJM == nil {
		return nil, fmt.Errorf("job manager does not implement job status queries")
	}
	return jobmgr.jobStatusJM(jobmgr, jobIDs)
}

// NumJobs returns how many jobs are running on a target partition for a given user
func (jobmgr *JM) NumJobs(partition string, user string) (int, error) {
	if jobmgr.numJobsJM == nil {
		return 0, fmt.Errorf("job manager does not implement running jobs queries")
	}
	return jobmgr.numJobsJM(jobmgr, partition, user)
}

// Detect returns the job manager to use by default. Starting the training
// command directly, with process replacement semantics, is the launcher's
// contract; batch submission through Slurm is opt-in and selected explicitly
// with SlurmDetect.
func Detect() JM {
	loaded, comp := ExecDetect()
	if !loaded {
		log.Fatalln("unable to find a default job manager")
	}

	return comp
}

// TempFile creates a temporary file that is used to store a batch script
func TempFile(j *trainjob.Job, sysCfg *sys.Config) error {
	filePrefix := "sbash-" + j.Name
	path := ""
	if sysCfg.ScratchDir == "" {
		f, err := ioutil.TempFile("", filePrefix+"-")
		if err != nil {
			return fmt.Errorf("failed to create temporary file: %s", err)
		}
		path = f.Name()
		f.Close()
		j.BatchScript = path
	} else {
		fileName := filePrefix + ".sh"
		path = filepath.Join(sysCfg.ScratchDir, fileName)
		j.BatchScript = path
		if util.PathExists(path) {
			return fmt.Errorf("file %s already exists", path)
		}
	}

	j.CleanUp = func(...interface{}) error {
		err := os.RemoveAll(path)
		if err != nil {
			return fmt.Errorf("unable to delete %s: %s", path, err)
		}
		return nil
	}

	return nil
}
