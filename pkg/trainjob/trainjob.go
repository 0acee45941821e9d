// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package trainjob

import (
	"bytes"
	"fmt"
	"log"
	"path/filepath"

	"github.com/gvallee/go_exec/pkg/manifest"
	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/pkg/environ"
	"github.com/gvallee/go_tpu_launcher/pkg/sys"
	"github.com/gvallee/go_tpu_launcher/pkg/tpu"
	"github.com/gvallee/go_util/pkg/util"
)

// CleanUpFn is a "function pointer" to call to clean up the system after the completion of a job
type CleanUpFn func(...interface{}) error

// GetOutputFn is a "function pointer" to call to gather the output of the training process after completion of a job
type GetOutputFn func(*Job, *sys.Config) string

// GetErrorFn is a "function pointer" to call to gather stderr from the training process after completion of a job
type GetErrorFn func(*Job, *sys.Config) string

// Job represents a training job
type Job struct {
	// Name is the name of the job
	Name string

	// ModelDir is the remote storage path where the trainer writes model checkpoints
	ModelDir string

	// GinConfig is the path to the GIN configuration file parameterizing the run
	GinConfig string

	// Datasets is the glob pattern selecting the training shards. The launcher
	// only exports it; the training process reads it from its environment.
	Datasets string

	// LDLibraryPath is the dynamic library search path handed to the training process
	LDLibraryPath string

	// TPUCfg describes the target TPU accelerator
	TPUCfg tpu.Config

	// Env is the set of resolved environment variables guaranteed to the training process
	Env []environ.Var

	// CleanUp is the function to call once the job is completed to clean the system
	CleanUp CleanUpFn

	// BatchScript is the path to the script required to start a job (batch submission only)
	BatchScript string

	// Partition is the name of the partition to use with the job manager (optional)
	Partition string

	// NonBlocking requests a submission that does not wait for job completion (batch submission only)
	NonBlocking bool

	// ID is the identifier assigned by the job manager after submission
	ID int

	// OutBuffer is a buffer with the output of the job
	OutBuffer bytes.Buffer

	// ErrBuffer is a buffer with the stderr of the job
	ErrBuffer bytes.Buffer

	// internalGetOutput is the function to call to gather the output of the training process based on the use of a given job manager
	internalGetOutput GetOutputFn

	// internalGetError is the function to call to gather stderr of the training process based on the use of a given job manager
	internalGetError GetErrorFn
}

// FromEnvironment creates a job from the ambient environment, resolving every
// managed variable to its ambient value or its documented default
func FromEnvironment() *Job {
	var j Job
	j.Env = environ.Resolve()
	j.ModelDir = environ.Lookup(j.Env, defaults.EnvModelDir)
	j.GinConfig = environ.Lookup(j.Env, defaults.EnvGinConfig)
	j.Datasets = environ.Lookup(j.Env, defaults.EnvDatasets)
	j.LDLibraryPath = environ.Lookup(j.Env, defaults.EnvLDLibraryPath)
	j.TPUCfg.Host = environ.Lookup(j.Env, defaults.EnvTPUHost)
	j.TPUCfg.Name = environ.Lookup(j.Env, defaults.EnvTPUName)
	j.Name = filepath.Base(j.ModelDir)
	return &j
}

// CommandArgs returns the arguments of the training command. The binary is
// the Python interpreter; the wrapper, entrypoint and flags are fixed, only
// the model directory and GIN configuration values vary with the environment.
func (j *Job) CommandArgs() []string {
	var args []string
	args = append(args, defaults.WrapperScript)
	args = append(args, defaults.TrainerScript)
	args = append(args, "--use_tpu")
	args = append(args, "--tfds_data_dir")
	args = append(args, defaults.TfdsDataDir)
	args = append(args, "--model_dir")
	args = append(args, j.ModelDir)
	args = append(args, "--gin_config")
	args = append(args, j.GinConfig)
	return args
}

// Environ returns the environment for the training process: the ambient
// environment with all managed variables layered on top
func (j *Job) Environ() []string {
	return environ.ToEnv(j.Env)
}

// CheckIntegrity checks if a given training checkout has been compromised.
// Checkouts without a manifest are accepted as-is.
func (j *Job) CheckIntegrity(dir string) error {
	trainerManifest := filepath.Join(dir, "compare_gan.MANIFEST")
	if !util.FileExists(trainerManifest) {
		return nil
	}
	log.Println("* Checking integrity of the training checkout...")
	return manifest.Check(trainerManifest)
}

// Validate performs the sanity checks required before handing the job to a
// job manager: the wrapper script must exist in the run directory
func (j *Job) Validate(sysCfg *sys.Config) error {
	if sysCfg == nil || sysCfg.CurPath == "" {
		return fmt.Errorf("undefined system configuration")
	}
	wrapper := filepath.Join(sysCfg.CurPath, defaults.WrapperScript)
	if !util.FileExists(wrapper) {
		return fmt.Errorf("%s does not exist, not a training checkout", wrapper)
	}
	return j.CheckIntegrity(sysCfg.CurPath)
}

// GetOutput is the function to call to gather the output (stdout) of the training process after execution of the job
func (j *Job) GetOutput(sysCfg *sys.Config) string {
	return j.internalGetOutput(j, sysCfg)
}

// GetError is the function to call to gather stderr of the training process after execution of the job
func (j *Job) GetError(sysCfg *sys.Config) string {
	return j.internalGetError(j, sysCfg)
}

// SetOutputFn sets the internal function specific to the job manager to get the output of a job
func (j *Job) SetOutputFn(fn GetOutputFn) {
	j.internalGetOutput = fn
}

// SetErrorFn sets the internal function specific to the job manager to get stderr of a job
func (j *Job) SetErrorFn(fn GetErrorFn) {
	j.internalGetError = fn
}
