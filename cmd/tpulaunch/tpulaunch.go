// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gvallee/go_tpu_launcher/pkg/jm"
	"github.com/gvallee/go_tpu_launcher/pkg/launcher"
	"github.com/gvallee/go_tpu_launcher/pkg/trainjob"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "Display the resolved environment and the training command without launching anything")
	supervise := flag.Bool("supervise", false, "Spawn the training command and wait for it instead of replacing the launcher process")
	useSlurm := flag.Bool("slurm", false, "Submit the training command as a Slurm batch job")
	partition := flag.String("partition", "", "Name of the Slurm partition to submit the job to")
	scratch := flag.String("scratch", "", "Scratch directory where batch scripts and job output files are stored")
	nonBlocking := flag.Bool("non-blocking", false, "Do not wait for the Slurm job to complete")
	statusFlag := flag.String("job-status", "", "Display the status of various jobs; comma-separated list of job IDs")
	runningJobsFlag := flag.String("running-jobs", "", "Display how many jobs are already running on the target (e.g., a Slurm partition)")
	help := flag.Bool("h", false, "Help message")

	flag.Parse()

	cmdName := filepath.Base(os.Args[0])
	if *help {
		fmt.Printf("%s is a command line tool to launch GAN training jobs on TPU infrastructure", cmdName)
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	sysCfg, jobmgr, err := launcher.Load()
	if err != nil {
		fmt.Printf("ERROR: unable to load the launcher: %s\n", err)
		os.Exit(1)
	}
	sysCfg.ScratchDir = *scratch

	if *useSlurm || *statusFlag != "" || *runningJobsFlag != "" {
		loaded, slurmJM := jm.SlurmDetect()
		if !loaded {
			fmt.Printf("ERROR: Slurm is not available on this system\n")
			os.Exit(1)
		}
		err = slurmJM.Load(&sysCfg)
		if err != nil {
			fmt.Printf("ERROR: unable to load the Slurm job manager: %s\n", err)
			os.Exit(1)
		}
		jobmgr = slurmJM
	}

	if *statusFlag != "" {
		jobIDsStr := strings.Split(*statusFlag, ",")
		if len(jobIDsStr) == 0 {
			fmt.Printf("ERROR: please provide a valid list of job IDs\n")
			os.Exit(1)
		}
		var jobIDs []int
		for _, w := range jobIDsStr {
			jobID, err := strconv.Atoi(w)
			if err != nil {
				fmt.Printf("ERROR: invalid job ID: %s\n", w)
				os.Exit(1)
			}
			jobIDs = append(jobIDs, jobID)
		}

		statuses, err := jobmgr.JobStatus(jobIDs)
		if err != nil {
			fmt.Printf("ERROR: unable to retrieve job(s) status: %s\n", err)
			os.Exit(1)
		}
		for idx := range jobIDs {
			fmt.Printf("%d: %s\n", jobIDs[idx], statuses[idx].Str)
		}
		os.Exit(0)
	}

	if *runningJobsFlag != "" {
		u, err := user.Current()
		if err != nil {
			fmt.Printf("ERROR: unable to retrieve the user ID: %s\n", err)
			os.Exit(1)
		}
		num, err := jobmgr.NumJobs(*runningJobsFlag, u.Username)
		if err != nil {
			fmt.Printf("ERROR: unable to retrieve the number of running jobs: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Number of running jobs: %d\n", num)
		os.Exit(0)
	}

	j := trainjob.FromEnvironment()
	j.Partition = *partition
	j.NonBlocking = *nonBlocking

	if *dryRun {
		fmt.Println("Environment:")
		for _, v := range j.Env {
			fmt.Printf("\t%s=%s\n", v.Key, v.Value)
		}
		fmt.Printf("Command: %s\n", launcher.CommandString(j))
		os.Exit(0)
	}

	if *useSlurm || *supervise {
		res, execRes := launcher.Run(j, &jobmgr, &sysCfg)
		if !res.Pass {
			os.Exit(1)
		}
		fmt.Printf("%s", j.GetOutput(&sysCfg))
		fmt.Fprintf(os.Stderr, "%s", j.GetError(&sysCfg))
		if execRes.Err != nil {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Default path: hand the process over to the training command. Exec only
	// returns when the handoff failed and the training process never started.
	err = launcher.Exec(j, &jobmgr, &sysCfg)
	fmt.Printf("ERROR: unable to start the training command: %s\n", err)
	os.Exit(1)
}
