// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package slurm

const (
	// ScriptCmdPrefix is the prefix of directives in a Slurm batch script
	ScriptCmdPrefix = "#SBATCH"
)
