// Copyright (c) 2021, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package sys

// Config represents the system configuration
type Config struct {
	// ScratchDir is the path to a scratch directory on the system, used to store batch scripts and job output files
	ScratchDir string

	// CurPath is the path to the current directory, assumed to be the training checkout when launching
	CurPath string
}
