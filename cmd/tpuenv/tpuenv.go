// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/internal/pkg/tfk"
	"github.com/gvallee/go_tpu_launcher/pkg/environ"
	"github.com/gvallee/go_tpu_launcher/pkg/tpu"
)

func main() {
	dirFlag := flag.String("dir", filepath.Dir(defaults.LDLibraryPath), "Path to the install directory of the TensorFlow runtime")
	help := flag.Bool("h", false, "Help message")

	flag.Parse()

	cmdName := filepath.Base(os.Args[0])
	if *help {
		fmt.Printf("%s is a command line tool to display the resolved launch environment and the TensorFlow runtime installed on the system", cmdName)
		fmt.Println("\nUsage:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	for _, v := range environ.Resolve() {
		fmt.Printf("%s=%s\n", v.Key, v.Value)
	}

	var tpuCfg tpu.Config
	err := tpuCfg.Load()
	if err != nil {
		fmt.Printf("unable to resolve the target TPU: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("Target TPU: %s (%s)\n", tpuCfg.Name, tpuCfg.Host)

	id, version, err := tfk.DetectFromDir(*dirFlag)
	if err != nil {
		fmt.Printf("unable to detect the TensorFlow runtime installed in %s: %s\n", *dirFlag, err)
		os.Exit(1)
	}
	fmt.Printf("Detected runtime:\n%s %s\n", id, version)
}
