// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package tpu

import (
	"fmt"

	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
	"github.com/gvallee/go_tpu_launcher/pkg/environ"
)

// Config gathers all data about the target TPU accelerator
type Config struct {
	// Host is the address of the TPU accelerator host
	Host string

	// Name is the logical name of the TPU pod
	Name string
}

// Load fills in any unset field from the resolved environment. Users have the
// option to specify the host, the name, or both; whatever is missing comes
// from TPU_HOST/TPU_NAME or their documented defaults.
func (c *Config) Load() error {
	vars := environ.Resolve()
	if c.Host == "" {
		c.Host = environ.Lookup(vars, defaults.EnvTPUHost)
	}
	if c.Name == "" {
		c.Name = environ.Lookup(vars, defaults.EnvTPUName)
	}
	if c.Host == "" || c.Name == "" {
		return fmt.Errorf("unable to resolve the target TPU (host: %s, name: %s)", c.Host, c.Name)
	}
	return nil
}
