// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package environ

import (
	"fmt"
	"os"

	"github.com/gvallee/go_tpu_launcher/internal/pkg/defaults"
)

// Var represents one environment variable the launcher guarantees to the training process
type Var struct {
	// Key is the name of the environment variable
	Key string

	// Default is the value to use when the variable is not set in the ambient environment
	Default string

	// Value is the resolved value, only valid after calling Resolve
	Value string
}

// Resolve sets the variable's value: the ambient value when set and non-empty,
// the documented default otherwise. An empty ambient value counts as unset.
func (v *Var) Resolve() {
	if cur := os.Getenv(v.Key); cur != "" {
		v.Value = cur
		return
	}
	v.Value = v.Default
}

// Defaults returns the set of variables the launcher manages, with their
// documented default values and no resolution performed yet
func Defaults() []Var {
	return []Var{
		{Key: defaults.EnvLDLibraryPath, Default: defaults.LDLibraryPath},
		{Key: defaults.EnvTPUHost, Default: defaults.TPUHost},
		{Key: defaults.EnvTPUName, Default: defaults.TPUName},
		{Key: defaults.EnvModelDir, Default: defaults.ModelDir},
		{Key: defaults.EnvDatasets, Default: defaults.Datasets},
		{Key: defaults.EnvGinConfig, Default: defaults.GinConfig},
	}
}

// Resolve returns the launcher's variables with all values resolved against
// the ambient environment
func Resolve() []Var {
	vars := Defaults()
	for i := range vars {
		vars[i].Resolve()
	}
	return vars
}

// Lookup returns the resolved value of a given variable; an empty string
// means the variable is not managed by the launcher
func Lookup(vars []Var, key string) string {
	for _, v := range vars {
		if v.Key == key {
			return v.Value
		}
	}
	return ""
}

// ToEnv layers the resolved variables on top of the ambient environment and
// returns the result in the KEY=VALUE format expected when starting a child
// process. Entries for managed variables come last so they take precedence.
func ToEnv(vars []Var) []string {
	env := os.Environ()
	for _, v := range vars {
		env = append(env, v.Key+"="+v.Value)
	}
	return env
}

// Export writes the resolved variables back into the launcher's own
// environment so that anything inheriting it, including a process started
// through exec, sees the fully-specified set
func Export(vars []Var) error {
	for _, v := range vars {
		err := os.Setenv(v.Key, v.Value)
		if err != nil {
			return fmt.Errorf("unable to set %s: %s", v.Key, err)
		}
	}
	return nil
}
