// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package tfk

import "testing"

func TestParseVersionOutput(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		expectedOutput string
	}{
		{
			name:           "v2.4.1",
			input:          "2.4.1\n",
			expectedOutput: "2.4.1",
		},
		{
			name:           "nightly",
			input:          "2.16.0-dev20231205\n",
			expectedOutput: "2.16.0-dev20231205",
		},
	}

	for _, tt := range tests {
		version, err := parseVersionOutput(tt.input)
		if err != nil {
			t.Fatalf("parseVersionOutput() failed on %s: %s", tt.name, err)
		}
		if version != tt.expectedOutput {
			t.Fatalf("parseVersionOutput() returned %s instead of %s for %s", version, tt.expectedOutput, tt.name)
		}
	}
}

func TestParseVersionOutputInvalid(t *testing.T) {
	_, err := parseVersionOutput("")
	if err == nil {
		t.Fatalf("parseVersionOutput() succeeded on empty output")
	}
}
