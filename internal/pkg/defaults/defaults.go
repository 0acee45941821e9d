// Copyright (c) 2025, NVIDIA CORPORATION. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package defaults

const (
	// EnvLDLibraryPath is the environment variable with the dynamic library search path for the training process
	EnvLDLibraryPath = "LD_LIBRARY_PATH"

	// EnvTPUHost is the environment variable with the address of the TPU accelerator host
	EnvTPUHost = "TPU_HOST"

	// EnvTPUName is the environment variable with the logical TPU pod name
	EnvTPUName = "TPU_NAME"

	// EnvModelDir is the environment variable with the remote storage path for model checkpoints
	EnvModelDir = "MODEL_DIR"

	// EnvDatasets is the environment variable with the glob pattern selecting training shards
	EnvDatasets = "DATASETS"

	// EnvGinConfig is the environment variable with the path to the GIN configuration file
	EnvGinConfig = "GIN_CONFIG"
)

const (
	// LDLibraryPath is the default dynamic library search path
	LDLibraryPath = "/tfk/lib"

	// TPUHost is the default TPU host address
	TPUHost = "10.255.128.3"

	// TPUName is the default logical TPU pod name
	TPUName = "tpu-v3-128-euw4a-4"

	// ModelDir is the default model checkpoint directory
	ModelDir = "gs://fontgan_euw4/model_runs/fonts_128_1"

	// Datasets is the default glob pattern for the training shards
	Datasets = "gs://fontgan_euw4/datasets/fonts_128/fonts_128-0*"

	// GinConfig is the default path to the GIN configuration file
	GinConfig = "example_configs/biggan_font128.gin"
)

const (
	// Interpreter is the name of the Python interpreter used to start training
	Interpreter = "python3"

	// WrapperScript is the script wrapping the training entrypoint
	WrapperScript = "wrapper.py"

	// TrainerScript is the training entrypoint executed through the wrapper
	TrainerScript = "compare_gan/main.py"

	// TfdsDataDir is the tensorflow_datasets directory passed to the trainer.
	// It is a fixed literal, never overridable from the environment.
	TfdsDataDir = "gs://danbooru-euw4a/tensorflow_datasets/"
)
