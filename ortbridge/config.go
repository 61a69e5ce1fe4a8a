// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ortbridge

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config locates the ONNX Runtime shared library.
type Config struct {
	// SharedLibraryPath is the path of the onnxruntime shared library.
	SharedLibraryPath string `env:"ONNXRUNTIME_SHARED_LIBRARY_PATH" envDefault:"onnxruntime.so"`
}

// LoadConfig reads the configuration from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
