// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package util

import (
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

type DebugOptions struct {
	VerifyPosLists bool `toml:"verifyPosLists"`
	PrintPlan      bool `toml:"printPlan"`
	PrintResult    bool `toml:"printResult"`
	MaxOutputRows  int  `toml:"maxOutputRows"`
}

type StorageOptions struct {
	ChunkSize int `toml:"chunkSize"`
}

type GenOptions struct {
	Rows        int   `toml:"rows"`
	Seed        int64 `toml:"seed"`
	DistinctKey int   `toml:"distinctKey"`
}

type ScanOptions struct {
	Low         int64 `toml:"low"`
	High        int64 `toml:"high"`
	Parallelism int   `toml:"parallelism"`
}

type Config struct {
	Debug   DebugOptions   `toml:"debug"`
	Storage StorageOptions `toml:"storage"`
	Gen     GenOptions     `toml:"gen"`
	Scan    ScanOptions    `toml:"scan"`
}

func DefaultConfig() *Config {
	return &Config{
		Debug: DebugOptions{
			MaxOutputRows: 10,
		},
		Storage: StorageOptions{
			ChunkSize: DefaultChunkSize,
		},
		Gen: GenOptions{
			Rows:        10 * DefaultChunkSize,
			Seed:        1,
			DistinctKey: 100,
		},
		Scan: ScanOptions{
			Low:         0,
			High:        49,
			Parallelism: 4,
		},
	}
}

// LoadConfig decodes the first valid file named name under dirs on top of
// the defaults. It returns the defaults when no file exists.
func LoadConfig(dirs []string, name string) (*Config, error) {
	cfg := DefaultConfig()
	for _, dirPath := range dirs {
		fpath := filepath.Join(dirPath, name)
		if !FileIsValid(fpath) {
			continue
		}
		_, err := toml.DecodeFile(fpath, cfg)
		if err != nil {
			Error("load config file failed",
				zap.String("fpath", fpath),
				zap.Error(err))
			return nil, fmt.Errorf("decode %s: %w", fpath, err)
		}
		Info("config loaded", zap.String("fpath", fpath))
		return cfg, cfg.Validate()
	}
	return cfg, cfg.Validate()
}

func (cfg *Config) Validate() error {
	if cfg.Storage.ChunkSize <= 0 {
		return fmt.Errorf("storage.chunkSize must be positive, got %d", cfg.Storage.ChunkSize)
	}
	if cfg.Gen.Rows < 0 {
		return fmt.Errorf("gen.rows must not be negative, got %d", cfg.Gen.Rows)
	}
	if cfg.Gen.DistinctKey <= 0 {
		return fmt.Errorf("gen.distinctKey must be positive, got %d", cfg.Gen.DistinctKey)
	}
	if cfg.Scan.Parallelism <= 0 {
		return fmt.Errorf("scan.parallelism must be positive, got %d", cfg.Scan.Parallelism)
	}
	return nil
}
