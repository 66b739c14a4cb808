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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/daviszhen/poslist/pkg/poslist"
	"github.com/daviszhen/poslist/pkg/util"
)

func init() {
	cobra.OnInitialize(loadConfig)
	initScanCmd()
	initIndexCmd()
}

var testerCfg = util.DefaultConfig()

///root cmd

var info = "tester"
var RootCmd = &cobra.Command{
	Use:          "tester",
	Short:        info,
	Long:         info,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("use tester --help or -h")
	},
}

func initCommonFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&testerCfg.Debug.VerifyPosLists, "verify", false, "check pos list invariants on every access")
	cmd.Flags().BoolVar(&testerCfg.Debug.PrintPlan, "print_plan", false, "print the output pos lists")
	cmd.Flags().BoolVar(&testerCfg.Debug.PrintResult, "print_result", false, "print result rows")
	cmd.Flags().IntVar(&testerCfg.Storage.ChunkSize, "chunk_size", util.DefaultChunkSize, "target rows per chunk")
	cmd.Flags().IntVar(&testerCfg.Gen.Rows, "rows", 10*util.DefaultChunkSize, "generated rows")
	cmd.Flags().Int64Var(&testerCfg.Scan.Low, "low", 0, "lower key bound")
	cmd.Flags().Int64Var(&testerCfg.Scan.High, "high", 49, "upper key bound")
}

// bindFlags binds the flags of the running command. The commands share keys,
// so binding them all up front would let the last command win.
func bindFlags(cmd *cobra.Command) {
	viper.BindPFlag("debug.verifyPosLists", cmd.Flags().Lookup("verify"))
	viper.BindPFlag("debug.printPlan", cmd.Flags().Lookup("print_plan"))
	viper.BindPFlag("debug.printResult", cmd.Flags().Lookup("print_result"))
	viper.BindPFlag("storage.chunkSize", cmd.Flags().Lookup("chunk_size"))
	viper.BindPFlag("gen.rows", cmd.Flags().Lookup("rows"))
	viper.BindPFlag("scan.low", cmd.Flags().Lookup("low"))
	viper.BindPFlag("scan.high", cmd.Flags().Lookup("high"))
	if flag := cmd.Flags().Lookup("parallelism"); flag != nil {
		viper.BindPFlag("scan.parallelism", flag)
	}
}

// initOptions lets flags and config file override the loaded defaults.
func initOptions(cmd *cobra.Command) error {
	bindFlags(cmd)
	testerCfg.Debug.VerifyPosLists = viper.GetBool("debug.verifyPosLists")
	testerCfg.Debug.PrintPlan = viper.GetBool("debug.printPlan")
	testerCfg.Debug.PrintResult = viper.GetBool("debug.printResult")
	if viper.IsSet("debug.maxOutputRows") {
		testerCfg.Debug.MaxOutputRows = viper.GetInt("debug.maxOutputRows")
	}
	testerCfg.Storage.ChunkSize = viper.GetInt("storage.chunkSize")
	testerCfg.Gen.Rows = viper.GetInt("gen.rows")
	if viper.IsSet("gen.seed") {
		testerCfg.Gen.Seed = viper.GetInt64("gen.seed")
	}
	if viper.IsSet("gen.distinctKey") {
		testerCfg.Gen.DistinctKey = viper.GetInt("gen.distinctKey")
	}
	testerCfg.Scan.Low = viper.GetInt64("scan.low")
	testerCfg.Scan.High = viper.GetInt64("scan.high")
	if viper.IsSet("scan.parallelism") {
		testerCfg.Scan.Parallelism = viper.GetInt("scan.parallelism")
	}
	if err := testerCfg.Validate(); err != nil {
		return err
	}
	poslist.SetVerification(testerCfg.Debug.VerifyPosLists)
	return nil
}

//scan cmd

var scanInfo = "filter a generated table with a table scan"
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: scanInfo,
	Long:  scanInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initOptions(cmd); err != nil {
			return err
		}
		return runScan(cmd.Context(), testerCfg, os.Stdout)
	},
}

func initScanCmd() {
	RootCmd.AddCommand(scanCmd)
	initCommonFlags(scanCmd)
	scanCmd.Flags().IntVar(&testerCfg.Scan.Parallelism, "parallelism", 4, "concurrent chunk scans")
}

//index cmd

var indexInfo = "answer the key range with chunk indexes and compare with a table scan"
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: indexInfo,
	Long:  indexInfo,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := initOptions(cmd); err != nil {
			return err
		}
		return runIndex(cmd.Context(), testerCfg, os.Stdout)
	},
}

func initIndexCmd() {
	RootCmd.AddCommand(indexCmd)
	initCommonFlags(indexCmd)
}

var defCfgFilePaths = []string{".", "etc"}
var cfgFileName = "tester.toml"

func loadConfig() {
	cfg, err := util.LoadConfig(defCfgFilePaths, cfgFileName)
	if err != nil {
		util.Error("load tester.toml failed", zap.Error(err))
		os.Exit(1)
	}
	*testerCfg = *cfg
	for _, dirPath := range defCfgFilePaths {
		fpath := filepath.Join(dirPath, cfgFileName)
		if !util.FileIsValid(fpath) {
			continue
		}
		viper.SetConfigFile(fpath)
		if err = viper.ReadInConfig(); err != nil {
			util.Error("viper load config file failed",
				zap.String("fpath", fpath),
				zap.Error(err))
			continue
		}
		break
	}
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
