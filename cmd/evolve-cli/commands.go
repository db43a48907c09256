package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/XiaoConstantine/evolve-go/pkg/config"
	"github.com/XiaoConstantine/evolve-go/pkg/logging"
	"github.com/XiaoConstantine/evolve-go/pkg/runner"
)

var (
	configInline string
	configFile   string

	taskID        string
	additionalGen int
	checkpointDir string
	storage       string
)

func init() {
	evolveCmd.Flags().StringVar(&configInline, "config", "", "inline JSON or YAML configuration")
	evolveCmd.Flags().StringVar(&configFile, "config-file", "", "path to a configuration file")

	continueCmd.Flags().StringVar(&taskID, "task-id", "", "task id of the run to resume")
	continueCmd.Flags().IntVar(&additionalGen, "additional-generations", 10, "generations to add")
	continueCmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", ".", "directory holding checkpoints")
	continueCmd.Flags().StringVar(&storage, "storage", "file", "checkpoint storage backend (file|sqlite)")
	_ = continueCmd.MarkFlagRequired("task-id")

	statusCmd.Flags().StringVar(&taskID, "task-id", "", "task id to inspect")
	statusCmd.Flags().StringVar(&checkpointDir, "checkpoint-dir", ".", "directory holding checkpoints")
	statusCmd.Flags().StringVar(&storage, "storage", "file", "checkpoint storage backend (file|sqlite)")
	_ = statusCmd.MarkFlagRequired("task-id")

	rootCmd.AddCommand(evolveCmd, continueCmd, statusCmd)
}

var evolveCmd = &cobra.Command{
	Use:   "evolve",
	Short: "Run a fresh evolutionary search to completion",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return emit(runner.Result{Success: false, Error: err.Error()})
		}
		configureLogging(cfg)

		result := runner.New(nil).Evolve(cmd.Context(), cfg)
		return emit(result)
	},
}

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "Resume a prior run from its checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		result := runner.New(nil).Continue(cmd.Context(), taskID, additionalGen, checkpointDir, storage)
		return emit(result)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report a run's latest generation and best fitness",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := runner.New(nil).Status(cmd.Context(), taskID, checkpointDir, storage)
		if err != nil {
			return emit(runner.Result{Success: false, TaskID: taskID, Error: err.Error()})
		}
		return emitJSON(status)
	},
}

func loadConfig() (config.Config, error) {
	if configFile != "" {
		return config.Load(configFile)
	}
	if configInline != "" {
		return config.Parse([]byte(configInline))
	}
	return config.Config{}, fmt.Errorf("either --config or --config-file is required")
}

func configureLogging(cfg config.Config) {
	logging.SetLogger(logging.NewLogger(logging.Config{
		Severity: logging.ParseSeverity(cfg.LogLevel),
		Outputs:  []logging.Output{logging.NewConsoleOutput(true)},
	}))
}

func emit(result runner.Result) error {
	if err := emitJSON(result); err != nil {
		return err
	}
	if !result.Success {
		os.Exit(1)
	}
	return nil
}

func emitJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
