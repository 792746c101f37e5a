// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	configPath    string
	overrideLabel string
	feedbackLabel string
	jsonOutput    bool
	quietMode     bool

	rootCmd = &cobra.Command{
		Use:   "intelrouter",
		Short: "Hybrid query-difficulty routing for multi-tier model serving",
		Long: `IntelRouter decides which model tier should handle a query by
combining a rule-based difficulty scorer with a trained classifier,
and retrains the classifier from labeled routing feedback.`,
	}

	// --- Routing ---
	routeCmd = &cobra.Command{
		Use:   "route [query]",
		Short: "Route a query to a difficulty and model tier",
		Args:  cobra.ExactArgs(1),
		Run:   runRoute, // Defined in cmd_route.go
	}

	// --- Training ---
	trainCmd = &cobra.Command{
		Use:   "train",
		Short: "Run the training pipeline against collected feedback",
		Run:   runTrain, // Defined in cmd_train.go
	}

	scheduleCmd = &cobra.Command{
		Use:   "schedule",
		Short: "Run background jobs: periodic model reload and training",
		Run:   runSchedule, // Defined in cmd_train.go
	}

	// --- Model Registry ---
	modelsCmd = &cobra.Command{
		Use:   "models",
		Short: "Inspect the model registry",
	}
	modelsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all model versions with their metrics",
		Run:   runModelsList, // Defined in cmd_models.go
	}
	modelsActiveCmd = &cobra.Command{
		Use:   "active",
		Short: "Show the active model version",
		Run:   runModelsActive, // Defined in cmd_models.go
	}

	// --- Feedback ---
	feedbackCmd = &cobra.Command{
		Use:   "feedback",
		Short: "Manage labeled training examples",
	}
	feedbackAddCmd = &cobra.Command{
		Use:   "add [query]",
		Short: "Record a labeled example for the next training run",
		Args:  cobra.ExactArgs(1),
		Run:   runFeedbackAdd, // Defined in cmd_feedback.go
	}
	feedbackCountCmd = &cobra.Command{
		Use:   "count",
		Short: "Count stored examples",
		Run:   runFeedbackCount, // Defined in cmd_feedback.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml",
		"Path to the configuration file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Emit machine-readable JSON output")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false,
		"Suppress log output")

	routeCmd.Flags().StringVar(&overrideLabel, "override", "",
		"Force a difficulty (easy, medium, hard) regardless of scoring")
	feedbackAddCmd.Flags().StringVar(&feedbackLabel, "label", "",
		"Difficulty label for the example (easy, medium, hard)")
	feedbackAddCmd.MarkFlagRequired("label")

	modelsCmd.AddCommand(modelsListCmd, modelsActiveCmd)
	feedbackCmd.AddCommand(feedbackAddCmd, feedbackCountCmd)
	rootCmd.AddCommand(routeCmd, trainCmd, scheduleCmd, modelsCmd, feedbackCmd)
}
