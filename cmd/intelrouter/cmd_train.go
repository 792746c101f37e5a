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
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/intelrouter/services/router/classifier"
	"github.com/AleutianAI/intelrouter/services/router/schedule"
)

// runTrain executes one training run and reports the outcome. A
// rejection by the regression guard exits zero; only stage failures
// are errors.
func runTrain(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	result, err := newPipeline(st).Run(ctx)
	if err != nil {
		fatal("training run failed", err)
	}

	if jsonOutput {
		if err := outputJSON(result); err != nil {
			fatal("encoding result", err)
		}
		return
	}
	if result.Promoted {
		fmt.Printf("Promoted %s (accuracy %.3f, f1 %.3f, %d training samples)\n",
			result.Version, result.Full.Accuracy, result.Full.F1, result.TrainSamples)
	} else {
		fmt.Printf("Rejected candidate %s: %s\n", result.Version, result.Reason)
	}
}

// runSchedule blocks running the background jobs: periodic classifier
// reload and, if configured, periodic training.
func runSchedule(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	cls := classifier.New(ctx, st.registry, logger)
	pipeline := newPipeline(st)

	scheduler, err := schedule.New(schedule.Jobs{
		ReloadModel: cls.Reload,
		RunTraining: func(ctx context.Context) error {
			result, err := pipeline.Run(ctx)
			if err != nil {
				return err
			}
			if result.Promoted {
				return cls.Reload(ctx)
			}
			return nil
		},
	}, cfg.Schedule.ModelReload, cfg.Schedule.Training, logger)
	if err != nil {
		fatal("building scheduler", err)
	}
	if scheduler.Entries() == 0 {
		fatal("starting scheduler", fmt.Errorf("no jobs configured; set schedule.model_reload or schedule.training"))
	}

	scheduler.Start()
	logger.Info("scheduler started",
		"jobs", scheduler.Entries(),
		"model_reload", cfg.Schedule.ModelReload,
		"training", cfg.Schedule.Training,
	)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down scheduler")
	scheduler.Stop()
}
