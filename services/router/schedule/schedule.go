// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package schedule runs the periodic background jobs of the serving
// process: refreshing the classifier from the registry and kicking off
// training runs.
package schedule

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/AleutianAI/intelrouter/pkg/logging"
)

// Jobs holds the schedulable operations. Either field may be nil to
// disable that job.
type Jobs struct {
	// ReloadModel refreshes the serving classifier from the registry.
	ReloadModel func(ctx context.Context) error

	// RunTraining executes one training run.
	RunTraining func(ctx context.Context) error
}

// Scheduler drives Jobs on cron expressions.
//
// # Thread Safety
//
// Start and Stop must be called from one goroutine; jobs run on the
// cron goroutine.
type Scheduler struct {
	cron   *cron.Cron
	logger *logging.Logger
}

// New builds a scheduler from cron expressions (standard five-field
// syntax or @every descriptors). An empty expression disables its job.
func New(jobs Jobs, reloadSpec, trainingSpec string, logger *logging.Logger) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), logger: logger}

	if reloadSpec != "" && jobs.ReloadModel != nil {
		_, err := s.cron.AddFunc(reloadSpec, func() {
			if err := jobs.ReloadModel(context.Background()); err != nil {
				logger.Warn("scheduled model reload failed", "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule model reload %q: %w", reloadSpec, err)
		}
	}

	if trainingSpec != "" && jobs.RunTraining != nil {
		_, err := s.cron.AddFunc(trainingSpec, func() {
			if err := jobs.RunTraining(context.Background()); err != nil {
				logger.Error("scheduled training run failed", "error", err)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("schedule training %q: %w", trainingSpec, err)
		}
	}
	return s, nil
}

// Entries reports how many jobs are scheduled.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start begins running jobs at their scheduled times.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
