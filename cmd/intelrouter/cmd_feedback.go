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

	"github.com/spf13/cobra"

	"github.com/AleutianAI/intelrouter/services/router/difficulty"
)

// runFeedbackAdd stores a labeled example for the next training run.
func runFeedbackAdd(cmd *cobra.Command, args []string) {
	level, ok := difficulty.Parse(feedbackLabel)
	if !ok {
		fatal("invalid label", fmt.Errorf("%q is not one of easy, medium, hard", feedbackLabel))
	}

	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	if err := st.feedback.Add(ctx, args[0], level); err != nil {
		fatal("storing example", err)
	}
	if !jsonOutput {
		fmt.Printf("Recorded %s example.\n", level)
		return
	}
	outputJSON(map[string]string{"label": level.String(), "status": "stored"})
}

// runFeedbackCount reports how many examples are stored.
func runFeedbackCount(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	count, err := st.feedback.Count(ctx)
	if err != nil {
		fatal("counting examples", err)
	}
	if jsonOutput {
		outputJSON(map[string]int{"examples": count})
		return
	}
	fmt.Printf("%d stored examples (%d required to train)\n", count, cfg.Training.MinSamples)
}
