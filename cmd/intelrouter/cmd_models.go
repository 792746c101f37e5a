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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/intelrouter/services/router/registry"
)

// runModelsList prints every registered model version, newest first.
func runModelsList(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	rows, err := st.registry.ListMetadata(ctx)
	if err != nil {
		fatal("listing models", err)
	}

	if jsonOutput {
		if err := outputJSON(rows); err != nil {
			fatal("encoding models", err)
		}
		return
	}
	if len(rows) == 0 {
		fmt.Println("No models registered. Run `intelrouter train` first.")
		return
	}
	for _, row := range rows {
		marker := " "
		if row.IsActive {
			marker = "*"
		}
		fmt.Printf("%s %s  accuracy=%.3f  f1=%.3f  threshold=%.2f  trained=%s\n",
			marker, row.Version, row.Accuracy, row.F1Score,
			row.ConfidenceThreshold, row.TrainingTimestamp.Format("2006-01-02 15:04"))
	}
}

// runModelsActive prints the active version's metadata.
func runModelsActive(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	meta, err := st.registry.ActiveMetadata(ctx)
	if errors.Is(err, registry.ErrNoActiveModel) {
		fmt.Println("No active model. Run `intelrouter train` first.")
		return
	}
	if err != nil {
		fatal("fetching active model", err)
	}

	if jsonOutput {
		if err := outputJSON(meta); err != nil {
			fatal("encoding metadata", err)
		}
		return
	}
	fmt.Printf("Version:     %s\n", meta.Version)
	fmt.Printf("Accuracy:    %.3f\n", meta.Accuracy)
	fmt.Printf("F1:          %.3f\n", meta.F1Score)
	fmt.Printf("Threshold:   %.2f\n", meta.ConfidenceThreshold)
	fmt.Printf("Trained:     %s\n", meta.TrainingTimestamp.Format("2006-01-02 15:04:05 MST"))
}
