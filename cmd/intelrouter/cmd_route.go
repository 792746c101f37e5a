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
)

// runRoute decides difficulty, model tier, and source for one query.
func runRoute(cmd *cobra.Command, args []string) {
	ctx := context.Background()
	st, err := openStack(ctx)
	if err != nil {
		fatal("opening storage", err)
	}
	defer st.Close()

	decision := buildRouter(ctx, st).Route(args[0], overrideLabel)

	if jsonOutput {
		if err := outputJSON(decision); err != nil {
			fatal("encoding decision", err)
		}
		return
	}
	if prettyTerminal() {
		fmt.Printf("Difficulty:  %s\n", decision.Difficulty)
		fmt.Printf("Model tier:  %s\n", decision.ModelTier)
		fmt.Printf("Source:      %s\n", decision.Source)
		if decision.Confidence > 0 {
			fmt.Printf("Confidence:  %.3f\n", decision.Confidence)
		}
		return
	}
	fmt.Printf("%s\t%s\t%s\n", decision.Difficulty, decision.ModelTier, decision.Source)
}
