// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"whisp/internal/adapter"
)

var (
	claimPassword string
	claimOutput   string

	claimCmd = &cobra.Command{
		Use:   "claim <id>",
		Short: "Claim a whisp by id, destroying it on the server",
		Long: `Fetches a whisp and prints its payload to stdout. For file whisps
use --output to write the blob to a file. A successful claim destroys
the whisp; a second claim of the same id fails with not found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			srv, err := newServerAdapter()
			if err != nil {
				return err
			}

			claimed, err := srv.ClaimWhisp(cmd.Context(), id, claimPassword)
			if err != nil {
				return describeClaimError(err)
			}

			if !claimed.IsFile {
				fmt.Println(claimed.EncryptedPayload)
				return nil
			}

			if claimOutput == "" {
				return fmt.Errorf("whisp %s holds a file: pass --output to save it", id)
			}

			out, err := os.Create(claimOutput)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer out.Close()

			if err := srv.DownloadWhispFile(cmd.Context(), id, claimPassword, out); err != nil {
				return describeClaimError(err)
			}

			fmt.Println(color.GreenString("✓") + " file saved to " + color.YellowString(claimOutput))
			return nil
		},
	}
)

func init() {
	claimCmd.Flags().StringVarP(&claimPassword, "password", "p", "", "password the whisp was protected with")
	claimCmd.Flags().StringVarP(&claimOutput, "output", "o", "", "write a file whisp to this path")
}

func describeClaimError(err error) error {
	switch {
	case errors.Is(err, adapter.ErrNotFound):
		return fmt.Errorf("whisp not found: it may have expired or already been claimed")
	case errors.Is(err, adapter.ErrUnauthorized):
		return fmt.Errorf("wrong password")
	default:
		return err
	}
}
