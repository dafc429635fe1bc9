// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command whispctl is a small command line client for a whisp server.
// It can create one-time whisps and claim them, treating payloads as
// opaque ciphertext the same way the server does.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"whisp/internal/adapter"
	"whisp/internal/logger"
)

var (
	serverAddress  string
	requestTimeout time.Duration

	rootCmd = &cobra.Command{
		Use:           "whispctl",
		Short:         "Create and claim self-destructing whisps",
		Long:          `whispctl talks to a whisp server over its HTTP API. A whisp is read at most once: claiming it destroys it on the server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverAddress, "server", "s", "http://localhost:8080", "whisp server address")
	rootCmd.PersistentFlags().DurationVar(&requestTimeout, "timeout", 30*time.Second, "request timeout")

	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(claimCmd)
}

func newServerAdapter() (adapter.ServerAdapter, error) {
	return adapter.NewHTTPServerAdapter(serverAddress, requestTimeout, logger.Nop())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
