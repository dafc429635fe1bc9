// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"whisp/internal/adapter"
)

var (
	createTTLMinutes int
	createPassword   string
	createFilePath   string
	createNoCopy     bool

	createCmd = &cobra.Command{
		Use:   "create [payload]",
		Short: "Create a one-time whisp",
		Long: `Creates a whisp from the given payload, or from a file with --file.
Pass "-" as the payload to read it from stdin. The payload is stored
as-is; encrypt it before sending if the server must not see it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := adapter.CreateRequest{
				TTLMinutes: createTTLMinutes,
				Password:   createPassword,
			}

			switch {
			case createFilePath != "":
				if len(args) > 0 {
					return fmt.Errorf("pass either a payload or --file, not both")
				}
				f, err := os.Open(createFilePath)
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				defer f.Close()
				req.File = f
				req.FileName = filepath.Base(createFilePath)
			case len(args) == 1 && args[0] == "-":
				payload, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				req.EncryptedPayload = strings.TrimRight(string(payload), "\n")
			case len(args) == 1:
				req.EncryptedPayload = args[0]
			default:
				return fmt.Errorf("nothing to send: pass a payload or --file")
			}

			srv, err := newServerAdapter()
			if err != nil {
				return err
			}

			created, err := srv.CreateWhisp(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("create whisp: %w", err)
			}

			link := claimLink(created.ID, created.IsFile)

			fmt.Println(color.GreenString("✓") + " whisp created")
			fmt.Println("  id:      " + color.YellowString(created.ID))
			fmt.Println("  expires: " + created.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			fmt.Println("  link:    " + color.CyanString(link))
			fmt.Println(color.New(color.Faint).Sprint("  the whisp is destroyed after the first successful claim"))

			if !createNoCopy {
				if err := clipboard.WriteAll(link); err == nil {
					fmt.Println(color.New(color.Faint).Sprint("  link copied to clipboard"))
				}
			}

			return nil
		},
	}
)

func init() {
	createCmd.Flags().IntVarP(&createTTLMinutes, "ttl", "t", 60, "time to live in minutes (1..10080)")
	createCmd.Flags().StringVarP(&createPassword, "password", "p", "", "protect the whisp with a password")
	createCmd.Flags().StringVarP(&createFilePath, "file", "f", "", "send the contents of a file instead of a text payload")
	createCmd.Flags().BoolVar(&createNoCopy, "no-copy", false, "do not copy the claim link to the clipboard")
}

func claimLink(id string, isFile bool) string {
	base := strings.TrimRight(serverAddress, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	link := base + "/api/whisps/" + id
	if isFile {
		link += "/file"
	}
	return link
}
