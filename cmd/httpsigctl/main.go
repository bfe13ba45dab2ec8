// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sage-x-project/httpsig/config"
)

var rootCmd = &cobra.Command{
	Use:   "httpsigctl",
	Short: "httpsigctl - RFC 9421 HTTP Message Signature and web-bot-auth CLI",
	Long: `httpsigctl signs and verifies HTTP requests under RFC 9421 HTTP Message
Signatures and checks them against the web-bot-auth verification profile.

This tool supports:
- Ed25519 key generation
- Signing a reconstructed request (method, URL, headers) over chosen components
- Verifying Signature/Signature-Input headers against a YAML keyring
- web-bot-auth profile verification`,
	PersistentPreRunE: loadConfigFlag,
}

// configFile, when set via --config, seeds sign/verify flag defaults
// (Signer.KeyID/Tag/Expires, KeyRing.Path) that are only applied when the
// corresponding flag was not set on the command line.
var configFile string

// loadedConfig is non-nil once loadConfigFlag has run with --config set.
var loadedConfig *config.Config

func loadConfigFlag(cmd *cobra.Command, args []string) error {
	if configFile == "" {
		return nil
	}
	cfg, err := config.LoadFromFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load --config: %w", err)
	}
	loadedConfig = cfg
	return nil
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to a YAML or JSON config file (see config.Config)")

	// Commands are registered in their respective files:
	// - keygen.go: keygenCmd
	// - sign.go: signCmd
	// - verify.go: verifyCmd
	// - webbotauth.go: webBotAuthVerifyCmd
	// - serve.go: serveCmd
	// - version.go: versionCmd
}
