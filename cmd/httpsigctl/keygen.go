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
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/httpsig/keyring"
)

var (
	keygenKeyOut string
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an Ed25519 key pair",
	Long: `Generate a new Ed25519 key pair, printing the private key seed (hex) and
a YAML keyring entry for the public key, keyed by its RFC 7638 thumbprint.`,
	Example: `  # Generate a key and save the seed to a file
  httpsigctl keygen --out signing-key.hex`,
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
	keygenCmd.Flags().StringVarP(&keygenKeyOut, "out", "o", "", "Write the private key seed (hex) to this file instead of stdout")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}

	seed := priv.Seed()
	thumbprint, err := keyring.Thumbprint(pub)
	if err != nil {
		return fmt.Errorf("failed to compute thumbprint: %w", err)
	}

	seedHex := hex.EncodeToString(seed)
	if keygenKeyOut != "" {
		if err := writeFile(keygenKeyOut, seedHex+"\n"); err != nil {
			return err
		}
		fmt.Printf("Private key seed written to: %s\n", keygenKeyOut)
	} else {
		fmt.Printf("Private key seed (hex): %s\n", seedHex)
	}

	fmt.Printf("keyid: %s\n", thumbprint)
	fmt.Println("Keyring entry:")
	fmt.Printf("keys:\n  - id: %s\n    public_key: %s\n", thumbprint, base64URL(pub))

	return nil
}
