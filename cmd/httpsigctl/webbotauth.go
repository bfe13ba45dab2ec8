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

	"github.com/spf13/cobra"

	"github.com/sage-x-project/httpsig/core/rfc9421"
	"github.com/sage-x-project/httpsig/httpadapter"
	"github.com/sage-x-project/httpsig/internal/metrics"
	"github.com/sage-x-project/httpsig/keyring"
	"github.com/sage-x-project/httpsig/webbotauth"
)

var (
	webBotAuthKeyringFile        string
	webBotAuthKeyID              string
	webBotAuthMethod             string
	webBotAuthURL                string
	webBotAuthHeaders            []string
	webBotAuthEnforceKeyDirectory bool
)

var webBotAuthVerifyCmd = &cobra.Command{
	Use:   "webbotauth-verify",
	Short: "Verify a request under the web-bot-auth profile",
	Long: `Like "verify", but selects the signature using the web-bot-auth profile's
predicate (keyid/tag/expires/created present, tag == "web-bot-auth", @authority
or signature-agent covered) instead of accepting any signature.`,
	RunE: runWebBotAuthVerify,
}

func init() {
	rootCmd.AddCommand(webBotAuthVerifyCmd)

	webBotAuthVerifyCmd.Flags().StringVar(&webBotAuthKeyringFile, "keyring", "", "Path to a YAML keyring file (required, unless set via --config's keyring.path)")
	webBotAuthVerifyCmd.Flags().StringVar(&webBotAuthKeyID, "keyid", "", "Override the keyid to verify against")
	webBotAuthVerifyCmd.Flags().StringVar(&webBotAuthMethod, "method", "GET", "HTTP method of the request being verified")
	webBotAuthVerifyCmd.Flags().StringVar(&webBotAuthURL, "url", "", "target URL of the request being verified (required)")
	webBotAuthVerifyCmd.Flags().StringArrayVar(&webBotAuthHeaders, "header", nil, `request header as "Key: Value" (repeatable)`)
	webBotAuthVerifyCmd.Flags().BoolVar(&webBotAuthEnforceKeyDirectory, "enforce-key-directory", false, "fail verification rather than trust an unfetched Signature-Agent key directory")

	_ = webBotAuthVerifyCmd.MarkFlagRequired("url")
}

func runWebBotAuthVerify(cmd *cobra.Command, args []string) error {
	keyringFile := applyKeyRingConfigDefault(webBotAuthKeyringFile)
	if keyringFile == "" {
		return fmt.Errorf("--keyring is required (or set keyring.path in --config)")
	}
	ring, err := keyring.LoadFile(keyringFile)
	if err != nil {
		return err
	}

	req, err := buildRequest(webBotAuthMethod, webBotAuthURL, webBotAuthHeaders)
	if err != nil {
		return err
	}

	msg := httpadapter.NewRequestMessage(req, nil)

	v, err := webbotauth.Parse(msg, rfc9421.AlgorithmUnknown)
	if err != nil {
		metrics.WebBotAuthRejections.WithLabelValues("no_matching_signature").Inc()
		return fmt.Errorf("no eligible web-bot-auth signature: %w", err)
	}

	if err := v.Verify(ring, webBotAuthKeyID, webBotAuthEnforceKeyDirectory); err != nil {
		if err == webbotauth.ErrKeyDirectoryLookupNotImplemented {
			metrics.WebBotAuthRejections.WithLabelValues("key_directory_not_implemented").Inc()
		} else {
			metrics.WebBotAuthRejections.WithLabelValues("failed_to_verify").Inc()
		}
		return fmt.Errorf("verification failed: %w", err)
	}

	fmt.Println("OK")
	if v.PossiblyInsecure() {
		fmt.Println("warning: signature is expired")
	}
	if kd := v.KeyDirectory(); kd != "" {
		fmt.Printf("key directory: %s\n", kd)
	}
	return nil
}
