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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sage-x-project/httpsig/health"
	"github.com/sage-x-project/httpsig/internal/metrics"
	"github.com/sage-x-project/httpsig/keyring"
)

var (
	serveAddr        string
	serveKeyringFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve Prometheus metrics and a keyring liveness check over HTTP",
	Long: `Expose internal/metrics.Registry at /metrics and a keyring-backed
liveness check at /healthz, for processes that embed httpsigctl's sign/verify
logic as a long-running service rather than invoking it per request.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":9090", "address to listen on")
	serveCmd.Flags().StringVar(&serveKeyringFile, "keyring", "", "Path to a YAML keyring file checked by /healthz")
}

func runServe(cmd *cobra.Command, args []string) error {
	keyringFile := applyKeyRingConfigDefault(serveKeyringFile)

	checker := health.NewHealthChecker(5 * time.Second)
	if keyringFile != "" {
		checker.RegisterCheck("keyring", health.KeyRingHealthCheck(func() error {
			_, err := keyring.LoadFile(keyringFile)
			return err
		}))
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		sys := checker.GetSystemHealth(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if sys.Status != health.StatusHealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(sys)
	})

	fmt.Printf("listening on %s (/metrics, /healthz)\n", serveAddr)
	srv := &http.Server{Addr: serveAddr, Handler: mux}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
