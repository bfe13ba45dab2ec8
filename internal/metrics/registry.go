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

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package metrics exposes Prometheus instrumentation for signing,
// verification and web-bot-auth checks. Every collector in this
// package is registered against Registry rather than the global
// default registry, so a process embedding this module can run its
// own metrics server without colliding with other libraries.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "httpsig"

// Registry is the Prometheus registry all collectors in this package
// register against.
var Registry = prometheus.NewRegistry()
