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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SignOperations counts completed Sign calls, by outcome.
	SignOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sign",
			Name:      "operations_total",
			Help:      "Total number of message signing operations",
		},
		[]string{"outcome"}, // ok, error
	)

	// SignDuration tracks signing latency.
	SignDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sign",
			Name:      "duration_seconds",
			Help:      "Message signing duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
	)

	// VerifyOperations counts completed Verify calls, by outcome.
	VerifyOperations = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "operations_total",
			Help:      "Total number of message verification operations",
		},
		[]string{"outcome"}, // ok, failed_to_verify, error
	)

	// VerifyDuration tracks verification latency.
	VerifyDuration = promauto.With(Registry).NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "duration_seconds",
			Help:      "Message verification duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 15),
		},
	)

	// WebBotAuthRejections counts web-bot-auth selector/verify rejections
	// by reason, so operators can distinguish "no eligible signature" from
	// "signature present but cryptographically invalid".
	WebBotAuthRejections = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webbotauth",
			Name:      "rejections_total",
			Help:      "Total number of web-bot-auth verifications rejected, by reason",
		},
		[]string{"reason"}, // no_matching_signature, key_directory_not_implemented, failed_to_verify
	)
)
