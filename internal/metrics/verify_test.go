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
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegistration(t *testing.T) {
	if SignOperations == nil {
		t.Error("SignOperations metric is nil")
	}
	if VerifyOperations == nil {
		t.Error("VerifyOperations metric is nil")
	}
	if WebBotAuthRejections == nil {
		t.Error("WebBotAuthRejections metric is nil")
	}
}

func TestSignOperationsCounted(t *testing.T) {
	SignOperations.Reset()
	SignOperations.WithLabelValues("ok").Inc()
	SignOperations.WithLabelValues("ok").Inc()
	SignOperations.WithLabelValues("error").Inc()

	if got := testutil.ToFloat64(SignOperations.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(SignOperations.WithLabelValues("error")); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestWebBotAuthRejectionsCounted(t *testing.T) {
	WebBotAuthRejections.Reset()
	WebBotAuthRejections.WithLabelValues("no_matching_signature").Inc()

	if got := testutil.ToFloat64(WebBotAuthRejections.WithLabelValues("no_matching_signature")); got != 1 {
		t.Errorf("no_matching_signature count = %v, want 1", got)
	}
}

func TestCollectorSnapshot(t *testing.T) {
	c := NewCollector()
	c.RecordSign(5 * time.Millisecond)
	c.RecordVerify(true, 2*time.Millisecond)
	c.RecordVerify(false, 3*time.Millisecond)
	c.RecordWebBotAuthRejection()

	snap := c.GetSnapshot()
	if snap.SignCount != 1 {
		t.Errorf("SignCount = %d, want 1", snap.SignCount)
	}
	if snap.VerifyCount != 2 {
		t.Errorf("VerifyCount = %d, want 2", snap.VerifyCount)
	}
	if snap.SuccessfulVerifies != 1 || snap.FailedVerifies != 1 {
		t.Errorf("successful/failed = %d/%d, want 1/1", snap.SuccessfulVerifies, snap.FailedVerifies)
	}
	if snap.WebBotAuthRejected != 1 {
		t.Errorf("WebBotAuthRejected = %d, want 1", snap.WebBotAuthRejected)
	}
	if rate := snap.VerificationSuccessRate(); rate != 50 {
		t.Errorf("VerificationSuccessRate = %v, want 50", rate)
	}

	c.Reset()
	snap = c.GetSnapshot()
	if snap.SignCount != 0 || snap.VerifyCount != 0 {
		t.Error("Reset did not clear counters")
	}
}
