package health

import (
	"context"
	"errors"
	"testing"
)

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

type mockChecker struct {
	err error
}

func (m *mockChecker) HealthCheck(context.Context) error { return m.err }

func TestCheckAllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	if report.Checks["engine"] != CheckOK || report.Checks["embedding"] != CheckOK {
		t.Errorf("checks = %v", report.Checks)
	}
}

func TestCheckEngineDown(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("refused")}, &mockChecker{})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["engine"] != CheckError {
		t.Errorf("engine check = %q, want error", report.Checks["engine"])
	}
}

func TestCheckEmbeddingDown(t *testing.T) {
	svc := New(&mockPinger{}, &mockChecker{err: errors.New("401")})

	report := svc.Check(context.Background())
	if report.Status != Degraded {
		t.Errorf("status = %q, want %q", report.Status, Degraded)
	}
	if report.Checks["engine"] != CheckOK {
		t.Errorf("engine check = %q, want ok", report.Checks["engine"])
	}
}

func TestCheckNoEmbedder(t *testing.T) {
	svc := New(&mockPinger{}, nil)

	report := svc.Check(context.Background())
	if report.Status != Healthy {
		t.Errorf("status = %q, want %q", report.Status, Healthy)
	}
	if _, ok := report.Checks["embedding"]; ok {
		t.Error("embedding check reported with no embedder configured")
	}
}
