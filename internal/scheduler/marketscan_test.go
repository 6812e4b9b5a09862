package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeUniverse struct {
	ciks []string
}

func (f fakeUniverse) AllCompanyCIKs(ctx context.Context) ([]string, error) {
	return f.ciks, nil
}

type fakeEightK struct {
	failCIKs map[string]bool
}

func (f fakeEightK) IngestEightKFilings(ctx context.Context, cik string) error {
	if f.failCIKs[cik] {
		return errors.New("ingest failed")
	}
	return nil
}

func waitForStatus(t *testing.T, c *ScanCoordinator, want ScanStatus) MarketScanResult {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		status := c.Status()
		if status.Status == want {
			return status
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for status %q, last was %q", want, c.Status().Status)
	return MarketScanResult{}
}

func TestStartScanCompletesAndTracksProgress(t *testing.T) {
	universe := fakeUniverse{ciks: []string{"1", "2", "3", "4", "5"}}
	coordinator := NewScanCoordinator(universe, fakeEightK{failCIKs: map[string]bool{}})

	started := coordinator.StartScan(context.Background())
	if !started {
		t.Fatal("expected scan to start")
	}

	result := waitForStatus(t, coordinator, ScanCompleted)
	if result.CompaniesTotal != 5 || result.CompaniesDone != 5 {
		t.Errorf("expected all 5 companies processed, got %+v", result)
	}
	if result.ErrorsCount != 0 {
		t.Errorf("expected no errors, got %d", result.ErrorsCount)
	}
}

func TestStartScanRejectsConcurrentScan(t *testing.T) {
	universe := fakeUniverse{ciks: []string{"1", "2", "3"}}
	coordinator := NewScanCoordinator(universe, fakeEightK{failCIKs: map[string]bool{}})

	coordinator.StartScan(context.Background())
	second := coordinator.StartScan(context.Background())
	if second {
		t.Error("expected second StartScan to be rejected while in progress")
	}

	waitForStatus(t, coordinator, ScanCompleted)
}

func TestStartScanReportsPartialErrors(t *testing.T) {
	universe := fakeUniverse{ciks: []string{"1", "2", "3"}}
	coordinator := NewScanCoordinator(universe, fakeEightK{failCIKs: map[string]bool{"2": true}})

	coordinator.StartScan(context.Background())
	result := waitForStatus(t, coordinator, ScanCompleted)
	if result.ErrorsCount != 1 {
		t.Errorf("expected 1 recorded error, got %d", result.ErrorsCount)
	}
}

func TestStartScanAllFailuresYieldsErrorStatus(t *testing.T) {
	universe := fakeUniverse{ciks: []string{"1", "2"}}
	coordinator := NewScanCoordinator(universe, fakeEightK{failCIKs: map[string]bool{"1": true, "2": true}})

	coordinator.StartScan(context.Background())
	waitForStatus(t, coordinator, ScanError)
}
