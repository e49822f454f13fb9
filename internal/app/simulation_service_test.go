package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/example/prisoners/internal/core/trial"
	"github.com/example/prisoners/internal/logging"
	"github.com/example/prisoners/internal/ports/primary"
	"github.com/example/prisoners/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockRunRepository implements secondary.RunRepository for testing.
type mockRunRepository struct {
	runs      map[string]*secondary.RunRecord
	nextID    int
	createErr error
	listErr   error
	lastList  secondary.RunFilters
}

func newMockRunRepository() *mockRunRepository {
	return &mockRunRepository{
		runs:   make(map[string]*secondary.RunRecord),
		nextID: 1,
	}
}

func (m *mockRunRepository) Create(ctx context.Context, run *secondary.RunRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	run.CreatedAt = "2026-01-01T00:00:00Z"
	m.runs[run.ID] = run
	m.nextID++
	return nil
}

func (m *mockRunRepository) GetByID(ctx context.Context, id string) (*secondary.RunRecord, error) {
	if run, ok := m.runs[id]; ok {
		return run, nil
	}
	return nil, fmt.Errorf("run %s not found", id)
}

func (m *mockRunRepository) List(ctx context.Context, filters secondary.RunFilters) ([]*secondary.RunRecord, error) {
	m.lastList = filters
	if m.listErr != nil {
		return nil, m.listErr
	}
	var result []*secondary.RunRecord
	for _, run := range m.runs {
		if filters.Strategy != "" && run.Strategy != filters.Strategy {
			continue
		}
		result = append(result, run)
	}
	return result, nil
}

func (m *mockRunRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.runs[id]; !ok {
		return fmt.Errorf("run %s not found", id)
	}
	delete(m.runs, id)
	return nil
}

func (m *mockRunRepository) GetNextID(ctx context.Context) (string, error) {
	return fmt.Sprintf("RUN-%03d", m.nextID), nil
}

// ============================================================================
// Test Helper
// ============================================================================

func newTestSimulationService(repo secondary.RunRepository) *SimulationServiceImpl {
	return NewSimulationService(repo, trial.Runner{}, logging.Discard(), nil)
}

func seedPtr(s uint64) *uint64 { return &s }

func assertRate(t *testing.T, result *primary.SimulationResult, want, tolerance float64) {
	t.Helper()
	pct, ok := result.SuccessPercentage()
	if !ok {
		t.Fatal("expected a defined success percentage")
	}
	if math.Abs(pct-want) > tolerance {
		t.Errorf("success rate = %.2f%%, want %.2f%% ± %.1f", pct, want, tolerance)
	}
}

// ============================================================================
// RunSimulation Tests
// ============================================================================

func TestRunSimulation_NumberFollowHundredPrisoners(t *testing.T) {
	service := newTestSimulationService(nil)

	result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy:  "number-follow",
		Count:     1000,
		Prisoners: 100,
		Seed:      seedPtr(1),
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	if result.Passes+result.Failures != 1000 {
		t.Errorf("tally %d+%d does not sum to 1000", result.Passes, result.Failures)
	}
	if result.Budget != 50 {
		t.Errorf("Budget = %d, want 50", result.Budget)
	}
	assertRate(t, result, 31.18, 6)
	if math.Abs(result.ExpectedPercentage()-31.18) > 0.01 {
		t.Errorf("ExpectedPercentage = %.4f, want 31.18", result.ExpectedPercentage())
	}
}

func TestRunSimulation_RandomHundredPrisonersNeverPasses(t *testing.T) {
	service := newTestSimulationService(nil)

	result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy:  "random",
		Count:     1000,
		Prisoners: 100,
		Seed:      seedPtr(2),
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	if result.Passes != 0 || result.Failures != 1000 {
		t.Errorf("tally = %d/%d, want 0/1000", result.Passes, result.Failures)
	}
}

func TestRunSimulation_TwoPrisoners(t *testing.T) {
	tests := []struct {
		strategy string
		want     float64
	}{
		// The 2-cycle needs two openings but each prisoner gets one.
		{"number-follow", 50},
		{"random", 25},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			service := newTestSimulationService(nil)

			result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
				Strategy:  tt.strategy,
				Count:     10000,
				Prisoners: 2,
				Seed:      seedPtr(3),
			})
			if err != nil {
				t.Fatalf("RunSimulation failed: %v", err)
			}
			assertRate(t, result, tt.want, 3)
		})
	}
}

func TestRunSimulation_ZeroPrisonersAlwaysPass(t *testing.T) {
	service := newTestSimulationService(nil)

	result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy:  "random",
		Count:     10,
		Prisoners: 0,
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if result.Passes != 10 {
		t.Errorf("Passes = %d, want 10", result.Passes)
	}
}

func TestRunSimulation_OnePrisonerAlwaysFails(t *testing.T) {
	service := newTestSimulationService(nil)

	result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy:  "number-follow",
		Count:     10,
		Prisoners: 1,
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if result.Failures != 10 {
		t.Errorf("Failures = %d, want 10", result.Failures)
	}
}

func TestRunSimulation_RejectsInvalidRequests(t *testing.T) {
	tests := []struct {
		name    string
		req     primary.RunSimulationRequest
		wantErr string
	}{
		{
			name:    "zero count",
			req:     primary.RunSimulationRequest{Strategy: "random", Count: 0, Prisoners: 10},
			wantErr: "trial count must be positive",
		},
		{
			name:    "unknown strategy",
			req:     primary.RunSimulationRequest{Strategy: "greedy", Count: 1, Prisoners: 10},
			wantErr: "unknown strategy",
		},
		{
			name:    "negative prisoners",
			req:     primary.RunSimulationRequest{Strategy: "random", Count: 1, Prisoners: -1},
			wantErr: "cannot be negative",
		},
		{
			name:    "record without repository",
			req:     primary.RunSimulationRequest{Strategy: "random", Count: 1, Prisoners: 2, Record: true},
			wantErr: "not configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSimulationService(nil)

			_, err := service.RunSimulation(context.Background(), tt.req)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunSimulation_SeedIsReproducibleAcrossWorkerCounts(t *testing.T) {
	req := primary.RunSimulationRequest{
		Strategy:  "number-follow",
		Count:     200,
		Prisoners: 40,
		Seed:      seedPtr(42),
	}

	var tallies []int
	for _, workers := range []int{1, 3, 16} {
		service := NewSimulationService(nil, trial.Runner{Workers: workers}, logging.Discard(), nil)
		result, err := service.RunSimulation(context.Background(), req)
		if err != nil {
			t.Fatalf("RunSimulation failed: %v", err)
		}
		if result.Seed != 42 {
			t.Errorf("Seed = %d, want 42", result.Seed)
		}
		tallies = append(tallies, result.Passes)
	}

	for i := 1; i < len(tallies); i++ {
		if tallies[i] != tallies[0] {
			t.Errorf("passes differ across worker counts: %v", tallies)
		}
	}
}

func TestRunSimulation_Cancelled(t *testing.T) {
	service := newTestSimulationService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.RunSimulation(ctx, primary.RunSimulationRequest{
		Strategy: "random", Count: 5, Prisoners: 4,
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRunSimulation_Record(t *testing.T) {
	repo := newMockRunRepository()
	service := newTestSimulationService(repo)

	result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy:  "random",
		Count:     20,
		Prisoners: 4,
		Seed:      seedPtr(9),
		Record:    true,
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if result.RunID != "RUN-001" {
		t.Errorf("RunID = %q, want RUN-001", result.RunID)
	}

	stored, ok := repo.runs["RUN-001"]
	if !ok {
		t.Fatal("expected run to be persisted")
	}
	if stored.Passes != result.Passes || stored.Failures != result.Failures || stored.Seed != 9 {
		t.Errorf("stored record %+v does not match result %+v", stored, result)
	}
}

func TestRunSimulation_RecordFailure(t *testing.T) {
	repo := newMockRunRepository()
	repo.createErr = errors.New("disk full")
	service := newTestSimulationService(repo)

	_, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy: "random", Count: 1, Prisoners: 2, Record: true,
	})
	if err == nil || !strings.Contains(err.Error(), "failed to record run") {
		t.Errorf("expected record error, got %v", err)
	}
}

func TestRunSimulation_NoRecordLeavesRepoUntouched(t *testing.T) {
	repo := newMockRunRepository()
	service := newTestSimulationService(repo)

	result, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy: "number-follow", Count: 3, Prisoners: 4,
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}
	if result.RunID != "" || len(repo.runs) != 0 {
		t.Error("expected nothing to be recorded")
	}
}

func TestRunSimulation_LogsSummary(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New(logging.Config{Level: "info", Format: "json", Output: buf})
	service := NewSimulationService(nil, trial.Runner{}, logger, nil)

	_, err := service.RunSimulation(context.Background(), primary.RunSimulationRequest{
		Strategy: "number-follow", Count: 4, Prisoners: 3, Seed: seedPtr(5),
	})
	if err != nil {
		t.Fatalf("RunSimulation failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		`"component":"simulation"`,
		"odd prisoner count",
		"simulation complete",
		`"trials":4`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("log output missing %s: %s", want, output)
		}
	}
}

// ============================================================================
// RunHistory Tests
// ============================================================================

func TestListRuns_NormalizesStrategyFilter(t *testing.T) {
	repo := newMockRunRepository()
	repo.runs["RUN-001"] = &secondary.RunRecord{ID: "RUN-001", Strategy: "number-follow", Count: 10, Passes: 3, Failures: 7, DurationMs: 1500}
	repo.runs["RUN-002"] = &secondary.RunRecord{ID: "RUN-002", Strategy: "random", Count: 10, Failures: 10}
	service := newTestSimulationService(repo)

	runs, err := service.ListRuns(context.Background(), primary.RunFilters{Strategy: "Number_Follow", Limit: 5})
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if repo.lastList.Strategy != "number-follow" || repo.lastList.Limit != 5 {
		t.Errorf("repository received filters %+v", repo.lastList)
	}
	if len(runs) != 1 || runs[0].ID != "RUN-001" {
		t.Fatalf("unexpected runs: %+v", runs)
	}
	if runs[0].Duration.Seconds() != 1.5 {
		t.Errorf("Duration = %v, want 1.5s", runs[0].Duration)
	}
}

func TestListRuns_UnknownStrategyFilter(t *testing.T) {
	service := newTestSimulationService(newMockRunRepository())

	if _, err := service.ListRuns(context.Background(), primary.RunFilters{Strategy: "greedy"}); err == nil {
		t.Error("expected error for unknown strategy filter")
	}
}

func TestGetRunAndDeleteRun(t *testing.T) {
	repo := newMockRunRepository()
	repo.runs["RUN-004"] = &secondary.RunRecord{ID: "RUN-004", Strategy: "random", Count: 1, Failures: 1}
	service := newTestSimulationService(repo)
	ctx := context.Background()

	run, err := service.GetRun(ctx, "RUN-004")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if pct, ok := run.SuccessPercentage(); !ok || pct != 0 {
		t.Errorf("SuccessPercentage = %v, %v", pct, ok)
	}

	if err := service.DeleteRun(ctx, "RUN-004"); err != nil {
		t.Fatalf("DeleteRun failed: %v", err)
	}
	if _, err := service.GetRun(ctx, "RUN-004"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestHistory_DisabledWithoutRepository(t *testing.T) {
	service := newTestSimulationService(nil)
	ctx := context.Background()

	if _, err := service.ListRuns(ctx, primary.RunFilters{}); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("ListRuns: expected ErrHistoryDisabled, got %v", err)
	}
	if _, err := service.GetRun(ctx, "RUN-001"); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("GetRun: expected ErrHistoryDisabled, got %v", err)
	}
	if err := service.DeleteRun(ctx, "RUN-001"); !errors.Is(err, ErrHistoryDisabled) {
		t.Errorf("DeleteRun: expected ErrHistoryDisabled, got %v", err)
	}
}

func TestSimulationResult_SuccessPercentageUndefined(t *testing.T) {
	result := &primary.SimulationResult{}
	if _, ok := result.SuccessPercentage(); ok {
		t.Error("expected undefined percentage for an empty tally")
	}
}
