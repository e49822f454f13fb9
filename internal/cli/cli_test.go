package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/example/prisoners/internal/config"
)

func newSimulateTestCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "simulate"}
	registerSimulateFlags(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}
	return cmd
}

func TestSimulateRequest_Flags(t *testing.T) {
	cmd := newSimulateTestCmd(t, "-s", "number-follow", "-c", "1000", "-n", "100", "--seed", "42", "--workers", "3", "--record")

	req, opts, err := simulateRequest(cmd, config.Default())
	if err != nil {
		t.Fatalf("simulateRequest failed: %v", err)
	}
	if req.Strategy != "number-follow" || req.Count != 1000 || req.Prisoners != 100 {
		t.Errorf("unexpected request: %+v", req)
	}
	if req.Seed == nil || *req.Seed != 42 {
		t.Errorf("Seed = %v, want 42", req.Seed)
	}
	if !req.Record {
		t.Error("Record should be set by --record")
	}
	if opts.workers != 3 {
		t.Errorf("workers = %d, want 3", opts.workers)
	}
}

func TestSimulateRequest_ConfigDefaults(t *testing.T) {
	cmd := newSimulateTestCmd(t, "--count", "50")
	cfg := &config.Config{Strategy: "random", Count: 10, Prisoners: 8, Workers: 2, Trace: true}

	req, opts, err := simulateRequest(cmd, cfg)
	if err != nil {
		t.Fatalf("simulateRequest failed: %v", err)
	}
	if req.Strategy != "random" || req.Prisoners != 8 {
		t.Errorf("expected config values, got %+v", req)
	}
	if req.Count != 50 {
		t.Errorf("Count = %d, want flag value 50", req.Count)
	}
	if req.Seed != nil {
		t.Error("Seed should be nil without --seed")
	}
	if opts.workers != 2 || !opts.trace {
		t.Errorf("unexpected options: %+v", opts)
	}
}

func TestSimulateRequest_ZeroFlagValuesAreExplicit(t *testing.T) {
	cmd := newSimulateTestCmd(t, "-s", "random", "-c", "0", "-n", "0")

	req, _, err := simulateRequest(cmd, config.Default())
	if err != nil {
		t.Fatalf("simulateRequest failed: %v", err)
	}
	// A zero count is passed through so the service guard can reject it.
	if req.Count != 0 || req.Prisoners != 0 {
		t.Errorf("unexpected request: %+v", req)
	}
}

func TestSimulateRequest_MissingRequired(t *testing.T) {
	cmd := newSimulateTestCmd(t, "-c", "10")

	_, _, err := simulateRequest(cmd, config.Default())
	if err == nil {
		t.Fatal("expected error for missing flags")
	}
	want := `required flag(s) "strategy", "num-of-prisoners" not set`
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestSweepPlan_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	body := "count: 100\nseed: 7\nstrategies: [random]\nprisoners: [4, 8]\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cmd := &cobra.Command{Use: "sweep"}
	registerSweepFlags(cmd)
	if err := cmd.ParseFlags([]string{"--file", path, "--strategies", "number-follow,random", "--count", "20"}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	plan, err := sweepPlan(cmd)
	if err != nil {
		t.Fatalf("sweepPlan failed: %v", err)
	}
	if plan.Count != 20 {
		t.Errorf("Count = %d, want 20", plan.Count)
	}
	if strings.Join(plan.Strategies, ",") != "number-follow,random" {
		t.Errorf("Strategies = %v", plan.Strategies)
	}
	if len(plan.Prisoners) != 2 || plan.Prisoners[1] != 8 {
		t.Errorf("Prisoners = %v, want file values", plan.Prisoners)
	}
	if plan.Seed == nil || *plan.Seed != 7 {
		t.Errorf("Seed = %v, want 7", plan.Seed)
	}
}

func TestSweepPlan_MissingFile(t *testing.T) {
	cmd := &cobra.Command{Use: "sweep"}
	registerSweepFlags(cmd)
	if err := cmd.ParseFlags([]string{"--file", filepath.Join(t.TempDir(), "nope.yaml")}); err != nil {
		t.Fatalf("ParseFlags failed: %v", err)
	}

	if _, err := sweepPlan(cmd); err == nil {
		t.Error("expected error for missing plan file")
	}
}

func TestRunOptionsFrom_MetricsFlagOverridesConfig(t *testing.T) {
	cmd := newSimulateTestCmd(t, "--metrics=false", "--workers", "5")

	opts := runOptionsFrom(cmd, &config.Config{Metrics: true, Trace: true, Workers: 2})
	if opts.metrics {
		t.Error("--metrics=false should override config")
	}
	if !opts.trace || opts.workers != 5 {
		t.Errorf("unexpected options: %+v", opts)
	}

	opts = runOptionsFrom(newSimulateTestCmd(t), &config.Config{Metrics: true})
	if !opts.metrics {
		t.Error("metrics should fall back to config")
	}
}

func TestStartTelemetry_Disabled(t *testing.T) {
	stop, err := startTelemetry(runOptions{})
	if err != nil {
		t.Fatalf("startTelemetry failed: %v", err)
	}
	stop()
}
