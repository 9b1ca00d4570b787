package pipeline

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"token-launch-sim/internal/reporting"
)

// GeneratorVersion is recorded in every manifest.
const GeneratorVersion = "1.0.0"

// Manifest is the reproducibility metadata of a pipeline run.
type Manifest struct {
	GeneratedAt      time.Time     `yaml:"generated_at"`
	GeneratorVersion string        `yaml:"generator_version"`
	CommitHash       string        `yaml:"commit_hash"`
	Runs             []ManifestRun `yaml:"runs"`
}

// ManifestRun identifies one run and how to reproduce it.
type ManifestRun struct {
	RunID         string `yaml:"run_id"`
	Market        string `yaml:"market"`
	Seed          uint64 `yaml:"seed"`
	Trades        int    `yaml:"trades"`
	FinalPrice    string `yaml:"final_price"`
	DataVersion   string `yaml:"data_version"`
	ReplayCommand string `yaml:"replay_command"`
}

func newManifest(now time.Time, configPath string, reports ...*reporting.Report) *Manifest {
	m := &Manifest{
		GeneratedAt:      now,
		GeneratorVersion: GeneratorVersion,
		CommitHash:       getGitCommitHash(),
	}
	for _, r := range reports {
		m.Runs = append(m.Runs, ManifestRun{
			RunID:         r.RunID,
			Market:        string(r.Mode),
			Seed:          r.Seed,
			Trades:        len(r.Transactions),
			FinalPrice:    fmt.Sprintf("%.10f", r.Summary.FinalPrice),
			DataVersion:   computeDataVersion(r),
			ReplayCommand: buildReplayCommand(configPath, r),
		})
	}
	return m
}

// Marshal encodes the manifest as YAML.
func (m *Manifest) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// computeDataVersion hashes the transaction log and price closes of a run.
func computeDataVersion(r *reporting.Report) string {
	h := sha256.New()

	h.Write([]byte("TRANSACTIONS\n"))
	for _, tx := range r.Transactions {
		fmt.Fprintf(h, "%d|%s|%.10f|%.10f\n", tx.Seq, tx.TxID, tx.Quantity, tx.Price)
	}

	h.Write([]byte("PRICES\n"))
	for _, p := range r.Prices {
		fmt.Fprintf(h, "%d|%.10f\n", p.Tick, p.Close)
	}

	return hex.EncodeToString(h.Sum(nil))[:12] // short hash
}

// buildReplayCommand returns the command that reproduces a run.
func buildReplayCommand(configPath string, r *reporting.Report) string {
	var sb strings.Builder
	sb.WriteString("go run ./cmd/verify")
	if configPath != "" {
		sb.WriteString(fmt.Sprintf(" --config %q", configPath))
	}
	sb.WriteString(fmt.Sprintf(" --market %s --seed %d", r.Mode, r.Seed))
	return sb.String()
}

// getGitCommitHash returns current git commit hash or "unknown" if not in git repo.
func getGitCommitHash() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "unknown"
	}
	return strings.TrimSpace(out.String())
}
