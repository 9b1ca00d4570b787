package idhash

import (
	"errors"
	"testing"
)

func TestComputeTxID(t *testing.T) {
	tests := []struct {
		name    string
		runID   string
		seq     int64
		tick    int
		agentID string
		action  string
	}{
		{name: "insider buy", runID: "run-1", seq: 1, tick: 1, agentID: "I-0", action: "buy"},
		{name: "outsider sell", runID: "run-1", seq: 42, tick: 37, agentID: "O-12", action: "sell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTxID(tt.runID, tt.seq, tt.tick, tt.agentID, tt.action)

			if len(got) < 32 || len(got) > 44 {
				t.Errorf("ComputeTxID() length = %d, want 32..44", len(got))
			}

			got2 := ComputeTxID(tt.runID, tt.seq, tt.tick, tt.agentID, tt.action)
			if got != got2 {
				t.Errorf("ComputeTxID() not deterministic: %s != %s", got, got2)
			}
		})
	}
}

func TestComputeTxID_DifferentInputs(t *testing.T) {
	base := ComputeTxID("run", 1, 1, "I-0", "buy")

	if base == ComputeTxID("other", 1, 1, "I-0", "buy") {
		t.Error("Different run should produce different id")
	}
	if base == ComputeTxID("run", 2, 1, "I-0", "buy") {
		t.Error("Different seq should produce different id")
	}
	if base == ComputeTxID("run", 1, 2, "I-0", "buy") {
		t.Error("Different tick should produce different id")
	}
	if base == ComputeTxID("run", 1, 1, "I-1", "buy") {
		t.Error("Different agent should produce different id")
	}
	if base == ComputeTxID("run", 1, 1, "I-0", "sell") {
		t.Error("Different action should produce different id")
	}
}

func TestComputeRunID(t *testing.T) {
	a := ComputeRunID(7, "isolated|5|50|100")
	b := ComputeRunID(7, "isolated|5|50|100")
	if a != b {
		t.Errorf("ComputeRunID() not deterministic: %s != %s", a, b)
	}
	if len(a) != 36 {
		t.Errorf("ComputeRunID() length = %d, want 36", len(a))
	}
	if a == ComputeRunID(8, "isolated|5|50|100") {
		t.Error("Different seed should produce different run id")
	}
	if a == ComputeRunID(7, "synthetic|5|50|100") {
		t.Error("Different fingerprint should produce different run id")
	}
}

func TestAgentAddress(t *testing.T) {
	addr, err := AgentAddress(1, "I-0")
	if err != nil {
		t.Fatalf("AgentAddress failed: %v", err)
	}
	if !isOnCurve(addr) {
		t.Errorf("address %s is not on curve", addr)
	}

	again, err := AgentAddress(1, "I-0")
	if err != nil {
		t.Fatalf("AgentAddress failed: %v", err)
	}
	if addr != again {
		t.Errorf("AgentAddress() not deterministic: %s != %s", addr, again)
	}

	other, err := AgentAddress(1, "I-1")
	if err != nil {
		t.Fatalf("AgentAddress failed: %v", err)
	}
	if addr == other {
		t.Error("Different agents should get different addresses")
	}
}

func TestValidateAddress(t *testing.T) {
	if err := ValidateAddress("not-base58-0OIl"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress, got %v", err)
	}
	if err := ValidateAddress("3mJr7AoUXx2Wqd"); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress for short key, got %v", err)
	}
}
