package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeTxID computes a deterministic transaction id.
// Formula: base58(SHA256(run_id|seq|tick|agent_id|action))
// The encoding matches the shape of Solana signatures in logs (32-byte digest, 43-44 chars).
func ComputeTxID(
	runID string,
	seq int64,
	tick int,
	agentID string,
	action string,
) string {
	data := fmt.Sprintf("%s|%d|%d|%s|%s",
		runID,
		seq,
		tick,
		agentID,
		action,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
