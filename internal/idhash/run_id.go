package idhash

import (
	"fmt"

	"github.com/google/uuid"
)

// runNamespace scopes name-based run UUIDs to this tool.
var runNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("token-launch-sim/run"))

// ComputeRunID computes a deterministic run id from the seed and a
// configuration fingerprint. Identical configurations replay to the same id.
// Returns a version 5 UUID string.
func ComputeRunID(seed uint64, fingerprint string) string {
	data := fmt.Sprintf("%d|%s", seed, fingerprint)
	return uuid.NewSHA1(runNamespace, []byte(data)).String()
}
