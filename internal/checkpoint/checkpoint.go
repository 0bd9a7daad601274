// Package checkpoint persists the extractor's resume point: a small JSON object
// `{"start": <u64>, "end": <u64>}` naming the highest super-chunk whose outputs
// are fully committed. Only the Batch Controller writes it; the
// object write is the commit point, so Save must be the last step of
// a super-chunk and Load must tolerate the object being absent on a first run.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ethetl/ethetl/internal/storage"
)

// Object names under output_dir, one per mode.
const (
	BatchFile  = "mars_syncing_status.json"
	StreamFile = "mars_stream_syncing_status.json"
)

// Checkpoint is the committed range of the last completed super-chunk. End is
// monotonically non-decreasing across a run.
type Checkpoint struct {
	Start uint64 `json:"start"`
	End   uint64 `json:"end"`
}

// Load reads the checkpoint at path. A missing object is not an error: it
// returns (nil, nil) so Mode Drivers can distinguish "first run" from a real
// storage failure.
func Load(ctx context.Context, op storage.Operator, path string) (*Checkpoint, error) {
	data, err := op.Get(ctx, path)
	if err != nil {
		var notFound *storage.ObjectNotFoundError
		if errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load checkpoint %s: %w", path, err)
	}

	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", path, err)
	}
	return &cp, nil
}

// Save writes the checkpoint at path, overwriting the previous one.
func (c Checkpoint) Save(ctx context.Context, op storage.Operator, path string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", path, err)
	}
	if err := op.Put(ctx, path, data); err != nil {
		return fmt.Errorf("save checkpoint %s: %w", path, err)
	}
	return nil
}
