package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"employee-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// stateVersion is bumped when the persisted layout changes.
const stateVersion = 1

// StateStore keeps the reconciler state between process runs.
type StateStore interface {
	// Load returns the saved state; found is false when nothing was saved yet.
	Load(ctx context.Context) (state State, found bool, err error)
	// Save replaces the saved state.
	Save(ctx context.Context, state State) error
	// Reset forgets the saved state.
	Reset(ctx context.Context) error
}

// NopStateStore keeps nothing; every process start is an initial load.
type NopStateStore struct{}

func (NopStateStore) Load(context.Context) (State, bool, error) { return State{}, false, nil }
func (NopStateStore) Save(context.Context, State) error         { return nil }
func (NopStateStore) Reset(context.Context) error               { return nil }

// ObjectStateStore saves the state as a JSON object in S3-compatible storage.
type ObjectStateStore struct {
	client storage.Client
	bucket string
	object string
}

type stateFile struct {
	Version int   `json:"version"`
	State   State `json:"state"`
}

// NewObjectStateStore creates a store writing to bucket/object.
func NewObjectStateStore(client storage.Client, bucket, object string) *ObjectStateStore {
	return &ObjectStateStore{client: client, bucket: bucket, object: object}
}

// Load implements StateStore.Load.
func (s *ObjectStateStore) Load(ctx context.Context) (State, bool, error) {
	reader, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		if storage.IsNotFound(err) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("failed to get state %s: %w", s.object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		if storage.IsNotFound(err) {
			return State{}, false, nil
		}
		return State{}, false, fmt.Errorf("failed to read state %s: %w", s.object, err)
	}

	var file stateFile
	if err := json.Unmarshal(data, &file); err != nil {
		return State{}, false, fmt.Errorf("failed to parse state %s: %w", s.object, err)
	}
	if file.Version != stateVersion {
		return State{}, false, fmt.Errorf("unsupported state version %d in %s", file.Version, s.object)
	}

	return file.State, true, nil
}

// Save implements StateStore.Save.
func (s *ObjectStateStore) Save(ctx context.Context, state State) error {
	data, err := json.Marshal(stateFile{Version: stateVersion, State: state})
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put state %s: %w", s.object, err)
	}
	return nil
}

// Reset implements StateStore.Reset.
func (s *ObjectStateStore) Reset(ctx context.Context) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.object, minio.RemoveObjectOptions{})
	if err != nil && !storage.IsNotFound(err) {
		return fmt.Errorf("failed to remove state %s: %w", s.object, err)
	}
	return nil
}
