package snapshot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/hupe1980/kclust/blobstore"
)

// ErrNoSnapshot is returned by LoadLatest when the store holds no snapshot.
var ErrNoSnapshot = errors.New("snapshot: no snapshot found")

// Load reads and decodes the snapshot stored under name.
func Load(ctx context.Context, store blobstore.BlobStore, name string) (*Snapshot, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", name, err)
	}
	s, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s, nil
}

// LoadLatest loads the snapshot named by CURRENT. Without a CURRENT blob it
// falls back to the newest snapshot by name.
func LoadLatest(ctx context.Context, store blobstore.BlobStore) (*Snapshot, error) {
	name, err := Latest(ctx, store)
	if err != nil {
		return nil, err
	}
	return Load(ctx, store, name)
}

// Latest returns the blob name of the newest snapshot.
func Latest(ctx context.Context, store blobstore.BlobStore) (string, error) {
	current, err := blobstore.ReadAll(ctx, store, CurrentName)
	switch {
	case err == nil:
		name := strings.TrimSpace(string(current))
		if name == "" {
			return "", fmt.Errorf("%w: %s is empty", ErrCorrupt, CurrentName)
		}
		return name, nil
	case !errors.Is(err, blobstore.ErrNotFound):
		return "", fmt.Errorf("snapshot: read %s: %w", CurrentName, err)
	}

	names, err := List(ctx, store)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", ErrNoSnapshot
	}
	return names[len(names)-1], nil
}

// List returns the snapshot blob names, oldest first.
func List(ctx context.Context, store blobstore.BlobStore) ([]string, error) {
	all, err := store.List(ctx, Prefix)
	if err != nil {
		return nil, fmt.Errorf("snapshot: list: %w", err)
	}
	names := make([]string, 0, len(all))
	for _, name := range all {
		if strings.HasSuffix(name, extension) {
			names = append(names, name)
		}
	}
	// unix nanos have a fixed width for any date this side of 2262
	slices.Sort(names)
	return names, nil
}

// Prune deletes all but the newest keep snapshots. The snapshot named by
// CURRENT is never deleted. It returns the deleted names.
func Prune(ctx context.Context, store blobstore.BlobStore, keep int) ([]string, error) {
	if keep < 1 {
		return nil, fmt.Errorf("snapshot: keep must be positive, got %d", keep)
	}
	names, err := List(ctx, store)
	if err != nil {
		return nil, err
	}
	if len(names) <= keep {
		return nil, nil
	}

	current, err := Latest(ctx, store)
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return nil, err
	}

	var deleted []string
	for _, name := range names[:len(names)-keep] {
		if name == current {
			continue
		}
		if err := store.Delete(ctx, name); err != nil {
			return deleted, fmt.Errorf("snapshot: delete %s: %w", name, err)
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}
