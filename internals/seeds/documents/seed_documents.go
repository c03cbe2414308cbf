package documents

import (
	"context"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"schooladmin_backend/internals/docstore"
)

// Seed maps collection name to documents keyed by id.
type Seed map[string]map[string]map[string]any

// SeedDocumentsFromJSON writes every document in filePath with Set, so
// running it twice leaves the same data. Documents already present are
// skipped unless overwrite is set.
func SeedDocumentsFromJSON(ctx context.Context, store docstore.Store, filePath string, overwrite bool) (int, error) {
	log.Println("[INFO] reading document seed:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, errors.Wrap(err, "read document seed")
	}
	var seed Seed
	if err := sonic.Unmarshal(file, &seed); err != nil {
		return 0, errors.Wrap(err, "decode document seed")
	}

	n := 0
	for collection, docs := range seed {
		for id, data := range docs {
			if !overwrite {
				_, err := store.Get(ctx, collection, id)
				if err == nil {
					continue
				}
				if !docstore.IsNotFound(err) {
					return n, errors.Wrapf(err, "check %s/%s", collection, id)
				}
			}
			if err := store.Set(ctx, collection, id, data); err != nil {
				return n, errors.Wrapf(err, "seed %s/%s", collection, id)
			}
			n++
		}
		log.Printf("[INFO] collection '%s' seeded", collection)
	}
	return n, nil
}
