package memo

import (
	"context"
	"fmt"

	"github.com/dekarrin/rezi"
)

// snapshot is the on-the-wire shape of an exported memo table: a flat list
// of entries, encoded with rezi the same way this codebase's session and
// save-game state is turned into bytes before being stashed in a database
// column (see server/dao/sqlite's use of rezi.EncBinary /
// rezi.DecBinary). The engine itself never touches a disk or a socket;
// Export/Import just produce and consume []byte, leaving it to the host
// to decide where that blob lives.
type snapshot struct {
	Entries []Entry
}

// Export encodes every entry currently in store as a self-contained byte
// slice. store must implement Lister (both stores in this package do).
// Because a Store only ever gains entries that are already fully computed
// (the counter never writes a partial or provisional result), a snapshot
// taken mid-count is always safe to resume from: it's simply missing the
// entries that hadn't finished yet.
func Export(ctx context.Context, store Store) ([]byte, error) {
	lister, ok := store.(Lister)
	if !ok {
		return nil, fmt.Errorf("memo: store %T cannot be listed for export", store)
	}

	entries, err := lister.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("memo: exporting snapshot: %w", err)
	}

	data, err := rezi.Enc(snapshot{Entries: entries})
	if err != nil {
		return nil, fmt.Errorf("memo: encoding snapshot: %w", err)
	}
	return data, nil
}

// Import decodes a snapshot produced by Export and loads its entries into
// store. store must implement Loader (both stores in this package do).
// Existing entries for the same (rule, n) pair are overwritten.
func Import(store Store, data []byte) error {
	loader, ok := store.(Loader)
	if !ok {
		return fmt.Errorf("memo: store %T cannot be loaded from a snapshot", store)
	}

	var snap snapshot
	if _, err := rezi.Dec(data, &snap); err != nil {
		return fmt.Errorf("memo: decoding snapshot: %w", err)
	}

	return loader.LoadEntries(snap.Entries)
}
