package content

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const loadAllLimit = 8

// LoadAll loads entries concurrently and returns the records that loaded, in
// entry order. Failed loads are logged by the loader and dropped.
func LoadAll(ctx context.Context, l *Loader, entries []Entry) []Record {
	loaded := make([]*Content, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadAllLimit)
	for i, e := range entries {
		g.Go(func() error {
			loaded[i] = l.Load(gctx, e.Path)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]Record, 0, len(entries))
	for i, c := range loaded {
		if c != nil {
			records = append(records, Record{Entry: entries[i], Content: c})
		}
	}
	return records
}
