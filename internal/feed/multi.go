package feed

import (
	"context"
	"log/slog"
	"sort"
	"strings"
)

// MultiSource fans one query out to several sources and merges their
// pages into a single reverse-chronological list. Per-source results
// are collected in declaration order, so entries with equal timestamps
// keep the insertion order of the source that produced them.
type MultiSource struct {
	sources []Source
}

func NewMultiSource(sources ...Source) *MultiSource {
	return &MultiSource{sources: sources}
}

func (m *MultiSource) Name() string {
	names := make([]string, 0, len(m.sources))
	for _, s := range m.sources {
		names = append(names, s.Name())
	}
	return strings.Join(names, "+")
}

// Fetch queries every source with bounded concurrency. A source that
// fails is logged and skipped so the rest of the page still renders;
// only all sources failing fails the fetch.
func (m *MultiSource) Fetch(ctx context.Context, q Query) (Result, error) {
	const maxWorkers = 4
	type outcome struct {
		res Result
		err error
	}
	outs := make([]outcome, len(m.sources))
	sem := make(chan struct{}, maxWorkers)
	done := make(chan struct{}, len(m.sources))
	for i, s := range m.sources {
		i, s := i, s
		sem <- struct{}{}
		go func() {
			defer func() { <-sem; done <- struct{}{} }()
			res, err := s.Fetch(ctx, q)
			outs[i] = outcome{res: res, err: err}
		}()
	}
	for range m.sources {
		<-done
	}

	var merged Result
	var firstErr error
	failed := 0
	for i, out := range outs {
		if out.err != nil {
			failed++
			if firstErr == nil {
				firstErr = out.err
			}
			slog.Error("feed: source fetch failed", "source", m.sources[i].Name(), "error", out.err)
			continue
		}
		merged.Entries = append(merged.Entries, out.res.Entries...)
		merged.HasMore = merged.HasMore || out.res.HasMore
		merged.Total += out.res.Total
		merged.Dropped += out.res.Dropped
	}
	if failed == len(m.sources) && failed > 0 {
		return Result{}, firstErr
	}
	sort.SliceStable(merged.Entries, func(i, j int) bool {
		return merged.Entries[i].Timestamp.After(merged.Entries[j].Timestamp)
	})
	return merged, nil
}
