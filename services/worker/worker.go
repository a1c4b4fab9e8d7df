package worker

import (
	"context"
	"encoding/json"
	"time"

	"bflibrary/unitworker/internal/scraper"
	"bflibrary/unitworker/logger"
	errs "bflibrary/unitworker/pkg/errors"
	"bflibrary/unitworker/services/publisher"
	"bflibrary/unitworker/services/storage"
)

// Stats summarizes one scrape run
type Stats struct {
	Entries int
	Scraped int
	Skipped int
	Failed  int
}

// Worker drives one scrape run: listing traversal, detail fetching,
// persistence and optional publishing, strictly one entry at a time to
// keep the load on the source site low.
type Worker struct {
	lister    scraper.Lister
	units     scraper.UnitFetcher
	store     storage.Store
	publisher publisher.Publisher
	delay     time.Duration
	log       *logger.Logger
}

// NewWorker creates a worker. pub may be nil when no record stream is
// configured.
func NewWorker(
	lister scraper.Lister,
	units scraper.UnitFetcher,
	store storage.Store,
	pub publisher.Publisher,
	delay time.Duration,
	runID string,
) *Worker {
	return &Worker{
		lister:    lister,
		units:     units,
		store:     store,
		publisher: pub,
		delay:     delay,
		log:       logger.ForWorker().WithField("run_id", runID),
	}
}

// Run scrapes every listing entry once. Entry scoped failures are
// logged and counted while the traversal continues; only listing,
// storage and context errors fail the run.
func (w *Worker) Run(ctx context.Context) (Stats, error) {
	stats := Stats{}

	entries, err := w.lister.FetchEntries(ctx)
	if err != nil {
		return stats, err
	}
	stats.Entries = len(entries)
	w.log.Info().Int("entries", stats.Entries).Msg("Starting scrape")

	if w.delay > 0 {
		select {
		case <-time.After(w.delay):
		case <-ctx.Done():
			return stats, ctx.Err()
		}
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if w.store.Exists(entry.ID) {
			w.log.Warn().Str("id", entry.ID).Msg("Record already exists, skipping")
			stats.Skipped++
			continue
		}

		if err := w.scrapeEntry(ctx, entry); err != nil {
			if errs.IsEntryScoped(err) {
				w.log.Error().Err(err).Str("id", entry.ID).Msg("Entry failed")
				stats.Failed++
				continue
			}
			return stats, err
		}
		stats.Scraped++
	}

	w.log.Info().
		Int("entries", stats.Entries).
		Int("scraped", stats.Scraped).
		Int("skipped", stats.Skipped).
		Int("failed", stats.Failed).
		Msg("Scrape finished")
	return stats, nil
}

// scrapeEntry builds, persists and publishes one unit record
func (w *Worker) scrapeEntry(ctx context.Context, entry scraper.CatalogEntry) error {
	record, err := w.units.FetchUnit(ctx, entry)
	if err != nil {
		return err
	}

	w.log.Info().Str("id", record.ID).Str("name", record.Name).Msg("Unit scraped")

	if err := w.store.Save(ctx, record); err != nil {
		return err
	}

	w.publish(record)
	return nil
}

// publish sends the stored record to the stream. Publish failures are
// logged but never fail the entry; the record is already on disk.
func (w *Worker) publish(record *scraper.UnitRecord) {
	if w.publisher == nil {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		w.log.Error().Err(err).Str("id", record.ID).Msg("Failed to encode record for publishing")
		return
	}
	if err := w.publisher.Publish(record.ID, payload); err != nil {
		w.log.Error().Err(err).Str("id", record.ID).Msg("Failed to publish record")
	}
}
