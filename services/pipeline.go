package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sperrmuell/geocode"
	"sperrmuell/models"
	"sperrmuell/storage"
	"sperrmuell/utils"
)

// EventSource is the loaded collection schedule.
type EventSource interface {
	Dates() []time.Time
	EventsOn(day time.Time) []models.CollectionEvent
}

// Pipeline runs the per-date loop: select the rows of a date, normalise
// them into ranges, resolve every house number and hand the record to the
// sink. Dates whose folder is already complete are skipped.
type Pipeline struct {
	events     EventSource
	normalizer *Normalizer
	resolver   geocode.Resolver
	sink       storage.Sink
	policy     EnumerationPolicy
	skipPast   bool
	logger     *utils.Logger
	now        func() time.Time
}

// PipelineConfig wires a Pipeline.
type PipelineConfig struct {
	Events     EventSource
	Normalizer *Normalizer
	Resolver   geocode.Resolver
	Sink       storage.Sink
	Policy     EnumerationPolicy
	// SkipPast leaves dates before today untouched.
	SkipPast bool
}

func NewPipeline(cfg PipelineConfig, logger *utils.Logger) *Pipeline {
	return &Pipeline{
		events:     cfg.Events,
		normalizer: cfg.Normalizer,
		resolver:   cfg.Resolver,
		sink:       cfg.Sink,
		policy:     cfg.Policy,
		skipPast:   cfg.SkipPast,
		logger:     logger,
		now:        time.Now,
	}
}

// Run processes every date found in the schedule and returns the per-date
// statistics. The cumulative index is rewritten after each processed date
// and once more at the end.
func (p *Pipeline) Run(ctx context.Context) ([]models.DateStats, []time.Time, error) {
	dates := p.events.Dates()
	p.logger.Info("[pipeline] Found %d collection dates", len(dates))

	today := truncateDay(p.now())
	var stats []models.DateStats

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return stats, dates, err
		}
		label := storage.DateDirName(date)

		if p.sink.Complete(date) {
			p.logger.Info("[pipeline] %s already exists, skipping", label)
			stats = append(stats, models.DateStats{Date: date, AlreadyComplete: true})
			continue
		}
		if p.skipPast && date.Before(today) {
			p.logger.Info("[pipeline] %s is in the past, skipping", label)
			continue
		}

		p.logger.Info("[pipeline] Processing %s", label)
		rec, st, err := p.ProcessDate(ctx, date)
		if err != nil {
			return stats, dates, fmt.Errorf("pipeline: %s: %w", label, err)
		}
		if _, err := p.sink.Emit(ctx, rec); err != nil {
			return stats, dates, fmt.Errorf("pipeline: %s: %w", label, err)
		}
		stats = append(stats, st)
		p.logger.Info("[pipeline] %s done: %d ranges, %d/%d addresses located",
			label, st.Ranges, st.Resolved, st.AddressesTried)

		if err := p.sink.WriteIndex(dates); err != nil {
			return stats, dates, err
		}
	}

	if err := p.sink.WriteIndex(dates); err != nil {
		return stats, dates, err
	}
	return stats, dates, nil
}

// ProcessDate builds the address record of one collection date.
func (p *Pipeline) ProcessDate(ctx context.Context, date time.Time) (*models.AddressRecord, models.DateStats, error) {
	st := models.DateStats{Date: date}
	ranges := utils.NewSet[string]()
	addresses := utils.NewSet[string]()
	points := utils.NewSet[models.Point]()

	for _, ev := range p.events.EventsOn(date) {
		st.Rows++

		r, err := p.normalizer.Normalize(ev)
		switch {
		case errors.Is(err, ErrEmptyHouseRange):
			// listed in Adressen.txt, nothing to look up
			ranges.Add(r.Display())
			st.SkippedRows++
			continue
		case errors.Is(err, ErrUnknownStreet):
			st.UnknownStreets++
			continue
		case err != nil:
			st.SkippedRows++
			continue
		}

		display := r.Display()
		if !ranges.Add(display) {
			continue
		}
		p.logger.Debug("[pipeline] %s", display)

		err = p.policy.Walk(r, func(n int) (bool, error) {
			addr := r.Address(n)
			addresses.Add(addr)
			st.AddressesTried++

			pt, ok, err := p.resolver.Resolve(ctx, addr)
			if err != nil {
				return false, err
			}
			if !ok {
				p.logger.Debug("[pipeline]     %s -> not found", addr)
				return false, nil
			}
			if points.Add(pt) {
				st.Resolved++
			}
			return true, nil
		})
		if err != nil {
			return nil, st, err
		}
	}

	st.Ranges = ranges.Size()
	rec := &models.AddressRecord{
		Date:      date,
		Ranges:    ranges.Values(),
		Addresses: addresses.Values(),
		Points:    points.Values(),
	}
	return rec, st, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
