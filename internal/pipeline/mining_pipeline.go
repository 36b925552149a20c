// Package pipeline glues the job consumer, the discovery engine, the
// model cache and the result writer into a long-running loop.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	inputredis "procmine/internal/input/redis"
	"procmine/internal/logger"
	"procmine/internal/mining"
	"procmine/internal/modelstore"
	"procmine/internal/output/treejson"
	"procmine/pkg/models"
)

// Job is one mining request popped from the queue: a complete
// ready-made weighted-trace log, optionally overriding the configured
// variant and thresholds.
type Job struct {
	ID                      string                 `json:"id,omitempty"`
	Variant                 string                 `json:"variant,omitempty"`
	ActivityThreshold       *float64               `json:"activity_threshold,omitempty"`
	TracesThreshold         *float64               `json:"traces_threshold,omitempty"`
	NoiseThreshold          *float64               `json:"noise_threshold,omitempty"`
	SimplificationThreshold *float64               `json:"simplification_threshold,omitempty"`
	Traces                  []models.WeightedTrace `json:"traces"`
}

// options merges the job's overrides into the configured defaults.
func (j *Job) options(defaults mining.Options) mining.Options {
	opts := defaults
	if j.Variant != "" {
		opts.Variant = mining.Variant(j.Variant)
	}
	if j.ActivityThreshold != nil {
		opts.ActivityThreshold = *j.ActivityThreshold
	}
	if j.TracesThreshold != nil {
		opts.TracesThreshold = *j.TracesThreshold
	}
	if j.NoiseThreshold != nil {
		opts.NoiseThreshold = *j.NoiseThreshold
	}
	if j.SimplificationThreshold != nil {
		opts.SimplificationThreshold = *j.SimplificationThreshold
	}
	return opts
}

// MiningPipeline runs discovery over queued jobs.
type MiningPipeline struct {
	consumer *inputredis.Consumer
	opts     mining.Options
	store    *modelstore.RedisStore // nil disables caching
	writer   *treejson.Writer
}

// NewMiningPipeline wires a pipeline. store may be nil.
func NewMiningPipeline(consumer *inputredis.Consumer, opts mining.Options, store *modelstore.RedisStore, writer *treejson.Writer) *MiningPipeline {
	return &MiningPipeline{
		consumer: consumer,
		opts:     opts,
		store:    store,
		writer:   writer,
	}
}

// Run consumes jobs until the context is canceled. Malformed jobs and
// per-job discovery failures are logged and skipped; the loop only
// stops on context cancellation or a consumer error.
func (p *MiningPipeline) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := p.consumer.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("pop mining job: %w", err)
		}
		if payload == nil {
			continue
		}
		if err := p.handle(ctx, payload); err != nil {
			logger.Errorf("Mining job failed: %v", err)
		}
	}
}

func (p *MiningPipeline) handle(ctx context.Context, payload []byte) error {
	var job Job
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}

	log, err := models.NewEventLog(job.Traces)
	if err != nil {
		return fmt.Errorf("job %s: invalid log: %w", job.ID, err)
	}

	opts := job.options(p.opts)
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("job %s: %w", job.ID, err)
	}

	if p.store != nil {
		digest := modelstore.Digest(log, opts)
		cached, hit, err := p.store.Get(ctx, digest)
		if err != nil {
			logger.Warnf("Model cache read failed: %v", err)
		} else if hit {
			logger.Infof("Job %s served from model cache", job.ID)
			return p.writer.WriteRecord(&treejson.Record{
				JobID:             job.ID,
				Variant:           cached.Variant,
				Options:           opts,
				Tree:              cached.Tree,
				OmittedActivities: cached.OmittedActivities,
				Cached:            true,
				MinedAt:           cached.MinedAt,
			})
		}
	}

	result, err := mining.Discover(log, opts)
	if err != nil {
		return fmt.Errorf("job %s: discover: %w", job.ID, err)
	}
	minedAt := time.Now().UTC()

	if p.store != nil {
		digest := modelstore.Digest(log, opts)
		model := &modelstore.StoredModel{
			Tree:              result.Tree,
			OmittedActivities: result.OmittedActivities,
			Variant:           string(opts.Variant),
			MinedAt:           minedAt,
		}
		if err := p.store.Put(ctx, digest, model); err != nil {
			logger.Warnf("Model cache write failed: %v", err)
		}
	}

	logger.Infof("Job %s mined: %s", job.ID, result.Tree)
	return p.writer.WriteRecord(&treejson.Record{
		JobID:             job.ID,
		Variant:           string(opts.Variant),
		Options:           opts,
		Tree:              result.Tree,
		OmittedActivities: result.OmittedActivities,
		Stats:             result.Stats,
		MinedAt:           minedAt,
	})
}

// Close releases the pipeline's resources.
func (p *MiningPipeline) Close() error {
	var firstErr error
	if err := p.consumer.Close(); err != nil {
		firstErr = err
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := p.writer.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
