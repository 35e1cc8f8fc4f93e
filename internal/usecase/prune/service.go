package prune

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/prunekit/prunekit/internal/boundaries/out"
	"github.com/prunekit/prunekit/internal/domain"
)

// Service orchestrates pruning runs over a backup tree.
//
// Runs are fully synchronous: tiers and extensions are processed one at
// a time because promotion writes across tier directories, and the
// engine assumes exclusive access to the tree.
type Service struct {
	store   out.ArtifactStore
	history out.RunStore // optional
	log     zerolog.Logger
}

// NewService creates a pruning service. history may be nil to disable
// run recording.
func NewService(store out.ArtifactStore, history out.RunStore, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		history: history,
		log:     log,
	}
}

// Run executes one prune run and returns its report.
//
// A directory that cannot be listed aborts the run. Individual move or
// delete failures do not: the engine continues with the remaining
// candidates, reports every failure in the report, and returns them
// joined as one error once the run completes.
func (s *Service) Run(ctx context.Context, run domain.PruneRun) (*domain.Report, error) {
	run.Normalize()
	if err := run.Validate(); err != nil {
		return nil, err
	}

	report := &domain.Report{
		BackupPath: run.BackupPath,
		FlatMode:   run.Limit != nil,
		DryRun:     run.DryRun,
		StartedAt:  time.Now(),
	}

	s.log.Info().
		Str("backup_path", run.BackupPath).
		Str("mode", report.Mode()).
		Bool("dry_run", run.DryRun).
		Msg("pruning started")

	var failures []error
	if run.Limit != nil {
		for _, ext := range run.Extensions {
			if err := s.pruneFlat(ctx, run, ext, report, &failures); err != nil {
				report.FinishedAt = time.Now()
				return report, err
			}
		}
	} else {
		tiers := domain.ActiveTiers(run.BackupPath, run.Policy)
		if len(tiers) == 0 {
			// All tiers disabled: a no-op run, not an error.
			s.log.Warn().Msg("all tiers disabled and no flat limit set, nothing to prune")
			report.FinishedAt = time.Now()
			s.recordRun(ctx, report)
			return report, nil
		}
		for i := range tiers {
			for _, ext := range run.Extensions {
				if err := s.pruneTier(ctx, run, tiers, i, ext, report, &failures); err != nil {
					report.FinishedAt = time.Now()
					return report, err
				}
			}
		}
	}

	report.FinishedAt = time.Now()
	s.recordRun(ctx, report)

	considered, kept, promoted, deleted, failed := report.Totals()
	s.log.Info().
		Int("considered", considered).
		Int("kept", kept).
		Int("promoted", promoted).
		Int("deleted", deleted).
		Int("failed", failed).
		Msg("pruning finished")

	if len(failures) > 0 {
		return report, errors.Join(failures...)
	}
	return report, nil
}

// pruneTier prunes one tier for one extension: evict the oldest entries
// beyond capacity, then promote each into the first subsequent tier
// whose boundary rule matches its date, or delete it when none does.
func (s *Service) pruneTier(ctx context.Context, run domain.PruneRun, tiers []domain.Tier, idx int, ext string, report *domain.Report, failures *[]error) error {
	tier := tiers[idx]
	log := s.log.With().Str("tier", string(tier.Name)).Str("extension", ext).Logger()
	log.Debug().Int("capacity", tier.Capacity).Msg("scanning tier")

	identifiers, err := s.store.List(ctx, tier.Path, ext, run.Kind)
	if err != nil {
		return fmt.Errorf("listing %s tier: %w", tier.Name, err)
	}

	tr := domain.TierReport{
		Tier:       tier.Name,
		Extension:  ext,
		Considered: len(identifiers),
	}

	// Oldest-first: identifiers are ascending, pop from the front.
	var overflow []string
	for len(identifiers) > tier.Capacity {
		overflow = append(overflow, identifiers[0])
		identifiers = identifiers[1:]
	}
	tr.Kept = len(identifiers)

	for _, id := range overflow {
		date, ok := domain.ParseArtifactDate(id)
		if !ok {
			// List only returns dated identifiers; treat a miss here as
			// a skip all the same.
			continue
		}

		decision := domain.Decision{Tier: tier.Name, Extension: ext, Identifier: id}
		if target := promotionTarget(tiers[idx+1:], date); target != nil {
			decision.Action = domain.ActionPromote
			decision.Target = target.Name
			log.Trace().Str("artifact", id).Str("to", string(target.Name)).Msg("promoting artifact")
			if !run.DryRun {
				if err := s.store.Move(ctx, id, ext, run.Kind, tier.Path, target.Path); err != nil {
					log.Error().Err(err).Str("artifact", id).Msg("promotion failed")
					decision.Err = err.Error()
					tr.Failed++
					*failures = append(*failures, err)
					report.Decisions = append(report.Decisions, decision)
					continue
				}
			}
			tr.Promoted++
		} else {
			decision.Action = domain.ActionDelete
			log.Trace().Str("artifact", id).Msg("removing artifact")
			if !run.DryRun {
				if err := s.store.Remove(ctx, id, ext, run.Kind, tier.Path); err != nil {
					log.Error().Err(err).Str("artifact", id).Msg("removal failed")
					decision.Err = err.Error()
					tr.Failed++
					*failures = append(*failures, err)
					report.Decisions = append(report.Decisions, decision)
					continue
				}
			}
			tr.Deleted++
		}
		report.Decisions = append(report.Decisions, decision)
	}

	log.Info().
		Int("considered", tr.Considered).
		Int("kept", tr.Kept).
		Int("promoted", tr.Promoted).
		Int("deleted", tr.Deleted).
		Msg("tier pruned")

	report.Tiers = append(report.Tiers, tr)
	return nil
}

// pruneFlat keeps the newest run.Limit artifacts in the backup path
// itself. Flat mode never promotes, regardless of calendar boundaries.
func (s *Service) pruneFlat(ctx context.Context, run domain.PruneRun, ext string, report *domain.Report, failures *[]error) error {
	log := s.log.With().Str("extension", ext).Logger()
	log.Debug().Int("limit", *run.Limit).Msg("scanning backup path")

	identifiers, err := s.store.List(ctx, run.BackupPath, ext, run.Kind)
	if err != nil {
		return fmt.Errorf("listing backup path: %w", err)
	}

	tr := domain.TierReport{
		Extension:  ext,
		Considered: len(identifiers),
	}

	var overflow []string
	for len(identifiers) > *run.Limit {
		overflow = append(overflow, identifiers[0])
		identifiers = identifiers[1:]
	}
	tr.Kept = len(identifiers)

	for _, id := range overflow {
		decision := domain.Decision{Extension: ext, Identifier: id, Action: domain.ActionDelete}
		log.Trace().Str("artifact", id).Msg("removing artifact")
		if !run.DryRun {
			if err := s.store.Remove(ctx, id, ext, run.Kind, run.BackupPath); err != nil {
				log.Error().Err(err).Str("artifact", id).Msg("removal failed")
				decision.Err = err.Error()
				tr.Failed++
				*failures = append(*failures, err)
				report.Decisions = append(report.Decisions, decision)
				continue
			}
		}
		tr.Deleted++
		report.Decisions = append(report.Decisions, decision)
	}

	log.Info().
		Int("considered", tr.Considered).
		Int("kept", tr.Kept).
		Int("deleted", tr.Deleted).
		Msg("backup path pruned")

	report.Tiers = append(report.Tiers, tr)
	return nil
}

// promotionTarget returns the first tier in the remaining sequence whose
// boundary rule matches date. The search stops at the first match even
// when a later tier would also match.
func promotionTarget(subsequent []domain.Tier, date time.Time) *domain.Tier {
	for i := range subsequent {
		if domain.IsTierBoundary(subsequent[i].Name, date) {
			return &subsequent[i]
		}
	}
	return nil
}

// recordRun appends the run to the history store. Recording is
// best-effort and never fails the run.
func (s *Service) recordRun(ctx context.Context, report *domain.Report) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(ctx, domain.NewRunRecord(report)); err != nil {
		s.log.Warn().Err(err).Msg("failed to record prune run history")
	}
}
