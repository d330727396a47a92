package detect

import (
	"context"

	"github.com/rs/zerolog"

	"entradalert/internal/browser"
	"entradalert/internal/common"
)

// PageChecker loads a target in the shared browser and runs the availability
// pass over it. The monitor loop and the on-demand bot commands both go
// through here so they see identical verdicts.
type PageChecker struct {
	manager    *browser.Manager
	classifier *Classifier
	sectors    *SectorExtractor
	logger     zerolog.Logger
}

// NewPageChecker creates a new page checker
func NewPageChecker(manager *browser.Manager, classifier *Classifier, sectors *SectorExtractor, logger zerolog.Logger) *PageChecker {
	return &PageChecker{
		manager:    manager,
		classifier: classifier,
		sectors:    sectors,
		logger:     logger.With().Str("component", "PageChecker").Logger(),
	}
}

// Check opens the target URL and classifies its availability.
func (pc *PageChecker) Check(ctx context.Context, targetURL string) (Classification, error) {
	page, err := pc.manager.OpenPage(ctx, targetURL)
	if err != nil {
		return Classification{}, common.WrapError(err, "failed to open page for availability check")
	}
	defer func() {
		if err := page.Close(); err != nil {
			pc.logger.Warn().Err(err).Str("url", targetURL).Msg("Failed to close page")
		}
	}()

	return pc.classifier.Classify(page, targetURL), nil
}

// CheckSectors opens the target URL and reads per-zone availability for the
// function on dateToken (a dd/mm/yyyy string as reported by Check).
func (pc *PageChecker) CheckSectors(ctx context.Context, targetURL, dateToken string) ([]SectorAvailability, error) {
	page, err := pc.manager.OpenPage(ctx, targetURL)
	if err != nil {
		return nil, common.WrapError(err, "failed to open page for sector check")
	}
	defer func() {
		if err := page.Close(); err != nil {
			pc.logger.Warn().Err(err).Str("url", targetURL).Msg("Failed to close page")
		}
	}()

	profile := pc.classifier.ProfileFor(targetURL)
	return pc.sectors.Extract(page, dateToken, profile), nil
}
