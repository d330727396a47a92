package bot

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"entradalert/internal/detect"
	"entradalert/internal/monitor"
	"entradalert/internal/notifier"
)

// SectorChecker is the on-demand page access the commands need. Satisfied by
// detect.PageChecker.
type SectorChecker interface {
	Check(ctx context.Context, targetURL string) (detect.Classification, error)
	CheckSectors(ctx context.Context, targetURL, dateToken string) ([]detect.SectorAvailability, error)
}

var indexedCommandRegex = regexp.MustCompile(`^/(estado|sectores)\s+(\d+)\s*$`)

// CommandHandler resolves inbound chat commands against the live monitor
// state and, for sector queries, against a fresh page visit.
type CommandHandler struct {
	store     *monitor.StateStore
	checker   SectorChecker
	formatter notifier.Formatter
	logger    zerolog.Logger
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(
	store *monitor.StateStore,
	checker SectorChecker,
	formatter notifier.Formatter,
	logger zerolog.Logger,
) *CommandHandler {
	return &CommandHandler{
		store:     store,
		checker:   checker,
		formatter: formatter,
		logger:    logger.With().Str("component", "CommandHandler").Logger(),
	}
}

// Handle resolves one message text into a reply. An empty reply means the
// text was not a recognized command and should be ignored.
func (h *CommandHandler) Handle(ctx context.Context, text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	// Strip the @botname suffix groups append to commands.
	if i := strings.Index(text, "@"); i > 0 && !strings.Contains(text[:i], " ") {
		if j := strings.Index(text[i:], " "); j > 0 {
			text = text[:i] + text[i+j:]
		} else {
			text = text[:i]
		}
	}

	switch {
	case text == "/lista":
		return h.formatter.FormatTargetList(h.store.Snapshot())

	case text == "/ayuda", text == "/start", text == "/help":
		return h.formatter.FormatHelp()

	case strings.HasPrefix(text, "/estado"):
		return h.handleIndexed(ctx, text, "/estado", h.targetStatus)

	case strings.HasPrefix(text, "/sectores"):
		return h.handleIndexed(ctx, text, "/sectores", h.sectorReport)

	default:
		return ""
	}
}

func (h *CommandHandler) handleIndexed(ctx context.Context, text, name string, run func(context.Context, monitor.TargetState) string) string {
	m := indexedCommandRegex.FindStringSubmatch(text)
	if m == nil {
		return h.formatter.FormatUsage(name, usageExample(name))
	}
	index, _ := strconv.Atoi(m[2])

	state, ok := h.store.GetByIndex(index)
	if !ok {
		return h.formatter.FormatIndexOutOfRange(len(h.store.Targets()))
	}
	return run(ctx, state)
}

func (h *CommandHandler) targetStatus(_ context.Context, state monitor.TargetState) string {
	return h.formatter.FormatTargetStatus(state)
}

// sectorReport visits the target fresh, then drills into each function's
// seat map. Slow by nature; the reply reflects whatever each date yielded.
func (h *CommandHandler) sectorReport(ctx context.Context, state monitor.TargetState) string {
	classification, err := h.checker.Check(ctx, state.URL)
	if err != nil {
		h.logger.Warn().Err(err).Str("url", state.URL).Msg("Sector report page check failed")
		return h.formatter.FormatCheckFailure(state)
	}

	if classification.Title != "" {
		state.Title = classification.Title
	}

	reports := make([]notifier.SectorReport, 0, len(classification.Dates))
	for _, date := range classification.Dates {
		sectors, err := h.checker.CheckSectors(ctx, state.URL, date)
		if err != nil {
			h.logger.Warn().Err(err).Str("url", state.URL).Str("date", date).Msg("Sector extraction failed")
		}
		reports = append(reports, notifier.SectorReport{Date: date, Sectors: sectors})
	}
	return h.formatter.FormatSectorReport(state, reports)
}

var usageExamples = map[string]string{
	"/estado":   "/estado 1",
	"/sectores": "/sectores 2",
}

func usageExample(name string) string {
	if example, ok := usageExamples[name]; ok {
		return example
	}
	return fmt.Sprintf("%s 1", name)
}
