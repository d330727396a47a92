package notifier

import (
	"fmt"
	"html"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"entradalert/internal/detect"
	"entradalert/internal/monitor"
)

// Status emoji used across all messages and listings.
const (
	emojiAvailable = "🎟"
	emojiSoldOut   = "🚫"
	emojiUnknown   = "❓"
	emojiTitle     = "🧭"
	emojiDates     = "📅"
	emojiLink      = "🔗"
	emojiChange    = "🔄"
)

// Formatter renders Telegram HTML messages for transitions and bot replies.
type Formatter struct {
	// Signature is appended on its own line to every message.
	Signature string
}

// FormatTransition renders the message for a state change.
func (f Formatter) FormatTransition(change monitor.StateChange) string {
	current := change.Current

	var b strings.Builder
	switch current.Status {
	case detect.CollapsedAvailable:
		if current.RawStatus == detect.StatusAvailableWithDates {
			b.WriteString(emojiAvailable + " ¡Entradas disponibles!\n")
		} else {
			b.WriteString(emojiAvailable + " ¡Entradas disponibles! (fechas a confirmar)\n")
		}
	case detect.CollapsedSoldOut:
		b.WriteString(emojiSoldOut + " Entradas agotadas\n")
	default:
		b.WriteString(emojiUnknown + " Estado desconocido\n")
	}

	b.WriteString(titleLine(current) + "\n")
	if len(current.Dates) > 0 {
		b.WriteString(fmt.Sprintf("%s Fechas: %s\n", emojiDates, strings.Join(current.Dates, ", ")))
	}

	if bothAvailable(change) && change.Previous.Detail() != current.Detail() {
		b.WriteString(fmt.Sprintf("%s Cambio de funciones: %s\n", emojiChange,
			detailDiff(change.Previous.Detail(), current.Detail())))
	}

	b.WriteString(fmt.Sprintf("%s %s", emojiLink, current.URL))
	return f.sign(b.String())
}

func bothAvailable(change monitor.StateChange) bool {
	return change.PreviousKnown &&
		change.Previous.Status == detect.CollapsedAvailable &&
		change.Current.Status == detect.CollapsedAvailable
}

// detailDiff renders a compact old-to-new summary of the date list change.
func detailDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var added, removed []string
	for _, d := range diffs {
		text := strings.Trim(d.Text, " ,")
		if text == "" {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added = append(added, text)
		case diffmatchpatch.DiffDelete:
			removed = append(removed, text)
		}
	}

	var parts []string
	if len(added) > 0 {
		parts = append(parts, "+"+strings.Join(added, " +"))
	}
	if len(removed) > 0 {
		parts = append(parts, "-"+strings.Join(removed, " -"))
	}
	if len(parts) == 0 {
		return "sin cambios"
	}
	return strings.Join(parts, " ")
}

// FormatStartup renders the service startup announcement.
func (f Formatter) FormatStartup(targets []string) string {
	var b strings.Builder
	b.WriteString("✅ Monitor de entradas iniciado\n")
	b.WriteString(fmt.Sprintf("Vigilando %d URL(s), avisos al detectar disponibilidad.", len(targets)))
	return f.sign(b.String())
}

// FormatTargetList renders the /lista reply: every target with its index,
// status emoji, and title.
func (f Formatter) FormatTargetList(states []monitor.TargetState) string {
	if len(states) == 0 {
		return f.sign("No hay URLs configuradas.")
	}

	var b strings.Builder
	b.WriteString("Objetivos monitoreados:\n")
	for i, state := range states {
		b.WriteString(fmt.Sprintf("%d. %s %s\n", i+1, statusEmoji(state.Status), titleOrURL(state)))
	}
	return f.sign(strings.TrimRight(b.String(), "\n"))
}

// FormatTargetStatus renders the /estado N reply for one target.
func (f Formatter) FormatTargetStatus(state monitor.TargetState) string {
	var b strings.Builder
	b.WriteString(titleLine(state) + "\n")
	b.WriteString(fmt.Sprintf("Estado: %s %s\n", statusEmoji(state.Status), statusLabel(state.RawStatus)))
	if len(state.Dates) > 0 {
		b.WriteString(fmt.Sprintf("%s Fechas: %s\n", emojiDates, strings.Join(state.Dates, ", ")))
	}
	if state.LastError != "" {
		b.WriteString(fmt.Sprintf("⚠️ Último error: %s\n", html.EscapeString(state.LastError)))
	}
	if !state.LastCheckedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Último chequeo: %s\n", state.LastCheckedAt.Format("02/01/2006 15:04")))
	}
	b.WriteString(fmt.Sprintf("%s %s", emojiLink, state.URL))
	return f.sign(b.String())
}

// SectorReport is the per-date sector listing for one target.
type SectorReport struct {
	Date    string
	Sectors []detect.SectorAvailability
}

// FormatSectorReport renders the /sectores N reply.
func (f Formatter) FormatSectorReport(state monitor.TargetState, reports []SectorReport) string {
	lines := []string{fmt.Sprintf("%s <b>%s</b> — Sectores disponibles:", emojiTitle, html.EscapeString(titleOrURL(state)))}

	if len(reports) == 0 {
		lines = append(lines, "(sin sectores)")
	}
	for _, report := range reports {
		if len(report.Sectors) == 0 {
			lines = append(lines, fmt.Sprintf("%s: (sin sectores)", report.Date))
			continue
		}
		names := make([]string, 0, len(report.Sectors))
		for _, sector := range report.Sectors {
			if sector.AvailableCount > 1 {
				names = append(names, fmt.Sprintf("%s (%d)", sector.Name, sector.AvailableCount))
			} else {
				names = append(names, sector.Name)
			}
		}
		lines = append(lines, fmt.Sprintf("%s: %s", report.Date, strings.Join(names, ", ")))
	}
	return f.sign(strings.Join(lines, "\n"))
}

// FormatUsage renders the correction for a malformed indexed command.
func (f Formatter) FormatUsage(command, example string) string {
	return f.sign(fmt.Sprintf("Usá: %s N (ej: %s)", command, example))
}

// FormatIndexOutOfRange renders the reply for an index past the target list.
func (f Formatter) FormatIndexOutOfRange(max int) string {
	return f.sign(fmt.Sprintf("Índice fuera de rango (1–%d).", max))
}

// FormatCheckFailure renders the reply when an on-demand page visit failed.
func (f Formatter) FormatCheckFailure(state monitor.TargetState) string {
	return f.sign(fmt.Sprintf("⚠️ No pude revisar %s ahora, probá de nuevo en un rato.",
		html.EscapeString(titleOrURL(state))))
}

// FormatHelp renders the /ayuda reply.
func (f Formatter) FormatHelp() string {
	help := strings.Join([]string{
		"Comandos:",
		"/lista — objetivos monitoreados y su estado",
		"/estado N — detalle del objetivo N",
		"/sectores N — sectores disponibles por fecha del objetivo N",
		"/ayuda — esta ayuda",
	}, "\n")
	return f.sign(help)
}

func (f Formatter) sign(message string) string {
	if f.Signature == "" {
		return message
	}
	return message + "\n" + f.Signature
}

func titleLine(state monitor.TargetState) string {
	return fmt.Sprintf("%s <b>%s</b>", emojiTitle, html.EscapeString(titleOrURL(state)))
}

func titleOrURL(state monitor.TargetState) string {
	if state.Title != "" {
		return state.Title
	}
	return state.URL
}

func statusEmoji(status detect.CollapsedStatus) string {
	switch status {
	case detect.CollapsedAvailable:
		return emojiAvailable
	case detect.CollapsedSoldOut:
		return emojiSoldOut
	default:
		return emojiUnknown
	}
}

func statusLabel(status detect.AvailabilityStatus) string {
	switch status {
	case detect.StatusAvailableWithDates:
		return "disponible (con fechas)"
	case detect.StatusAvailableNoDates:
		return "disponible (fechas a confirmar)"
	case detect.StatusSoldOut:
		return "agotado"
	default:
		return "desconocido"
	}
}
