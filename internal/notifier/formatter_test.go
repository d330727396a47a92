package notifier

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"entradalert/internal/detect"
	"entradalert/internal/monitor"
)

func TestFormatTransition(t *testing.T) {
	f := Formatter{Signature: "— entradalert"}

	t.Run("became available with dates", func(t *testing.T) {
		msg := f.FormatTransition(monitor.StateChange{
			Previous:      monitor.TargetState{Status: detect.CollapsedSoldOut},
			PreviousKnown: true,
			Current: monitor.TargetState{
				URL:       "https://tickets.example/recital",
				Status:    detect.CollapsedAvailable,
				RawStatus: detect.StatusAvailableWithDates,
				Dates:     []string{"01/12/2025", "15/12/2025"},
				Title:     "Recital en el Luna",
			},
			Forced: true,
		})

		assert.Contains(t, msg, "¡Entradas disponibles!")
		assert.Contains(t, msg, "🧭 <b>Recital en el Luna</b>")
		assert.Contains(t, msg, "📅 Fechas: 01/12/2025, 15/12/2025")
		assert.Contains(t, msg, "https://tickets.example/recital")
		assert.Contains(t, msg, "— entradalert")
	})

	t.Run("available without dates", func(t *testing.T) {
		msg := f.FormatTransition(monitor.StateChange{
			Current: monitor.TargetState{
				URL:       "https://tickets.example/show",
				Status:    detect.CollapsedAvailable,
				RawStatus: detect.StatusAvailableNoDates,
				Title:     "Show",
			},
		})

		assert.Contains(t, msg, "fechas a confirmar")
		assert.NotContains(t, msg, "📅")
	})

	t.Run("sold out", func(t *testing.T) {
		msg := f.FormatTransition(monitor.StateChange{
			Previous:      monitor.TargetState{Status: detect.CollapsedAvailable},
			PreviousKnown: true,
			Current: monitor.TargetState{
				URL:       "https://tickets.example/show",
				Status:    detect.CollapsedSoldOut,
				RawStatus: detect.StatusSoldOut,
				Title:     "Show",
			},
		})

		assert.Contains(t, msg, "Entradas agotadas")
	})

	t.Run("detail change between available states", func(t *testing.T) {
		msg := f.FormatTransition(monitor.StateChange{
			Previous: monitor.TargetState{
				Status: detect.CollapsedAvailable,
				Dates:  []string{"01/12/2025"},
			},
			PreviousKnown: true,
			Current: monitor.TargetState{
				URL:       "https://tickets.example/show",
				Status:    detect.CollapsedAvailable,
				RawStatus: detect.StatusAvailableWithDates,
				Dates:     []string{"01/12/2025", "15/12/2025"},
				Title:     "Show",
			},
		})

		assert.Contains(t, msg, "🔄 Cambio de funciones")
		assert.Contains(t, msg, "+15/12/2025")
	})

	t.Run("html in title is escaped", func(t *testing.T) {
		msg := f.FormatTransition(monitor.StateChange{
			Current: monitor.TargetState{
				URL:       "https://tickets.example/show",
				Status:    detect.CollapsedAvailable,
				RawStatus: detect.StatusAvailableNoDates,
				Title:     "Rock & Pop <Live>",
			},
		})

		assert.Contains(t, msg, "Rock &amp; Pop &lt;Live&gt;")
	})
}

func TestFormatTargetList(t *testing.T) {
	f := Formatter{Signature: "— entradalert"}

	t.Run("mixed statuses", func(t *testing.T) {
		msg := f.FormatTargetList([]monitor.TargetState{
			{URL: "https://a.example", Status: detect.CollapsedAvailable, Title: "Primero"},
			{URL: "https://b.example", Status: detect.CollapsedSoldOut, Title: "Segundo"},
			{URL: "https://c.example", Status: detect.CollapsedUnknown},
		})

		assert.Contains(t, msg, "1. 🎟 Primero")
		assert.Contains(t, msg, "2. 🚫 Segundo")
		assert.Contains(t, msg, "3. ❓ https://c.example")
	})

	t.Run("no targets", func(t *testing.T) {
		assert.Contains(t, f.FormatTargetList(nil), "No hay URLs configuradas")
	})
}

func TestFormatTargetStatus(t *testing.T) {
	f := Formatter{}
	msg := f.FormatTargetStatus(monitor.TargetState{
		URL:           "https://tickets.example/show",
		Status:        detect.CollapsedUnknown,
		RawStatus:     detect.StatusUnknown,
		Title:         "Show",
		LastError:     "page load timeout",
		LastCheckedAt: time.Date(2025, 10, 1, 14, 30, 0, 0, time.UTC),
	})

	assert.Contains(t, msg, "desconocido")
	assert.Contains(t, msg, "page load timeout")
	assert.Contains(t, msg, "01/10/2025 14:30")
}

func TestFormatSectorReport(t *testing.T) {
	f := Formatter{Signature: "— entradalert"}

	t.Run("sectors per date", func(t *testing.T) {
		msg := f.FormatSectorReport(
			monitor.TargetState{Title: "Recital", URL: "https://tickets.example/recital"},
			[]SectorReport{
				{Date: "01/12/2025", Sectors: []detect.SectorAvailability{
					{Name: "Campo", AvailableCount: 120},
					{Name: "Platea", AvailableCount: 1},
				}},
				{Date: "15/12/2025"},
			},
		)

		assert.Contains(t, msg, "🧭 <b>Recital</b> — Sectores disponibles:")
		assert.Contains(t, msg, "01/12/2025: Campo (120), Platea")
		assert.Contains(t, msg, "15/12/2025: (sin sectores)")
		assert.Contains(t, msg, "— entradalert")
	})

	t.Run("no dates at all", func(t *testing.T) {
		msg := f.FormatSectorReport(monitor.TargetState{Title: "Recital"}, nil)
		assert.Contains(t, msg, "(sin sectores)")
	})
}

func TestFormatHelp(t *testing.T) {
	msg := Formatter{}.FormatHelp()

	for _, command := range []string{"/lista", "/estado N", "/sectores N", "/ayuda"} {
		assert.Contains(t, msg, command)
	}
}
