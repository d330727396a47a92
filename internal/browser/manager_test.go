package browser

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entradalert/internal/common"
	"entradalert/internal/config"
)

func TestManagerOpenPageBeforeStart(t *testing.T) {
	m := NewManager(config.NewDefaultBrowserConfig(), zerolog.Nop())

	page, err := m.OpenPage(context.Background(), "https://tickets.example/evento/gran-show")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrServiceUnavailable)
	assert.Nil(t, page)
}

func TestManagerStopBeforeStart(t *testing.T) {
	m := NewManager(config.NewDefaultBrowserConfig(), zerolog.Nop())

	// Stop on a manager that never started is a no-op.
	m.Stop()
	assert.False(t, m.IsRunning())
}
