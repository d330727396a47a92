package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"entradalert/internal/common"
	"entradalert/internal/config"
)

// Manager owns the single headless browser instance shared by the monitor
// loop and on-demand diagnostics. Sessions are serialized: vendor pages are
// checked one at a time to keep memory bounded and to avoid tripping
// anti-bot rate limits.
type Manager struct {
	config    config.BrowserConfig
	logger    zerolog.Logger
	launcher  *launcher.Launcher
	browser   *rod.Browser
	mutex     sync.Mutex
	isRunning bool
}

// NewManager creates a new browser manager
func NewManager(cfg config.BrowserConfig, logger zerolog.Logger) *Manager {
	return &Manager{
		config: cfg,
		logger: logger.With().Str("component", "BrowserManager").Logger(),
	}
}

// Start launches Chrome and connects to it.
func (m *Manager) Start() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.isRunning {
		return nil
	}

	l := launcher.New()
	if m.config.ChromePath != "" {
		l = l.Bin(m.config.ChromePath)
	}
	if m.config.UserDataDir != "" {
		l = l.UserDataDir(m.config.UserDataDir)
	}

	l = l.
		Set("no-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("disable-default-apps").
		Set("disable-sync")

	if m.config.DisableImages {
		l = l.Set("blink-settings", "imagesEnabled=false")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	m.launcher = l

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		m.launcher.Cleanup()
		return fmt.Errorf("failed to connect to browser: %w", err)
	}
	m.browser = browser
	m.isRunning = true

	m.logger.Info().Msg("Headless browser started")
	return nil
}

// Stop closes the browser and cleans up the launcher.
func (m *Manager) Stop() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if !m.isRunning {
		return
	}

	if m.browser != nil {
		if err := m.browser.Close(); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to close browser cleanly")
		}
	}
	if m.launcher != nil {
		m.launcher.Cleanup()
	}

	m.isRunning = false
	m.logger.Info().Msg("Headless browser stopped")
}

// IsRunning reports whether the browser is up.
func (m *Manager) IsRunning() bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.isRunning
}

// OpenPage navigates a fresh page to the URL and waits for it to settle.
// The caller must Close the returned page. Page creation is serialized via
// the manager mutex; the page itself is handed back unlocked.
func (m *Manager) OpenPage(ctx context.Context, url string) (*rod.Page, error) {
	m.mutex.Lock()
	if !m.isRunning {
		m.mutex.Unlock()
		return nil, common.WrapError(common.ErrServiceUnavailable, "browser manager not running")
	}
	browser := m.browser
	m.mutex.Unlock()

	timeout := time.Duration(m.config.PageLoadTimeoutSecs) * time.Second
	pageCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page, err := browser.Context(pageCtx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:  m.config.WindowWidth,
		Height: m.config.WindowHeight,
	}); err != nil {
		m.logger.Warn().Err(err).Msg("Failed to set viewport")
	}

	if m.config.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: m.config.UserAgent,
		}); err != nil {
			m.logger.Warn().Err(err).Msg("Failed to set user agent")
		}
	}

	if err := page.Navigate(url); err != nil {
		page.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("page load timeout for %s: %w", url, err)
	}

	// Best effort wait for network idle; SPA bundles keep loading past the
	// load event and the function selector rides on them.
	if m.config.NetworkIdleTimeoutSecs > 0 {
		idle := time.Duration(m.config.NetworkIdleTimeoutSecs) * time.Second
		if err := page.Timeout(idle).WaitIdle(idle); err != nil {
			m.logger.Debug().Err(err).Str("url", url).Msg("Page did not reach idle before timeout")
		}
	}

	// Let client-side rendering settle. SPA vendors mount the function
	// selector well after the load event.
	if m.config.WaitAfterLoadMs > 0 {
		time.Sleep(time.Duration(m.config.WaitAfterLoadMs) * time.Millisecond)
	}

	// Detach the page from the navigation timeout so later probes use their
	// own deadlines.
	return page.Context(ctx), nil
}
