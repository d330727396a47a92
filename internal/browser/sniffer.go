package browser

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"
)

// SniffedResponse is one captured background JSON payload.
type SniffedResponse struct {
	URL  string
	Body []byte
}

type sniffHit struct {
	requestID proto.NetworkRequestID
	url       string
}

// Sniffer passively records background network responses whose URL matches
// one of the hints and whose content type is JSON. It is a scoped resource:
// StartSniffer subscribes, Stop tears the subscription down and returns what
// was captured. Bodies are fetched lazily at Stop so slow responses have
// finished streaming by then.
type Sniffer struct {
	page   *rod.Page
	logger zerolog.Logger
	cancel context.CancelFunc
	hints  []string

	mu   sync.Mutex
	hits []sniffHit
}

// StartSniffer begins collecting matching responses on the page.
func StartSniffer(page *rod.Page, urlHints []string, logger zerolog.Logger) *Sniffer {
	ctx, cancel := context.WithCancel(page.GetContext())

	hints := make([]string, len(urlHints))
	for i, h := range urlHints {
		hints[i] = strings.ToLower(h)
	}

	s := &Sniffer{
		page:   page,
		logger: logger.With().Str("component", "ResponseSniffer").Logger(),
		cancel: cancel,
		hints:  hints,
	}

	scoped := page.Context(ctx)
	go scoped.EachEvent(func(e *proto.NetworkResponseReceived) {
		if e.Response == nil {
			return
		}
		if !s.matches(e.Response.URL, e.Response.MIMEType) {
			return
		}
		s.mu.Lock()
		s.hits = append(s.hits, sniffHit{requestID: e.RequestID, url: e.Response.URL})
		s.mu.Unlock()
	})()

	return s
}

func (s *Sniffer) matches(url, mimeType string) bool {
	if !strings.Contains(strings.ToLower(mimeType), "json") {
		return false
	}
	lowered := strings.ToLower(url)
	for _, hint := range s.hints {
		if strings.Contains(lowered, hint) {
			return true
		}
	}
	return false
}

// Stop unsubscribes and returns the captured payloads. Responses whose body
// can no longer be read are skipped.
func (s *Sniffer) Stop() []SniffedResponse {
	s.cancel()

	s.mu.Lock()
	hits := make([]sniffHit, len(s.hits))
	copy(hits, s.hits)
	s.mu.Unlock()

	var out []SniffedResponse
	for _, hit := range hits {
		result, err := proto.NetworkGetResponseBody{RequestID: hit.requestID}.Call(s.page)
		if err != nil {
			s.logger.Debug().Err(err).Str("url", hit.url).Msg("Response body no longer available")
			continue
		}
		body := []byte(result.Body)
		if result.Base64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(result.Body)
			if err != nil {
				continue
			}
			body = decoded
		}
		out = append(out, SniffedResponse{URL: hit.url, Body: body})
	}

	s.logger.Debug().Int("captured", len(out)).Msg("Response sniffer stopped")
	return out
}
