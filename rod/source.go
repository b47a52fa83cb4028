// Package rod implements listing navigation against the SERVIR portal using
// Chrome browser automation. The portal is a JSF application: pagination and
// detail views are server-side view state, so every interaction goes through
// a single live page.
package rod

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/franco-sebastiani/servir"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultListingURL is the public job listing of the SERVIR portal.
const DefaultListingURL = "https://app.servir.gob.pe/DifusionOfertasExterno/faces/consultas/ofertas_laborales.xhtml"

// stableWindow is how long the page must stay unchanged after an
// interaction before we read it. The portal re-renders via ajax without
// navigation events, so WaitLoad alone is not enough.
const stableWindow = time.Second

const (
	itemButtonXPath = `//button[contains(normalize-space(.), "Ver más")]`
	nextButtonXPath = `//button[contains(@class, "btn-paginator")][contains(normalize-space(.), "Sig.")]`
)

var pageIndicatorRE = regexp.MustCompile(`Página\s+(\d+)\s+de\s+(\d+)`)

// Ensure Source implements servir.ListingSource at compile time.
var _ servir.ListingSource = (*Source)(nil)

// Source drives the live listing. It owns one browser page whose pagination
// position is the run's cursor; Source is NOT safe for concurrent use.
type Source struct {
	browser    *rod.Browser
	launcher   *launcher.Launcher
	page       *rod.Page
	parser     servir.DetailParser
	listingURL string
	now        func() time.Time
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithListingURL overrides DefaultListingURL.
func WithListingURL(url string) SourceOption {
	return func(s *Source) {
		s.listingURL = url
	}
}

// NewSource launches a headless Chrome browser, opens the listing page and
// verifies it rendered. Close must be called when the Source is no longer
// needed.
func NewSource(parser servir.DetailParser, opts ...SourceOption) (*Source, error) {
	s := &Source{
		parser:     parser,
		listingURL: DefaultListingURL,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	s.browser = browser
	s.launcher = lnchr

	page, err := browser.Page(proto.TargetCreateTarget{URL: s.listingURL})
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("opening listing page: %w", err)
	}
	s.page = page

	if err := page.WaitLoad(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("loading listing page: %w", err)
	}

	if err := s.checkNotErrorPage(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// TotalPages reads the portal's "Página N de M" indicator and returns M.
func (s *Source) TotalPages(ctx context.Context) (int, error) {
	html, err := s.page.Context(ctx).HTML()
	if err != nil {
		return 0, err
	}
	_, total, ok := parsePageIndicator(html)
	if !ok {
		return 0, servir.Errorf(servir.EUNAVAILABLE, "page indicator not found; the portal layout may have changed")
	}
	return total, nil
}

// ItemCount counts the detail buttons on the current listing page.
func (s *Source) ItemCount(ctx context.Context) (int, error) {
	buttons, err := s.page.Context(ctx).ElementsX(itemButtonXPath)
	if err != nil {
		return 0, err
	}
	return len(buttons), nil
}

// ExtractItem opens the detail view of the item at index, parses it, and
// returns to the listing. The portal's JavaScript routing breaks history
// navigation, so the way back is a fresh navigation to the listing URL; the
// server-side view state restores the pagination position.
func (s *Source) ExtractItem(ctx context.Context, index int) (*servir.RawPosting, error) {
	page := s.page.Context(ctx)

	// Button references go stale after every round trip, so they are
	// re-resolved per item.
	buttons, err := page.ElementsX(itemButtonXPath)
	if err != nil {
		return nil, err
	}
	if index >= len(buttons) {
		return nil, servir.Errorf(servir.ENOTFOUND, "no item at index %d on the current page", index)
	}

	if err := buttons[index].Click(proto.InputMouseButtonLeft, 1); err != nil {
		return nil, s.failAndRecover(ctx, err)
	}
	if err := page.WaitStable(stableWindow); err != nil {
		return nil, s.failAndRecover(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return nil, s.failAndRecover(ctx, err)
	}

	posting, parseErr := s.parser.Parse(html, s.now())

	if err := s.backToListing(ctx); err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return posting, nil
}

// NextPage clicks the "Sig." pagination button. It returns false without
// clicking when the button reports aria-disabled, which the portal sets on
// the last page.
func (s *Source) NextPage(ctx context.Context) (bool, error) {
	page := s.page.Context(ctx)

	button, err := page.ElementX(nextButtonXPath)
	if err != nil {
		return false, err
	}

	disabled, err := button.Attribute("aria-disabled")
	if err != nil {
		return false, err
	}
	if disabled != nil && *disabled == "true" {
		return false, nil
	}

	if err := button.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, err
	}
	if err := page.WaitStable(stableWindow); err != nil {
		return false, err
	}
	return true, nil
}

// Close releases browser resources.
func (s *Source) Close() error {
	var err error
	if s.browser != nil {
		err = s.browser.Close()
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher = nil
	}
	return err
}

// failAndRecover navigates back to the listing after a failed interaction so
// the next item starts from a known state, then returns the original error.
func (s *Source) failAndRecover(ctx context.Context, cause error) error {
	_ = s.backToListing(ctx)
	return cause
}

func (s *Source) backToListing(ctx context.Context) error {
	page := s.page.Context(ctx)
	if err := page.Navigate(s.listingURL); err != nil {
		return fmt.Errorf("returning to listing: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("returning to listing: %w", err)
	}
	return page.WaitStable(stableWindow)
}

// checkNotErrorPage catches the portal's outage and challenge pages, which
// load fine but carry no listing.
func (s *Source) checkNotErrorPage() error {
	info, err := s.page.Info()
	if err != nil {
		return err
	}
	title := strings.ToLower(info.Title)
	if strings.Contains(title, "error") || strings.Contains(title, "cloudflare") {
		return servir.Errorf(servir.EUNAVAILABLE, "portal served an error page: %q", info.Title)
	}
	return nil
}

// parsePageIndicator extracts the current and total page numbers from the
// listing HTML.
func parsePageIndicator(html string) (current, total int, ok bool) {
	m := pageIndicatorRE.FindStringSubmatch(html)
	if m == nil {
		return 0, 0, false
	}
	current, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	total, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return current, total, true
}
