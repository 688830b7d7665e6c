// Package scrape pulls the apartment exposition from the developer site.
// Selectors are fixed to the site's search result markup.
package scrape

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"tdsk-analytics/internal/model"
)

const (
	sourceDomain    = "t-dsk.ru"
	sourceDeveloper = "ТДСК"

	// Listing cards come in two exact class-attribute variants:
	// promoted ("action") cards and plain ones.
	cardSelector = `div[class='search-result__list-item search-result__list-item--action list-item'],` +
		` div[class='search-result__list-item list-item']`
)

// Scraper walks the paginated apartment search of the developer site and
// yields raw listing rows for normalization.
type Scraper struct {
	baseURL string
	fetcher *Fetcher

	// Now stamps published_at/actualized_at; replaced in tests.
	Now func() time.Time
}

// New builds a Scraper for the given search URL.
func New(baseURL, userAgent string) *Scraper {
	return &Scraper{
		baseURL: baseURL,
		fetcher: NewFetcher(userAgent),
		Now:     time.Now,
	}
}

// NewWithFetcher builds a Scraper around an existing Fetcher.
func NewWithFetcher(baseURL string, fetcher *Fetcher) *Scraper {
	return &Scraper{baseURL: baseURL, fetcher: fetcher, Now: time.Now}
}

// MaxCount reads the total number of available apartments the site reports
// on the first search page.
func (s *Scraper) MaxCount(ctx context.Context) (int, error) {
	doc, err := s.document(ctx, s.baseURL)
	if err != nil {
		return 0, err
	}

	text := strings.TrimSpace(doc.Find("span.search-result__count-value").First().Text())
	if text == "" {
		return 0, fmt.Errorf("apartment count not found on %s", s.baseURL)
	}
	count, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("bad apartment count %q: %w", text, err)
	}
	return count, nil
}

// Page fetches search page n and extracts its listing cards. A page with
// no cards is an error: the site clamps overflowing page numbers to the
// last page, so an empty result means broken markup, not the end.
func (s *Scraper) Page(ctx context.Context, n int) ([]model.RawListing, error) {
	pageURL, err := s.pageURL(n)
	if err != nil {
		return nil, err
	}
	doc, err := s.document(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	cards := doc.Find(cardSelector)
	if cards.Length() == 0 {
		return nil, fmt.Errorf("no apartment cards on page %d", n)
	}

	now := s.Now().UTC()
	var rows []model.RawListing
	var parseErr error

	cards.EachWithBreak(func(_ int, card *goquery.Selection) bool {
		row, err := parseCard(card, now)
		if err != nil {
			parseErr = fmt.Errorf("page %d: %w", n, err)
			return false
		}
		rows = append(rows, row)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	return rows, nil
}

// ScrapeAll walks pages from 1 until the cumulative card count passes the
// reported total or a page comes back empty. No retries beyond the
// fetcher's own; any failed page aborts the scrape.
func (s *Scraper) ScrapeAll(ctx context.Context) ([]model.RawListing, error) {
	maxCount, err := s.MaxCount(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.RawListing
	current := 0

	for page := 1; ; page++ {
		cards, err := s.Page(ctx, page)
		if err != nil {
			return nil, err
		}

		current += len(cards)
		if current > maxCount || len(cards) == 0 {
			break
		}

		rows = append(rows, cards...)
	}

	return rows, nil
}

func (s *Scraper) pageURL(n int) (string, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", s.baseURL, err)
	}
	q := u.Query()
	q.Set("PAGEN_3", strconv.Itoa(n))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *Scraper) document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	body, err := s.fetcher.Get(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return doc, nil
}

// parseCard extracts one apartment card into a raw row. Any missing part
// of the card fails the whole page.
func parseCard(card *goquery.Selection, now time.Time) (model.RawListing, error) {
	link := card.Find("a.search-result__link").First()
	if link.Length() == 0 {
		return model.RawListing{}, fmt.Errorf("apartment card without data link")
	}

	address := strings.TrimSpace(card.Find("div.search-result__object-bottom").First().Text())
	area := strings.TrimSpace(card.Find("div.search-result__td.square").First().Text())
	summary := strings.TrimSpace(card.Find("div.search-result__object-top").First().Text())
	tds := card.Find("div.search-result__td")

	if address == "" || area == "" || summary == "" || tds.Length() < 2 {
		return model.RawListing{}, fmt.Errorf("incomplete apartment card")
	}

	advertID, ok := link.Attr("data-id")
	if !ok {
		return model.RawListing{}, fmt.Errorf("apartment card without data-id")
	}

	stamp := now.Format(time.RFC3339Nano)
	return model.RawListing{
		ID:             uuid.NewString(),
		AdvertID:       strings.TrimSpace(advertID),
		Domain:         sourceDomain,
		Developer:      sourceDeveloper,
		Address:        address,
		GP:             "",
		Description:    summary + " " + address,
		EntranceNumber: strings.TrimSpace(tds.Eq(1).Text()),
		Floor:          strings.TrimSpace(link.AttrOr("data-floor", "")),
		Area:           strings.ReplaceAll(area, ",", "."),
		RoomCount:      strings.TrimSpace(link.AttrOr("data-rooms", "")),
		FlatNumber:     strings.TrimSpace(link.AttrOr("data-number", "")),
		Price:          strings.ReplaceAll(link.AttrOr("data-price", ""), " ", ""),
		PublishedAt:    stamp,
		ActualizedAt:   stamp,
	}, nil
}
