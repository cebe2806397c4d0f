package download

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrJamesThe3rd/covidwaw/internal/covid"
	"github.com/MrJamesThe3rd/covidwaw/internal/encoding"
)

// archiveNameLayouts are the date spellings the ministry used in archive file
// names, tried in this order for every link.
var archiveNameLayouts = []string{
	"02_01_06",
	"02_01_2006",
	"20060102",
	"020106",
}

type ministryPage struct {
	doc *goquery.Document
}

func (s *Service) fetchMinistry(ctx context.Context, day time.Time) error {
	url, err := s.ministryURL(ctx, day)
	if err != nil {
		return err
	}

	body, err := s.get(ctx, url)
	if err != nil {
		return err
	}

	data, err := encoding.FromWindows1250(body)
	if err != nil {
		return err
	}

	return s.store.Write(day, covid.RegimeMinistry, data)
}

// ministryURL looks the day up on the archive page first and falls back to
// the current-day link of the main page.
func (s *Service) ministryURL(ctx context.Context, day time.Time) (string, error) {
	if s.ministryArchive == nil {
		doc, err := s.document(ctx, s.sources.MinistryArchiveURL)
		if err != nil {
			return "", fmt.Errorf("ministry archive: %w", err)
		}

		s.ministryArchive = &ministryPage{doc: doc}
	}

	if href, ok := archiveLink(s.ministryArchive.doc, day); ok {
		return s.sources.MinistryBaseURL + href, nil
	}

	doc, err := s.document(ctx, s.sources.MinistryMainURL)
	if err != nil {
		return "", fmt.Errorf("ministry main page: %w", err)
	}

	if href, ok := currentLink(doc, day); ok {
		if strings.HasPrefix(href, "/") {
			href = s.sources.MinistryBaseURL + href
		}

		return href, nil
	}

	return "", fmt.Errorf("ministry: %w", errNotPublished)
}

func (s *Service) document(ctx context.Context, url string) (*goquery.Document, error) {
	body, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	return doc, nil
}

// archiveLink finds the first archive entry whose file name starts with the
// day in one of the known spellings.
func archiveLink(doc *goquery.Document, day time.Time) (string, bool) {
	var href string

	doc.Find("#main-content a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		name := strings.ReplaceAll(a.Find(".extension").First().Text(), "\u200b", "")

		for _, layout := range archiveNameLayouts {
			if strings.HasPrefix(name, day.Format(layout)) {
				href, _ = a.Attr("href")
				return false
			}
		}

		return true
	})

	return href, href != ""
}

// currentLink returns the download link of the main page when the page
// reports figures for day.
func currentLink(doc *goquery.Document, day time.Time) (string, bool) {
	stats := doc.Find(".global-stats > p:first-child").First().Text()
	if !strings.Contains(stats, day.Format("02.01.2006")) {
		return "", false
	}

	href, ok := doc.Find(".file-download:not([v-if])").First().Attr("href")

	return href, ok && href != ""
}
