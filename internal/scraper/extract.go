package scraper

import (
	"fmt"
	"strings"

	"github.com/Cyvadra/farewatch/internal/config"
	"github.com/Cyvadra/farewatch/internal/models"
	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxResults is the number of result rows read per check
const DefaultMaxResults = 5

// ExtractResults reads up to max result rows from a rendered results page.
// Rows nested inside another matching row are skipped so that a broad row
// selector does not count a row's own children.
func ExtractResults(html string, sel config.SelectorsConfig, max int) ([]models.CheckResult, error) {
	if max <= 0 {
		max = DefaultMaxResults
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	rows := doc.Find(sel.ResultRow).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.ParentsFiltered(sel.ResultRow).Length() == 0
	})

	var results []models.CheckResult
	rows.EachWithBreak(func(_ int, row *goquery.Selection) bool {
		priceText := firstText(row, sel.Price)
		results = append(results, models.CheckResult{
			Available:     true,
			Price:         ParsePrice(priceText),
			TrainNumber:   models.OrNotAvailable(firstText(row, sel.TrainNumber)),
			DepartureTime: models.OrNotAvailable(firstText(row, sel.DepartureTime)),
			ArrivalTime:   models.OrNotAvailable(firstText(row, sel.ArrivalTime)),
		})
		return len(results) < max
	})

	return results, nil
}

func firstText(row *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.Join(strings.Fields(row.Find(selector).First().Text()), " ")
}
