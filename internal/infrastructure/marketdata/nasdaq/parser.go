package nasdaq

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmanzanog/nasdaq-finance/internal/domain"
)

// Selectors for the parts of the quote page this client reads.
const (
	ticksTableSelector    = "#AfterHoursPagingContents_Table tr"
	lastPageLinkSelector  = "#quotes_content_left_lb_LastPage"
	lastSaleSelector      = "#qwidget_lastsale"
	companyNameSelector   = ".greenCompanyName"
	exchangeSelector      = "#qbar_exchangeLabel"
	industrySelector      = "#qbar_sectorLabel a"
	logoSelector          = "#logo-wrap img"
	netChangeSelector     = "#qwidget_netchange"
	percentChangeSelector = "#qwidget_percent"

	logoSourceAttr = "x-defer-src"
	pageNoParam    = "pageno"
)

// parseTicks returns one tick per data row of the trade table, top to bottom.
// The first row is the header.
func parseTicks(doc *goquery.Document) []domain.Tick {
	rows := doc.Find(ticksTableSelector)
	ticks := make([]domain.Tick, 0, rows.Length())

	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}

		cells := row.Find("td")
		ticks = append(ticks, domain.NewTick(
			strings.TrimSpace(cells.Eq(0).Text()),
			domain.ParseNumber(stripCurrency(cells.Eq(1).Text())),
			domain.ParseNumber(cells.Eq(2).Text()),
		))
	})

	return ticks
}

// parseLastPageNumber reads the page count of a section from the "last page"
// navigation link. It reports false when the link is missing or its target
// has no usable pageno parameter.
func parseLastPageNumber(doc *goquery.Document) (int, bool) {
	href, ok := doc.Find(lastPageLinkSelector).First().Attr("href")
	if !ok || href == "" {
		return 0, false
	}

	target, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return 0, false
	}

	page, err := strconv.Atoi(target.Query().Get(pageNoParam))
	if err != nil || page < 1 {
		return 0, false
	}
	// Page identifiers must stay inside the section.
	return min(page, pagesPerSection-1), true
}

func parsePrice(doc *goquery.Document) domain.Decimal {
	return domain.ParseNumber(stripCurrency(doc.Find(lastSaleSelector).First().Text()))
}

func parseInfo(doc *goquery.Document) domain.CompanyInfo {
	image, _ := doc.Find(logoSelector).First().Attr(logoSourceAttr)

	return domain.CompanyInfo{
		Name:               strings.TrimSpace(doc.Find(companyNameSelector).First().Text()),
		Exchange:           strings.TrimSpace(strings.Replace(doc.Find(exchangeSelector).First().Text(), "Exchange:", "", 1)),
		Industry:           strings.TrimSpace(doc.Find(industrySelector).First().Text()),
		Image:              image,
		Price:              parsePrice(doc),
		PriceChange:        strings.TrimSpace(doc.Find(netChangeSelector).First().Text()),
		PriceChangePercent: strings.TrimSpace(strings.Replace(doc.Find(percentChangeSelector).First().Text(), "%", "", 1)),
	}
}

func stripCurrency(s string) string {
	return strings.Replace(strings.TrimSpace(s), "$", "", 1)
}
