package page // gofmt

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"webcrawler/internal/app/domain"
	"webcrawler/internal/usecase"
)

type page struct {
	doc    *goquery.Document
	logger *zap.Logger
}

func NewPage(raw io.Reader, logger *zap.Logger) (usecase.Page, error) {
	doc, err := goquery.NewDocumentFromReader(raw)
	if err != nil {
		logger.Error("new page error", zap.Error(err))
		return nil, err
	}
	return &page{doc: doc, logger: logger}, nil
}

func (p *page) GetTitle(ctx context.Context) string {
	select {
	case <-ctx.Done():
		p.logger.Debug("context done in get title")
		return ""
	default:
		return strings.TrimSpace(p.doc.Find("title").First().Text())
	}
}

// GetLinks returns the absolute urls of every hyperlink of the page. Paths
// starting with "/" are completed with the authority of d's seed; other
// hrefs are kept only when they parse as absolute urls.
func (p *page) GetLinks(ctx context.Context, d *domain.Domain) []*url.URL {
	select {
	case <-ctx.Done():
		p.logger.Debug("context done in get links")
		return nil
	default:
		var urls []*url.URL
		p.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			href = strings.TrimSpace(href)
			if link := resolve(d, href); link != nil {
				urls = append(urls, link)
				return
			}
			p.logger.Debug(fmt.Sprintf("skip href %q", href))
		})
		return urls
	}
}

func resolve(d *domain.Domain, href string) *url.URL {
	if strings.HasPrefix(href, "/") {
		link, err := d.Resolve(href)
		if err != nil {
			return nil
		}
		return link
	}
	link, err := url.Parse(href)
	if err != nil || !link.IsAbs() {
		return nil
	}
	return link
}
