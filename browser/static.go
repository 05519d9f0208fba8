package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"course-intel/utils"
)

// Static fetches pages over plain HTTP and queries the served HTML. It runs
// no JavaScript, so client-rendered catalogs come back mostly empty; it
// exists for machines without Chrome and for fast smoke runs.
type Static struct {
	client *resty.Client
}

func NewStatic(timeout time.Duration) *Static {
	client := resty.New()
	client.SetHeader("User-Agent", randomUserAgent())
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.5")
	client.SetTimeout(timeout)
	return &Static{client: client}
}

func (s *Static) NewPage(context.Context) (Page, error) {
	return &staticPage{client: s.client}, nil
}

func (s *Static) Close() error {
	return nil
}

type staticPage struct {
	client *resty.Client
	doc    *goquery.Document
	url    string
}

func (p *staticPage) Navigate(ctx context.Context, rawURL string) error {
	res, err := p.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", rawURL, err)
	}
	if res.IsError() {
		return fmt.Errorf("navigate %s: status %d", rawURL, res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return fmt.Errorf("parse %s: %w", rawURL, err)
	}
	doc.Find("script, style, noscript, template").Remove()

	p.doc = doc
	p.url = rawURL
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		p.url = res.RawResponse.Request.URL.String()
	}
	return nil
}

func (p *staticPage) Wait(ctx context.Context, d time.Duration) error {
	return utils.Sleep(ctx, d)
}

func (p *staticPage) Screenshot(context.Context) ([]byte, error) {
	return nil, fmt.Errorf("static backend cannot render: %w", errors.ErrUnsupported)
}

func (p *staticPage) QueryAll(_ context.Context, selector string) ([]Element, error) {
	if p.doc == nil {
		return nil, errors.New("no document loaded")
	}

	var els []Element
	p.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		els = append(els, &staticElement{page: p, sel: sel})
	})
	return els, nil
}

func (p *staticPage) BodyText(context.Context) (string, error) {
	if p.doc == nil {
		return "", errors.New("no document loaded")
	}
	return strings.Join(strings.Fields(p.doc.Find("body").Text()), " "), nil
}

func (p *staticPage) URL() string {
	return p.url
}

func (p *staticPage) Close() error {
	p.doc = nil
	return nil
}

type staticElement struct {
	page *staticPage
	sel  *goquery.Selection
}

func (e *staticElement) Text(context.Context) (string, error) {
	return e.sel.Text(), nil
}

// Click follows the element's href, resolved against the current page.
func (e *staticElement) Click(ctx context.Context) error {
	href, ok := e.sel.Attr("href")
	if !ok || strings.TrimSpace(href) == "" {
		return errors.New("element has no href to follow")
	}

	base, err := url.Parse(e.page.url)
	if err != nil {
		return fmt.Errorf("bad page url %q: %w", e.page.url, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return fmt.Errorf("bad href %q: %w", href, err)
	}
	return e.page.Navigate(ctx, base.ResolveReference(ref).String())
}
