package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"course-intel/browser"
)

// fakeDoc is one page of a fake site: visible text plus the elements each
// selector matches.
type fakeDoc struct {
	text     string
	nodes    map[string][]fakeNode
	queryErr map[string]error
	// panicOnText makes BodyText panic, standing in for a broken backend.
	panicOnText bool
}

type fakeNode struct {
	text string
	href string
}

type fakeBrowser struct {
	mu       sync.Mutex
	site     map[string]*fakeDoc
	navErrs  map[string][]error
	openErr  error
	noShots  bool
	opened   int
	closed   int
	navigate map[string]int
}

func newFakeBrowser(site map[string]*fakeDoc) *fakeBrowser {
	return &fakeBrowser{
		site:     site,
		navErrs:  map[string][]error{},
		navigate: map[string]int{},
	}
}

func (b *fakeBrowser) NewPage(ctx context.Context) (browser.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	b.opened++
	return &fakePage{b: b}, nil
}

func (b *fakeBrowser) Close() error { return nil }

func (b *fakeBrowser) counts() (opened, closed int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened, b.closed
}

type fakePage struct {
	b   *fakeBrowser
	url string
	doc *fakeDoc
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.b.mu.Lock()
	defer p.b.mu.Unlock()
	p.b.navigate[url]++
	if errs := p.b.navErrs[url]; len(errs) > 0 {
		err := errs[0]
		p.b.navErrs[url] = errs[1:]
		return err
	}
	doc, ok := p.b.site[url]
	if !ok {
		return fmt.Errorf("navigate %s: net::ERR_NAME_NOT_RESOLVED", url)
	}
	p.url, p.doc = url, doc
	return nil
}

func (p *fakePage) Wait(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	if p.b.noShots {
		return nil, fmt.Errorf("fake: %w", errors.ErrUnsupported)
	}
	return []byte("png:" + p.url), nil
}

func (p *fakePage) QueryAll(ctx context.Context, selector string) ([]browser.Element, error) {
	if p.doc == nil {
		return nil, errors.New("no document")
	}
	if err := p.doc.queryErr[selector]; err != nil {
		return nil, err
	}
	var els []browser.Element
	for _, n := range p.doc.nodes[selector] {
		els = append(els, &fakeElement{page: p, node: n})
	}
	return els, nil
}

func (p *fakePage) BodyText(ctx context.Context) (string, error) {
	if p.doc == nil {
		return "", errors.New("no document")
	}
	if p.doc.panicOnText {
		panic("renderer crashed")
	}
	return p.doc.text, nil
}

func (p *fakePage) URL() string { return p.url }

func (p *fakePage) Close() error {
	p.b.mu.Lock()
	defer p.b.mu.Unlock()
	p.b.closed++
	return nil
}

type fakeElement struct {
	page *fakePage
	node fakeNode
}

func (e *fakeElement) Text(ctx context.Context) (string, error) {
	return e.node.text, nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.node.href == "" {
		return errors.New("not a link")
	}
	return e.page.Navigate(ctx, e.node.href)
}

func nodes(texts ...string) []fakeNode {
	out := make([]fakeNode, len(texts))
	for i, t := range texts {
		out[i] = fakeNode{text: t}
	}
	return out
}

func repeat(n int, text string) []fakeNode {
	out := make([]fakeNode, n)
	for i := range out {
		out[i] = fakeNode{text: fmt.Sprintf("%s %d", text, i+1)}
	}
	return out
}

// fakePersister records saved names.
type fakePersister struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (f *fakePersister) Save(ctx context.Context, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = map[string][]byte{}
	}
	f.saved[name] = data
	return "mem://" + name, nil
}
