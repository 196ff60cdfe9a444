package proxy

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"

	"github.com/PuerkitoBio/goquery"

	"github.com/MrSnakeDoc/folio/internal/utils"
)

var (
	// ErrInvalidURL is returned for targets that are not absolute http(s) URLs.
	ErrInvalidURL = errors.New("invalid url")
	// ErrPrivateAddress is returned when a target resolves to a non-public address.
	ErrPrivateAddress = errors.New("address is not public")
)

// Metadata is the link preview extracted from a page.
type Metadata struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	SiteName string `json:"siteName"`
}

const (
	metaTitle    = "og:title"
	metaImage    = "og:image"
	metaSiteName = "og:site_name"
)

// metaContent reads key from <meta property=…>, then from <meta name=…>.
func metaContent(doc *goquery.Document, key string) string {
	for _, attr := range [...]string{"property", "name"} {
		sel := doc.Find(fmt.Sprintf(`meta[%s=%q]`, attr, key)).First()
		if v, ok := sel.Attr("content"); ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// ExtractMetadata pulls the preview fields out of an HTML document. The title
// falls back to <title>. Missing fields stay empty.
func ExtractMetadata(page string) Metadata {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return Metadata{}
	}

	title := metaContent(doc, metaTitle)
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	return Metadata{
		Title:    title,
		ImageURL: metaContent(doc, metaImage),
		SiteName: metaContent(doc, metaSiteName),
	}
}

// MetadataFetcher fetches pages server-side to build link previews.
type MetadataFetcher struct {
	client    *http.Client
	userAgent string
}

// NewMetadataFetcher creates a fetcher that presents itself as a browser.
// Unless allowPrivate is set, it refuses to connect to loopback, private and
// link-local addresses, checked on the resolved address of every dial so
// redirects and DNS answers cannot reach the internal network either.
func NewMetadataFetcher(client *http.Client, allowPrivate bool) *MetadataFetcher {
	if !allowPrivate {
		client = publicOnly(client)
	}
	return &MetadataFetcher{client: client, userAgent: BrowserUserAgent}
}

// publicOnly copies client with a transport that only dials public addresses.
func publicOnly(client *http.Client) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if base, ok := client.Transport.(*http.Transport); ok {
		tr = base.Clone()
	}
	tr.Proxy = nil
	dialer := &net.Dialer{Timeout: DefaultTimeout, Control: refusePrivate}
	tr.DialContext = dialer.DialContext

	cp := *client
	cp.Transport = tr
	return &cp
}

func refusePrivate(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, address)
	}
	if !utils.IsPublicAddr(ap.Addr()) {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, ap.Addr())
	}
	return nil
}

// Fetch downloads target and extracts its metadata.
func (f *MetadataFetcher) Fetch(ctx context.Context, target string) (*Metadata, error) {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, target)
	}

	body, err := get(ctx, f.client, u.String(), http.Header{"User-Agent": {f.userAgent}})
	observe("metadata", err)
	if err != nil {
		return nil, err
	}

	md := ExtractMetadata(string(body))
	return &md, nil
}
