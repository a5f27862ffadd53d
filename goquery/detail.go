package goquery

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/olxscrape"
)

// DefaultImageHosts are the path fragments identifying listing photos on
// the marketplace CDN. Other images (logos, avatars, ads) are ignored.
var DefaultImageHosts = []string{"static.olx", "apollo", "img.olx"}

// maxFeatureLen excludes long text blocks misclassified as feature badges.
const maxFeatureLen = 100

// Detail-page field priority tables.
var (
	detailTitleField = Field{
		{Selector: `[data-cy="ad_title"]`},
		{Selector: `[data-testid="ad_title"]`},
		{Selector: `.css-r9zjja-Text`},
		{Selector: `h1`},
	}

	detailPriceField = Field{
		{Selector: `h3[data-testid="ad-price-container"]`},
		{Selector: `[data-testid="ad-price-container"]`},
		{Selector: `.css-8gi6ch`},
		{Selector: `.css-1uwck7i`},
	}

	detailDescriptionField = Field{
		{Selector: `[data-cy="ad_description"]`},
		{Selector: `[data-testid="ad_description"]`},
		{Selector: `.css-g5mtl5-Text`},
		{Selector: `.offer-description`},
		{Selector: `.description`},
	}

	detailLocationDateField = Field{
		{Selector: `[data-testid="location-date"]`},
		{Selector: `.css-veheph`},
		{Selector: `.location-date`},
	}

	detailSellerNameField = Field{
		{Selector: `[data-testid="seller-name"]`},
		{Selector: `[data-testid="user-profile-user-name"]`},
		{Selector: `.css-1cxvtlc`},
		{Selector: `.seller-name`},
	}

	detailSellerTypeField = Field{
		{Selector: `[data-testid="seller-type"]`},
		{Selector: `.css-12hdxwj`},
	}

	detailViewCountField = Field{
		{Selector: `[data-testid="ad-view-count"]`, Accept: MentionsViews},
		{Selector: `.css-1h8ojeu`, Accept: MentionsViews},
		{Selector: `.views`, Accept: MentionsViews},
	}

	phoneSelectors = []string{
		`[data-testid="contact-phone"]`,
		`.css-1p6wsjo`,
		`a[href*="tel:"]`,
	}

	attributeSelectors = []string{
		`[data-testid="ad-parameters-container"] p`,
		`li[class*="css-"]`,
		`.params li`,
		`.offer-params li`,
		`.css-1h1vnm6`,
	}

	postedDateSelectors = []string{
		`[data-testid="location-date"]`,
		`.css-veheph`,
		`.offer-meta`,
	}

	safetyTipSelectors = []string{
		`.safety-tips li`,
		`[data-testid="safety-tip"]`,
	}

	featureSelectors = []string{
		`.badge`,
		`.highlight`,
		`.feature`,
		`[data-testid="ad-highlight"]`,
	}
)

// postedDateRe matches an absolute date (12.05.2024), a relative one
// ("3 dni temu") or the today/yesterday tokens.
var postedDateRe = regexp.MustCompile(`\d{1,2}\.\d{1,2}\.\d{4}|\d+ \p{L}+ temu|(?i:dzisiaj|wczoraj)`)

// Ensure DetailExtractor implements olxscrape.DetailEnricher at compile time.
var _ olxscrape.DetailEnricher = (*DetailExtractor)(nil)

// DetailExtractor fetches listing pages and extracts their detail records.
type DetailExtractor struct {
	fetcher    olxscrape.Fetcher
	logger     *slog.Logger
	imageHosts []string
}

// DetailOption configures a DetailExtractor.
type DetailOption func(*DetailExtractor)

// WithLogger sets the logger for fetch failures.
func WithLogger(logger *slog.Logger) DetailOption {
	return func(d *DetailExtractor) {
		d.logger = logger
	}
}

// WithImageHosts replaces DefaultImageHosts.
func WithImageHosts(hosts ...string) DetailOption {
	return func(d *DetailExtractor) {
		d.imageHosts = hosts
	}
}

// NewDetailExtractor creates a DetailExtractor. The fetcher should carry
// the longer detail-page timeout.
func NewDetailExtractor(fetcher olxscrape.Fetcher, opts ...DetailOption) *DetailExtractor {
	d := &DetailExtractor{
		fetcher:    fetcher,
		imageHosts: DefaultImageHosts,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d
}

// Enrich fetches the listing page and extracts its detail record.
// A fetch failure is logged and yields an empty record with a nil error.
// A panic anywhere in the enrichment is returned as an error.
func (d *DetailExtractor) Enrich(ctx context.Context, listingURL string) (detail olxscrape.ListingDetail, err error) {
	defer func() {
		if r := recover(); r != nil {
			detail = olxscrape.ListingDetail{}
			err = fmt.Errorf("detail extraction for %s panicked: %v", listingURL, r)
		}
	}()

	html, fetchErr := d.fetcher.Fetch(ctx, listingURL)
	if fetchErr != nil {
		d.logger.Warn("detail fetch failed", "url", listingURL, "err", fetchErr)
		return olxscrape.ListingDetail{}, nil
	}

	root, err := Parse(html)
	if err != nil {
		return olxscrape.ListingDetail{}, fmt.Errorf("listing %s: %w", listingURL, err)
	}
	return d.Extract(root), nil
}

// Extract builds the detail record from a parsed listing page.
func (d *DetailExtractor) Extract(root *goquery.Selection) olxscrape.ListingDetail {
	location, date := SplitLocationDate(Extract(root, detailLocationDateField, ""))

	return olxscrape.ListingDetail{
		Title:    Extract(root, detailTitleField, olxscrape.Missing),
		Price:    Extract(root, detailPriceField, olxscrape.Missing),
		Location: location,
		Date:     date,
		ListingExtras: olxscrape.ListingExtras{
			Description:     Extract(root, detailDescriptionField, olxscrape.Missing),
			SellerName:      Extract(root, detailSellerNameField, olxscrape.Missing),
			SellerType:      Extract(root, detailSellerTypeField, olxscrape.Missing),
			PhoneNumber:     PhoneNumber(root),
			Images:          ExtractImages(root, d.imageHosts),
			Attributes:      Attributes(root),
			PostedDate:      PostedDate(root),
			ViewedCount:     Extract(root, detailViewCountField, olxscrape.Missing),
			SafetyTips:      SafetyTips(root),
			ListingFeatures: Features(root),
		},
	}
}

// PhoneNumber returns the seller's phone number. A telephone link yields
// its number with the tel: scheme removed.
func PhoneNumber(root *goquery.Selection) string {
	for _, selector := range phoneSelectors {
		node := root.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if goquery.NodeName(node) == "a" {
			if href, ok := node.Attr("href"); ok && strings.HasPrefix(strings.TrimSpace(href), "tel:") {
				if number := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(href), "tel:")); number != "" {
					return number
				}
			}
		}
		if text := Text(node); text != "" {
			return text
		}
	}
	return olxscrape.Missing
}

// ExtractImages collects the photo URLs whose source contains one of hosts.
// Protocol-relative sources are upgraded to https and duplicates dropped;
// the first occurrence fixes the order.
func ExtractImages(root *goquery.Selection, hosts []string) []string {
	seen := make(map[string]bool)
	images := []string{}

	root.Find("img").Each(func(_ int, img *goquery.Selection) {
		src := strings.TrimSpace(img.AttrOr("src", ""))
		if src == "" {
			src = strings.TrimSpace(img.AttrOr("data-src", ""))
		}
		if src == "" || !containsAny(src, hosts) {
			return
		}
		src = NormalizeImageURL(src)
		if seen[src] {
			return
		}
		seen[src] = true
		images = append(images, src)
	})

	return images
}

// NormalizeImageURL upgrades a protocol-relative URL ("//host/x.jpg") to
// an explicit https URL. Other URLs are returned unchanged.
func NormalizeImageURL(src string) string {
	if strings.HasPrefix(src, "//") {
		return "https:" + src
	}
	return src
}

// Attributes reads "label: value" parameters from the first list locator
// that yields any items. Items without a colon are ignored.
func Attributes(root *goquery.Selection) map[string]string {
	attrs := make(map[string]string)
	for _, selector := range attributeSelectors {
		items := root.Find(selector)
		if items.Length() == 0 {
			continue
		}
		items.Each(func(_ int, item *goquery.Selection) {
			label, value, ok := strings.Cut(Text(item), ":")
			if !ok {
				return
			}
			if label = strings.TrimSpace(label); label != "" {
				attrs[label] = strings.TrimSpace(value)
			}
		})
		break
	}
	return attrs
}

// PostedDate searches the location/date captions for a recognizable date.
func PostedDate(root *goquery.Selection) string {
	for _, selector := range postedDateSelectors {
		node := root.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if m := postedDateRe.FindString(node.Text()); m != "" {
			return m
		}
	}
	return olxscrape.Missing
}

// SafetyTips returns every non-empty tip in document order.
func SafetyTips(root *goquery.Selection) []string {
	tips := []string{}
	for _, selector := range safetyTipSelectors {
		root.Find(selector).Each(func(_ int, tip *goquery.Selection) {
			if text := Text(tip); text != "" {
				tips = append(tips, text)
			}
		})
	}
	return tips
}

// Features returns the distinct short badge texts of the listing.
func Features(root *goquery.Selection) []string {
	seen := make(map[string]bool)
	features := []string{}
	for _, selector := range featureSelectors {
		root.Find(selector).Each(func(_ int, badge *goquery.Selection) {
			text := Text(badge)
			if text == "" || utf8.RuneCountInString(text) >= maxFeatureLen || seen[text] {
				return
			}
			seen[text] = true
			features = append(features, text)
		})
	}
	return features
}

func containsAny(s string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(s, f) {
			return true
		}
	}
	return false
}
