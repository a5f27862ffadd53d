package olxscrape

import (
	"maps"
	"regexp"
	"slices"
)

// Missing is the placeholder stored in a text field that could not be found
// or could not be parsed. Both cases share this single representation.
const Missing = "N/A"

// ListingSummary is the lightweight record extracted from one result card
// of a search-results page.
type ListingSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Price    string `json:"price"`
	Location string `json:"location"`
	Date     string `json:"date"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// Valid reports whether the summary has both a title and a URL.
// Only valid summaries survive pagination.
func (s ListingSummary) Valid() bool {
	return s.Title != Missing && s.Title != "" && s.URL != ""
}

// ListingExtras holds the fields only a detail page provides.
type ListingExtras struct {
	Description     string            `json:"description,omitempty"`
	SellerName      string            `json:"seller_name,omitempty"`
	SellerType      string            `json:"seller_type,omitempty"`
	PhoneNumber     string            `json:"phone_number,omitempty"`
	Images          []string          `json:"images,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	PostedDate      string            `json:"posted_date,omitempty"`
	ViewedCount     string            `json:"viewed_count,omitempty"`
	SafetyTips      []string          `json:"safety_tips,omitempty"`
	ListingFeatures []string          `json:"listing_features,omitempty"`
}

// ListingDetail is the record extracted from a listing's own page.
// The zero value is the empty detail record returned when the page
// could not be fetched.
type ListingDetail struct {
	Title    string `json:"title,omitempty"`
	Price    string `json:"price,omitempty"`
	Location string `json:"location,omitempty"`
	Date     string `json:"date,omitempty"`
	ListingExtras
}

// IsEmpty reports whether d carries no field at all, as is the case when
// the listing page could not be fetched.
func (d ListingDetail) IsEmpty() bool {
	return d.Title == "" && d.Price == "" && d.Location == "" && d.Date == "" &&
		d.Description == "" && d.SellerName == "" && d.SellerType == "" &&
		d.PhoneNumber == "" && d.PostedDate == "" && d.ViewedCount == "" &&
		len(d.Images) == 0 && len(d.Attributes) == 0 &&
		len(d.SafetyTips) == 0 && len(d.ListingFeatures) == 0
}

// MergedListing is a summary overlaid by its detail record.
type MergedListing struct {
	ListingSummary
	ListingExtras
}

// Merge returns a new MergedListing combining s and d. Detail values win
// over summary values on the shared fields whenever the detail value is
// present. Neither argument is modified.
func Merge(s ListingSummary, d ListingDetail) MergedListing {
	m := MergedListing{ListingSummary: s}
	m.Title = overlay(s.Title, d.Title)
	m.Price = overlay(s.Price, d.Price)
	m.Location = overlay(s.Location, d.Location)
	m.Date = overlay(s.Date, d.Date)

	m.ListingExtras = d.ListingExtras
	m.Images = slices.Clone(d.Images)
	m.SafetyTips = slices.Clone(d.SafetyTips)
	m.ListingFeatures = slices.Clone(d.ListingFeatures)
	m.Attributes = maps.Clone(d.Attributes)
	return m
}

func overlay(base, top string) string {
	if top == "" || top == Missing {
		return base
	}
	return top
}

var (
	// An "ID" marker at a token boundary, e.g. "-ID456abc.html".
	idTokenRe = regexp.MustCompile(`(?:^|[^A-Za-z0-9])ID([A-Za-z0-9]+)`)
	// The segment right before the page extension, e.g. "-456abc.html".
	idSuffixRe = regexp.MustCompile(`-([A-Za-z0-9]+)\.html`)
)

// ListingID derives the marketplace identifier from a listing URL.
// It returns an empty string when the URL carries no recognizable identifier.
func ListingID(url string) string {
	if m := idTokenRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	if m := idSuffixRe.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return ""
}
