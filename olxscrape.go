// Package olxscrape extracts structured listing records from the paginated
// search results and detail pages of a classifieds marketplace.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, prometheus/).
package olxscrape

// DefaultBaseURL is the marketplace root. Relative listing links resolve
// against it and keyword searches are built from it.
const DefaultBaseURL = "https://www.olx.pl"
