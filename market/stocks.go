package market

import "strings"

// Listing maps a short display key to the provider symbol on the NSE.
type Listing struct {
	Key    string
	Symbol string
	Name   string
}

// Universe is the fixed set of tracked NSE listings.
var Universe = []Listing{
	{Key: "OLA", Symbol: "OLA.NS", Name: "Ola Electric Mobility"},
	{Key: "VARDHMAN", Symbol: "VTL.NS", Name: "Vardhman Textiles"},
	{Key: "WAAREE", Symbol: "WAAREE.NS", Name: "Waaree Energies"},
	{Key: "GODFREY", Symbol: "GODFRYPHLP.NS", Name: "Godfrey Phillips India"},
	{Key: "BSE", Symbol: "BSE.NS", Name: "BSE Limited"},
	{Key: "JIOFIN", Symbol: "JIOFIN.NS", Name: "Jio Financial Services"},
	{Key: "ZOMATO", Symbol: "ZOMATO.NS", Name: "Zomato Limited"},
	{Key: "MAZAGON", Symbol: "MAZDOCK.NS", Name: "Mazagon Dock Shipbuilders"},
	{Key: "IRFC", Symbol: "IRFC.NS", Name: "Indian Railway Finance Corp"},
}

// Lookup resolves a display key (case-insensitive) to its listing.
func Lookup(key string) (Listing, bool) {
	k := strings.ToUpper(key)
	for _, l := range Universe {
		if l.Key == k {
			return l, true
		}
	}
	return Listing{}, false
}

// SearchResult is one hit of a universe search.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
}

// Search matches the query as a substring of the key or the company name,
// case-insensitive. An empty query returns no results.
func Search(query string) []SearchResult {
	q := strings.ToUpper(strings.TrimSpace(query))
	results := []SearchResult{}
	if q == "" {
		return results
	}
	for _, l := range Universe {
		if strings.Contains(l.Key, q) || strings.Contains(strings.ToUpper(l.Name), q) {
			results = append(results, SearchResult{Symbol: l.Key, Name: l.Name, Exchange: "NSE"})
		}
	}
	return results
}
