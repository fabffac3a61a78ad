package types

import (
	"encoding/json"
	"strconv"
)

// ProductRecord is the result of one successfully processed query.
// Records are constructed once by the crawler and never mutated.
type ProductRecord struct {
	// Query is the original search string that produced this record.
	Query string `json:"query" bson:"query"`

	// Name is the product display name taken from the page heading.
	// Falls back to Query when the page carries no heading.
	Name string `json:"name" bson:"name"`

	// MinPrice and MaxPrice are the lowest and highest amounts seen on
	// the page, both drawn from the same parsed-price set.
	MinPrice float64 `json:"min_price" bson:"min_price"`
	MaxPrice float64 `json:"max_price" bson:"max_price"`

	// Offers is the advertised offer count, or the number of parsed
	// prices when the page does not state one.
	Offers int `json:"offers" bson:"offers"`

	// URL is the product page address the record was extracted from.
	URL string `json:"url" bson:"url"`

	// Currency is the ISO 4217 code the amounts are denominated in.
	Currency string `json:"currency" bson:"currency"`
}

// ToJSON serializes the record to JSON bytes.
func (r *ProductRecord) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// CSVRow returns the record as a row matching CSVHeader.
func (r *ProductRecord) CSVRow() []string {
	return []string{
		r.Query,
		r.Name,
		formatAmount(r.MinPrice),
		formatAmount(r.MaxPrice),
		formatInt(r.Offers),
		r.URL,
		r.Currency,
	}
}

// CSVHeader is the column order used by the CSV storage backend.
func CSVHeader() []string {
	return []string{"query", "name", "min_price", "max_price", "offers", "url", "currency"}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}
