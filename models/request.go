package models

// ScrapeRequest is the payload for POST /scrape.
type ScrapeRequest struct {
	// URL is the recipe page to scrape. Required.
	URL string `json:"url" binding:"required"`
}
