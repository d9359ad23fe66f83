package models

// RecipeResponse is the success body of POST /scrape.
type RecipeResponse struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
}

// ErrorResponse is the failure body of POST /scrape. Scrape failures are
// returned with status 200; clients must inspect the body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DetailResponse is the body of HTTP-level failures (401, 429, 500).
type DetailResponse struct {
	Detail string `json:"detail"`
}

// MessageResponse is the body of GET /.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string   `json:"status"`
	Uptime  string   `json:"uptime"`
	Version string   `json:"version"`
	Sites   int      `json:"sites"`
	Engines []string `json:"engines"`
}
