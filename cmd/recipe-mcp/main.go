// Command recipe-mcp exposes the recipe API to MCP clients over stdio.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// scrapeRequest mirrors the recipe API request model.
type scrapeRequest struct {
	URL string `json:"url"`
}

// scrapeResponse covers every body POST /scrape can return: a recipe,
// {"error"} for scrape failures and {"detail"} for auth failures.
type scrapeResponse struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Error       string   `json:"error"`
	Detail      string   `json:"detail"`
}

// apiClient calls the recipe API with HTTP Basic credentials.
type apiClient struct {
	http     *http.Client
	baseURL  string
	username string
	password string
}

func main() {
	apiURL := os.Getenv("RECIPE_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8000"
	}
	username, password := os.Getenv("AUTH_USERNAME"), os.Getenv("AUTH_PASSWORD")
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "AUTH_USERNAME and AUTH_PASSWORD are required")
		os.Exit(1)
	}

	client := &apiClient{
		http:     &http.Client{Timeout: 120 * time.Second},
		baseURL:  strings.TrimRight(apiURL, "/"),
		username: username,
		password: password,
	}

	s := server.NewMCPServer(
		"recipe-api",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	scrapeRecipeTool := mcp.NewTool("scrape_recipe",
		mcp.WithDescription("Scrape a recipe web page and return its title and ingredient list. Only supported recipe sites are accepted unless the server runs in wild mode."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The URL of the recipe page to scrape"),
		),
	)
	s.AddTool(scrapeRecipeTool, handleScrapeRecipe(client))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

// scrape posts one URL to /scrape and decodes whichever body comes back.
func (c *apiClient) scrape(ctx context.Context, url string) (*scrapeResponse, int, error) {
	body, err := json.Marshal(scrapeRequest{URL: url})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scrape", bytes.NewReader(body))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	var out scrapeResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}
	return &out, resp.StatusCode, nil
}

func handleScrapeRecipe(c *apiClient) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := request.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError("url is required"), nil
		}

		resp, status, err := c.scrape(ctx, url)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		switch {
		case resp.Detail != "":
			return mcp.NewToolResultError(fmt.Sprintf("[%d] %s", status, resp.Detail)), nil
		case resp.Error != "":
			return mcp.NewToolResultError(resp.Error), nil
		}

		return mcp.NewToolResultText(formatRecipe(resp)), nil
	}
}

func formatRecipe(r *scrapeResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n\nIngredients:\n", r.Title)
	if len(r.Ingredients) == 0 {
		b.WriteString("(none listed)\n")
	}
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&b, "- %s\n", ing)
	}
	return b.String()
}
