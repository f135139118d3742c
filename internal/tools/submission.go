package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// URL and content submission tools: single and batch URL submission,
// direct content push, fetch requests, and the associated quotas.

func (s *Service) registerSubmission(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "submit_url",
		Description: "Submit a single URL for indexing.",
	}, s.submitURL)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "submit_url_batch",
		Description: "Submit multiple URLs for indexing.",
	}, s.submitURLBatch)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_url_submission_quota",
		Description: "Get information about URL submission quota and usage.",
	}, s.getURLSubmissionQuota)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "submit_content",
		Description: "Submit page content directly to Bing without crawling.",
	}, s.submitContent)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_content_submission_quota",
		Description: "Get content submission quota information.",
	}, s.getContentSubmissionQuota)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "fetch_url",
		Description: "Request Bing to fetch/crawl a specific URL.",
	}, s.fetchURL)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_fetched_urls",
		Description: "Get list of URLs that have been fetched.",
	}, s.getFetchedURLs)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_fetched_url_details",
		Description: "Get detailed information about a fetched URL.",
	}, s.getFetchedURLDetails)
}

type siteAndURLArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	URL     string `json:"url" jsonschema:"The specific URL"`
}

func (s *Service) submitURL(ctx context.Context, _ *mcp.CallToolRequest, in siteAndURLArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "submit_url", err)
	}
	if err := required("url", in.URL); err != nil {
		return s.reject(ctx, "submit_url", err)
	}
	return s.postMessage(ctx, "submit_url", "SubmitUrl",
		map[string]any{"siteUrl": in.SiteURL, "url": in.URL},
		fmt.Sprintf("URL %s submitted successfully", in.URL))
}

type submitURLBatchArgs struct {
	SiteURL string   `json:"site_url" jsonschema:"The URL of the site"`
	URLs    []string `json:"urls" jsonschema:"List of URLs to submit"`
}

func (s *Service) submitURLBatch(ctx context.Context, _ *mcp.CallToolRequest, in submitURLBatchArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "submit_url_batch", err)
	}
	if err := requiredList("urls", in.URLs); err != nil {
		return s.reject(ctx, "submit_url_batch", err)
	}
	return s.run(ctx, "submit_url_batch", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Post(ctx, "SubmitUrlBatch", map[string]any{
			"siteUrl": in.SiteURL,
			"urlList": in.URLs,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"message": fmt.Sprintf("Submitted %d URLs", len(in.URLs)),
			"result":  res.Value,
		}, nil
	})
}

func (s *Service) getURLSubmissionQuota(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_url_submission_quota", "GetUrlSubmissionQuota", "UrlSubmissionQuota", in.SiteURL)
}

type submitContentArgs struct {
	SiteURL       string `json:"site_url" jsonschema:"The URL of the site"`
	URL           string `json:"url" jsonschema:"The URL of the content"`
	Content       string `json:"content" jsonschema:"The HTML content to submit"`
	ContentType   string `json:"content_type,omitempty" jsonschema:"MIME type of the content, defaults to text/html"`
	ContentLength int    `json:"content_length,omitempty" jsonschema:"Length of the content in bytes, auto-calculated when omitted"`
}

func (s *Service) submitContent(ctx context.Context, _ *mcp.CallToolRequest, in submitContentArgs) (*mcp.CallToolResult, any, error) {
	for field, v := range map[string]string{"site_url": in.SiteURL, "url": in.URL, "content": in.Content} {
		if err := required(field, v); err != nil {
			return s.reject(ctx, "submit_content", err)
		}
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "text/html"
	}
	contentLength := in.ContentLength
	if contentLength <= 0 {
		contentLength = len(in.Content)
	}
	return s.postMessage(ctx, "submit_content", "SubmitContent",
		map[string]any{
			"siteUrl":       in.SiteURL,
			"url":           in.URL,
			"content":       in.Content,
			"contentType":   contentType,
			"contentLength": contentLength,
		},
		fmt.Sprintf("Content for %s submitted successfully", in.URL))
}

func (s *Service) getContentSubmissionQuota(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_content_submission_quota", "GetContentSubmissionQuota", "ContentSubmissionQuota", in.SiteURL)
}

func (s *Service) fetchURL(ctx context.Context, _ *mcp.CallToolRequest, in siteAndURLArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "fetch_url", err)
	}
	if err := required("url", in.URL); err != nil {
		return s.reject(ctx, "fetch_url", err)
	}
	return s.postMessage(ctx, "fetch_url", "FetchUrl",
		map[string]any{"siteUrl": in.SiteURL, "url": in.URL},
		fmt.Sprintf("Fetch request for %s submitted successfully", in.URL))
}

func (s *Service) getFetchedURLs(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_fetched_urls", "GetFetchedUrls", "FetchedUrl", in.SiteURL)
}

func (s *Service) getFetchedURLDetails(ctx context.Context, _ *mcp.CallToolRequest, in siteAndURLArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_fetched_url_details", err)
	}
	if err := required("url", in.URL); err != nil {
		return s.reject(ctx, "get_fetched_url_details", err)
	}
	return s.run(ctx, "get_fetched_url_details", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetFetchedUrlDetails", query("siteUrl", in.SiteURL, "url", in.URL))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "FetchedUrlDetails"), nil
	})
}
