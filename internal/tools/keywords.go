package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// Keyword analysis tools.

func (s *Service) registerKeywords(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_keyword_data",
		Description: "Get detailed data for a specific keyword/query.",
	}, s.getKeywordData)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_related_keywords",
		Description: "Get keywords related to a specific query.",
	}, s.getRelatedKeywords)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_keyword_stats",
		Description: "Get historical statistics for a specific keyword.",
	}, s.getKeywordStats)
}

type keywordArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	Query   string `json:"query" jsonschema:"The keyword/query to analyze"`
}

func (s *Service) getKeywordData(ctx context.Context, _ *mcp.CallToolRequest, in keywordArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_keyword_data", err)
	}
	if err := required("query", in.Query); err != nil {
		return s.reject(ctx, "get_keyword_data", err)
	}
	return s.run(ctx, "get_keyword_data", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetKeyword", query("siteUrl", in.SiteURL, "query", in.Query))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "KeywordData"), nil
	})
}

func (s *Service) getRelatedKeywords(ctx context.Context, _ *mcp.CallToolRequest, in keywordArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_related_keywords", err)
	}
	if err := required("query", in.Query); err != nil {
		return s.reject(ctx, "get_related_keywords", err)
	}
	return s.run(ctx, "get_related_keywords", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetRelatedKeywords", query("siteUrl", in.SiteURL, "query", in.Query))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "RelatedKeyword"), nil
	})
}

type keywordStatsArgs struct {
	SiteURL  string `json:"site_url" jsonschema:"The URL of the site"`
	Query    string `json:"query" jsonschema:"The keyword/query to analyze"`
	Country  string `json:"country,omitempty" jsonschema:"Country code (e.g. US or GB)"`
	Language string `json:"language,omitempty" jsonschema:"Language code (e.g. en or fr)"`
}

func (s *Service) getKeywordStats(ctx context.Context, _ *mcp.CallToolRequest, in keywordStatsArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_keyword_stats", err)
	}
	if err := required("query", in.Query); err != nil {
		return s.reject(ctx, "get_keyword_stats", err)
	}
	params := query("siteUrl", in.SiteURL, "query", in.Query)
	if in.Country != "" {
		params.Set("country", in.Country)
	}
	if in.Language != "" {
		params.Set("language", in.Language)
	}
	return s.run(ctx, "get_keyword_stats", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetKeywordStats", params)
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "KeywordStats"), nil
	})
}
