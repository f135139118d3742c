package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// Traffic analysis tools: query and page statistics at various
// granularities, plus per-URL traffic lookups.

func (s *Service) registerTraffic(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_query_stats",
		Description: "Get detailed traffic statistics for top queries.",
	}, s.getQueryStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_page_stats",
		Description: "Get traffic statistics for top pages.",
	}, s.getPageStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_rank_and_traffic_stats",
		Description: "Get overall ranking and traffic statistics.",
	}, s.getRankAndTrafficStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_query_page_stats",
		Description: "Get detailed traffic statistics for a specific query.",
	}, s.getQueryPageStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_query_page_detail_stats",
		Description: "Get detailed statistics for a specific query and page combination.",
	}, s.getQueryPageDetailStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_page_query_stats",
		Description: "Get query statistics for a specific page.",
	}, s.getPageQueryStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_query_traffic_stats",
		Description: "Get traffic statistics for queries over time.",
	}, s.getQueryTrafficStats)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_url_traffic_info",
		Description: "Get traffic information for specific URLs.",
	}, s.getURLTrafficInfo)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_children_url_traffic_info",
		Description: "Get traffic information for child URLs.",
	}, s.getChildrenURLTrafficInfo)
}

func (s *Service) getQueryStats(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_query_stats", "GetQueryStats", "QueryStats", in.SiteURL)
}

func (s *Service) getPageStats(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_page_stats", "GetPageStats", "PageStats", in.SiteURL)
}

func (s *Service) getRankAndTrafficStats(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_rank_and_traffic_stats", "GetRankAndTrafficStats", "RankAndTrafficStats", in.SiteURL)
}

type queryStatsArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	Query   string `json:"query" jsonschema:"The search query to analyze"`
}

func (s *Service) getQueryPageStats(ctx context.Context, _ *mcp.CallToolRequest, in queryStatsArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_query_page_stats", err)
	}
	if err := required("query", in.Query); err != nil {
		return s.reject(ctx, "get_query_page_stats", err)
	}
	return s.run(ctx, "get_query_page_stats", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetQueryPageStats", query("siteUrl", in.SiteURL, "query", in.Query))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "QueryPageStats"), nil
	})
}

type queryPageDetailArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	Query   string `json:"query" jsonschema:"The search query"`
	Page    string `json:"page" jsonschema:"The specific page URL"`
}

func (s *Service) getQueryPageDetailStats(ctx context.Context, _ *mcp.CallToolRequest, in queryPageDetailArgs) (*mcp.CallToolResult, any, error) {
	for field, v := range map[string]string{"site_url": in.SiteURL, "query": in.Query, "page": in.Page} {
		if err := required(field, v); err != nil {
			return s.reject(ctx, "get_query_page_detail_stats", err)
		}
	}
	return s.run(ctx, "get_query_page_detail_stats", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetQueryPageDetailStats",
			query("siteUrl", in.SiteURL, "query", in.Query, "page", in.Page))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "DetailedQueryStats"), nil
	})
}

type pageQueryStatsArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	Page    string `json:"page" jsonschema:"The specific page URL"`
}

func (s *Service) getPageQueryStats(ctx context.Context, _ *mcp.CallToolRequest, in pageQueryStatsArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_page_query_stats", err)
	}
	if err := required("page", in.Page); err != nil {
		return s.reject(ctx, "get_page_query_stats", err)
	}
	return s.run(ctx, "get_page_query_stats", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetPageQueryStats", query("siteUrl", in.SiteURL, "page", in.Page))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "PageQueryStats"), nil
	})
}

type queryTrafficStatsArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site"`
	Query   string `json:"query" jsonschema:"The search query"`
	Period  string `json:"period,omitempty" jsonschema:"Time period (e.g. 7d or 30d), defaults to 30d"`
}

func (s *Service) getQueryTrafficStats(ctx context.Context, _ *mcp.CallToolRequest, in queryTrafficStatsArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_query_traffic_stats", err)
	}
	if err := required("query", in.Query); err != nil {
		return s.reject(ctx, "get_query_traffic_stats", err)
	}
	period := in.Period
	if period == "" {
		period = "30d"
	}
	return s.run(ctx, "get_query_traffic_stats", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetQueryTrafficStats",
			query("siteUrl", in.SiteURL, "query", in.Query, "period", period))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "QueryTrafficStats"), nil
	})
}

type urlTrafficInfoArgs struct {
	SiteURL string   `json:"site_url" jsonschema:"The URL of the site"`
	URLs    []string `json:"urls" jsonschema:"List of URLs to get traffic info for"`
}

func (s *Service) getURLTrafficInfo(ctx context.Context, _ *mcp.CallToolRequest, in urlTrafficInfoArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_url_traffic_info", err)
	}
	if err := requiredList("urls", in.URLs); err != nil {
		return s.reject(ctx, "get_url_traffic_info", err)
	}
	return s.run(ctx, "get_url_traffic_info", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Post(ctx, "GetUrlTrafficInfo", map[string]any{
			"siteUrl": in.SiteURL,
			"urls":    in.URLs,
		})
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "UrlTrafficInfo"), nil
	})
}

type childrenTrafficArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	ParentURL string `json:"parent_url" jsonschema:"The parent URL"`
	Limit     int    `json:"limit,omitempty" jsonschema:"Maximum number of results, defaults to 100"`
}

func (s *Service) getChildrenURLTrafficInfo(ctx context.Context, _ *mcp.CallToolRequest, in childrenTrafficArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_children_url_traffic_info", err)
	}
	if err := required("parent_url", in.ParentURL); err != nil {
		return s.reject(ctx, "get_children_url_traffic_info", err)
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 100
	}
	return s.run(ctx, "get_children_url_traffic_info", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Post(ctx, "GetChildrenUrlTrafficInfo", map[string]any{
			"siteUrl":   in.SiteURL,
			"parentUrl": in.ParentURL,
			"limit":     limit,
		})
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "ChildUrlTrafficInfo"), nil
	})
}
