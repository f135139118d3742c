package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// URL index information tools.

func (s *Service) registerURLs(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_url_info",
		Description: "Get detailed index information for a specific URL.",
	}, s.getURLInfo)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_children_url_info",
		Description: "Get information about child URLs under a parent URL.",
	}, s.getChildrenURLInfo)
}

func (s *Service) getURLInfo(ctx context.Context, _ *mcp.CallToolRequest, in siteAndURLArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_url_info", err)
	}
	if err := required("url", in.URL); err != nil {
		return s.reject(ctx, "get_url_info", err)
	}
	return s.run(ctx, "get_url_info", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetUrlInfo", query("siteUrl", in.SiteURL, "url", in.URL))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "UrlInfo"), nil
	})
}

type childrenURLInfoArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	ParentURL string `json:"parent_url" jsonschema:"The parent URL"`
}

func (s *Service) getChildrenURLInfo(ctx context.Context, _ *mcp.CallToolRequest, in childrenURLInfoArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "get_children_url_info", err)
	}
	if err := required("parent_url", in.ParentURL); err != nil {
		return s.reject(ctx, "get_children_url_info", err)
	}
	return s.run(ctx, "get_children_url_info", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetChildrenUrlInfo", query("siteUrl", in.SiteURL, "parentUrl", in.ParentURL))
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "ChildUrlInfo"), nil
	})
}
