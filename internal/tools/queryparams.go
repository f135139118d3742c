package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// URL normalization parameter tools. The remote API may require special
// account permissions for these endpoints; permission failures surface as
// remote errors.

func (s *Service) registerQueryParams(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_query_parameters",
		Description: "Get URL normalization parameters. Note: May require special permissions.",
	}, s.getQueryParameters)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_query_parameter",
		Description: "Add URL normalization parameter.",
	}, s.addQueryParameter)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_query_parameter",
		Description: "Remove a URL normalization parameter.",
	}, s.removeQueryParameter)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "enable_disable_query_parameter",
		Description: "Enable or disable a URL query parameter.",
	}, s.enableDisableQueryParameter)
}

func (s *Service) getQueryParameters(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_query_parameters", "GetQueryParameters", "QueryParameter", in.SiteURL)
}

type queryParameterArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	Parameter string `json:"parameter" jsonschema:"The query parameter"`
}

func (s *Service) addQueryParameter(ctx context.Context, _ *mcp.CallToolRequest, in queryParameterArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "add_query_parameter", err)
	}
	if err := required("parameter", in.Parameter); err != nil {
		return s.reject(ctx, "add_query_parameter", err)
	}
	return s.postMessage(ctx, "add_query_parameter", "AddQueryParameter",
		map[string]any{"siteUrl": in.SiteURL, "parameter": in.Parameter},
		fmt.Sprintf("Query parameter %s added successfully", in.Parameter))
}

func (s *Service) removeQueryParameter(ctx context.Context, _ *mcp.CallToolRequest, in queryParameterArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_query_parameter", err)
	}
	if err := required("parameter", in.Parameter); err != nil {
		return s.reject(ctx, "remove_query_parameter", err)
	}
	return s.postMessage(ctx, "remove_query_parameter", "RemoveQueryParameter",
		map[string]any{"siteUrl": in.SiteURL, "parameter": in.Parameter},
		fmt.Sprintf("Query parameter %s removed successfully", in.Parameter))
}

type enableDisableParameterArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	Parameter string `json:"parameter" jsonschema:"The query parameter"`
	Enabled   bool   `json:"enabled" jsonschema:"Whether to enable or disable"`
}

func (s *Service) enableDisableQueryParameter(ctx context.Context, _ *mcp.CallToolRequest, in enableDisableParameterArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "enable_disable_query_parameter", err)
	}
	if err := required("parameter", in.Parameter); err != nil {
		return s.reject(ctx, "enable_disable_query_parameter", err)
	}
	state := "disabled"
	if in.Enabled {
		state = "enabled"
	}
	return s.postMessage(ctx, "enable_disable_query_parameter", "EnableDisableQueryParameter",
		map[string]any{"siteUrl": in.SiteURL, "parameter": in.Parameter, "enabled": in.Enabled},
		fmt.Sprintf("Query parameter %s %s successfully", in.Parameter, state))
}
