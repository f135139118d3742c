package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Country/region targeting tools. The remote API may require special
// account permissions for these endpoints.

func (s *Service) registerRegional(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_country_region_settings",
		Description: "Get country/region targeting settings. Note: May require special permissions.",
	}, s.getCountryRegionSettings)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_country_region_settings",
		Description: "Add country/region targeting settings.",
	}, s.addCountryRegionSettings)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_country_region_settings",
		Description: "Remove country/region targeting settings.",
	}, s.removeCountryRegionSettings)
}

func (s *Service) getCountryRegionSettings(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_country_region_settings", "GetCountryRegionSettings", "CountryRegionSettings", in.SiteURL)
}

type addCountryRegionArgs struct {
	SiteURL     string `json:"site_url" jsonschema:"The URL of the site"`
	CountryCode string `json:"country_code" jsonschema:"ISO country code (e.g. US or GB)"`
	RegionCode  string `json:"region_code,omitempty" jsonschema:"Region code"`
}

func (s *Service) addCountryRegionSettings(ctx context.Context, _ *mcp.CallToolRequest, in addCountryRegionArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "add_country_region_settings", err)
	}
	if err := required("country_code", in.CountryCode); err != nil {
		return s.reject(ctx, "add_country_region_settings", err)
	}
	return s.postMessage(ctx, "add_country_region_settings", "AddCountryRegionSettings",
		map[string]any{
			"siteUrl": in.SiteURL,
			"settings": map[string]any{
				"countryCode": in.CountryCode,
				"regionCode":  in.RegionCode,
			},
		},
		"Country/region settings added successfully")
}

type removeCountryRegionArgs struct {
	SiteURL     string `json:"site_url" jsonschema:"The URL of the site"`
	CountryCode string `json:"country_code" jsonschema:"ISO country code to remove"`
}

func (s *Service) removeCountryRegionSettings(ctx context.Context, _ *mcp.CallToolRequest, in removeCountryRegionArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_country_region_settings", err)
	}
	if err := required("country_code", in.CountryCode); err != nil {
		return s.reject(ctx, "remove_country_region_settings", err)
	}
	return s.postMessage(ctx, "remove_country_region_settings", "RemoveCountryRegionSettings",
		map[string]any{"siteUrl": in.SiteURL, "countryCode": in.CountryCode},
		fmt.Sprintf("Country settings for %s removed successfully", in.CountryCode))
}
