package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/MrWong99/bingmaster/pkg/webmaster"
)

// Site management tools: account site inventory, ownership verification,
// delegated access, and site move notifications.

func (s *Service) registerSites(srv *mcp.Server) {
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_sites",
		Description: "Retrieve all sites in the user's Bing Webmaster Tools account",
	}, s.getSites)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_site",
		Description: "Add a new site to Bing Webmaster Tools",
	}, s.addSite)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "verify_site",
		Description: "Attempt to verify ownership of a site",
	}, s.verifySite)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_site",
		Description: "Remove a site from Bing Webmaster Tools",
	}, s.removeSite)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_site_roles",
		Description: "Get list of users with access to the site.",
	}, s.getSiteRoles)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_site_roles",
		Description: "Delegate site access to another user.",
	}, s.addSiteRoles)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "remove_site_role",
		Description: "Remove a user's access to a site.",
	}, s.removeSiteRole)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_site_moves",
		Description: "Get history of site moves/migrations.",
	}, s.getSiteMoves)
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "submit_site_move",
		Description: "Submit a site move/migration notification.",
	}, s.submitSiteMove)
}

func (s *Service) getSites(ctx context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	return s.run(ctx, "get_sites", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Get(ctx, "GetUserSites", nil)
		if err != nil {
			return nil, err
		}
		return webmaster.EnsureType(res.Value, "Site"), nil
	})
}

type addSiteArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site to add"`
}

func (s *Service) addSite(ctx context.Context, _ *mcp.CallToolRequest, in addSiteArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "add_site", err)
	}
	return s.postMessage(ctx, "add_site", "AddSite",
		map[string]any{"siteUrl": in.SiteURL},
		fmt.Sprintf("Site %s added successfully", in.SiteURL))
}

type verifySiteArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site to verify"`
}

func (s *Service) verifySite(ctx context.Context, _ *mcp.CallToolRequest, in verifySiteArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "verify_site", err)
	}
	return s.run(ctx, "verify_site", func(ctx context.Context, c caller) (any, error) {
		res, err := c.Post(ctx, "VerifySite", map[string]any{"siteUrl": in.SiteURL})
		if err != nil {
			return nil, err
		}
		return map[string]any{"verified": res.Value, "site_url": in.SiteURL}, nil
	})
}

type removeSiteArgs struct {
	SiteURL string `json:"site_url" jsonschema:"The URL of the site to remove"`
}

func (s *Service) removeSite(ctx context.Context, _ *mcp.CallToolRequest, in removeSiteArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_site", err)
	}
	return s.postMessage(ctx, "remove_site", "RemoveSite",
		map[string]any{"siteUrl": in.SiteURL},
		fmt.Sprintf("Site %s removed successfully", in.SiteURL))
}

func (s *Service) getSiteRoles(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_site_roles", "GetSiteRoles", "SiteRoles", in.SiteURL)
}

type addSiteRolesArgs struct {
	SiteURL      string `json:"site_url" jsonschema:"The URL of the site"`
	UserEmail    string `json:"user_email" jsonschema:"Email of the user to grant access"`
	AuthToken    string `json:"auth_token" jsonschema:"Authentication token"`
	RoleType     string `json:"role_type" jsonschema:"Type of role to grant"`
	IsExplicit   *bool  `json:"is_explicit,omitempty" jsonschema:"Whether the role is explicit"`
	ShouldNotify *bool  `json:"should_notify,omitempty" jsonschema:"Whether to notify the user"`
}

func (s *Service) addSiteRoles(ctx context.Context, _ *mcp.CallToolRequest, in addSiteRolesArgs) (*mcp.CallToolResult, any, error) {
	for field, v := range map[string]string{
		"site_url":   in.SiteURL,
		"user_email": in.UserEmail,
		"auth_token": in.AuthToken,
		"role_type":  in.RoleType,
	} {
		if err := required(field, v); err != nil {
			return s.reject(ctx, "add_site_roles", err)
		}
	}
	isExplicit, shouldNotify := true, true
	if in.IsExplicit != nil {
		isExplicit = *in.IsExplicit
	}
	if in.ShouldNotify != nil {
		shouldNotify = *in.ShouldNotify
	}
	return s.postMessage(ctx, "add_site_roles", "AddSiteRoles",
		map[string]any{
			"siteUrl":      in.SiteURL,
			"userEmail":    in.UserEmail,
			"authToken":    in.AuthToken,
			"roleType":     in.RoleType,
			"isExplicit":   isExplicit,
			"shouldNotify": shouldNotify,
		},
		fmt.Sprintf("Access granted to %s successfully", in.UserEmail))
}

type removeSiteRoleArgs struct {
	SiteURL   string `json:"site_url" jsonschema:"The URL of the site"`
	UserEmail string `json:"user_email" jsonschema:"Email of the user to remove"`
}

func (s *Service) removeSiteRole(ctx context.Context, _ *mcp.CallToolRequest, in removeSiteRoleArgs) (*mcp.CallToolResult, any, error) {
	if err := required("site_url", in.SiteURL); err != nil {
		return s.reject(ctx, "remove_site_role", err)
	}
	if err := required("user_email", in.UserEmail); err != nil {
		return s.reject(ctx, "remove_site_role", err)
	}
	return s.postMessage(ctx, "remove_site_role", "RemoveSiteRole",
		map[string]any{"siteUrl": in.SiteURL, "userEmail": in.UserEmail},
		fmt.Sprintf("Access removed for %s", in.UserEmail))
}

func (s *Service) getSiteMoves(ctx context.Context, _ *mcp.CallToolRequest, in siteArgs) (*mcp.CallToolResult, any, error) {
	return s.forSite(ctx, "get_site_moves", "GetSiteMoves", "SiteMove", in.SiteURL)
}

type submitSiteMoveArgs struct {
	OldSiteURL string `json:"old_site_url" jsonschema:"The old site URL"`
	NewSiteURL string `json:"new_site_url" jsonschema:"The new site URL"`
	MoveType   string `json:"move_type,omitempty" jsonschema:"Type of move (e.g. Domain or Subdomain), defaults to Domain"`
}

func (s *Service) submitSiteMove(ctx context.Context, _ *mcp.CallToolRequest, in submitSiteMoveArgs) (*mcp.CallToolResult, any, error) {
	if err := required("old_site_url", in.OldSiteURL); err != nil {
		return s.reject(ctx, "submit_site_move", err)
	}
	if err := required("new_site_url", in.NewSiteURL); err != nil {
		return s.reject(ctx, "submit_site_move", err)
	}
	moveType := in.MoveType
	if moveType == "" {
		moveType = "Domain"
	}
	return s.postMessage(ctx, "submit_site_move", "SubmitSiteMove",
		map[string]any{
			"oldSiteUrl": in.OldSiteURL,
			"newSiteUrl": in.NewSiteURL,
			"moveType":   moveType,
		},
		fmt.Sprintf("Site move from %s to %s submitted", in.OldSiteURL, in.NewSiteURL))
}
