package handlers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/melkeydev/mcp-odata/odata"
	"github.com/spf13/cast"
)

// QueryHandler creates a handler for the odata_query tool
func QueryHandler(service *odata.Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		uri, err := request.RequireString("uri")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Missing uri parameter: %v", err)), nil
		}

		params := url.Values{}
		if args, ok := request.Params.Arguments.(map[string]any); ok {
			for arg, param := range map[string]string{
				"top":       odata.ParamTop,
				"skip":      odata.ParamSkip,
				"format":    odata.ParamFormat,
				"sqlfilter": odata.ParamSQLFilter,
			} {
				if v, exists := args[arg]; exists && v != nil {
					params.Set(param, cast.ToString(v))
				}
			}
		}

		resp, err := service.Collection(ctx, uri, params)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Query failed: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resp.Body)), nil
	}
}

// MetadataHandler creates a handler for the odata_metadata tool
func MetadataHandler(service *odata.Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resp, err := service.Metadata(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Metadata failed: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resp.Body)), nil
	}
}

// LinkHandler creates a handler for the odata_link tool
func LinkHandler(service *odata.Service) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("resource_id")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Missing resource_id parameter: %v", err)), nil
		}

		return mcp.NewToolResultText(service.BaseURL().Link(id)), nil
	}
}
