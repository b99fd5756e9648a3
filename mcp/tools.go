package mcp

import (
	goMCP "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/melkeydev/mcp-odata/handlers"
	"github.com/melkeydev/mcp-odata/odata"
)

func RegisterTools(s *server.MCPServer, service *odata.Service) {
	// Collection query tool
	queryTool := goMCP.NewTool("odata_query",
		goMCP.WithDescription("Read a datastore collection as an OData feed"),
		goMCP.WithString("uri",
			goMCP.Required(),
			goMCP.Description("Collection name, optionally with a row key: name or name(42)"),
		),
		goMCP.WithNumber("top",
			goMCP.Description("Number of rows to return (default: 500)"),
		),
		goMCP.WithNumber("skip",
			goMCP.Description("Number of rows to skip (default: 0)"),
		),
		goMCP.WithString("format",
			goMCP.Description("Set to json for a JSON envelope instead of an Atom feed"),
		),
		goMCP.WithString("sqlfilter",
			goMCP.Description("SQL appended to SELECT * FROM the collection; top and skip are ignored"),
		),
	)

	// Metadata tool
	metadataTool := goMCP.NewTool("odata_metadata",
		goMCP.WithDescription("Describe every datastore collection and its typed fields"),
	)

	// Link tool
	linkTool := goMCP.NewTool("odata_link",
		goMCP.WithDescription("Get the OData URL of a datastore resource"),
		goMCP.WithString("resource_id",
			goMCP.Required(),
			goMCP.Description("Resource id of the collection"),
		),
	)

	s.AddTool(queryTool, handlers.QueryHandler(service))
	s.AddTool(metadataTool, handlers.MetadataHandler(service))
	s.AddTool(linkTool, handlers.LinkHandler(service))
}
