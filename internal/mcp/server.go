package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/a3tai/policy-tracker/internal/config"
	"github.com/a3tai/policy-tracker/internal/customer"
	"github.com/a3tai/policy-tracker/internal/descriptions"
	"github.com/a3tai/policy-tracker/internal/lifecycle"
	"github.com/a3tai/policy-tracker/internal/logging"
	"github.com/a3tai/policy-tracker/internal/pdf"
	"github.com/a3tai/policy-tracker/internal/policy"
)

// recordArgs are the tool arguments that make up a record, in field order
var recordArgs = [policy.FieldCount]string{
	"full_name", "national_id", "phone", "license_no", "plate",
	"policy_no", "company", "insurance_type", "policy_start", "policy_end",
}

var recordArgDescriptions = [policy.FieldCount]string{
	"Customer full name",
	"11 digit national ID (TC Kimlik No)",
	"Phone number",
	"Vehicle license (ruhsat) number",
	"Vehicle plate",
	"Policy number",
	"Insurance company",
	"Insurance type: Kasko, Trafik Sigortası, DASK or Diğer",
	"Policy start date, e.g. 01.01.2024",
	"Policy end date, e.g. 01.01.2025",
}

// DocumentFinder lists policy documents in the import directory
type DocumentFinder interface {
	FindDocuments(ctx context.Context, query string, limit int) (*pdf.SearchResult, error)
	ImportDirectory() string
	MaxFileSize() int64
}

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	customers *customer.Service
	documents DocumentFinder
	mcpServer *server.MCPServer
	logger    logging.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, customers *customer.Service, documents DocumentFinder,
	logger logging.Logger,
) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if customers == nil {
		return nil, fmt.Errorf("customer service cannot be nil")
	}
	if documents == nil {
		return nil, fmt.Errorf("document finder cannot be nil")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
	)

	s := &Server{
		config:    cfg,
		customers: customers,
		documents: documents,
		mcpServer: mcpServer,
		logger:    logger.Named("mcp"),
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"policy_extract_pdf",
		mcp.WithDescription(descriptions.GetToolDescription("policy_extract_pdf")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the policy PDF, absolute or relative to the import directory"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractPDF)

	findTool := mcp.NewTool(
		"policy_find_documents",
		mcp.WithDescription(descriptions.GetToolDescription("policy_find_documents")),
		mcp.WithString("query",
			mcp.Description("Optional words to look for in file names"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of files to return (default 50)"),
		),
	)
	s.mcpServer.AddTool(findTool, s.handleFindDocuments)

	addOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("customer_add")),
	}, recordOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("customer_add", addOpts...), s.handleCustomerAdd)

	updateOpts := append([]mcp.ToolOption{
		mcp.WithDescription(descriptions.GetToolDescription("customer_update")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Id of the record to replace"),
		),
	}, recordOptions()...)
	s.mcpServer.AddTool(mcp.NewTool("customer_update", updateOpts...), s.handleCustomerUpdate)

	deleteTool := mcp.NewTool(
		"customer_delete",
		mcp.WithDescription(descriptions.GetToolDescription("customer_delete")),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Id of the record to delete"),
		),
	)
	s.mcpServer.AddTool(deleteTool, s.handleCustomerDelete)

	listTool := mcp.NewTool(
		"customer_list",
		mcp.WithDescription(descriptions.GetToolDescription("customer_list")),
		mcp.WithString("filter",
			mcp.Description("Optional part of the customer name"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleCustomerList)

	infoTool := mcp.NewTool(
		"policy_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("policy_server_info")),
	)
	s.mcpServer.AddTool(infoTool, s.handleServerInfo)
}

func recordOptions() []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, policy.FieldCount)
	for i, name := range recordArgs {
		opts = append(opts, mcp.WithString(name, mcp.Description(recordArgDescriptions[i])))
	}
	return opts
}

// Handler functions
func (s *Server) handleExtractPDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rec, err := s.customers.ImportPDF(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Candidate record from: %s\n", path)
	responseText += "Review the fields, then save with customer_add.\n\n"
	responseText += formatRecord(rec)

	if !policy.ValidNationalID(rec.NationalID) {
		responseText += "\n⚠️  WARNING: The national ID is masked or incomplete and must be corrected before saving.\n"
	}
	if rec.PolicyEnd == "" {
		responseText += "\n💡 INFO: No end date was found; the record will be listed as current until one is entered.\n"
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFindDocuments(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	query := ""
	if q, ok := args["query"].(string); ok {
		query = q
	}

	limit := 50
	if l, ok := args["limit"]; ok {
		n, err := toInt(l)
		if err != nil || n < 1 {
			return mcp.NewToolResultError("limit must be a positive number"), nil
		}
		limit = n
	}

	result, err := s.documents.FindDocuments(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSearchResult(result)), nil
}

func (s *Server) handleCustomerAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec := recordFromArgs(request.GetArguments())

	id, err := s.customers.Save(ctx, rec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Saved customer %s with id %d", rec.FullName, id)), nil
}

func (s *Server) handleCustomerUpdate(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	args := request.GetArguments()

	id, err := idArg(args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.customers.Update(ctx, id, recordFromArgs(args)); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Updated customer %d", id)), nil
}

func (s *Server) handleCustomerDelete(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	id, err := idArg(request.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Deleted customer %d", id)), nil
}

func (s *Server) handleCustomerList(ctx context.Context, request mcp.CallToolRequest) (
	*mcp.CallToolResult, error,
) {
	filter := ""
	if f, ok := request.GetArguments()["filter"].(string); ok {
		filter = f
	}

	listing, err := s.customers.List(ctx, filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatListing(listing, filter)), nil
}

func (s *Server) handleServerInfo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(s.formatServerInfo()), nil
}

func recordFromArgs(args map[string]any) policy.Record {
	values := make([]string, policy.FieldCount)
	for i, name := range recordArgs {
		if v, ok := args[name].(string); ok {
			values[i] = v
		}
	}
	return policy.FromFields(values)
}

func idArg(args map[string]any) (uint, error) {
	raw, ok := args["id"]
	if !ok {
		return 0, errors.New("required argument \"id\" not found")
	}
	n, err := toInt(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid id: %v", raw)
	}
	return uint(n), nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("not a whole number: %v", n)
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		return strconv.Atoi(strings.TrimSpace(n))
	default:
		return 0, fmt.Errorf("unsupported number type %T", v)
	}
}

func formatRecord(rec policy.Record) string {
	text := ""
	for i, value := range rec.Fields() {
		if value == "" {
			value = "-"
		}
		text += fmt.Sprintf("%s: %s\n", policy.FieldLabels[i], value)
	}
	return text
}

func formatSearchResult(result *pdf.SearchResult) string {
	if result.TotalCount == 0 {
		text := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.Query != "" {
			text += fmt.Sprintf(" (searched for: %s)", result.Query)
		}
		return text
	}

	text := fmt.Sprintf("Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.Query != "" {
		text += fmt.Sprintf("Search query: %s\n", result.Query)
	}
	text += "\n"

	for i, file := range result.Files {
		text += fmt.Sprintf("%d. %s\n", i+1, file.Name)
		text += fmt.Sprintf("   Path: %s\n", file.Path)
		text += fmt.Sprintf("   Size: %d bytes\n", file.Size)
		text += fmt.Sprintf("   Modified: %s\n", file.ModifiedTime)
	}
	if result.Truncated {
		text += "\n... more files match; narrow the query or raise the limit\n"
	}
	return text
}

func formatListing(listing customer.Listing, filter string) string {
	text := fmt.Sprintf("📋 Customers on %s", listing.Today)
	if filter != "" {
		text += fmt.Sprintf(" matching %q", filter)
	}
	text += fmt.Sprintf(" (%d total, expiring window %d days)\n", listing.Buckets.Len(), listing.WindowDays)

	for _, status := range []lifecycle.Status{lifecycle.ExpiringSoon, lifecycle.Expired, lifecycle.Active} {
		rows := listing.Buckets.Of(status)
		text += fmt.Sprintf("\n%s (%d):\n", status.Label(), len(rows))
		if len(rows) == 0 {
			text += "   none\n"
			continue
		}
		for _, row := range rows {
			text += fmt.Sprintf("   #%d %s | TC %s | %s | %s | %s | %s - %s\n",
				row.ID, dash(row.FullName), dash(row.NationalID), dash(row.Plate),
				dash(row.Company), dash(row.InsuranceType), dash(row.PolicyStart), dash(row.PolicyEnd))
		}
	}
	return text
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func (s *Server) formatServerInfo() string {
	text := fmt.Sprintf("📋 %s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	text += fmt.Sprintf("📁 Import Directory: %s\n", s.documents.ImportDirectory())
	text += fmt.Sprintf("🗄️  Database: %s\n", s.config.DBPath)
	text += fmt.Sprintf("📏 Max File Size: %d MB\n", s.documents.MaxFileSize()/(1024*1024))
	text += fmt.Sprintf("⏰ Expiring Window: %d days\n\n", s.config.ExpiringWindowDays)

	text += "🏢 Companies:\n"
	for _, company := range s.customers.Companies() {
		text += fmt.Sprintf("  • %s\n", company)
	}

	text += "\n🛠️  Available Tools:\n"
	for _, tool := range descriptions.Tools {
		text += fmt.Sprintf("\n• %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Usage: %s\n", tool.Usage)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	text += "\nTypical flow: policy_find_documents → policy_extract_pdf → customer_add → customer_list\n"
	return text
}

// Run starts the MCP server in the configured mode and returns when ctx is
// cancelled or the transport stops
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves on stdin/stdout; logs must go to stderr in this mode
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Info("starting stdio server",
		logging.String("import_dir", s.documents.ImportDirectory()),
		logging.String("db", s.config.DBPath))

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves over HTTP with server-sent events
func (s *Server) runServerMode(ctx context.Context) error {
	addr := s.config.Address()
	sse := server.NewSSEServer(s.mcpServer, server.WithBaseURL("http://"+addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	s.logger.Info("starting SSE server", logging.String("addr", addr))

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve http: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down SSE server")
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down http server: %w", err)
		}
		return nil
	}
}
