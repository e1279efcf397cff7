package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/inksign/inksign/internal/config"
	"github.com/inksign/inksign/internal/descriptions"
	"github.com/inksign/inksign/internal/docstore"
	"github.com/inksign/inksign/internal/pagegeom"
	"github.com/inksign/inksign/internal/signing"
)

// pageGap is the vertical spacing between stacked pages in the seeded
// layout, in pixels.
const pageGap = 24.0

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	signing   *signing.Service
	docStore  *docstore.Store
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, signingService *signing.Service, docStore *docstore.Store) (*Server, error) {
	if signingService == nil {
		return nil, fmt.Errorf("signingService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		signing:   signingService,
		docStore:  docStore,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	documentOpenTool := mcp.NewTool(
		"document_open",
		mcp.WithDescription(descriptions.GetToolDescription("document_open")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF document (relative paths resolve against the document directory)"),
		),
		mcp.WithString("document_id",
			mcp.Description("Stable document identifier; defaults to the file name"),
		),
		mcp.WithString("order_mode",
			mcp.Description("Signing order mode: SEQUENTIAL or PARALLEL (default)"),
		),
	)
	s.mcpServer.AddTool(documentOpenTool, s.handleDocumentOpen)

	recipientAddTool := mcp.NewTool(
		"recipient_add",
		mcp.WithDescription(descriptions.GetToolDescription("recipient_add")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Recipient email")),
		mcp.WithString("name", mcp.Description("Recipient display name")),
		mcp.WithString("role",
			mcp.Description("Recipient role: SIGNER (default), VIEWER, APPROVER, CC, or ASSISTANT"),
		),
		mcp.WithNumber("signing_order",
			mcp.Description("1-based signing order, meaningful in SEQUENTIAL mode"),
		),
	)
	s.mcpServer.AddTool(recipientAddTool, s.handleRecipientAdd)

	recipientListTool := mcp.NewTool(
		"recipient_list",
		mcp.WithDescription(descriptions.GetToolDescription("recipient_list")),
	)
	s.mcpServer.AddTool(recipientListTool, s.handleRecipientList)

	fieldPlaceTool := mcp.NewTool(
		"field_place",
		mcp.WithDescription(descriptions.GetToolDescription("field_place")),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Field type: SIGNATURE, INITIALS, EMAIL, NAME, DATE, TEXT, NUMBER, RADIO, CHECKBOX, or DROPDOWN"),
		),
		mcp.WithNumber("page_number", mcp.Required(), mcp.Description("1-based page number")),
		mcp.WithNumber("pointer_x", mcp.Required(), mcp.Description("Drop position x in viewport pixels")),
		mcp.WithNumber("pointer_y", mcp.Required(), mcp.Description("Drop position y in viewport pixels")),
		mcp.WithString("signer_email", mcp.Description("Recipient the field is created for")),
		mcp.WithString("field_meta",
			mcp.Description("JSON field configuration: label, placeholder, values, validation_rule, validation_length, min_value, max_value, decimal_places, character_limit, date_format, time_zone"),
		),
	)
	s.mcpServer.AddTool(fieldPlaceTool, s.handleFieldPlace)

	fieldListTool := mcp.NewTool(
		"field_list",
		mcp.WithDescription(descriptions.GetToolDescription("field_list")),
		mcp.WithString("viewer_email", mcp.Description("Recipient whose display values are rendered")),
	)
	s.mcpServer.AddTool(fieldListTool, s.handleFieldList)

	fieldSignTool := mcp.NewTool(
		"field_sign",
		mcp.WithDescription(descriptions.GetToolDescription("field_sign")),
		mcp.WithString("field_id", mcp.Required(), mcp.Description("Field id")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
		mcp.WithString("value", mcp.Required(), mcp.Description("Value to store (typed text, image data URL, pipe-joined checkbox values, ...)")),
	)
	s.mcpServer.AddTool(fieldSignTool, s.handleFieldSign)

	fieldUnsignTool := mcp.NewTool(
		"field_unsign",
		mcp.WithDescription(descriptions.GetToolDescription("field_unsign")),
		mcp.WithString("field_id", mcp.Required(), mcp.Description("Field id")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
	)
	s.mcpServer.AddTool(fieldUnsignTool, s.handleFieldUnsign)

	fieldTouchTool := mcp.NewTool(
		"field_touch",
		mcp.WithDescription(descriptions.GetToolDescription("field_touch")),
		mcp.WithString("field_id", mcp.Required(), mcp.Description("Field id")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
		mcp.WithString("candidate", mcp.Description("Current uncommitted selection, where relevant")),
	)
	s.mcpServer.AddTool(fieldTouchTool, s.handleFieldTouch)

	gateStatusTool := mcp.NewTool(
		"signing_gate_status",
		mcp.WithDescription(descriptions.GetToolDescription("signing_gate_status")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
	)
	s.mcpServer.AddTool(gateStatusTool, s.handleGateStatus)

	completionStatusTool := mcp.NewTool(
		"completion_status",
		mcp.WithDescription(descriptions.GetToolDescription("completion_status")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
	)
	s.mcpServer.AddTool(completionStatusTool, s.handleCompletionStatus)

	signingCompleteTool := mcp.NewTool(
		"signing_complete",
		mcp.WithDescription(descriptions.GetToolDescription("signing_complete")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
	)
	s.mcpServer.AddTool(signingCompleteTool, s.handleSigningComplete)

	signingRejectTool := mcp.NewTool(
		"signing_reject",
		mcp.WithDescription(descriptions.GetToolDescription("signing_reject")),
		mcp.WithString("email", mcp.Required(), mcp.Description("Acting recipient email")),
	)
	s.mcpServer.AddTool(signingRejectTool, s.handleSigningReject)

	serverInfoTool := mcp.NewTool(
		"signing_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("signing_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// resolvePath anchors relative paths at the configured document directory.
func (s *Server) resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.config.DocumentDirectory, path)
}

// Handler functions

func (s *Server) handleDocumentOpen(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	path = s.resolvePath(path)

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access document: %v", err)), nil
	}
	if info.Size() > s.config.MaxFileSize {
		return mcp.NewToolResultError(fmt.Sprintf(
			"document exceeds the %d byte size limit", s.config.MaxFileSize)), nil
	}

	args := request.GetArguments()
	documentID := filepath.Base(path)
	if id, ok := args["document_id"].(string); ok && id != "" {
		documentID = id
	}
	mode := signing.OrderParallel
	if m, ok := args["order_mode"].(string); ok && m != "" {
		mode = signing.SigningOrderMode(strings.ToUpper(m))
		if mode != signing.OrderSequential && mode != signing.OrderParallel {
			return mcp.NewToolResultError(fmt.Sprintf("invalid order mode %q", m)), nil
		}
	}

	provider, err := pagegeom.Open(path, pagegeom.EngineAuto)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read document geometry: %v", err)), nil
	}
	defer provider.Close()

	rects, err := pagegeom.Layout(provider, s.config.RenderScale, pageGap)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to lay out pages: %v", err)), nil
	}

	var fields []signing.Field
	var recipients []signing.Recipient
	if s.docStore != nil {
		if existing, derr := s.docStore.GetDocument(documentID); derr == nil && existing != nil {
			mode = existing.OrderMode
		}
		if err := s.docStore.EnsureDocument(documentID, filepath.Base(path), mode); err != nil {
			log.Printf("failed to persist document %s: %v", documentID, err)
		}
		if loaded, lerr := s.docStore.LoadFields(documentID); lerr == nil {
			fields = loaded
		} else {
			log.Printf("failed to load fields for %s: %v", documentID, lerr)
		}
		if loaded, lerr := s.docStore.LoadRecipients(documentID); lerr == nil {
			recipients = loaded
		} else {
			log.Printf("failed to load recipients for %s: %v", documentID, lerr)
		}
	}

	s.signing.OpenDocument(documentID, fields, recipients, mode)
	layout := s.signing.Layout()
	for _, r := range rects {
		layout.PageReady(r.Number, signing.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height})
	}

	responseText := fmt.Sprintf("Opened document: %s\n", documentID)
	responseText += fmt.Sprintf("File: %s\n", path)
	responseText += fmt.Sprintf("Pages: %d (engine: %s)\n", provider.PageCount(), provider.Engine())
	responseText += fmt.Sprintf("Signing order mode: %s\n", mode)
	responseText += fmt.Sprintf("Fields restored: %d\n", len(fields))
	responseText += fmt.Sprintf("Recipients restored: %d\n", len(recipients))
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRecipientAdd(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	req := signing.AddRecipientRequest{Email: email}
	if name, ok := args["name"].(string); ok {
		req.Name = name
	}
	if role, ok := args["role"].(string); ok && role != "" {
		req.Role = signing.RecipientRole(strings.ToUpper(role))
	}
	if order, ok := args["signing_order"].(float64); ok {
		req.SigningOrder = int(order)
	}

	result, err := s.signing.AddRecipient(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	r := result.Recipient
	style := s.signing.Colors().StyleFor(r.Color)
	responseText := fmt.Sprintf("Added recipient: %s <%s>\n", r.Name, r.Email)
	responseText += fmt.Sprintf("Role: %s\n", r.Role)
	if r.SigningOrder > 0 {
		responseText += fmt.Sprintf("Signing order: %d\n", r.SigningOrder)
	}
	responseText += fmt.Sprintf("Color: %s (text: %s)\n", r.Color, style.ContrastText)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRecipientList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipients, err := s.signing.ListRecipients()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(recipients) == 0 {
		return mcp.NewToolResultText("No recipients on the active document"), nil
	}

	responseText := fmt.Sprintf("%d recipient(s):\n", len(recipients))
	for i, r := range recipients {
		responseText += fmt.Sprintf("%d. %s <%s>\n", i+1, r.Name, r.Email)
		responseText += fmt.Sprintf("   Role: %s, Status: %s", r.Role, r.SigningStatus)
		if r.SigningOrder > 0 {
			responseText += fmt.Sprintf(", Order: %d", r.SigningOrder)
		}
		responseText += fmt.Sprintf(", Color: %s\n", r.Color)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldPlace(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldType, err := request.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	pageNumber, ok := args["page_number"].(float64)
	if !ok {
		return mcp.NewToolResultError("page_number is required"), nil
	}
	pointerX, ok := args["pointer_x"].(float64)
	if !ok {
		return mcp.NewToolResultError("pointer_x is required"), nil
	}
	pointerY, ok := args["pointer_y"].(float64)
	if !ok {
		return mcp.NewToolResultError("pointer_y is required"), nil
	}

	req := signing.PlaceFieldRequest{
		Type:       signing.FieldType(strings.ToUpper(fieldType)),
		PageNumber: int(pageNumber),
		PointerX:   pointerX,
		PointerY:   pointerY,
	}
	if email, ok := args["signer_email"].(string); ok {
		req.SignerEmail = email
	}
	if raw, ok := args["field_meta"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Meta); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid field_meta: %v", err)), nil
		}
	}

	result, err := s.signing.PlaceField(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f := result.Field
	responseText := fmt.Sprintf("Placed %s field %s\n", f.Type, f.ID)
	responseText += fmt.Sprintf("Page: %d\n", f.PageNumber)
	responseText += fmt.Sprintf("Position: %.2f%%, %.2f%% Size: %.2f%% x %.2f%%\n",
		f.PageX, f.PageY, f.PageWidth, f.PageHeight)
	if f.SignerEmail != "" {
		responseText += fmt.Sprintf("Signer: %s\n", f.SignerEmail)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	viewer := ""
	if email, ok := args["viewer_email"].(string); ok {
		viewer = email
	}

	views, err := s.signing.ListFields(viewer)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(views) == 0 {
		return mcp.NewToolResultText("No fields on the active document"), nil
	}

	responseText := fmt.Sprintf("%d field(s):\n", len(views))
	for i, v := range views {
		f := v.Field
		responseText += fmt.Sprintf("%d. [%s] %s (%s) page %d\n", i+1, f.Type, v.Label, f.ID, f.PageNumber)
		if v.Box != nil {
			responseText += fmt.Sprintf("   Box: x=%.1f y=%.1f w=%.1f h=%.1f\n",
				v.Box.X, v.Box.Y, v.Box.Width, v.Box.Height)
		} else {
			responseText += "   Box: page not laid out yet\n"
		}
		responseText += fmt.Sprintf("   Inserted: %t, Shows: %s\n", f.Inserted, v.Display)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldSign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldID, err := request.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signing.SignField(signing.SignFieldRequest{
		FieldID: fieldID,
		Email:   email,
		Value:   value,
	})
	if err != nil {
		if signing.IsValidationError(err) {
			return mcp.NewToolResultError(fmt.Sprintf("validation failed: %v", err)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Signed field %s for %s\n", result.Field.ID, email)
	responseText += fmt.Sprintf("Inserted: %t\n", result.Field.Inserted)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldUnsign(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldID, err := request.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signing.UnsignField(signing.UnsignFieldRequest{FieldID: fieldID, Email: email})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Cleared field %s for %s\n", result.Field.ID, email)
	responseText += fmt.Sprintf("Inserted: %t\n", result.Field.Inserted)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleFieldTouch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fieldID, err := request.RequireString("field_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()
	candidate := ""
	if c, ok := args["candidate"].(string); ok {
		candidate = c
	}

	result, err := s.signing.TouchField(signing.TouchFieldRequest{
		FieldID:   fieldID,
		Email:     email,
		Candidate: candidate,
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !result.Signed {
		return mcp.NewToolResultText(fmt.Sprintf("Field %s did not auto-sign", fieldID)), nil
	}
	responseText := fmt.Sprintf("Field %s auto-signed for %s\n", fieldID, email)
	responseText += fmt.Sprintf("Value: %s\n", result.Field.ValueFor(email))
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleGateStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, err := s.signing.GateStatus(email)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	switch {
	case state.Blocked:
		responseText = fmt.Sprintf("%s is blocked: waiting for %s to sign", email, state.NextSignerEmail)
	case state.Unrestricted:
		responseText = "No restriction: the document is fully signed (read-only view)"
	default:
		responseText = fmt.Sprintf("%s is permitted to act", email)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleCompletionStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.signing.Completion(email)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.Complete {
		return mcp.NewToolResultText(fmt.Sprintf("%s has completed every assigned field", email)), nil
	}
	responseText := fmt.Sprintf("%s has %d field(s) left:\n", email, len(result.MissingFieldIDs))
	for _, id := range result.MissingFieldIDs {
		responseText += fmt.Sprintf("  - %s\n", id)
	}
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSigningComplete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recipient, err := s.signing.CompleteSigning(email)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s", recipient.Email, recipient.SigningStatus)), nil
}

func (s *Server) handleSigningReject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	recipient, err := s.signing.RejectSigning(email)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s is now %s", recipient.Email, recipient.SigningStatus)), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	responseText := fmt.Sprintf("%s v%s - Server Information\n", s.config.ServerName, s.config.Version)
	responseText += fmt.Sprintf("Document directory: %s\n", s.config.DocumentDirectory)
	responseText += fmt.Sprintf("Store: %s\n", s.config.StorePath)
	responseText += fmt.Sprintf("Date format: %s (%s)\n", s.config.DateFormat, s.config.TimeZone)
	responseText += fmt.Sprintf("Render scale: %.2f\n", s.config.RenderScale)
	responseText += fmt.Sprintf("Max file size: %d MB\n", s.config.MaxFileSize/(1024*1024))

	responseText += "\nAvailable tools:\n"
	for _, name := range []string{
		"document_open", "recipient_add", "recipient_list",
		"field_place", "field_list", "field_sign", "field_unsign", "field_touch",
		"signing_gate_status", "completion_status", "signing_complete", "signing_reject",
		"signing_server_info",
	} {
		responseText += fmt.Sprintf("\n• %s\n", name)
		responseText += descriptions.GetToolDescription(name) + "\n"
	}

	responseText += `
Typical session:
1. document_open to load a PDF and restore its state
2. recipient_add for each party (colors are assigned automatically)
3. field_place to lay out fields per recipient
4. field_sign / field_touch / field_unsign as each recipient acts
5. signing_gate_status before rendering a recipient's fields interactive
6. completion_status to gate the Complete action, then signing_complete`
	return mcp.NewToolResultText(responseText), nil
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting signing engine in stdio mode")
		log.Printf("Document directory: %s", s.config.DocumentDirectory)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport still only speaks stdio here.
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
