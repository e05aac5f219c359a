package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// SalesAgentTool handles the sales_agent MCP tool: an authenticated
// request/status flow with no state machine. It prompts for whichever
// request field is still missing and otherwise forwards a single
// bearer-authenticated call to the platform.
type SalesAgentTool struct {
	requestURL string
	profileURL string
	client     *http.Client
}

// NewSalesAgentTool creates a SalesAgentTool with bounded timeouts.
func NewSalesAgentTool(requestURL, profileURL string, timeout time.Duration) *SalesAgentTool {
	return &SalesAgentTool{
		requestURL: requestURL,
		profileURL: profileURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Definition returns the MCP tool definition for registration.
func (t *SalesAgentTool) Definition() mcp.Tool {
	return mcp.NewTool("sales_agent",
		mcp.WithDescription(
			"Submit a sales agent application or check its status. "+
				"Use action=request with bank_name and position to apply; "+
				"use action=status to check the current application. "+
				"Requires the user's access token from their logged-in session.",
		),
		mcp.WithString("action",
			mcp.Description("Either 'request' to submit a new application or 'status' to check it."),
		),
		mcp.WithString("bank_name",
			mcp.Description("Name of the bank (required for the request action)."),
		),
		mcp.WithString("position",
			mcp.Description("Position being applied for (required for the request action)."),
		),
		mcp.WithString("access_token",
			mcp.Description("The user's access token from their session context."),
		),
	)
}

// Handle processes the sales_agent tool call.
func (t *SalesAgentTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token := strings.TrimSpace(req.GetString("access_token", ""))
	if token == "" {
		return mcp.NewToolResultError(
			"You need to log in first before making a sales agent request. Please log in to your account and try again.",
		), nil
	}

	action := req.GetString("action", "")
	switch action {
	case "request":
		return t.submitRequest(ctx, req, token)
	case "status":
		return t.checkStatus(ctx, token)
	default:
		return mcp.NewToolResultText(
			"Please provide the name of the bank you want to be a sales agent for.",
		), nil
	}
}

// submitRequest posts a new application once both fields are present,
// prompting for whichever is still missing.
func (t *SalesAgentTool) submitRequest(ctx context.Context, req mcp.CallToolRequest, token string) (*mcp.CallToolResult, error) {
	bankName := strings.TrimSpace(req.GetString("bank_name", ""))
	position := strings.TrimSpace(req.GetString("position", ""))

	if bankName == "" {
		return mcp.NewToolResultText("Please provide the name of the bank you work for."), nil
	}
	if position == "" {
		return mcp.NewToolResultText("Please specify the position at " + bankName + "."), nil
	}

	body, err := json.Marshal(map[string]string{
		"bank_name": bankName,
		"position":  position,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.requestURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("An error occurred: %v", err)), nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return mcp.NewToolResultError(
			fmt.Sprintf("Failed to submit request. Status code: %d", resp.StatusCode),
		), nil
	}

	return mcp.NewToolResultText("Your sales agent request has been submitted successfully."), nil
}

// checkStatus fetches the current application status.
func (t *SalesAgentTool) checkStatus(ctx context.Context, token string) (*mcp.CallToolResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, t.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building status request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("An error occurred: %v", err)), nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return mcp.NewToolResultError(
			fmt.Sprintf("Failed to fetch status. Status code: %d", resp.StatusCode),
		), nil
	}

	status, err := io.ReadAll(resp.Body)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("An error occurred: %v", err)), nil
	}

	return mcp.NewToolResultText(
		"Current status of your sales agent request: " + strings.TrimSpace(string(status)),
	), nil
}
