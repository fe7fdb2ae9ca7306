package mcp

import (
	"encoding/json"
	"errors"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"

	"github.com/walfie/vts-plugin-go/vtserr"
)

// ErrorCode categorizes a failed tool call for the agent reading it.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "validation"
	ErrHostRejected ErrorCode = "host_rejected"
	ErrNotConnected ErrorCode = "not_connected"
	ErrInternal     ErrorCode = "internal"
)

// ToolError is the JSON body of an error tool result.
type ToolError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e ToolError) toResult() *mcpsdk.CallToolResult {
	data, _ := json.Marshal(e)
	return mcpsdk.NewToolResultError(string(data))
}

func validationError(msg string) *mcpsdk.CallToolResult {
	return ToolError{Code: ErrValidation, Message: msg}.toResult()
}

func internalError(err error) *mcpsdk.CallToolResult {
	return ToolError{Code: ErrInternal, Message: err.Error()}.toResult()
}

// clientError classifies a vtsclient.Send error into a ToolError, so a host
// rejection (e.g. "no model loaded") reads differently to the agent than a
// dropped connection.
func clientError(err error) *mcpsdk.CallToolResult {
	var apiErr *vtserr.Error
	if errors.As(err, &apiErr) && apiErr.Kind == vtserr.KindAPI {
		return ToolError{
			Code:    ErrHostRejected,
			Message: err.Error(),
			Details: map[string]any{"errorID": apiErr.APIErrorID},
		}.toResult()
	}
	if vtserr.HasKind(err, vtserr.KindConnectionDropped) || vtserr.HasKind(err, vtserr.KindConnectionRefused) {
		return ToolError{Code: ErrNotConnected, Message: err.Error()}.toResult()
	}
	return internalError(err)
}
