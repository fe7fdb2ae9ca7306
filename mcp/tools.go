package mcp

import (
	mcpsdk "github.com/mark3labs/mcp-go/mcp"
)

// registerTools wires every tool this server exposes onto the underlying
// MCP server. Each tool wraps a single vtsclient.Send[...] call (see
// handlers.go).
func (s *Server) registerTools() {
	s.mcp.AddTool(mcpsdk.NewTool("get_statistics",
		mcpsdk.WithDescription("Return VTube Studio runtime statistics: uptime, framerate, window size, connected plugin count."),
	), s.handleStatistics)

	s.mcp.AddTool(mcpsdk.NewTool("get_current_model",
		mcpsdk.WithDescription("Return details about the currently loaded Live2D model, or modelLoaded=false if none is loaded."),
	), s.handleCurrentModel)

	s.mcp.AddTool(mcpsdk.NewTool("list_available_models",
		mcpsdk.WithDescription("List every model VTube Studio knows about, whether loaded or not."),
	), s.handleAvailableModels)

	s.mcp.AddTool(mcpsdk.NewTool("load_model",
		mcpsdk.WithDescription("Load the model with the given modelID, unloading whatever is currently loaded."),
		mcpsdk.WithString("modelID", mcpsdk.Required(), mcpsdk.Description("The modelID, as returned by list_available_models.")),
	), s.handleModelLoad)

	s.mcp.AddTool(mcpsdk.NewTool("list_hotkeys",
		mcpsdk.WithDescription("List the hotkeys available on the current model, or on another model if modelID is given."),
		mcpsdk.WithString("modelID", mcpsdk.Description("Optional modelID to list hotkeys for instead of the current model.")),
	), s.handleHotkeysInCurrentModel)

	s.mcp.AddTool(mcpsdk.NewTool("trigger_hotkey",
		mcpsdk.WithDescription("Trigger the hotkey with the given hotkeyID, as if it were pressed in VTube Studio."),
		mcpsdk.WithString("hotkeyID", mcpsdk.Required(), mcpsdk.Description("The hotkeyID, as returned by list_hotkeys.")),
	), s.handleHotkeyTrigger)

	s.mcp.AddTool(mcpsdk.NewTool("set_parameter_value",
		mcpsdk.WithDescription("Inject a value for a custom tracking parameter, as if it came from a tracker."),
		mcpsdk.WithString("id", mcpsdk.Required(), mcpsdk.Description("The parameter's name/id.")),
		mcpsdk.WithString("value", mcpsdk.Required(), mcpsdk.Description("The value to set, as a decimal number.")),
	), s.handleInjectParameterData)

	s.mcp.AddTool(mcpsdk.NewTool("list_input_parameters",
		mcpsdk.WithDescription("List every input parameter (default and custom) the current model exposes, with current values."),
	), s.handleInputParameterList)
}
