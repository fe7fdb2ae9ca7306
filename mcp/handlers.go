package mcp

import (
	"context"
	"strconv"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"

	"github.com/walfie/vts-plugin-go/vtsclient"
	"github.com/walfie/vts-plugin-go/vtsdata"
)

func (s *Server) handleStatistics(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	resp, err := vtsclient.Send[vtsdata.StatisticsResponse](ctx, s.client, vtsdata.StatisticsRequest{})
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleCurrentModel(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	resp, err := vtsclient.Send[vtsdata.CurrentModelResponse](ctx, s.client, vtsdata.CurrentModelRequest{})
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleAvailableModels(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	resp, err := vtsclient.Send[vtsdata.AvailableModelsResponse](ctx, s.client, vtsdata.AvailableModelsRequest{})
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleModelLoad(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	modelID, err := req.RequireString("modelID")
	if err != nil {
		return validationError("modelID is required"), nil
	}

	resp, err := vtsclient.Send[vtsdata.ModelLoadResponse](ctx, s.client, vtsdata.ModelLoadRequest{ModelID: modelID})
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleHotkeysInCurrentModel(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	vtsReq := vtsdata.HotkeysInCurrentModelRequest{}
	if modelID := req.GetString("modelID", ""); modelID != "" {
		vtsReq.ModelID = &modelID
	}

	resp, err := vtsclient.Send[vtsdata.HotkeysInCurrentModelResponse](ctx, s.client, vtsReq)
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleHotkeyTrigger(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	hotkeyID, err := req.RequireString("hotkeyID")
	if err != nil {
		return validationError("hotkeyID is required"), nil
	}

	resp, err := vtsclient.Send[vtsdata.HotkeyTriggerResponse](ctx, s.client, vtsdata.HotkeyTriggerRequest{HotkeyID: hotkeyID})
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleInjectParameterData(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return validationError("id is required"), nil
	}
	rawValue, err := req.RequireString("value")
	if err != nil {
		return validationError("value is required"), nil
	}
	value, err := strconv.ParseFloat(rawValue, 64)
	if err != nil {
		return validationError("value must be a decimal number"), nil
	}

	vtsReq := vtsdata.InjectParameterDataRequest{
		ParameterValues: []vtsdata.ParameterValue{{ID: id, Value: value}},
	}
	resp, err := vtsclient.Send[vtsdata.InjectParameterDataResponse](ctx, s.client, vtsReq)
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}

func (s *Server) handleInputParameterList(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	resp, err := vtsclient.Send[vtsdata.InputParameterListResponse](ctx, s.client, vtsdata.InputParameterListRequest{})
	if err != nil {
		return clientError(err), nil
	}
	return jsonResult(resp)
}
