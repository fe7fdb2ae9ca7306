package vtsdata

// RequestType identifies the shape of a request envelope's data field.
//
// It is an open string enum: the constants below are the kinds this module
// knows how to build typed structs for, but any string round-trips through
// JSON unchanged, so a host that adds new request types never breaks decoding.
type RequestType string

// String returns the wire representation of the request type.
func (t RequestType) String() string { return string(t) }

const (
	RequestTypeAPIState              RequestType = "APIStateRequest"
	RequestTypeAuthenticationToken   RequestType = "AuthenticationTokenRequest"
	RequestTypeAuthentication        RequestType = "AuthenticationRequest"
	RequestTypeStatistics            RequestType = "StatisticsRequest"
	RequestTypeVTSFolderInfo         RequestType = "VTSFolderInfoRequest"
	RequestTypeCurrentModel          RequestType = "CurrentModelRequest"
	RequestTypeAvailableModels       RequestType = "AvailableModelsRequest"
	RequestTypeModelLoad             RequestType = "ModelLoadRequest"
	RequestTypeMoveModel             RequestType = "MoveModelRequest"
	RequestTypeHotkeysInCurrentModel RequestType = "HotkeysInCurrentModelRequest"
	RequestTypeHotkeyTrigger         RequestType = "HotkeyTriggerRequest"
	RequestTypeArtMeshList           RequestType = "ArtMeshListRequest"
	RequestTypeColorTint             RequestType = "ColorTintRequest"
	RequestTypeSceneColorOverlayInfo RequestType = "SceneColorOverlayInfoRequest"
	RequestTypeFaceFound             RequestType = "FaceFoundRequest"
	RequestTypeInputParameterList    RequestType = "InputParameterListRequest"
	RequestTypeParameterValue        RequestType = "ParameterValueRequest"
	RequestTypeLive2DParameterList   RequestType = "Live2DParameterListRequest"
	RequestTypeParameterCreation     RequestType = "ParameterCreationRequest"
	RequestTypeParameterDeletion     RequestType = "ParameterDeletionRequest"
	RequestTypeInjectParameterData   RequestType = "InjectParameterDataRequest"
	RequestTypeEventSubscription     RequestType = "EventSubscriptionRequest"
	RequestTypeNDIConfig             RequestType = "NDIConfigRequest"
	RequestTypePostProcessingList    RequestType = "PostProcessingListRequest"
	RequestTypePostProcessingUpdate  RequestType = "PostProcessingUpdateRequest"
)
