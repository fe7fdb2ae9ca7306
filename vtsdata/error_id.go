package vtsdata

import "strconv"

// ErrorID is the numeric error code carried by an APIError response.
//
// It is an open enum: unrecognized values still round-trip through JSON and
// compare equal by their numeric value, they just don't have a Name().
type ErrorID int32

// ErrorIDRequestRequiresAuthentication is the one error id the core cares
// about: receiving it causes the auth middleware to re-authenticate and
// replay the request once.
const ErrorIDRequestRequiresAuthentication ErrorID = 8

// General errors.
const (
	ErrorIDInternalServerError       ErrorID = 0
	ErrorIDAPIAccessDeactivated      ErrorID = 1
	ErrorIDJSONInvalid               ErrorID = 2
	ErrorIDAPINameInvalid            ErrorID = 3
	ErrorIDAPIVersionInvalid         ErrorID = 4
	ErrorIDRequestIDInvalid          ErrorID = 5
	ErrorIDRequestTypeMissingOrEmpty ErrorID = 6
	ErrorIDRequestTypeUnknown        ErrorID = 7
	ErrorIDRequestRequiresPermission ErrorID = 9
)

// AuthenticationTokenRequest errors.
const (
	ErrorIDTokenRequestDenied               ErrorID = 50
	ErrorIDTokenRequestCurrentlyOngoing     ErrorID = 51
	ErrorIDTokenRequestPluginNameInvalid    ErrorID = 52
	ErrorIDTokenRequestDeveloperNameInvalid ErrorID = 53
	ErrorIDTokenRequestPluginIconInvalid    ErrorID = 54
)

// AuthenticationRequest errors.
const (
	ErrorIDAuthenticationTokenMissing           ErrorID = 100
	ErrorIDAuthenticationPluginNameMissing      ErrorID = 101
	ErrorIDAuthenticationPluginDeveloperMissing ErrorID = 102
)

// ModelLoadRequest errors.
const (
	ErrorIDModelIDMissing             ErrorID = 150
	ErrorIDModelIDInvalid             ErrorID = 151
	ErrorIDModelIDNotFound            ErrorID = 152
	ErrorIDModelLoadCooldownNotOver   ErrorID = 153
	ErrorIDCannotCurrentlyChangeModel ErrorID = 154
)

// HotkeyTriggerRequest errors.
const (
	ErrorIDHotkeyQueueFull                                         ErrorID = 200
	ErrorIDHotkeyExecutionFailedBecauseNoModelLoaded               ErrorID = 201
	ErrorIDHotkeyIDNotFoundInModel                                 ErrorID = 202
	ErrorIDHotkeyCooldownNotOver                                   ErrorID = 203
	ErrorIDHotkeyIDFoundButHotkeyDataInvalid                       ErrorID = 204
	ErrorIDHotkeyExecutionFailedBecauseBadState                    ErrorID = 205
	ErrorIDHotkeyUnknownExecutionFailure                           ErrorID = 206
	ErrorIDHotkeyExecutionFailedBecauseLive2DItemNotFound          ErrorID = 207
	ErrorIDHotkeyExecutionFailedBecauseLive2DItemsDoNotSupportType ErrorID = 208
)

// ColorTintRequest errors.
const (
	ErrorIDColorTintRequestNoModelLoaded       ErrorID = 250
	ErrorIDColorTintRequestMatchOrColorMissing ErrorID = 251
	ErrorIDColorTintRequestInvalidColorValue   ErrorID = 252
)

// MoveModelRequest errors.
const (
	ErrorIDMoveModelRequestNoModelLoaded    ErrorID = 300
	ErrorIDMoveModelRequestMissingFields    ErrorID = 301
	ErrorIDMoveModelRequestValuesOutOfRange ErrorID = 302
)

// ParameterCreationRequest errors.
const (
	ErrorIDCustomParamNameInvalid                 ErrorID = 350
	ErrorIDCustomParamValuesInvalid               ErrorID = 351
	ErrorIDCustomParamAlreadyCreatedByOtherPlugin ErrorID = 352
	ErrorIDCustomParamExplanationTooLong          ErrorID = 353
	ErrorIDCustomParamDefaultParamNameNotAllowed  ErrorID = 354
	ErrorIDCustomParamLimitPerPluginExceeded      ErrorID = 355
	ErrorIDCustomParamLimitTotalExceeded          ErrorID = 356
)

// ParameterDeletionRequest errors.
const (
	ErrorIDCustomParamDeletionNameInvalid              ErrorID = 400
	ErrorIDCustomParamDeletionNotFound                 ErrorID = 401
	ErrorIDCustomParamDeletionCreatedByOtherPlugin     ErrorID = 402
	ErrorIDCustomParamDeletionCannotDeleteDefaultParam ErrorID = 403
)

// InjectParameterDataRequest errors.
const (
	ErrorIDInjectDataNoDataProvided               ErrorID = 450
	ErrorIDInjectDataValueInvalid                 ErrorID = 451
	ErrorIDInjectDataWeightInvalid                ErrorID = 452
	ErrorIDInjectDataParamNameNotFound            ErrorID = 453
	ErrorIDInjectDataParamControlledByOtherPlugin ErrorID = 454
	ErrorIDInjectDataModeUnknown                  ErrorID = 455
)

// ParameterValueRequest errors.
const (
	ErrorIDParameterValueRequestParameterNotFound ErrorID = 500
)

// NDIConfigRequest errors.
const (
	ErrorIDNDIConfigCooldownNotOver   ErrorID = 550
	ErrorIDNDIConfigResolutionInvalid ErrorID = 551
)

// EventSubscriptionRequest errors.
const (
	ErrorIDEventSubscriptionRequestEventTypeUnknown ErrorID = 950
)

// Event config errors.
const (
	ErrorIDEventTestEventTestMessageTooLong    ErrorID = 100_000
	ErrorIDEventModelLoadedEventModelIDInvalid ErrorID = 100_050
)

var errorIDNames = map[ErrorID]string{
	ErrorIDInternalServerError:           "InternalServerError",
	ErrorIDAPIAccessDeactivated:          "APIAccessDeactivated",
	ErrorIDJSONInvalid:                   "JSONInvalid",
	ErrorIDAPINameInvalid:                "APINameInvalid",
	ErrorIDAPIVersionInvalid:             "APIVersionInvalid",
	ErrorIDRequestIDInvalid:              "RequestIDInvalid",
	ErrorIDRequestTypeMissingOrEmpty:     "RequestTypeMissingOrEmpty",
	ErrorIDRequestTypeUnknown:            "RequestTypeUnknown",
	ErrorIDRequestRequiresAuthentication: "RequestRequiresAuthentication",
	ErrorIDRequestRequiresPermission:     "RequestRequiresPermission",

	ErrorIDTokenRequestDenied:               "TokenRequestDenied",
	ErrorIDTokenRequestCurrentlyOngoing:     "TokenRequestCurrentlyOngoing",
	ErrorIDTokenRequestPluginNameInvalid:    "TokenRequestPluginNameInvalid",
	ErrorIDTokenRequestDeveloperNameInvalid: "TokenRequestDeveloperNameInvalid",
	ErrorIDTokenRequestPluginIconInvalid:    "TokenRequestPluginIconInvalid",

	ErrorIDAuthenticationTokenMissing:           "AuthenticationTokenMissing",
	ErrorIDAuthenticationPluginNameMissing:      "AuthenticationPluginNameMissing",
	ErrorIDAuthenticationPluginDeveloperMissing: "AuthenticationPluginDeveloperMissing",

	ErrorIDModelIDMissing:             "ModelIDMissing",
	ErrorIDModelIDInvalid:             "ModelIDInvalid",
	ErrorIDModelIDNotFound:            "ModelIDNotFound",
	ErrorIDModelLoadCooldownNotOver:   "ModelLoadCooldownNotOver",
	ErrorIDCannotCurrentlyChangeModel: "CannotCurrentlyChangeModel",

	ErrorIDHotkeyQueueFull:                                         "HotkeyQueueFull",
	ErrorIDHotkeyExecutionFailedBecauseNoModelLoaded:               "HotkeyExecutionFailedBecauseNoModelLoaded",
	ErrorIDHotkeyIDNotFoundInModel:                                 "HotkeyIDNotFoundInModel",
	ErrorIDHotkeyCooldownNotOver:                                   "HotkeyCooldownNotOver",
	ErrorIDHotkeyIDFoundButHotkeyDataInvalid:                       "HotkeyIDFoundButHotkeyDataInvalid",
	ErrorIDHotkeyExecutionFailedBecauseBadState:                    "HotkeyExecutionFailedBecauseBadState",
	ErrorIDHotkeyUnknownExecutionFailure:                           "HotkeyUnknownExecutionFailure",
	ErrorIDHotkeyExecutionFailedBecauseLive2DItemNotFound:          "HotkeyExecutionFailedBecauseLive2DItemNotFound",
	ErrorIDHotkeyExecutionFailedBecauseLive2DItemsDoNotSupportType: "HotkeyExecutionFailedBecauseLive2DItemsDoNotSupportThisHotkeyType",

	ErrorIDColorTintRequestNoModelLoaded:       "ColorTintRequestNoModelLoaded",
	ErrorIDColorTintRequestMatchOrColorMissing: "ColorTintRequestMatchOrColorMissing",
	ErrorIDColorTintRequestInvalidColorValue:   "ColorTintRequestInvalidColorValue",

	ErrorIDMoveModelRequestNoModelLoaded:    "MoveModelRequestNoModelLoaded",
	ErrorIDMoveModelRequestMissingFields:    "MoveModelRequestMissingFields",
	ErrorIDMoveModelRequestValuesOutOfRange: "MoveModelRequestValuesOutOfRange",

	ErrorIDCustomParamNameInvalid:                 "CustomParamNameInvalid",
	ErrorIDCustomParamValuesInvalid:               "CustomParamValuesInvalid",
	ErrorIDCustomParamAlreadyCreatedByOtherPlugin: "CustomParamAlreadyCreatedByOtherPlugin",
	ErrorIDCustomParamExplanationTooLong:          "CustomParamExplanationTooLong",
	ErrorIDCustomParamDefaultParamNameNotAllowed:  "CustomParamDefaultParamNameNotAllowed",
	ErrorIDCustomParamLimitPerPluginExceeded:      "CustomParamLimitPerPluginExceeded",
	ErrorIDCustomParamLimitTotalExceeded:          "CustomParamLimitTotalExceeded",

	ErrorIDCustomParamDeletionNameInvalid:              "CustomParamDeletionNameInvalid",
	ErrorIDCustomParamDeletionNotFound:                 "CustomParamDeletionNotFound",
	ErrorIDCustomParamDeletionCreatedByOtherPlugin:     "CustomParamDeletionCreatedByOtherPlugin",
	ErrorIDCustomParamDeletionCannotDeleteDefaultParam: "CustomParamDeletionCannotDeleteDefaultParam",

	ErrorIDInjectDataNoDataProvided:               "InjectDataNoDataProvided",
	ErrorIDInjectDataValueInvalid:                 "InjectDataValueInvalid",
	ErrorIDInjectDataWeightInvalid:                "InjectDataWeightInvalid",
	ErrorIDInjectDataParamNameNotFound:            "InjectDataParamNameNotFound",
	ErrorIDInjectDataParamControlledByOtherPlugin: "InjectDataParamControlledByOtherPlugin",
	ErrorIDInjectDataModeUnknown:                  "InjectDataModeUnknown",

	ErrorIDParameterValueRequestParameterNotFound: "ParameterValueRequestParameterNotFound",

	ErrorIDNDIConfigCooldownNotOver:   "NDIConfigCooldownNotOver",
	ErrorIDNDIConfigResolutionInvalid: "NDIConfigResolutionInvalid",

	ErrorIDEventSubscriptionRequestEventTypeUnknown: "EventSubscriptionRequestEventTypeUnknown",

	ErrorIDEventTestEventTestMessageTooLong:    "Event_TestEvent_TestMessageTooLong",
	ErrorIDEventModelLoadedEventModelIDInvalid: "Event_ModelLoadedEvent_ModelIDInvalid",
}

// Name returns a descriptive name for the error id, or "" if unrecognized.
func (e ErrorID) Name() string {
	return errorIDNames[e]
}

// String formats the error id as "<id> (<Name>)", or just "<id>" if unrecognized.
func (e ErrorID) String() string {
	if name := e.Name(); name != "" {
		return strconv.Itoa(int(e)) + " (" + name + ")"
	}
	return strconv.Itoa(int(e))
}
