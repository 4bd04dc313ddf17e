package goredact

// MsgType classifies a log message by the direction of the data it describes.
type MsgType string

const (
	// MessageTypeIn indicates incoming data
	MessageTypeIn MsgType = "IN"
	// MessageTypeOut indicates outgoing data
	MessageTypeOut MsgType = "OUT"
	// MessageTypeRequest indicates an outgoing request to an external service
	MessageTypeRequest MsgType = "REQUEST"
	// MessageTypeResponse indicates an incoming response from an external service
	MessageTypeResponse MsgType = "RESPONSE"
	// MessageTypeEvent indicates an application event
	MessageTypeEvent MsgType = "EVENT"
)
