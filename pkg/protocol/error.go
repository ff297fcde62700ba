package protocol

// ErrorCode identifies the type of error.
type ErrorCode uint8

const (
	ErrUnknown         ErrorCode = 0x00 // Unknown error
	ErrInvalidFrame    ErrorCode = 0x01 // Malformed frame or payload
	ErrHandlerNotFound ErrorCode = 0x02 // No listener for HID and event
	ErrHandlerFailed   ErrorCode = 0x03 // Listener returned an error or panicked
	ErrRenderFailed    ErrorCode = 0x04 // View could not be built
	ErrServerBusy      ErrorCode = 0x05 // Session limit reached
)

// String returns the string representation of the error code.
func (ec ErrorCode) String() string {
	switch ec {
	case ErrInvalidFrame:
		return "InvalidFrame"
	case ErrHandlerNotFound:
		return "HandlerNotFound"
	case ErrHandlerFailed:
		return "HandlerFailed"
	case ErrRenderFailed:
		return "RenderFailed"
	case ErrServerBusy:
		return "ServerBusy"
	default:
		return "Unknown"
	}
}

// ErrorMessage is sent when an error occurs.
type ErrorMessage struct {
	Code    ErrorCode // Error code
	Message string    // Human-readable error message
}

// EncodeErrorMessage encodes an ErrorMessage to bytes.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteByte(byte(em.Code))
	e.WriteString(em.Message)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage from bytes.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, err
	}
	return &ErrorMessage{
		Code:    ErrorCode(code),
		Message: message,
	}, nil
}

// NewError creates a new ErrorMessage.
func NewError(code ErrorCode, message string) *ErrorMessage {
	return &ErrorMessage{
		Code:    code,
		Message: message,
	}
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	return em.Code.String() + ": " + em.Message
}
