package ruletaapi

import "fmt"

// APIError is returned for non-2xx responses and for bodies missing required fields
type APIError struct {
	Op     string
	Status int
	// Message is the server-provided message, empty when the server sent none.
	Message string
	// Malformed is set when the body could not be decoded or lacked required fields.
	Malformed bool
}

func (e *APIError) Error() string {
	switch {
	case e.Malformed && e.Message != "":
		return fmt.Sprintf("%s: malformed response: %s", e.Op, e.Message)
	case e.Malformed:
		return fmt.Sprintf("%s: malformed response (status %d)", e.Op, e.Status)
	case e.Message != "":
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s: status %d", e.Op, e.Status)
	}
}

// ProtocolError is returned when a well-formed response violates the API contract
type ProtocolError struct {
	Op     string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: protocol violation: %s", e.Op, e.Reason)
}
