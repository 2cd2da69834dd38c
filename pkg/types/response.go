package types

// EnvelopeCodeSuccess is the sentinel placed in Envelope.Code for successful
// responses; anything else is a domain-level failure carried in Message.
const EnvelopeCodeSuccess = 1000

// Envelope is the wire format shared with the storefront clients.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
}
