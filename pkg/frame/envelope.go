// SPDX-FileCopyrightText: 2026 The mwa-go contributors
//
// SPDX-License-Identifier: GPL-3.0-or-later

package frame

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Request is the plaintext envelope of an outbound application call. The
// parameter payload is opaque to this client.
type Request struct {
	ID     uint32          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Response is the plaintext envelope of an inbound reply, carrying either a
// result or a structured error for the request of the same ID.
type Response struct {
	ID     uint32          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ResponseError  `json:"error,omitempty"`
}

// ResponseError is a structured error inside a Response. It fails only the
// matching request and leaves the session usable.
type ResponseError struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

func (re *ResponseError) Error() string {
	return fmt.Sprintf("wallet returned error %d: %s", re.Code, re.Message)
}

// ErrorCodeAuthorizationFailed is sent by wallets when the user declined
// the request.
const ErrorCodeAuthorizationFailed int32 = -1

// IsUserRejection reports whether err is a wallet response carrying the
// user-declined error code, so callers can tell "user said no" from other
// failures.
func IsUserRejection(err error) bool {
	var re *ResponseError
	return errors.As(err, &re) && re.Code == ErrorCodeAuthorizationFailed
}

// ParseResponse decodes a decrypted frame payload into a Response.
func ParseResponse(plaintext []byte) (*Response, error) {
	resp := new(Response)
	if err := json.Unmarshal(plaintext, resp); err != nil {
		return nil, fmt.Errorf("parsing response envelope: %w", err)
	}
	return resp, nil
}
