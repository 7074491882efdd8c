package journeys

import (
	"encoding/json"
	"errors"
	"fmt"
)

// The API answered with a JSend status other than "success".
var ErrFail = errors.New("journeys api request failed")

// JSend envelope. The Journeys API puts the payload in "body" rather
// than "data", which holds request metadata.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Body    json.RawMessage `json:"body"`
}

// Decodes a JSend document, unmarshaling its body into out.
func decodeJSend(buf []byte, out interface{}) error {
	env := envelope{}
	if err := json.Unmarshal(buf, &env); err != nil {
		return fmt.Errorf("decoding envelope: %w", err)
	}

	if env.Status != "success" {
		msg := env.Message
		if msg == "" {
			msg = string(env.Data)
		}
		return fmt.Errorf("%w: status %q: %s", ErrFail, env.Status, msg)
	}

	if len(env.Body) == 0 || string(env.Body) == "null" {
		return nil
	}

	if err := json.Unmarshal(env.Body, out); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}

	return nil
}
