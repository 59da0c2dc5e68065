package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrUnexpectedResponse is returned when a successful response carries a
// body that cannot be decoded.
var ErrUnexpectedResponse = errors.New("unexpected response")

// Kind tells a successful Response apart from a failed one.
type Kind int

const (
	Failure Kind = iota
	Success
)

func (k Kind) String() string {
	if k == Success {
		return "success"
	}
	return "failure"
}

// Response is the typed result of a request. Data is only meaningful when
// Kind is Success; StatusCode is always set.
type Response[T any] struct {
	Kind       Kind
	StatusCode int
	Data       T
}

// OK reports whether the response is a Success.
func (r Response[T]) OK() bool {
	return r.Kind == Success
}

// TokenData is the payload of a successful login.
type TokenData struct {
	Token string `json:"token"`
}

// envelope is the wire format shared by every endpoint.
type envelope struct {
	Code  int             `json:"code"`
	Data  json.RawMessage `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

// decodeResponse turns a raw body into a Response. The envelope code wins
// over the HTTP status when present. Bodies of non-200 responses are not
// required to be JSON.
func decodeResponse[T any](body []byte, status int) (Response[T], error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if status != http.StatusOK {
			return Response[T]{Kind: Failure, StatusCode: status}, nil
		}
		return Response[T]{}, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	code := env.Code
	if code == 0 {
		code = status
	}

	res := Response[T]{Kind: Failure, StatusCode: code}
	if code != http.StatusOK || len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return res, nil
	}

	if err := json.Unmarshal(env.Data, &res.Data); err != nil {
		return Response[T]{}, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	res.Kind = Success
	return res, nil
}
