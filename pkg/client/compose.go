package client

import (
	"context"
	"encoding/json"
)

// CallFunc starts one call and returns its Outcome.
type CallFunc func() (*Outcome[json.RawMessage], error)

// PreparedCall is a reusable deferred call with its reactions attached.
// Every invocation issues a new request.
type PreparedCall func() (*Outcome[json.RawMessage], error)

// Prepare returns a CallFunc for function in module. Credentials are read
// each time the CallFunc runs.
func (c *Client) Prepare(module, function string, params Value, opts *TransportOptions) CallFunc {
	return func() (*Outcome[json.RawMessage], error) {
		return c.Call(context.Background(), module, function, params, opts)
	}
}

// PrepareCall wraps call so that every invocation runs it afresh and attaches
// onSuccess and onError to the resulting Outcome. Nil reactions are no-ops.
// A synchronous error from call is returned as is and triggers no reaction.
func PrepareCall(call CallFunc, onSuccess func(json.RawMessage), onError func(error)) PreparedCall {
	return func() (*Outcome[json.RawMessage], error) {
		outcome, err := call()
		if err != nil {
			return nil, err
		}
		return outcome.Then(onSuccess, onError), nil
	}
}

// MultiCall returns a function that fires every prepared call in order,
// without waiting between them, and joins their Outcomes with All.
//
// onSuccess receives every response in call order once all have resolved;
// onError receives the first rejection. A prepared call that fails
// synchronously counts as a rejection, and the remaining calls still fire.
func MultiCall(calls []PreparedCall, onSuccess func([]json.RawMessage), onError func(error)) func() *Outcome[[]json.RawMessage] {
	return func() *Outcome[[]json.RawMessage] {
		outcomes := make([]*Outcome[json.RawMessage], 0, len(calls))
		for _, call := range calls {
			outcome, err := call()
			if err != nil {
				outcome = Rejected[json.RawMessage](err)
			}
			outcomes = append(outcomes, outcome)
		}
		return All(outcomes...).Then(onSuccess, onError)
	}
}
