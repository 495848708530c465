package dbusadapter

import (
	"context"
	"sync"
)

// FakeAdapter is an in-memory Adapter for tests: it never touches a
// real bus. Responses records planned results keyed by Member; Calls
// records every Call made, in order, for assertions.
type FakeAdapter struct {
	mu        sync.Mutex
	Responses map[string]FakeResponse
	Calls     []Call
}

// FakeResponse is the canned result for one bus member name.
type FakeResponse struct {
	Body []interface{}
	Err  error
}

// NewFakeAdapter returns a FakeAdapter with no canned responses; calls
// to members without a registered FakeResponse return an
// ErrKindOther DBusError.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{Responses: make(map[string]FakeResponse)}
}

// On registers the response returned for calls to member.
func (f *FakeAdapter) On(member string, body []interface{}, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[member] = FakeResponse{Body: body, Err: err}
}

func (f *FakeAdapter) Call(_ context.Context, c Call) ([]interface{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, c)

	resp, ok := f.Responses[c.Member]
	if !ok {
		return nil, &DBusError{Kind: ErrKindOther, Message: "no fake response registered for " + c.Member}
	}
	return resp.Body, resp.Err
}

func (f *FakeAdapter) Close() error { return nil }
