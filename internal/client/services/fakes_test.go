package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
)

type call struct {
	Method string
	Path   string
	Body   any
}

type reply struct {
	Body any
	Err  error
}

// fakeAPI answers by "METHOD /path" and records every call.
type fakeAPI struct {
	mu      sync.Mutex
	replies map[string]reply
	calls   []call
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{replies: make(map[string]reply)}
}

func (f *fakeAPI) on(method, path string, body any, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{Body: body, Err: err}
}

func (f *fakeAPI) Calls() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func (f *fakeAPI) do(method, path string, body, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})

	r, ok := f.replies[method+" "+path]
	if !ok {
		return &client.Error{Kind: client.ErrNotFound}
	}
	if r.Err != nil {
		return r.Err
	}
	if out != nil && r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, out)
	}
	return nil
}

func (f *fakeAPI) Get(_ context.Context, path string, out any) error {
	return f.do(http.MethodGet, path, nil, out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	return f.do(http.MethodPost, path, body, out)
}

func (f *fakeAPI) Put(_ context.Context, path string, body, out any) error {
	return f.do(http.MethodPut, path, body, out)
}

func (f *fakeAPI) Patch(_ context.Context, path string, body, out any) error {
	return f.do(http.MethodPatch, path, body, out)
}

func (f *fakeAPI) Delete(_ context.Context, path string, out any) error {
	return f.do(http.MethodDelete, path, nil, out)
}
