package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
	"github.com/dmitrijs2005/reverseauction/internal/client/feed"
	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/client/realtime"
	"github.com/dmitrijs2005/reverseauction/internal/client/services"
)

// stubInputs makes getSimpleText answer from lines in order and
// getPassword return password.
func stubInputs(t *testing.T, password string, lines ...string) {
	t.Helper()
	origST, origGP, origML := getSimpleText, getPassword, getMultiline
	next := func() string {
		if len(lines) == 0 {
			return ""
		}
		l := lines[0]
		lines = lines[1:]
		return l
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(), nil }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(), nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText, getPassword, getMultiline = origST, origGP, origML
	})
}

type fakeAuth struct {
	sess models.Session

	loginEmail, loginPass string
	loginSess             models.Session
	loginErr              error

	regName   string
	regSess   models.Session
	regErr    error
	profile   models.CompanyInfo
	loggedOut bool
}

func (f *fakeAuth) Session() models.Session { return f.sess }

func (f *fakeAuth) Login(_ context.Context, email, password string) (models.Session, error) {
	f.loginEmail, f.loginPass = email, password
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	f.sess = f.loginSess
	return f.sess, nil
}

func (f *fakeAuth) Register(_ context.Context, name, _, _ string) (models.Session, error) {
	f.regName = name
	if f.regErr != nil {
		return models.Session{}, f.regErr
	}
	f.sess = f.regSess
	return f.sess, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	f.sess = models.Session{}
	return nil
}

func (f *fakeAuth) UpdateProfile(_ context.Context, info models.CompanyInfo) (models.User, error) {
	f.profile = info
	return models.User{CompanyInfo: &info}, nil
}

type fakeLive struct{ state realtime.State }

func (f fakeLive) State() realtime.State { return f.state }

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeAPI answers by "METHOD /path" and records every call.
type fakeAPI struct {
	mu      sync.Mutex
	replies map[string]any
	errs    map[string]error
	calls   []call
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{replies: make(map[string]any), errs: make(map[string]error)}
}

func (f *fakeAPI) on(method, path string, body any) {
	f.replies[method+" "+path] = body
}

func (f *fakeAPI) fail(method, path string, err error) {
	f.errs[method+" "+path] = err
}

func (f *fakeAPI) do(method, path string, body, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Method: method, Path: path, Body: body})

	key := method + " " + path
	if err := f.errs[key]; err != nil {
		return err
	}
	r, ok := f.replies[key]
	if !ok {
		return &client.Error{Kind: client.ErrNotFound}
	}
	if out != nil && r != nil {
		b, err := json.Marshal(r)
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

type testApp struct {
	*App
	auth *fakeAuth
	api  *fakeAPI
	out  *bytes.Buffer
}

func newTestApp(sess models.Session) *testApp {
	api := newFakeAPI()
	auth := &fakeAuth{sess: sess}
	out := &bytes.Buffer{}
	listings := services.NewListingService(api, nil)
	cats := services.NewCategoryService(api)
	users := services.NewUserService(api)

	app := New(Deps{
		Store:      auth,
		Listings:   listings,
		Categories: cats,
		Users:      users,
		Dashboard:  services.NewDashboardService(users, listings, cats, nil),
		Feed:       feed.New(10),
		Live:       fakeLive{state: realtime.Connected},
		In:         strings.NewReader(""),
		Out:        out,
	})
	return &testApp{App: app, auth: auth, api: api, out: out}
}

func member() models.Session {
	return models.NewSession("tok", models.User{ID: "u1", Name: "Alice", Email: "alice@example.org", IsApproved: true})
}

func admin() models.Session {
	return models.NewSession("tok", models.User{ID: "root", Name: "Root", Email: "root@example.org", IsApproved: true, IsAdmin: true})
}
