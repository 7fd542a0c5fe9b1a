package cli

import (
	"context"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
	"github.com/dmitrijs2005/reverseauction/internal/common"
)

// Prompt indirections, swapped out by tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getNumber = GetNumber
var getConfirm = GetConfirm
var getMultiline = GetMultiline

// Register prompts for name, email and password and creates an account.
// New accounts cannot bid or create listings until an admin approves them.
func (a *App) Register(ctx context.Context, _ []string) error {
	name, err := getSimpleText(a.reader, "Enter company contact name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.store.Register(ctx, name, email, string(password))
	if err != nil {
		return err
	}
	a.greet(sess)
	return nil
}

// Login prompts for credentials and signs in.
func (a *App) Login(ctx context.Context, _ []string) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.store.Login(ctx, email, string(password))
	if err != nil {
		return err
	}
	a.greet(sess)
	return nil
}

func (a *App) greet(sess models.Session) {
	name := sess.UserID
	if sess.User != nil && sess.User.Name != "" {
		name = sess.User.Name
	}
	a.printf("Welcome, %s!\n", name)
	if !sess.IsApproved && !sess.IsAdmin {
		a.println("Your account is waiting for admin approval. You can browse but not bid.")
	}
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	if err := a.store.Logout(ctx); err != nil {
		return err
	}
	a.feed.Replace(nil, nil)
	a.feed.SetFilter("")
	a.history = nil
	a.println("Logged out")
	return nil
}

// Me prints the cached profile of the signed-in user.
func (a *App) Me(_ context.Context, _ []string) error {
	sess := a.store.Session()
	if sess.User == nil {
		a.println("User:", sess.UserID)
		return nil
	}
	printUser(a.out, *sess.User)
	return nil
}

// Profile edits the company information. Empty answers keep the old value.
func (a *App) Profile(ctx context.Context, _ []string) error {
	var info models.CompanyInfo
	if u := a.store.Session().User; u != nil && u.CompanyInfo != nil {
		info = *u.CompanyInfo
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Company name", &info.CompanyName},
		{"Tax number", &info.TaxNumber},
		{"Address", &info.Address},
		{"City", &info.City},
		{"Phone", &info.Phone},
		{"Description", &info.Description},
	}
	for _, f := range fields {
		prompt := f.prompt
		if *f.dst != "" {
			prompt += " [" + *f.dst + "]"
		}
		v, err := getSimpleText(a.reader, prompt, a.out)
		if err != nil {
			return err
		}
		if v != "" {
			*f.dst = v
		}
	}

	if _, err := a.store.UpdateProfile(ctx, info); err != nil {
		return err
	}
	a.println("Profile updated")
	return nil
}

// Status shows who is signed in and the realtime connection state.
func (a *App) Status(_ context.Context, _ []string) error {
	sess := a.store.Session()
	if sess.IsZero() {
		a.println("Not logged in")
		return nil
	}
	a.printf("Logged in as %s (admin=%t, approved=%t)\n", sess.UserID, sess.IsAdmin, sess.IsApproved)
	if a.live != nil {
		a.println("Live updates:", a.live.State())
	}
	if f := a.feed.Filter(); f != "" {
		a.println("Category filter:", f)
	}
	return nil
}
