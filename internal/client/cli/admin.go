package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

func (a *App) Users(ctx context.Context, _ []string) error {
	users, err := a.users.List(ctx)
	if err != nil {
		return err
	}
	printUsers(a.out, users)
	return nil
}

func (a *App) ApproveUser(ctx context.Context, args []string) error {
	u, err := a.users.Find(ctx, args[0])
	if err != nil {
		return err
	}
	if _, err := a.users.Approve(ctx, u); err != nil {
		return err
	}
	a.printf("%s approved\n", u.Email)
	return nil
}

// RejectUser takes the rest of the line as the reason shown to the user.
func (a *App) RejectUser(ctx context.Context, args []string) error {
	u, err := a.users.Find(ctx, args[0])
	if err != nil {
		return err
	}
	reason := strings.Join(args[1:], " ")
	if _, err := a.users.Reject(ctx, u, reason); err != nil {
		return err
	}
	a.printf("%s rejected\n", u.Email)
	return nil
}

func (a *App) ApproveListing(ctx context.Context, args []string) error {
	l, err := a.listings.Approve(ctx, args[0])
	if err != nil {
		return err
	}
	a.printf("Listing %q approved\n", l.Title)
	return nil
}

func (a *App) AddCategory(ctx context.Context, _ []string) error {
	var in models.CategoryInput
	var err error
	if in.Name, err = getSimpleText(a.reader, "Category name", a.out); err != nil {
		return err
	}
	if in.Description, err = getMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}
	if in.Icon, err = getSimpleText(a.reader, "Icon (optional)", a.out); err != nil {
		return err
	}

	c, err := a.categories.Create(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Category %s created\n", c.ID)
	return nil
}

func (a *App) ToggleCategory(ctx context.Context, args []string) error {
	c, err := a.categories.ToggleStatus(ctx, args[0])
	if err != nil {
		return err
	}
	state := "inactive"
	if c.IsActive {
		state = "active"
	}
	a.printf("Category %s is now %s\n", c.Name, state)
	return nil
}

func (a *App) DeleteCategory(ctx context.Context, args []string) error {
	ok, err := getConfirm(a.reader, "Delete category "+args[0]+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cancelled")
		return nil
	}
	if err := a.categories.Delete(ctx, args[0]); err != nil {
		return err
	}
	a.println("Category deleted")
	return nil
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	s, err := a.dashboard.Stats(ctx)
	if err != nil {
		return err
	}
	printStats(a.out, s)
	return nil
}
