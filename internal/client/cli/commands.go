package cli

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/reverseauction/internal/client/client"
)

var errUnknownCommand = errors.New("unknown command")

// usageError carries the argument synopsis of a misused command.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

type audience int

const (
	anyone audience = iota
	members
	admins
)

type command struct {
	usage   string
	minArgs int
	who     audience
	run     func(a *App, ctx context.Context, args []string) error
}

var commands = map[string]command{
	"register": {who: anyone, run: (*App).Register},
	"login":    {who: anyone, run: (*App).Login},
	"status":   {who: anyone, run: (*App).Status},
	"logout":   {who: members, run: (*App).Logout},
	"me":       {who: members, run: (*App).Me},
	"profile":  {who: members, run: (*App).Profile},

	"list":          {usage: "[categoryID]", who: members, run: (*App).List},
	"filter":        {usage: "<categoryID>|clear", minArgs: 1, who: members, run: (*App).Filter},
	"refresh":       {who: members, run: (*App).Refresh},
	"show":          {usage: "<listingID>", minArgs: 1, who: members, run: (*App).Show},
	"bid":           {usage: "<listingID> <amount>", minArgs: 2, who: members, run: (*App).Bid},
	"mine":          {who: members, run: (*App).Mine},
	"mybids":        {who: members, run: (*App).MyBids},
	"create":        {who: members, run: (*App).Create},
	"cancel":        {usage: "<listingID>", minArgs: 1, who: members, run: (*App).Cancel},
	"complete":      {usage: "<listingID> accept|reject", minArgs: 2, who: members, run: (*App).Complete},
	"categories":    {who: members, run: (*App).Categories},
	"notifications": {who: members, run: (*App).Notifications},

	"users":           {who: admins, run: (*App).Users},
	"approve-user":    {usage: "<userID>", minArgs: 1, who: admins, run: (*App).ApproveUser},
	"reject-user":     {usage: "<userID> [reason...]", minArgs: 1, who: admins, run: (*App).RejectUser},
	"approve-listing": {usage: "<listingID>", minArgs: 1, who: admins, run: (*App).ApproveListing},
	"addcategory":     {who: admins, run: (*App).AddCategory},
	"togglecategory":  {usage: "<categoryID>", minArgs: 1, who: admins, run: (*App).ToggleCategory},
	"deletecategory":  {usage: "<categoryID>", minArgs: 1, who: admins, run: (*App).DeleteCategory},
	"stats":           {who: admins, run: (*App).Stats},
}

func (a *App) exec(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		return errUnknownCommand
	}
	switch {
	case cmd.who >= members && !a.isLoggedIn():
		return &client.Error{Kind: client.ErrUnauthorized, Message: "log in first"}
	case cmd.who == admins && !a.isAdmin():
		return client.BusinessRule("admin only")
	case len(args) < cmd.minArgs:
		return usageError(cmd.usage)
	}
	return cmd.run(a, ctx, args)
}

func helpText(loggedIn, admin bool) string {
	var names []string
	for name, cmd := range commands {
		switch {
		case !loggedIn && cmd.who != anyone:
			continue
		case loggedIn && (name == "login" || name == "register"):
			continue
		case cmd.who == admins && !admin:
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return "Available commands: " + strings.Join(append(names, "help", "exit"), ", ")
}
