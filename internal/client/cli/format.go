package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/reverseauction/internal/client/models"
)

const timeLayout = "2006-01-02 15:04"

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " TL"
}

func printListings(w io.Writer, listings []models.Listing) {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tQTY\tPRICE\tBIDS\tSTATUS\tEXPIRES")
	for _, l := range listings {
		status := string(l.Status)
		if !l.IsApproved {
			status += " (unapproved)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %s\t%s\t%d\t%s\t%s\n",
			l.ID, l.Title, l.Category.Label(),
			strconv.FormatFloat(l.Quantity, 'f', -1, 64), l.Unit,
			money(l.Floor()), len(l.Bids), status, l.ExpiresAt.Local().Format(timeLayout))
	}
	tw.Flush()
}

func printListing(w io.Writer, l models.Listing) {
	fmt.Fprintf(w, "%s  [%s]\n", l.Title, l.Status)
	fmt.Fprintf(w, "  id:         %s\n", l.ID)
	fmt.Fprintf(w, "  category:   %s\n", l.Category.Label())
	fmt.Fprintf(w, "  owner:      %s\n", l.Owner.Label())
	fmt.Fprintf(w, "  quantity:   %s %s\n", strconv.FormatFloat(l.Quantity, 'f', -1, 64), l.Unit)
	fmt.Fprintf(w, "  max price:  %s\n", money(l.InitialMaxPrice))
	fmt.Fprintf(w, "  current:    %s\n", money(l.Floor()))
	fmt.Fprintf(w, "  expires:    %s\n", l.ExpiresAt.Local().Format(timeLayout))
	if l.Winner != nil {
		fmt.Fprintf(w, "  winner:     %s\n", l.Winner.Label())
	}
	if l.Description != "" {
		fmt.Fprintf(w, "\n%s\n", l.Description)
	}
	if len(l.Bids) == 0 {
		fmt.Fprintln(w, "\nNo bids yet")
		return
	}
	fmt.Fprintln(w)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BIDDER\tPRICE\tTIME")
	for i := len(l.Bids) - 1; i >= 0; i-- {
		b := l.Bids[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Bidder.Label(), money(b.Price), b.CreatedAt.Local().Format(timeLayout))
	}
	tw.Flush()
}

func printCategories(w io.Writer, cats []models.Category, filter string) {
	if len(cats) == 0 {
		fmt.Fprintln(w, "No categories")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTIVE\t")
	for _, c := range cats {
		mark := ""
		if c.ID == filter {
			mark = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", c.ID, c.Name, c.IsActive, mark)
	}
	tw.Flush()
}

func printUsers(w io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tCOMPANY\tSTATE\tJOINED")
	for _, u := range users {
		company := ""
		if u.CompanyInfo != nil {
			company = u.CompanyInfo.CompanyName
		}
		state := string(u.ApprovalState())
		if u.IsAdmin {
			state += ", admin"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, company, state, u.CreatedAt.Local().Format("2006-01-02"))
	}
	tw.Flush()
}

func printUser(w io.Writer, u models.User) {
	fmt.Fprintf(w, "%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(w, "  id:     %s\n", u.ID)
	fmt.Fprintf(w, "  state:  %s\n", u.ApprovalState())
	if u.IsRejected && u.RejectionReason != "" {
		fmt.Fprintf(w, "  reason: %s\n", u.RejectionReason)
	}
	if u.IsAdmin {
		fmt.Fprintln(w, "  role:   admin")
	}
	if c := u.CompanyInfo; c != nil {
		fmt.Fprintf(w, "  company: %s (tax %s)\n", c.CompanyName, c.TaxNumber)
		fmt.Fprintf(w, "  address: %s %s\n", c.Address, c.City)
		fmt.Fprintf(w, "  phone:   %s\n", c.Phone)
	}
}

func printStats(w io.Writer, s models.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := []struct {
		k string
		v int
	}{
		{"users", s.TotalUsers},
		{"pending users", s.PendingUsers},
		{"active users", s.ActiveUsers},
		{"listings", s.TotalListings},
		{"pending listings", s.PendingListings},
		{"active listings", s.ActiveListings},
		{"completed listings", s.CompletedListings},
		{"categories", s.TotalCategories},
		{"bids", s.TotalBids},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.k, r.v)
	}
	tw.Flush()
}

func since(now, t time.Time) string {
	d := now.Sub(t).Round(time.Second)
	if d < time.Minute {
		return "just now"
	}
	return d.String() + " ago"
}
