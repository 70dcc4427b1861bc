// Package bill holds the transient shared-expense model: parsing the amount,
// splitting it between payers and rendering the public summary.
package bill

import (
	"fmt"
	"strings"

	"github.com/bojanz/currency"
)

// Payer is a guild member a bill is addressed to.
type Payer struct {
	UserID string
	Name   string
}

// Mention returns the Discord mention markup for the payer.
func (p Payer) Mention() string {
	return "<@" + p.UserID + ">"
}

// Bill exists only while one response message is being built.
type Bill struct {
	Title     string
	Total     currency.Amount
	Method    string
	Submitter string
	Payers    []Payer
	// Shares is aligned with Payers.
	Shares []currency.Amount
}

// New builds a bill and, when payers are given, splits the total between them.
func New(title string, total currency.Amount, method, submitter string, payers []Payer) (*Bill, error) {
	b := &Bill{
		Title:     title,
		Total:     total,
		Method:    method,
		Submitter: submitter,
		Payers:    payers,
	}
	if len(payers) == 0 {
		return b, nil
	}
	shares, err := Split(total, len(payers))
	if err != nil {
		return nil, err
	}
	b.Shares = shares
	return b, nil
}

// Share returns the amount every payer owes before remainder cents.
func (b *Bill) Share() (currency.Amount, bool) {
	if len(b.Shares) == 0 {
		return currency.Amount{}, false
	}
	return b.Shares[len(b.Shares)-1], true
}

// Extra returns the payers covering the remainder and the extra amount each.
func (b *Bill) Extra() ([]Payer, currency.Amount) {
	share, ok := b.Share()
	if !ok {
		return nil, currency.Amount{}
	}
	var covering []Payer
	var extra currency.Amount
	for i, s := range b.Shares {
		if s.Equal(share) {
			break
		}
		covering = append(covering, b.Payers[i])
		extra, _ = s.Sub(share)
	}
	return covering, extra
}

// UserIDs lists payer IDs, used to restrict message mentions.
func (b *Bill) UserIDs() []string {
	ids := make([]string, len(b.Payers))
	for i, p := range b.Payers {
		ids[i] = p.UserID
	}
	return ids
}

// Message renders the public channel summary.
func (b *Bill) Message(f *currency.Formatter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**🧾 New bill: %s**\n", b.Title)
	fmt.Fprintf(&sb, ">>> Total: %s\n", f.Format(b.Total))
	fmt.Fprintf(&sb, "Submitted by: %s\n", b.Submitter)
	fmt.Fprintf(&sb, "Payment method: %s\n", b.Method)

	share, ok := b.Share()
	if !ok {
		return strings.TrimRight(sb.String(), "\n")
	}

	mentions := make([]string, len(b.Payers))
	for i, p := range b.Payers {
		mentions[i] = p.Mention()
	}
	fmt.Fprintf(&sb, "Payers: %s\n", strings.Join(mentions, " "))
	fmt.Fprintf(&sb, "Each pays: %s", f.Format(share))

	if covering, extra := b.Extra(); len(covering) > 0 {
		names := make([]string, len(covering))
		for i, p := range covering {
			names[i] = p.Mention()
		}
		fmt.Fprintf(&sb, "\nExtra %s: %s", f.Format(extra), strings.Join(names, " "))
	}
	return sb.String()
}
