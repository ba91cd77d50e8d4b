package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/easytempinbox/easytempinbox/pkg/rest/client"
)

type listCmd struct {
	limit   int
	lastKey string
}

func (*listCmd) Name() string {
	return "list"
}

func (*listCmd) Synopsis() string {
	return "list contents of an inbox"
}

func (*listCmd) Usage() string {
	return `list <inbox>:
	list email IDs in an inbox, newest first
`
}

func (l *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&l.limit, "limit", 0, "maximum emails to return (0 = server default)")
	f.StringVar(&l.lastKey, "last-key", "", "pagination key from a previous page")
}

func (l *listCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	inbox := f.Arg(0)
	if inbox == "" {
		return usage("inbox required")
	}

	// Setup rest client
	cl, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	page, err := cl.ListEmails(ctx, inbox, l.limit, l.lastKey)
	if err != nil {
		return fatal("REST call failed", err)
	}
	for _, h := range page.Emails {
		fmt.Printf("%v\t%v\t%v\n", h.ID, h.From, h.Subject)
	}
	if page.LastKey != "" {
		fmt.Printf("next page: -last-key %v\n", page.LastKey)
	}

	return subcommands.ExitSuccess
}
