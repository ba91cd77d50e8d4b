package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/easytempinbox/easytempinbox/pkg/rest/client"
)

type createCmd struct {
	ttl int64
}

func (*createCmd) Name() string {
	return "create"
}

func (*createCmd) Synopsis() string {
	return "create a new disposable inbox"
}

func (*createCmd) Usage() string {
	return `create [-ttl seconds]:
	create a new inbox, printing its address and expiry
`
}

func (c *createCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.ttl, "ttl", 0, "inbox lifetime in seconds (0 = server default)")
}

func (c *createCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// Setup rest client
	cl, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	inbox, err := cl.CreateInbox(ctx, c.ttl)
	if err != nil {
		return fatal("REST call failed", err)
	}
	fmt.Println(inbox.Address)
	fmt.Printf("id: %v\nexpires_at: %v\n", inbox.ID, inbox.ExpiresAt)

	return subcommands.ExitSuccess
}
