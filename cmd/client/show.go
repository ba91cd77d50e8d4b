package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/easytempinbox/easytempinbox/pkg/rest/client"
)

type showCmd struct {
	links bool
}

func (*showCmd) Name() string {
	return "show"
}

func (*showCmd) Synopsis() string {
	return "show the content of an email"
}

func (*showCmd) Usage() string {
	return `show <inbox> <email-id>:
	print headers, text body and attachment list of an email
`
}

func (s *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&s.links, "links", false, "resolve attachment download links")
}

func (s *showCmd) Execute(
	ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	inbox, id := f.Arg(0), f.Arg(1)
	if inbox == "" || id == "" {
		return usage("inbox and email-id required")
	}

	// Setup rest client
	cl, err := client.New(baseURL())
	if err != nil {
		return fatal("Couldn't build client", err)
	}

	email, err := cl.GetEmail(ctx, inbox, id)
	if err != nil {
		return fatal("REST call failed", err)
	}
	fmt.Printf("From: %v\nSubject: %v\nReceived: %v\n\n%v\n",
		email.From, email.Subject, email.ReceivedAt, email.TextBody)
	for _, att := range email.Attachments {
		fmt.Printf("attachment: %v (%v, %v bytes)\n", att.Filename, att.ContentType, att.Size)
		if s.links {
			link, err := cl.AttachmentLink(ctx, inbox, id, att.ID)
			if err != nil {
				return fatal("REST call failed", err)
			}
			fmt.Println("  " + link.DownloadURL)
		}
	}

	return subcommands.ExitSuccess
}
