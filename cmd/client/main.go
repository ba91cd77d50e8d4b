// Package main implements a command line client for the EasyTempInbox REST API
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/google/subcommands"
)

var host = flag.String("host", "localhost", "host/IP of EasyTempInbox server")
var port = flag.Uint("port", 9000, "HTTP port of EasyTempInbox server")

func main() {
	// Important top-level flags
	subcommands.ImportantFlag("host")
	subcommands.ImportantFlag("port")

	// Setup standard helpers
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	// Inbox commands
	subcommands.Register(&createCmd{}, "")
	subcommands.Register(&listCmd{}, "")
	subcommands.Register(&showCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// baseURL renders the root URL of the target server.
func baseURL() string {
	return "http://" + net.JoinHostPort(*host, strconv.Itoa(int(*port)))
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg)
	return subcommands.ExitUsageError
}

func fatal(msg string, err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, msg+":", err)
	return subcommands.ExitFailure
}
