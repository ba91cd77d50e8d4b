// Package config processes the service configuration from the environment.
package config

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	prefix      = "tempinbox"
	tableFormat = `EasyTempInbox is configured via the environment. The following environment
variables can be used:

KEY	DEFAULT	REQUIRED	DESCRIPTION
{{range .}}{{usage_key .}}	{{usage_default .}}	{{usage_required .}}	{{usage_description .}}
{{end}}`
)

var (
	// Version of this build, set by main
	Version = ""

	// BuildDate for this build, set by main
	BuildDate = ""
)

// Root wraps all other configurations.
type Root struct {
	LogLevel string `required:"true" default:"info" desc:"debug, info, warn, or error"`
	Domain   string `required:"true" default:"easytempinbox.com" desc:"Primary mail domain"`
	Web      Web
	Storage  Storage
	Blob     Blob
	Ingest   Ingest
	Inbox    Inbox
}

// Web contains the HTTP API server configuration.
type Web struct {
	Addr     string `required:"true" default:"0.0.0.0:9000" desc:"API server host:port"`
	BasePath string `default:"" desc:"Base path prefix for REST routes"`
}

// Storage contains the durable key/value store configuration.
type Storage struct {
	Type         string `required:"true" default:"dynamo" desc:"Store type: dynamo or memory"`
	InboxesTable string `required:"true" default:"easytempinbox-inboxes" desc:"Inboxes table name"`
	EmailsTable  string `required:"true" default:"easytempinbox-emails" desc:"Emails table name"`
	Region       string `default:"us-east-1" desc:"AWS region"`
	Endpoint     string `default:"" desc:"Endpoint override (local testing)"`
}

// Blob contains the blob store configuration.
type Blob struct {
	Bucket     string        `required:"true" default:"easytempinbox-raw-emails" desc:"S3 bucket for raw mail and attachments"`
	Region     string        `default:"us-east-1" desc:"AWS region"`
	Endpoint   string        `default:"" desc:"Endpoint override (local testing)"`
	PresignTTL time.Duration `required:"true" default:"1h" desc:"Validity of attachment download links"`
	PathStyle  bool          `default:"false" desc:"Use path-style S3 addressing"`
}

// Ingest contains the mail ingestion pipeline configuration.
type Ingest struct {
	QueueURL      string `desc:"SQS queue receiving S3 event notifications"`
	MaxTextBody   int    `required:"true" default:"102400" desc:"Text body ceiling in bytes"`
	MaxHTMLBody   int    `required:"true" default:"204800" desc:"HTML body ceiling in bytes"`
	MaxInboxMsgs  int    `required:"true" default:"50" desc:"Maximum emails retained per inbox"`
	WaitSeconds   int32  `required:"true" default:"20" desc:"SQS long poll duration"`
	BatchMessages int32  `required:"true" default:"10" desc:"SQS messages per receive"`
}

// Inbox contains inbox lifecycle configuration.
type Inbox struct {
	DefaultTTL time.Duration `required:"true" default:"1h" desc:"Inbox lifetime when unspecified"`
	MinTTL     time.Duration `required:"true" default:"10m" desc:"Minimum requestable inbox lifetime"`
	MaxTTL     time.Duration `required:"true" default:"24h" desc:"Maximum requestable inbox lifetime"`
	IDLength   int           `required:"true" default:"8" desc:"Generated inbox ID length"`
}

// Process loads and parses configuration from the environment.
func Process() (*Root, error) {
	c := &Root{}
	if err := envconfig.Process(prefix, c); err != nil {
		return nil, err
	}
	if c.Inbox.MinTTL > c.Inbox.MaxTTL {
		return nil, fmt.Errorf("inbox MinTTL %v exceeds MaxTTL %v", c.Inbox.MinTTL, c.Inbox.MaxTTL)
	}
	if c.Inbox.DefaultTTL < c.Inbox.MinTTL || c.Inbox.DefaultTTL > c.Inbox.MaxTTL {
		return nil, fmt.Errorf("inbox DefaultTTL %v outside [%v, %v]",
			c.Inbox.DefaultTTL, c.Inbox.MinTTL, c.Inbox.MaxTTL)
	}
	return c, nil
}

// Usage prints out the envconfig usage to Stderr.
func Usage() {
	tabs := tabwriter.NewWriter(os.Stderr, 1, 0, 4, ' ', 0)
	if err := envconfig.Usagef(prefix, &Root{}, tabs, tableFormat); err != nil {
		log.Fatalf("Unable to parse env config: %v", err)
	}
	tabs.Flush()
}
