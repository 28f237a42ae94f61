// ticketdump decodes an NpTicket file and prints it as YAML.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"

	"github.com/uhwot/sacklite/pkg/gameversion"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/pubkeys"
)

type dump struct {
	Ticket        *npticket.Ticket `json:"ticket"`
	GameVersion   string           `json:"game_version,omitempty"`
	SignatureOK   *bool            `json:"signature_ok,omitempty"`
	SignatureErr  string           `json:"signature_error,omitempty"`
	SignedRange   [2]int           `json:"signed_range"`
	BodyRange     [2]int           `json:"body_range"`
	ExpiresAtTime string           `json:"expires_at_time"`
}

func main() {
	verify := flag.Bool("verify", false, "verify the ticket signature against the built in platform keys")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-verify] TICKET_FILE\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Could not read ticket")
	}

	t, err := npticket.Decode(raw)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Could not decode ticket")
	}

	out := dump{
		Ticket:        t,
		ExpiresAtTime: t.Body.ExpiryTime().UTC().String(),
	}
	out.SignedRange[0], out.SignedRange[1] = t.SignedRange()
	out.BodyRange[0], out.BodyRange[1] = t.BodyRange()
	if gv, err := gameversion.FromServiceID(t.Body.ServiceID); err == nil {
		out.GameVersion = gv.String()
	}

	if *verify {
		keys, err := pubkeys.NewStore()
		if err != nil {
			log.WithField("error", err.Error()).Fatal("Could not load platform keys")
		}
		ok, err := npticket.Verify(t, keys)
		if err != nil {
			out.SignatureErr = err.Error()
		} else {
			out.SignatureOK = &ok
		}
	}

	b, err := yaml.Marshal(out)
	if err != nil {
		log.WithField("error", err.Error()).Fatal("Could not encode ticket")
	}
	os.Stdout.Write(b)
}
