// Command mirrortoken prints an access token for a mirror client. It reads
// the same configuration as the mirror, so the secret and validity match.
//
//	mirrortoken -client table-7 [-s secret] [-t 720h]
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/mapkeeper/internal/flagx"
	"github.com/dmitrijs2005/mapkeeper/internal/server/auth"
	"github.com/dmitrijs2005/mapkeeper/internal/server/config"
)

func clientFlag(args []string) string {
	var clientID string

	fs := flag.NewFlagSet("mirrortoken", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&clientID, "client", "", "mirror client id")
	_ = fs.Parse(flagx.FilterArgs(args, []string{"-client", "--client"}))

	return clientID
}

func issue(cfg *config.Config, clientID string, w io.Writer) error {
	if clientID == "" {
		return fmt.Errorf("usage: mirrortoken -client <id>")
	}

	token, err := auth.GenerateToken(clientID, []byte(cfg.SecretKey), cfg.TokenValidityDuration)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, token)
	return err
}

func main() {
	cfg := config.LoadConfig()

	if err := issue(cfg, clientFlag(os.Args[1:]), os.Stdout); err != nil {
		log.Fatal(err)
	}
}
