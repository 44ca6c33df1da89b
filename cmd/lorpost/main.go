// Command lorpost is the one-shot poster (program "Poster"): it
// reads a fully-formed email message on standard input and submits it to
// the Forum, reusing a persisted login session.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/poster"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	var (
		timeoutSecs int
		showVersion bool
		showHelp    bool
	)
	flag.IntVar(&timeoutSecs, "t", 20, "session-freshness timeout in seconds")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.BoolVar(&showHelp, "h", false, "print usage and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("lorpost/%s\n", config.AppVersion)
		return
	}
	if showHelp {
		flag.Usage()
		return
	}

	cfg, err := config.NewDefaultConfig()
	if err != nil {
		log.Fatalf("[POST] %v", err)
	}
	cfg.HTTPTimeout = time.Duration(timeoutSecs) * time.Second

	nick, err := poster.ResolveNick(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	pc := poster.PostConfig{
		Cfg:     cfg,
		Nick:    nick,
		Timeout: time.Duration(timeoutSecs) * time.Second,
	}

	if err := poster.Post(os.Stdin, pc); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
