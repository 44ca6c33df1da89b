// Command lordusers is the admin CLI that registers a Forum account
// under the store, preparing the filesystem state lorpost depends on.
// It performs no Forum HTTP calls.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/lornews/lord/internal/config"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	var (
		nick        string
		cookieReset bool
		showVersion bool
		showHelp    bool
	)
	flag.StringVar(&nick, "nick", "", "Forum account nickname")
	flag.BoolVar(&cookieReset, "cookie-reset", false, "truncate the account's cookie jar, forcing a fresh login on next lorpost run")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.BoolVar(&showHelp, "h", false, "print usage and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("lordusers/%s\n", config.AppVersion)
		return
	}
	if showHelp || nick == "" {
		flag.Usage()
		if nick == "" && !showHelp {
			os.Exit(1)
		}
		return
	}

	cfg, err := config.NewDefaultConfig()
	if err != nil {
		log.Fatalf("[LORDUSERS] %v", err)
	}

	if err := os.MkdirAll(cfg.UserDir(nick), 0700); err != nil {
		log.Fatalf("[LORDUSERS] create user dir: %v", err)
	}

	if cookieReset {
		if err := os.WriteFile(cfg.CookiesPath(nick), nil, 0600); err != nil {
			log.Fatalf("[LORDUSERS] reset cookies: %v", err)
		}
		fmt.Printf("cookie jar for %q reset\n", nick)
		return
	}

	fmt.Print("Forum password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		log.Fatalf("[LORDUSERS] read password: %v", err)
	}
	if len(password) == 0 {
		log.Fatalf("[LORDUSERS] password must not be empty")
	}

	if err := os.WriteFile(cfg.PasswdPath(nick), password, 0600); err != nil {
		log.Fatalf("[LORDUSERS] write password: %v", err)
	}
	fmt.Printf("registered Forum account %q\n", nick)
}
