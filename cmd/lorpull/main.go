// Command lorpull is the periodic fetcher (program "Puller"): it
// scrapes forum pages, converts topics and comments into articles, and
// maintains the store and its per-group indexes. It is one-shot; a
// system-level scheduler (cron-equivalent) triggers it periodically.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	prof "github.com/go-while/go-cpu-mem-profiler"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/httpclient"
	"github.com/lornews/lord/internal/puller"
	"github.com/lornews/lord/internal/store"
)

var appVersion = "-unset-"

var prof_ *prof.Profiler

func main() {
	config.AppVersion = appVersion

	var (
		days        int
		expireDays  int
		timeoutSecs int
		quiet       bool
		profileAddr string
		showVersion bool
		showHelp    bool
	)

	flag.IntVar(&days, "d", 3, "pull window in days; d<0 disables pulling")
	flag.IntVar(&expireDays, "e", -1, "expire articles older than this many days; e<0 disables, e==0 expires all")
	flag.IntVar(&timeoutSecs, "t", 20, "HTTP timeout in seconds")
	flag.BoolVar(&quiet, "q", false, "suppress informational log output")
	flag.StringVar(&profileAddr, "profile", "", "optional pprof web listen address, e.g. :51111 (default disabled)")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.BoolVar(&showHelp, "h", false, "print usage and exit")
	flag.Parse()

	pattern := ""
	if flag.NArg() > 0 {
		pattern = flag.Arg(0)
	}

	if showVersion {
		fmt.Printf("lorpull/%s\n", config.AppVersion)
		return
	}
	if showHelp {
		flag.Usage()
		return
	}

	if quiet {
		log.SetOutput(discardWriter{})
	}

	if profileAddr != "" {
		prof_ = prof.NewProf()
		go prof_.PprofWeb(profileAddr)
	}

	cfg, err := config.NewDefaultConfig()
	if err != nil {
		log.Fatalf("[PULLER] %v", err)
	}
	cfg.PullDays = days
	cfg.ExpireDays = expireDays
	cfg.HTTPTimeout = time.Duration(timeoutSecs) * time.Second

	if _, err := cfg.LoadCatalog(); err != nil {
		log.Fatalf("[PULLER] load catalog: %v", err)
	}

	client, err := httpclient.New(cfg.UserDir("puller"), cfg.HTTPTimeout)
	if err != nil {
		log.Fatalf("[PULLER] build http client: %v", err)
	}

	w := &puller.Walker{Store: store.New(cfg), Cfg: cfg, Client: client}
	if err := w.Run(pattern, cfg.PullDays); err != nil {
		log.Fatalf("[PULLER] %v", err)
	}
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
