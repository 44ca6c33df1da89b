// Command lord is the NNTP server (program "Server"): it answers
// reading and posting commands out of the on-disk article store.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/lornews/lord/internal/config"
	"github.com/lornews/lord/internal/nntp"
	"github.com/lornews/lord/internal/statusapi"
	"github.com/lornews/lord/internal/store"
)

var appVersion = "-unset-"

func main() {
	config.AppVersion = appVersion

	var (
		port        int
		postCmd     string
		statusAddr  string
		statusToken string
		showVersion bool
		showHelp    bool
	)

	flag.IntVar(&port, "p", 0, "NNTP TCP port (default 5119)")
	flag.StringVar(&postCmd, "c", "", "posting command (default lorpost)")
	flag.StringVar(&statusAddr, "status-addr", "", "optional status endpoint bind address, e.g. 127.0.0.1:8090 (default disabled)")
	flag.StringVar(&statusToken, "status-token", "", "optional bearer token required by the status endpoint")
	flag.BoolVar(&showVersion, "v", false, "print version and exit")
	flag.BoolVar(&showHelp, "h", false, "print usage and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("lord/%s\n", config.AppVersion)
		return
	}
	if showHelp {
		flag.Usage()
		return
	}

	cfg, err := config.NewDefaultConfig()
	if err != nil {
		log.Fatalf("[LORD] %v", err)
	}
	if port > 0 {
		cfg.NNTPPort = port
	}
	if postCmd != "" {
		cfg.PostCommand = postCmd
	}
	cfg.StatusAddr = statusAddr
	cfg.StatusToken = statusToken

	if _, err := cfg.LoadCatalog(); err != nil {
		log.Fatalf("[LORD] load catalog: %v", err)
	}

	st := store.New(cfg)
	srv := nntp.NewServer(cfg, st)

	if cfg.StatusAddr != "" {
		statusSrv, err := statusapi.New(cfg, st, srv.Stats, cfg.StatusAddr, cfg.StatusToken)
		if err != nil {
			log.Fatalf("[LORD] status endpoint: %v", err)
		}
		statusSrv.MarkOpened()
		go func() {
			if err := statusSrv.ListenAndServe(); err != nil {
				log.Printf("[LORD] status endpoint stopped: %v", err)
			}
		}()
		log.Printf("[LORD] status endpoint listening on %s", cfg.StatusAddr)
	}

	log.Printf("[LORD] starting lord/%s on port %d", config.AppVersion, cfg.NNTPPort)
	if err := srv.Start(); err != nil {
		log.Fatalf("[LORD] %v", err)
	}
}
