package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/common-nighthawk/go-figure"

	"github.com/quaybank/teller/bankapi"
	"github.com/quaybank/teller/internal/config"
	"github.com/quaybank/teller/notify"
	"github.com/quaybank/teller/partial"
	"github.com/quaybank/teller/session"
	"github.com/quaybank/teller/terminal"
	"github.com/quaybank/teller/transport"
)

const appName = "Quay Teller"

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running teller: %s\n", err)
	}
	log.Printf("Teller stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	configPath := flag.String("config", "teller.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	displayAppname(appName)

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("cookiejar.New: %w", err)
	}
	mirror, err := session.NewCookieMirror(jar, cfg.BaseURL)
	if err != nil {
		return err
	}
	store = session.Mirrored(store, mirror)

	source := session.TokenSource(store)
	httpClient := &http.Client{
		Transport: transport.NewBearer(source, http.DefaultTransport),
		Jar:       jar,
	}

	api, err := bankapi.New(cfg.BaseURL,
		bankapi.WithHTTPClient(httpClient),
		bankapi.WithTimeout(cfg.RequestTimeout))
	if err != nil {
		return err
	}

	fragments, err := partial.NewRequester(cfg.BaseURL, httpClient, transport.HeaderHook(source))
	if err != nil {
		return err
	}

	term := terminal.New(os.Stdout)
	notifier, err := notify.NewService(term)
	if err != nil {
		return err
	}

	repl, err := newREPL(api, fragments, store, term, notifier)
	if err != nil {
		return err
	}
	return repl.run(os.Stdin)
}

func newSessionStore(cfg config.Config) (session.Store, error) {
	switch cfg.Session.Backend {
	case "memory":
		return session.NewMemoryStore(), nil
	case "file":
		return session.NewFileStore(filepath.Join(cfg.DataFolder, "session"))
	case "redis":
		return session.NewRedisStore(cfg.Session.Redis)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Session.Backend)
	}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
