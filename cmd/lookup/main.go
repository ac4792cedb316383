// Command lookup is the terminal dictionary client.
//
// Without arguments it starts an interactive session. With words it looks
// them up once, prints the result and exits:
//
//	lookup -lang es hello
//
// Exit codes: 0 = success, 1 = error or no result.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wordlookup/internal/app"
)

func main() {
	lang := flag.String("lang", "", "target language code (default from config)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.BuildVersion())
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := app.RunClient(ctx, app.ClientOptions{
		Language: *lang,
		Words:    flag.Args(),
		In:       os.Stdin,
		Out:      os.Stdout,
	})
	if err != nil {
		if !errors.Is(err, app.ErrLookupFailed) {
			fmt.Fprintf(os.Stderr, "lookup: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
