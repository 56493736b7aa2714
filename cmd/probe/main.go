// Command probe runs a single poll cycle against a backend and prints the
// resulting table, or follows a running dashboard's live feed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/share-dashboard/internal/api"
	"github.com/rickgao/share-dashboard/internal/config"
	"github.com/rickgao/share-dashboard/internal/feed"
	"github.com/rickgao/share-dashboard/internal/poller"
	"github.com/rickgao/share-dashboard/internal/render"
)

func main() {
	base := flag.String("base", config.DefaultBaseURL, "backend API base URL")
	timeout := flag.Duration("timeout", 30*time.Second, "overall timeout for a single cycle")
	asHTML := flag.Bool("html", false, "print the <tbody> markup instead of a text table")
	watch := flag.String("watch", "", "dashboard feed URL to follow (e.g. ws://localhost:8090/ws)")
	flag.Parse()

	if *watch != "" {
		if err := follow(*watch); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
		return
	}

	client := api.NewClient(*base, api.WithTimeout(*timeout))

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	snap, err := poller.FetchSnapshot(ctx, client)
	if err != nil {
		log.Fatalf("fetch failed (%s %s): %v", api.Kind(err), api.Path(err), err)
	}

	tbl := render.Build(snap.Shares, snap.Anomalies)
	if err := printTable(tbl, *asHTML); err != nil {
		log.Fatalf("write table: %v", err)
	}
	fmt.Printf("%d shares, %d alerts (from %s)\n", len(tbl.Rows), tbl.Alerts(), client.BaseURL())
}

// follow prints every table the dashboard pushes until interrupted.
func follow(url string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := feed.DefaultClientConfig()
	cfg.URL = url
	client := feed.NewClient(cfg, nil)

	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-client.Errors():
			return err
		case msg := <-client.Messages():
			fmt.Printf("cycle %s at %s\n", msg.CycleID, msg.UpdatedAt.Local().Format(time.TimeOnly))
			if err := printTable(msg.Table(), false); err != nil {
				return err
			}
		}
	}
}

func printTable(tbl render.Table, asHTML bool) error {
	if asHTML {
		if err := tbl.WriteHTML(os.Stdout); err != nil {
			return err
		}
		_, err := fmt.Println()
		return err
	}
	return tbl.WriteText(os.Stdout)
}
