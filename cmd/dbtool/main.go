// dbtool applies migrations or dumps the lookup log without starting the
// server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"eolo-server/internal/config"
	"eolo-server/internal/db"
	"eolo-server/internal/modules/weather/repository"
)

const usage = `usage: %s <command>
  migrate          apply pending schema migrations
  recent [limit]   print the most recent lookups as JSON
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	path := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if path == "" {
		path = "data/eolo.db"
	}
	cfg := config.Config{Driver: "sqlite3", Path: path, MaxOpenConns: 1, MaxIdleConns: 1}

	ctx := context.Background()
	conn, err := db.Open(ctx, cfg, slog.Default())
	if err != nil {
		fmt.Fprintf(os.Stderr, "db open: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	switch os.Args[1] {
	case "migrate":
		if err := db.Migrate(ctx, conn); err != nil {
			fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")
	case "recent":
		limit := 20
		if len(os.Args) > 2 {
			limit, err = strconv.Atoi(os.Args[2])
			if err != nil || limit < 1 {
				fmt.Fprintf(os.Stderr, "invalid limit %q\n", os.Args[2])
				os.Exit(1)
			}
		}
		lookups, err := repository.NewRepository(conn).RecentLookups(ctx, limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "recent: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(lookups); err != nil {
			fmt.Fprintf(os.Stderr, "encode: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}
