package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-blog/pkg/simpleblog"
	"github.com/tendant/simple-blog/pkg/simpleblog/auth"
	"github.com/tendant/simple-blog/pkg/simpleblog/config"
)

const usage = `Simple Blog Admin CLI

A lightweight maintenance tool that talks directly to the configured
repository and blob store. It never goes through the HTTP API.

USAGE:
  admin <command> [options]

COMMANDS:
  list             List posts with optional filtering
  publish-due      Promote scheduled posts whose time has arrived
  reassign-layouts Recompute layout variants for every post
  sweep-orphans    Delete gallery objects no image row references
  mint-token       Print a signed bearer token for local testing

ENVIRONMENT VARIABLES:
  DATABASE_URL      PostgreSQL connection string (required for postgres)
  DATABASE_TYPE     Database type: postgres or memory (default: memory)
  STORAGE_TYPE      Storage backend: memory, fs or s3 (default: memory)
  JWT_SECRET        Signing secret (required for mint-token)

  Configuration can be loaded from a .env file in the current directory.
  Command line environment variables override .env file values.

EXAMPLES:
  # List published posts
  admin list --status=published

  # Promote everything whose schedule has passed
  admin publish-due

  # Recompute layouts and print the distribution
  admin reassign-layouts --json

  # Remove unreferenced gallery objects
  admin sweep-orphans

  # Mint an admin token valid for one hour
  admin mint-token --user-id=550e8400-e29b-41d4-a716-446655440000 --role=admin

OPTIONS:
  --status=<status>    Filter by status: draft, scheduled, published (list)
  --search=<text>      Case-insensitive title match (list)
  --limit=<n>          Maximum results (list, default: 100)
  --offset=<n>         Pagination offset (list, default: 0)
  --user-id=<uuid>     Token subject (mint-token, required)
  --role=<role>        Token role claim (mint-token)
  --ttl=<duration>     Token lifetime (mint-token, default: 1h)
  --json               Output as JSON
`

func main() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}

	command := os.Args[1]

	if command == "help" || command == "--help" || command == "-h" {
		fmt.Printf("%s\n", usage)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	opts, useJSON := parseOptions(os.Args[2:])

	// mint-token needs no repository or storage.
	if command == "mint-token" {
		handleMintToken(cfg, opts)
		return
	}

	svc, err := cfg.BuildService(ctx)
	if err != nil {
		log.Fatalf("Failed to build service: %v", err)
	}

	switch command {
	case "list":
		handleList(ctx, svc, opts, useJSON)
	case "publish-due":
		handlePublishDue(ctx, svc, useJSON)
	case "reassign-layouts":
		handleReassignLayouts(ctx, svc, useJSON)
	case "sweep-orphans":
		handleSweepOrphans(ctx, svc, useJSON)
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		fmt.Printf("%s\n", usage)
		os.Exit(1)
	}
}

type cliOptions struct {
	status string
	search string
	limit  int
	offset int
	userID string
	role   string
	ttl    time.Duration
}

func parseOptions(args []string) (cliOptions, bool) {
	opts := cliOptions{limit: 100, ttl: time.Hour}
	useJSON := false

	for _, arg := range args {
		if arg == "--json" {
			useJSON = true
			continue
		}

		key, value := parseFlag(arg)

		switch key {
		case "status":
			opts.status = value
		case "search":
			opts.search = value
		case "limit":
			if n, err := strconv.Atoi(value); err == nil {
				opts.limit = n
			}
		case "offset":
			if n, err := strconv.Atoi(value); err == nil {
				opts.offset = n
			}
		case "user-id":
			opts.userID = value
		case "role":
			opts.role = value
		case "ttl":
			if d, err := time.ParseDuration(value); err == nil {
				opts.ttl = d
			}
		}
	}

	return opts, useJSON
}

func parseFlag(arg string) (string, string) {
	if len(arg) > 2 && arg[:2] == "--" {
		arg = arg[2:]
		for i, c := range arg {
			if c == '=' {
				return arg[:i], arg[i+1:]
			}
		}
		return arg, "true"
	}
	return "", ""
}

// adminIdentity is the actor used for maintenance operations. The zero user
// id is fine: admin checks look at the role, not the subject.
func adminIdentity() simpleblog.Identity {
	role := "admin"
	return simpleblog.Identity{Role: &role}
}

func handleList(ctx context.Context, svc simpleblog.Service, opts cliOptions, useJSON bool) {
	filters := simpleblog.PostListFilters{
		Limit:  &opts.limit,
		Offset: &opts.offset,
	}
	if opts.status != "" {
		status := simpleblog.PostStatus(opts.status)
		filters.Status = &status
	}
	if opts.search != "" {
		filters.Search = &opts.search
	}

	posts, err := svc.ListPosts(ctx, filters)
	if err != nil {
		log.Fatalf("Failed to list posts: %v", err)
	}

	if useJSON {
		printJSON(posts)
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID\tTITLE\tSTATUS\tLAYOUT\tSCHEDULED\tPUBLISHED\tCREATED\n")

	for _, post := range posts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			post.ID.String()[:8]+"...",
			truncate(post.Title, 24),
			post.Status,
			post.LayoutVariant,
			formatTime(post.ScheduledFor),
			formatTime(post.PublishedAt),
			post.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	fmt.Printf("\nTotal: %d post(s)\n", len(posts))
}

func handlePublishDue(ctx context.Context, svc simpleblog.Service, useJSON bool) {
	result, err := svc.PublishDueScheduled(ctx)
	if err != nil {
		log.Fatalf("Failed to publish due posts: %v", err)
	}

	if useJSON {
		printJSON(result)
		return
	}

	fmt.Printf("Due: %d  Promoted: %d  Failed: %d\n", result.Due, result.Promoted, result.Failed)
	for _, id := range result.FailedIDs {
		fmt.Printf("  failed: %s\n", id)
	}
}

func handleReassignLayouts(ctx context.Context, svc simpleblog.Service, useJSON bool) {
	dist, err := svc.ReassignLayouts(ctx, adminIdentity())
	if err != nil {
		log.Fatalf("Failed to reassign layouts: %v", err)
	}

	if useJSON {
		printJSON(dist)
		return
	}

	fmt.Printf("Total: %d  Updated: %d  Failed: %d\n", dist.Total, dist.Updated, dist.Failed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "VARIANT\tCOUNT\tPERCENT\n")
	for variant, count := range dist.ByVariant {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", variant, count, dist.Percent[variant])
	}
	w.Flush()
}

func handleSweepOrphans(ctx context.Context, svc simpleblog.Service, useJSON bool) {
	result, err := svc.SweepOrphans(ctx, adminIdentity())
	if err != nil {
		log.Fatalf("Failed to sweep orphans: %v", err)
	}

	if useJSON {
		printJSON(result)
		return
	}

	fmt.Printf("Listed: %d  Referenced: %d  Deleted: %d  Failed: %d\n",
		result.Listed, result.Referenced, result.Deleted, result.Failed)
	for _, key := range result.FailedKeys {
		fmt.Printf("  failed: %s\n", key)
	}
}

func handleMintToken(cfg *config.ServerConfig, opts cliOptions) {
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required for mint-token")
	}
	if opts.userID == "" {
		log.Fatal("--user-id is required for mint-token")
	}

	userID, err := uuid.Parse(opts.userID)
	if err != nil {
		log.Fatalf("Invalid --user-id: %v", err)
	}

	identity := simpleblog.Identity{UserID: userID}
	if opts.role != "" {
		identity.Role = &opts.role
	}

	verifier := auth.New(cfg.JWTSecret)
	token, err := verifier.Mint(identity, opts.ttl)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}

	fmt.Println(token)
}

func printJSON(v any) {
	data, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(data))
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
