// Command authzdemo exercises the access decision engine against a
// small in-memory fixture.
//
// Commands:
//
//	authorize   Run one decision and print the granted mask
//	explain     Run one decision and print the full trace report
//
// The fixture it seeds reproduces end-to-end scenario 2 from docs/ADR/ADR-0101-access-decision-engine.md
// §8 (a group grant): u1 is a member of g1, and g1 has read+update on
// doc1.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/canonkit/authzkernel"
	"github.com/canonkit/authzkernel/mask"
	"github.com/canonkit/authzkernel/storage"
	"github.com/canonkit/authzkernel/storeinmem"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	switch os.Args[1] {
	case "authorize":
		handleAuthorize(os.Args[2:], logger)
	case "explain":
		handleExplain(os.Args[2:], logger)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("authzdemo <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  authorize -subject=u1 -resource=doc1 -mask=15")
	fmt.Println("  explain   -subject=u1 -resource=doc1 -mask=15")
}

func handleAuthorize(args []string, logger *slog.Logger) {
	fs, subject, resource, requested := decisionFlags("authorize")
	fs.Parse(args)

	store := seedFixture()
	decisionID := uuid.NewString()
	logger.Info("decision starting", "decision_id", decisionID, "subject", *subject, "resource", *resource)

	granted, err := authzkernel.Authorize(context.Background(), *resource, *subject, mask.Mask(*requested), store,
		authzkernel.WithDecisionID(decisionID))
	if err != nil {
		logger.Error("decision failed", "decision_id", decisionID, "error", err)
		os.Exit(1)
	}
	fmt.Printf("granted: %d\n", granted)
}

func handleExplain(args []string, logger *slog.Logger) {
	fs, subject, resource, requested := decisionFlags("explain")
	fs.Parse(args)

	store := seedFixture()
	decisionID := uuid.NewString()
	logger.Info("decision starting", "decision_id", decisionID, "subject", *subject, "resource", *resource)

	report, err := authzkernel.Explain(context.Background(), *resource, *subject, mask.Mask(*requested), store)
	if err != nil {
		logger.Error("decision failed", "decision_id", decisionID, "error", err)
		os.Exit(1)
	}
	data, err := report.JSON()
	if err != nil {
		logger.Error("report encode failed", "decision_id", decisionID, "error", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func decisionFlags(name string) (fs *flag.FlagSet, subject, resource *string, requested *int) {
	fs = flag.NewFlagSet(name, flag.ExitOnError)
	subject = fs.String("subject", "u1", "subject id")
	resource = fs.String("resource", "doc1", "resource id")
	requested = fs.Int("mask", int(mask.All), "requested access mask")
	return fs, subject, resource, requested
}

func seedFixture() *storeinmem.Store {
	store, err := storeinmem.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build store: %v\n", err)
		os.Exit(1)
	}
	_ = store.PutMembership("u1", false, storage.Record{SubjectID: "g1", Access: 15})
	_ = store.PutPermissions("doc1", storage.Record{SubjectID: "g1", Access: 6})
	return store
}
