package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnemosyne-ai/mnemo/engine"
)

const banner = `  mnemo — retrieval-augmented chat
  Type /help for commands. Type /exit to quit.`

func newChatCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			app, err := wireApp(ctx, *cfgPath)
			if err != nil {
				return err
			}
			defer app.close()

			// Seed the knowledge store on first run only; /ingest re-scans
			// on demand (re-ingestion duplicates, by design).
			if n, err := app.store.Count(ctx); err == nil && n == 0 {
				if _, err := os.Stat(app.cfg.KnowledgeDir); err == nil {
					if _, err := app.ingestor.IngestDir(ctx, app.cfg.KnowledgeDir); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "ingest %s: %v\n", app.cfg.KnowledgeDir, err)
					}
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), banner)

			sess := engine.NewSession(app.cfg.Persona, app.cfg.Buffer.Capacity)
			return chatLoop(ctx, cmd, app, sess)
		},
	}
}

func chatLoop(ctx context.Context, cmd *cobra.Command, app *app, sess *engine.Session) error {
	out := cmd.OutOrStdout()
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, "\nYou: ")
		if !scanner.Scan() {
			fmt.Fprintln(out, "\nGoodbye!")
			return scanner.Err()
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if quit := runCommand(ctx, cmd, app, sess, input); quit {
				return nil
			}
			continue
		}

		reply, err := app.engine.Run(ctx, sess, input)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\nAssistant: %s\n", reply)
	}
}

// runCommand handles slash commands. Each maps to one core operation.
// Returns true when the session should end.
func runCommand(ctx context.Context, cmd *cobra.Command, app *app, sess *engine.Session, input string) bool {
	out := cmd.OutOrStdout()

	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/exit":
		fmt.Fprintln(out, "Goodbye!")
		return true

	case "/help":
		fmt.Fprintln(out, `Available commands:
  /memory  show the current short-term buffer
  /ingest  re-scan the knowledge directory
  /graph   show concept graph stats and top concepts
  /clear   clear the short-term buffer
  /help    show this help
  /exit    quit`)

	case "/memory":
		transcript := sess.Buffer.FormatTranscript(app.cfg.Assemble.TurnCharCap)
		if transcript == "" {
			transcript = "No previous messages."
		}
		fmt.Fprintln(out, transcript)

	case "/clear":
		sess.Buffer.Clear()
		fmt.Fprintln(out, "Short-term memory cleared.")

	case "/ingest":
		results, err := app.ingestor.IngestDir(ctx, app.cfg.KnowledgeDir)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "ingest: %v\n", err)
			break
		}
		printIngestResults(out, results)

	case "/graph":
		nodes, edges, err := app.graph.Stats(ctx)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "graph stats: %v\n", err)
			break
		}
		fmt.Fprintf(out, "Concept graph: %d nodes, %d edges\n", nodes, edges)
		top, err := app.graph.TopNodes(ctx, 10)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "graph top nodes: %v\n", err)
			break
		}
		for _, c := range top {
			fmt.Fprintf(out, "  %-24s %d mentions\n", c.Label, c.Weight)
		}

	default:
		fmt.Fprintf(out, "Unknown command: %s. Type /help for commands.\n", input)
	}
	return false
}
