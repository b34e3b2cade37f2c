package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/folio/internal/config"
	"github.com/kalambet/folio/internal/storage"
)

// --- projects ---

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects in the portfolio",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/projects")
		if err != nil {
			return err
		}

		var result struct {
			Projects []struct {
				Name     string `json:"name"`
				Type     string `json:"type"`
				Category string `json:"category"`
			} `json:"projects"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		if len(result.Projects) == 0 {
			fmt.Println("no projects in the portfolio")
			return nil
		}
		for _, p := range result.Projects {
			line := fmt.Sprintf("- %s (%s)", p.Name, p.Type)
			if p.Category != "" {
				line += " — " + p.Category
			}
			fmt.Println(line)
		}
		return nil
	},
}

// --- models ---

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List models available from the completion backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.get(cmd.Context(), "/v1/models")
		if err != nil {
			return err
		}

		var result struct {
			Data []struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return err
		}

		for _, m := range result.Data {
			fmt.Println(m.ID)
		}
		return nil
	},
}

// --- turns ---

var turnsLimit int

// turnsCmd reads the audit log directly; it does not need the server running.
var turnsCmd = &cobra.Command{
	Use:   "turns [session-id]",
	Short: "Show recorded conversation turns from the audit log",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadClient()
		store, err := storage.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("opening turn log: %w", err)
		}
		defer store.Close()

		var turns []storage.Turn
		if len(args) == 1 {
			turns, err = store.SessionTurns(args[0])
		} else {
			turns, err = store.RecentTurns(turnsLimit)
		}
		if err != nil {
			return err
		}

		if len(turns) == 0 {
			fmt.Println("no recorded turns")
			return nil
		}
		for _, tr := range turns {
			header := fmt.Sprintf("[%s] %s", tr.CreatedAt.Local().Format("2006-01-02 15:04:05"), tr.SessionID)
			if tr.Focus != "" {
				header += fmt.Sprintf(" (focus: %s)", tr.Focus)
			}
			fmt.Println(colorize(colorBold, header))
			fmt.Printf("  you>   %s\n", tr.UserText)
			fmt.Printf("  folio> %s\n", tr.AssistantText)
		}
		return nil
	},
}

func init() {
	turnsCmd.Flags().IntVar(&turnsLimit, "limit", 20, "maximum number of turns to show")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation with the portfolio assistant",
	Long: `Start an interactive conversation with the portfolio assistant.

In-chat commands:
  /focus <project name>   select a project for deep explanation
  /focus                  clear the selection (broad mode)
  /projects               list available projects
  /history                show the conversation so far
  /quit                   end the conversation`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		resp, err := client.post(ctx, "/v1/sessions", nil)
		if err != nil {
			return err
		}
		var created struct {
			ID string `json:"id"`
		}
		if err := decodeJSON(resp, &created); err != nil {
			return err
		}

		printStep("session %s — ask about projects, skills, or career; /quit to leave", created.ID)

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print(colorize(colorBold, "you> "))
			if !scanner.Scan() {
				fmt.Println()
				return scanner.Err()
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			if strings.HasPrefix(line, "/") {
				if done, err := runChatCommand(ctx, client, created.ID, line); err != nil {
					printError("%v", err)
				} else if done {
					return nil
				}
				continue
			}

			resp, err := client.post(ctx, "/v1/sessions/"+created.ID+"/messages", map[string]string{"content": line})
			if err != nil {
				printError("%v", err)
				continue
			}
			var turn struct {
				Reply string `json:"reply"`
			}
			if err := decodeJSON(resp, &turn); err != nil {
				printError("%v", err)
				continue
			}
			fmt.Printf("%s %s\n", colorize(colorCyan, "folio>"), turn.Reply)
		}
	},
}

// runChatCommand handles a /-prefixed REPL command. Returns done=true on /quit.
func runChatCommand(ctx context.Context, client *apiClient, sessionID, line string) (bool, error) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/quit", "/exit":
		return true, nil

	case "/focus":
		resp, err := client.put(ctx, "/v1/sessions/"+sessionID+"/focus", map[string]string{"project": rest})
		if err != nil {
			return false, err
		}
		var result struct {
			Focus string `json:"focus"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return false, err
		}
		if result.Focus == "" {
			if rest != "" {
				printWarning("no project named %q — focus cleared", rest)
			} else {
				printSuccess("focus cleared (broad mode)")
			}
		} else {
			printSuccess("focused on %q", result.Focus)
		}
		return false, nil

	case "/projects":
		resp, err := client.get(ctx, "/v1/projects")
		if err != nil {
			return false, err
		}
		var result struct {
			Projects []struct {
				Name string `json:"name"`
				Type string `json:"type"`
			} `json:"projects"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return false, err
		}
		for _, p := range result.Projects {
			fmt.Printf("- %s (%s)\n", p.Name, p.Type)
		}
		return false, nil

	case "/history":
		resp, err := client.get(ctx, "/v1/sessions/"+sessionID+"/history")
		if err != nil {
			return false, err
		}
		var result struct {
			Messages []struct {
				Role      string    `json:"role"`
				Content   string    `json:"content"`
				Timestamp time.Time `json:"timestamp"`
			} `json:"messages"`
		}
		if err := decodeJSON(resp, &result); err != nil {
			return false, err
		}
		for _, m := range result.Messages {
			fmt.Printf("[%s] %s: %s\n", m.Timestamp.Format("15:04:05"), m.Role, m.Content)
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", cmd)
	}
}
