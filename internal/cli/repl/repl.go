// Package repl implements the interactive shell against the runner
// service.
package repl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"

	"cprun/internal/cli/client"
)

// Session holds REPL state.
type Session struct {
	client     *client.Client
	prettyJSON bool
}

// New creates a REPL session over the given client.
func New(c *client.Client, prettyJSON bool) *Session {
	return &Session{client: c, prettyJSON: prettyJSON}
}

// Run reads commands until exit or EOF.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.New("cprun> ")
	if err != nil {
		return fmt.Errorf("init readline failed: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		args, err := shlex.Split(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "parse command failed: %v\n", err)
			continue
		}

		switch args[0] {
		case "exit", "quit":
			return nil
		case "help":
			printHelp()
		case "run":
			s.cmdRun(ctx, args[1:])
		case "kill":
			s.cmdKill(ctx)
		case "langs":
			s.cmdLanguages(ctx)
		case "delete":
			s.cmdDelete(ctx, args[1:])
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q, try help\n", args[0])
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  run <language> <artifact> [input] [inFile] [outFile] [timeoutMs]
  kill
  langs
  delete <language> <artifact>
  help
  exit`)
}

type runPayload struct {
	LanguageID     string `json:"language_id"`
	ArtifactPath   string `json:"artifact_path"`
	Input          string `json:"input"`
	InputFileName  string `json:"input_file_name,omitempty"`
	OutputFileName string `json:"output_file_name,omitempty"`
	TimeoutMs      int64  `json:"timeout_ms,omitempty"`
}

func (s *Session) cmdRun(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: run <language> <artifact> [input] [inFile] [outFile] [timeoutMs]")
		return
	}
	payload := runPayload{LanguageID: args[0], ArtifactPath: args[1]}
	if len(args) > 2 {
		payload.Input = args[2]
	}
	if len(args) > 3 {
		payload.InputFileName = args[3]
	}
	if len(args) > 4 {
		payload.OutputFileName = args[4]
	}
	if len(args) > 5 {
		timeoutMs, err := strconv.ParseInt(args[5], 10, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad timeout %q: %v\n", args[5], err)
			return
		}
		payload.TimeoutMs = timeoutMs
	}

	body, _ := json.Marshal(payload)
	s.request(ctx, http.MethodPost, "/api/v1/runner/runs", body)
}

func (s *Session) cmdKill(ctx context.Context) {
	s.request(ctx, http.MethodPost, "/api/v1/runner/kill", nil)
}

func (s *Session) cmdLanguages(ctx context.Context) {
	s.request(ctx, http.MethodGet, "/api/v1/runner/languages", nil)
}

func (s *Session) cmdDelete(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: delete <language> <artifact>")
		return
	}
	body, _ := json.Marshal(map[string]string{
		"language_id":   args[0],
		"artifact_path": args[1],
	})
	s.request(ctx, http.MethodDelete, "/api/v1/runner/artifacts", body)
}

func (s *Session) request(ctx context.Context, method, path string, body []byte) {
	info, err := s.client.Do(ctx, method, path, body)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Printf("%d (%s)\n", info.StatusCode, info.Duration.Round(1e6))
	fmt.Println(s.renderBody(info.Body))
}

func (s *Session) renderBody(body []byte) string {
	if !s.prettyJSON {
		return string(body)
	}
	var buf map[string]interface{}
	if err := json.Unmarshal(body, &buf); err != nil {
		return string(body)
	}
	pretty, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(pretty)
}
