// Copyright (c) 2025, Graham King
// Licensed under the MIT License. See LICENSE for details.

// Command ort sends a prompt to an LLM via OpenRouter's chat completions
// API over a from-scratch TLS 1.3 connection, streams the reply to the
// terminal, and prints a one-line cost/timing summary. Grounded on
// original_source/src/action_prompt.rs's run/run_continue.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/grahamking/ort/cli"
	"github.com/grahamking/ort/config"
	"github.com/grahamking/ort/conversation"
	"github.com/grahamking/ort/diagnostics"
	"github.com/grahamking/ort/httpclient"
	"github.com/grahamking/ort/openrouter"
	"github.com/grahamking/ort/stats"
	"github.com/grahamking/ort/tls13"
	"go.uber.org/zap"
)

const (
	openRouterHost = "openrouter.ai"
	openRouterPort = 443
	connectTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		var argErr *cli.ArgError
		if errors.As(err, &argErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "ort:", err)
		os.Exit(1)
	}
}

func run() error {
	cmd, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		return err
	}

	verbose := os.Getenv("ORT_DEBUG") != ""
	logger, err := diagnostics.New(diagnostics.Config{Verbose: verbose})
	if err != nil {
		return fmt.Errorf("starting logger: %w", err)
	}
	defer logger.Sync()
	requestID := diagnostics.NewRequestID()

	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}
	apiKey, ok := cfg.GetAPIKey()
	if !ok {
		return fmt.Errorf("no API key configured in ort.json")
	}

	opts := cmd.Opts
	if opts.MergeConfig && cfg.PromptOpts != nil {
		opts.Merge(*cfg.PromptOpts)
	} else {
		opts.Merge(openrouter.PromptOpts{})
	}

	cacheDir, err := config.CacheDir()
	if err != nil {
		return err
	}

	var messages []openrouter.Message
	if cmd.ContinueConversion {
		last, err := conversation.Load(cacheDir)
		if err != nil {
			return fmt.Errorf("continuing conversation: %w", err)
		}
		opts.Merge(last.Opts)
		messages = append(last.Messages, openrouter.NewUserMessage(opts.Prompt))
	} else {
		if opts.System != "" {
			messages = append(messages, openrouter.NewSystemMessage(opts.System))
		}
		messages = append(messages, openrouter.NewUserMessage(opts.Prompt))
	}

	isPipeOutput := false
	if info, err := os.Stdout.Stat(); err == nil {
		isPipeOutput = info.Mode()&os.ModeCharDevice == 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	log := logger.WithRequest(requestID, opts.Model)
	log.Debug("connecting", zap.String("host", openRouterHost))

	addrs := cfg.Settings.Dns
	if len(addrs) == 0 {
		addrs = []string{openRouterHost}
	}
	var conn *tls13.Conn
	for _, addr := range addrs {
		conn, err = tls13.Connect(ctx, addr, openRouterPort, openRouterHost, connectTimeout)
		if err == nil {
			break
		}
		log.Debug("connect failed", zap.String("addr", addr), zap.Error(err))
	}
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", openRouterHost, err)
	}
	defer conn.Close()

	body, err := openrouter.BuildRequestBody(opts, messages)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if err := httpclient.WriteChatCompletionsRequest(conn, apiKey, body); err != nil {
		return fmt.Errorf("sending request: %w", err)
	}

	result, err := streamResponse(conn, opts, isPipeOutput, time.Now())
	if err != nil {
		return err
	}

	if cfg.Settings.SaveToFile {
		savedOpts := opts
		savedOpts.Provider = result.stats.Provider
		if err := conversation.Save(cacheDir, conversation.LastData{Opts: savedOpts, Messages: append(messages, openrouter.NewAssistantMessage(result.content))}); err != nil {
			log.Warn("saving conversation", zap.Error(err))
		}
	}

	if !opts.Quiet {
		fmt.Printf("\nStats: %s\n", result.stats)
	}
	return nil
}

type streamResult struct {
	content string
	stats   stats.Stats
}

// streamResponse reads the raw TLS byte stream as an HTTP response,
// decodes its SSE body chunk by chunk, and renders it to stdout as it
// arrives. Grounded on cli/src/input/prompt.rs's start_prompt_thread,
// simplified to a single synchronous pass: the console write and the
// content accumulation for conversation.Save happen in the same loop
// rather than being fanned out to separate threads over channels, since
// both are fast and there is exactly one of each.
func streamResponse(conn *tls13.Conn, opts openrouter.PromptOpts, isPipeOutput bool, start time.Time) (*streamResult, error) {
	br := bufio.NewReader(&connReader{conn: conn})
	header, err := httpclient.ReadResponseHeader(br)
	if err != nil {
		return nil, err
	}

	var cw *cli.ConsoleWriter
	var fw *cli.FileWriter
	if isPipeOutput {
		fw = cli.NewFileWriter(os.Stdout, opts.ShowReasoning)
	} else {
		cw = cli.NewConsoleWriter(os.Stdout, opts.ShowReasoning)
		defer cw.Done()
		cw.Processing()
	}

	sse := httpclient.NewSSEReader(httpclient.BodyReader(br, header))
	decoder := openrouter.NewDecoder()

	var content []byte
	var result stats.Stats
	var firstTokenAt time.Time
	numTokens := 0

	for {
		data, done, err := sse.Next()
		if err != nil {
			return nil, fmt.Errorf("reading stream: %w", err)
		}
		if done {
			break
		}

		events, err := decoder.Decode(data)
		if err != nil {
			continue // malformed server-sent diagnostic, keep streaming
		}
		for _, ev := range events {
			if firstTokenAt.IsZero() && (ev.Kind == openrouter.EventThinkContent || ev.Kind == openrouter.EventContent) {
				firstTokenAt = time.Now()
				result.TimeToFirstToken = firstTokenAt.Sub(start)
			}
			switch ev.Kind {
			case openrouter.EventThinkStart:
				numTokens++
				if cw != nil {
					cw.ThinkStart()
				} else {
					fw.ThinkStart()
				}
			case openrouter.EventThinkContent:
				numTokens++
				if cw != nil {
					cw.ThinkContent(ev.Text)
				} else {
					fw.ThinkContent(ev.Text)
				}
			case openrouter.EventThinkStop:
				if cw != nil {
					cw.ThinkStop()
				} else {
					fw.ThinkStop()
				}
			case openrouter.EventContent:
				numTokens++
				content = append(content, ev.Text...)
				if cw != nil {
					cw.Content(ev.Text)
				} else {
					fw.Content(ev.Text)
				}
			case openrouter.EventUsage:
				result.Provider = ev.Provider
				result.UsedModel = ev.Model
				result.CostInCents = ev.CostInCents
			}
		}
	}

	result.ElapsedTime = time.Since(start)
	if !firstTokenAt.IsZero() && numTokens > 0 {
		result.InterTokenLatencyMs = time.Since(firstTokenAt).Milliseconds() / int64(numTokens)
	}

	fmt.Println()
	return &streamResult{content: string(content), stats: result}, nil
}

// connReader adapts *tls13.Conn's sink-based ReadStream into a plain
// io.Reader so the stdlib bufio machinery httpclient expects can read
// from it one buffer at a time. It holds back whatever part of a
// record's plaintext didn't fit in the caller's p, and hands it out on
// the next call, since ReadStream delivers one full record at a time
// regardless of how big p is.
type connReader struct {
	conn *tls13.Conn
	buf  []byte
}

func (c *connReader) Read(p []byte) (int, error) {
	if len(c.buf) > 0 {
		n := copy(p, c.buf)
		c.buf = c.buf[n:]
		return n, nil
	}

	var n int
	err := c.conn.ReadStream(context.Background(), func(fragment []byte) error {
		n = copy(p, fragment)
		if n < len(fragment) {
			c.buf = append(c.buf[:0], fragment[n:]...)
		}
		return errStopAfterOneFragment
	})
	if err != nil && !errors.Is(err, errStopAfterOneFragment) {
		return n, err
	}
	return n, nil
}

var errStopAfterOneFragment = errors.New("ort: stop after one fragment")
