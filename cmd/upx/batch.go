package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/upxsys/upx-go/pkg/client"
	"gopkg.in/yaml.v3"
)

// ── batch ────────────────────────────────────────────────────────────────────

var batchFormat string

var batchCmd = &cobra.Command{
	Use:   "batch <file.yaml>",
	Short: "Run several calls concurrently and print every response",
	Long: `batch fires every call listed in a YAML file without waiting between
them. It succeeds only if every call succeeds; the first failure is reported.

  calls:
    - module: user
      function: get
      params:
        id: 7
    - module: billing
      function: balance
      timeout: 5s`,
	Args: cobra.ExactArgs(1),
	RunE: runBatchCmd,
}

func init() {
	batchCmd.Flags().StringVar(&batchFormat, "format", "text", "Output format: text or json")
}

// batchFile is the YAML document read by the batch command.
type batchFile struct {
	Calls []batchCall `yaml:"calls"`
}

type batchCall struct {
	Module   string         `yaml:"module"`
	Function string         `yaml:"function"`
	Params   map[string]any `yaml:"params"`
	Timeout  time.Duration  `yaml:"timeout"`
}

func (b batchCall) name() string { return b.Module + "." + b.Function }

// decodeBatch parses and validates a batch file.
func decodeBatch(r io.Reader) ([]batchCall, error) {
	var f batchFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("batch file is empty")
		}
		return nil, fmt.Errorf("decode batch file: %w", err)
	}
	if len(f.Calls) == 0 {
		return nil, errors.New("batch file lists no calls")
	}
	for i, call := range f.Calls {
		if call.Module == "" || call.Function == "" {
			return nil, fmt.Errorf("call %d: module and function are required", i+1)
		}
		if call.Timeout < 0 {
			return nil, fmt.Errorf("call %d (%s): timeout must not be negative", i+1, call.name())
		}
	}
	return f.Calls, nil
}

// runBatch fires calls through c and waits for all of them.
func runBatch(ctx context.Context, c *client.Client, calls []batchCall) ([]json.RawMessage, error) {
	prepared := make([]client.PreparedCall, 0, len(calls))
	for i, call := range calls {
		params, err := client.From(call.Params)
		if err != nil {
			return nil, fmt.Errorf("call %d (%s): %w", i+1, call.name(), err)
		}
		var opts *client.TransportOptions
		if call.Timeout > 0 {
			opts = &client.TransportOptions{Timeout: call.Timeout}
		}
		prepared = append(prepared, client.PrepareCall(c.Prepare(call.Module, call.Function, params, opts), nil, nil))
	}
	return client.MultiCall(prepared, nil, nil)().Wait(ctx)
}

func runBatchCmd(cmd *cobra.Command, args []string) error {
	if err := checkFormat(batchFormat); err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	calls, err := decodeBatch(f)
	if err != nil {
		return err
	}
	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchWaitTimeout(calls))
	defer cancel()
	responses, err := runBatch(ctx, c, calls)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	return writeBatch(os.Stdout, batchFormat, calls, responses)
}

// batchWaitTimeout covers the slowest call in the batch.
func batchWaitTimeout(calls []batchCall) time.Duration {
	d := waitTimeout()
	for _, call := range calls {
		if call.Timeout+5*time.Second > d {
			d = call.Timeout + 5*time.Second
		}
	}
	return d
}

func writeBatch(w io.Writer, format string, calls []batchCall, responses []json.RawMessage) error {
	if format == "json" {
		type row struct {
			Module   string          `json:"module"`
			Function string          `json:"function"`
			Response json.RawMessage `json:"response"`
		}
		rows := make([]row, len(calls))
		for i, call := range calls {
			rows[i] = row{Module: call.Module, Function: call.Function, Response: responses[i]}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	for i, call := range calls {
		if _, err := fmt.Fprintf(w, "# %s\n", call.name()); err != nil {
			return err
		}
		if err := writeResponse(w, "text", responses[i]); err != nil {
			return err
		}
	}
	return nil
}
