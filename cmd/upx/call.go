package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/upxsys/upx-go/pkg/client"
)

// ── call ─────────────────────────────────────────────────────────────────────

var (
	callJSON   string
	callFormat string
)

var callCmd = &cobra.Command{
	Use:   "call <module> <function> [key=value ...]",
	Short: "Call one backend function and print its response",
	Long: `call invokes function in module and prints the response.

Parameters are given as key=value pairs; keys may use bracket paths:

  upx call user search filter[name]=alice filter[active]=1 fields[]=id fields[]=email

or as a JSON object, which key=value pairs are applied on top of:

  upx call user search --json '{"filter":{"name":"alice"}}' limit=10`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCall,
}

func init() {
	callCmd.Flags().StringVar(&callJSON, "json", "", "Parameters as a JSON object")
	callCmd.Flags().StringVar(&callFormat, "format", "text", "Output format: text or json")
}

func runCall(cmd *cobra.Command, args []string) error {
	if err := checkFormat(callFormat); err != nil {
		return err
	}
	params, err := parseParams(callJSON, args[2:])
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	module, function := args[0], args[1]
	outcome, err := c.Call(cmd.Context(), module, function, params, nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout())
	defer cancel()
	response, err := outcome.Wait(ctx)
	if err != nil {
		return describeFailure(module, function, err)
	}
	return writeResponse(os.Stdout, callFormat, response)
}

func checkFormat(format string) error {
	switch format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unknown format %q: use text or json", format)
}

// describeFailure turns a rejection into a CLI error message.
func describeFailure(module, function string, err error) error {
	var envErr *client.EnvelopeError
	switch {
	case errors.Is(err, client.CodeTimeout):
		return fmt.Errorf("%s.%s: timed out", module, function)
	case errors.Is(err, client.CodeNotImplemented):
		return fmt.Errorf("%s.%s: not implemented by the backend (HTTP 501)", module, function)
	case errors.As(err, &envErr):
		return fmt.Errorf("%s.%s: %w\n%s", module, function, err, envErr.Raw)
	}
	return fmt.Errorf("%s.%s: %w", module, function, err)
}

// writeResponse prints a response either as indented JSON or, for text, as
// one "path<TAB>value" line per scalar using the same bracket paths the
// parameters use.
func writeResponse(w io.Writer, format string, response json.RawMessage) error {
	if format == "json" {
		var buf bytes.Buffer
		if err := json.Indent(&buf, response, "", "  "); err != nil {
			return fmt.Errorf("format response: %w", err)
		}
		buf.WriteByte('\n')
		_, err := buf.WriteTo(w)
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(response))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	v, err := client.From(decoded)
	if err != nil {
		return fmt.Errorf("format response: %w", err)
	}

	if leaf, ok := v.(client.Leaf); ok {
		_, err := fmt.Fprintln(w, string(leaf))
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	writeNode(tw, "", v.(*client.Node))
	return tw.Flush()
}

func writeNode(w io.Writer, prefix string, n *client.Node) {
	for _, e := range n.Entries() {
		path := e.Key
		if prefix != "" {
			path = prefix + "[" + e.Key + "]"
		}
		switch val := e.Value.(type) {
		case client.Leaf:
			fmt.Fprintf(w, "%s\t%s\n", path, string(val))
		case *client.Node:
			writeNode(w, path, val)
		}
	}
}
