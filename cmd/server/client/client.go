// Package client provides commands that call a running catalog server
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/teyvat-catalog/internal/clients/catalog"
	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
)

var (
	// Connection flags
	serverAddr string
	timeout    time.Duration
)

// ClientCmd is the root command for all client commands
var ClientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for the catalog API",
	Long:  `Client commands call a running catalog server over HTTP.`,
}

func init() {
	ClientCmd.PersistentFlags().StringVar(&serverAddr, "server", "http://localhost:3000", "Catalog server base URL")
	ClientCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	ClientCmd.AddCommand(listCmd)
	ClientCmd.AddCommand(getCmd)
	ClientCmd.AddCommand(createCmd)
	ClientCmd.AddCommand(updateCmd)
	ClientCmd.AddCommand(deleteCmd)
}

var entityNames = []string{
	entities.CharactersCollection,
	entities.WeaponsCollection,
	entities.MonstersCollection,
}

func checkEntity(entity string) error {
	for _, name := range entityNames {
		if entity == name {
			return nil
		}
	}
	return fmt.Errorf("unknown entity %q, expected one of: %s", entity, strings.Join(entityNames, ", "))
}

// newClient creates a client for one collection of the configured server
func newClient[T any](entity string) (*catalog.Client[T], error) {
	if err := checkEntity(entity); err != nil {
		return nil, err
	}

	c, err := catalog.New[T](&catalog.Config{
		BaseURL: serverAddr,
		Timeout: timeout,
	}, entity)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return c, nil
}

// rawClient returns records as undecoded JSON for commands that only print them
func rawClient(entity string) (*catalog.Client[json.RawMessage], error) {
	return newClient[json.RawMessage](entity)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer, got %q", raw)
	}
	return id, nil
}

// readBody decodes the object given by --data, or read from --file
func readBody(data, file string) (map[string]any, error) {
	raw := []byte(data)
	if file != "" {
		b, err := os.ReadFile(file) // nolint:gosec // path comes from the operator
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		raw = b
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("a JSON object is required via --data or --file")
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, fmt.Errorf("body must be a JSON object")
	}
	return fields, nil
}

func printJSON(v any) error {
	return printJSONTo(os.Stdout, v)
}

func printJSONTo(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
