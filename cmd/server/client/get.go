package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <entity> <id>",
	Short: "Get one record",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func runGet(_ *cobra.Command, args []string) error {
	c, err := rawClient(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := c.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get %s %d: %w", args[0], id, err)
	}
	return printJSON(rec)
}
