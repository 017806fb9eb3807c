package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <entity> <id>",
	Short: "Delete a record",
	Args:  cobra.ExactArgs(2),
	RunE:  runDelete,
}

func runDelete(_ *cobra.Command, args []string) error {
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

	msg, err := c.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", args[0], id, err)
	}
	fmt.Println(msg)
	return nil
}
