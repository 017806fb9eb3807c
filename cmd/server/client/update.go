package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	updateData string
	updateFile string
)

var updateCmd = &cobra.Command{
	Use:   "update <entity> <id>",
	Short: "Update fields of a record",
	Long:  `Update merges the given fields into an existing record. Fields left out keep their values.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateData, "data", "", "Fields to change as a JSON object")
	updateCmd.Flags().StringVar(&updateFile, "file", "", "File holding the fields to change")
}

func runUpdate(_ *cobra.Command, args []string) error {
	c, err := rawClient(args[0])
	if err != nil {
		return err
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	fields, err := readBody(updateData, updateFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := c.Update(ctx, id, fields)
	if err != nil {
		return fmt.Errorf("failed to update %s %d: %w", args[0], id, err)
	}
	return printJSON(rec)
}
