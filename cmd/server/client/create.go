package client

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	createData string
	createFile string
)

var createCmd = &cobra.Command{
	Use:   "create <entity>",
	Short: "Create a record",
	Long:  `Create posts a full record body. The server assigns the id.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().StringVar(&createData, "data", "", "Record body as a JSON object")
	createCmd.Flags().StringVar(&createFile, "file", "", "File holding the record body")
}

func runCreate(_ *cobra.Command, args []string) error {
	c, err := rawClient(args[0])
	if err != nil {
		return err
	}
	fields, err := readBody(createData, createFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	rec, err := c.Create(ctx, fields)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", args[0], err)
	}
	return printJSON(rec)
}
