package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/teyvat-catalog/internal/entities"
	"github.com/KirkDiggler/teyvat-catalog/internal/queryview"
)

var (
	sortField  string
	filters    []string
	optionsFor string
	output     string
)

var listCmd = &cobra.Command{
	Use:   "list <entity>",
	Short: "List a collection",
	Long: `List fetches a whole collection and shows it filtered and sorted.

Filters are exact matches and combine with AND. --options prints the distinct
values a criterion can be filtered by instead of the records.`,
	Args: cobra.ExactArgs(1),
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&sortField, "sort", "", "Field to sort by")
	listCmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as criterion=value, repeatable")
	listCmd.Flags().StringVar(&optionsFor, "options", "", "Print the filter values of a criterion")
	listCmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table or json")
}

// column is one table column of a collection
type column[T any] struct {
	header string
	value  func(T) string
}

var characterColumns = []column[*entities.Character]{
	{"ID", func(c *entities.Character) string { return strconv.FormatInt(c.ID, 10) }},
	{"NAME", func(c *entities.Character) string { return c.Name }},
	{"ELEMENT", func(c *entities.Character) string { return c.Element }},
	{"WEAPON", func(c *entities.Character) string { return c.Weapon }},
	{"REGION", func(c *entities.Character) string { return c.Region }},
	{"RARITY", func(c *entities.Character) string { return strconv.FormatInt(c.Rarity, 10) }},
}

var weaponColumns = []column[*entities.Weapon]{
	{"ID", func(w *entities.Weapon) string { return strconv.FormatInt(w.ID, 10) }},
	{"NAME", func(w *entities.Weapon) string { return w.Name }},
	{"TYPE", func(w *entities.Weapon) string { return w.Type }},
	{"RARITY", func(w *entities.Weapon) string { return strconv.FormatInt(w.Rarity, 10) }},
	{"BASE ATTACK", func(w *entities.Weapon) string { return w.BaseAttack }},
	{"SUBSTAT", func(w *entities.Weapon) string { return w.Substat }},
}

var monsterColumns = []column[*entities.Monster]{
	{"ID", func(m *entities.Monster) string { return strconv.FormatInt(m.ID, 10) }},
	{"NAME", func(m *entities.Monster) string { return m.Name }},
	{"TYPE", func(m *entities.Monster) string { return m.Type }},
	{"ELEMENTAL", func(m *entities.Monster) string {
		if m.Elemental == nil {
			return queryview.NoElement
		}
		return *m.Elemental
	}},
	{"HP", func(m *entities.Monster) string { return m.HP }},
}

// listRequest is the parsed state of the list flags
type listRequest struct {
	sort    string
	filters [][2]string
	options string
	output  string
}

func parseListRequest() (*listRequest, error) {
	req := &listRequest{sort: sortField, options: optionsFor, output: output}
	if req.output != "table" && req.output != "json" {
		return nil, fmt.Errorf("unknown output format %q, expected table or json", req.output)
	}

	for _, f := range filters {
		criterion, value, ok := strings.Cut(f, "=")
		if !ok || criterion == "" {
			return nil, fmt.Errorf("filter %q must be criterion=value", f)
		}
		req.filters = append(req.filters, [2]string{criterion, value})
	}
	return req, nil
}

func runList(_ *cobra.Command, args []string) error {
	req, err := parseListRequest()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	entity := args[0]
	switch entity {
	case entities.CharactersCollection:
		return listEntity(ctx, entity, queryview.CharacterFields(), characterColumns, req, os.Stdout)
	case entities.WeaponsCollection:
		return listEntity(ctx, entity, queryview.WeaponFields(), weaponColumns, req, os.Stdout)
	case entities.MonstersCollection:
		return listEntity(ctx, entity, queryview.MonsterFields(), monsterColumns, req, os.Stdout)
	default:
		return checkEntity(entity)
	}
}

func listEntity[T any](
	ctx context.Context,
	entity string,
	fields queryview.Fields[T],
	columns []column[T],
	req *listRequest,
	w io.Writer,
) error {
	c, err := newClient[T](entity)
	if err != nil {
		return err
	}

	view, err := queryview.Load(ctx, fields, queryview.Fetcher[T](c))
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", entity, err)
	}
	return render(view, columns, req, w)
}

// render applies req to view and writes the result
func render[T any](view *queryview.View[T], columns []column[T], req *listRequest, w io.Writer) error {
	if req.options != "" {
		values, err := view.Options(req.options)
		if err != nil {
			return err
		}
		for _, v := range values {
			fmt.Fprintln(w, v)
		}
		return nil
	}

	for _, f := range req.filters {
		if err := view.FilterBy(f[0], f[1]); err != nil {
			return err
		}
	}
	if req.sort != "" {
		if err := view.SortBy(req.sort); err != nil {
			return err
		}
	}

	recs := view.Displayed()
	if req.output == "json" {
		return printJSONTo(w, recs)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	row := make([]string, len(columns))
	for _, rec := range recs {
		for i, col := range columns {
			row[i] = col.value(rec)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
