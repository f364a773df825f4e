package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reshapekit/reshape"
)

func fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
	os.Exit(1)
}

// Represents the state used when processing a command.
type Action struct {
	cmd   *cobra.Command
	quiet bool
}

func newAction(cmd *cobra.Command) *Action {
	result := &Action{cmd: cmd}
	result.quiet = result.getBool("quiet")
	return result
}

func (a *Action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *Action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *Action) getStringArray(name string) []string {
	result, _ := a.cmd.Flags().GetStringArray(name)
	return result
}

// readFrame loads a table, dispatching on the file extension.
func readFrame(path string) (*reshape.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return reshape.ReadCSV(path)
	case ".json":
		return reshape.ReadJSON(path)
	case ".parquet":
		return reshape.ReadParquet(path)
	default:
		return nil, errors.Errorf("unsupported input format: %s", path)
	}
}

// writeFrame writes a table to path by extension, or pretty-prints to
// stdout when path is empty.
func writeFrame(df *reshape.DataFrame, path string) error {
	if path == "" {
		fmt.Println(df)
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return df.WriteCSV(path)
	case ".json":
		return df.WriteJSON(path)
	case ".parquet":
		return df.WriteParquet(path)
	default:
		return errors.Errorf("unsupported output format: %s", path)
	}
}

func (a *Action) emit(df *reshape.DataFrame, warnings []reshape.Warning) {
	if !a.quiet {
		for _, w := range warnings {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
		}
	}
	if err := writeFrame(df, a.getString("output")); err != nil {
		fatal("%s", err)
	}
}

func selectorFor(names []string) reshape.Selector {
	if len(names) == 0 {
		return nil
	}
	return reshape.Cols(names...)
}

func repairFor(policy string) (reshape.RepairFunc, error) {
	switch policy {
	case "", "check", "check_unique":
		return reshape.RepairCheckUnique, nil
	case "unique":
		return reshape.RepairUnique, nil
	case "minimal":
		return reshape.RepairMinimal, nil
	default:
		return nil, errors.Errorf("unknown repair policy: %s", policy)
	}
}

func aggFor(name string) (reshape.AggFunc, error) {
	switch name {
	case "":
		return nil, nil
	case "sum":
		return reshape.AggSum, nil
	case "mean":
		return reshape.AggMean, nil
	case "min":
		return reshape.AggMin, nil
	case "max":
		return reshape.AggMax, nil
	case "count":
		return reshape.AggCount, nil
	case "first":
		return reshape.AggFirst, nil
	case "last":
		return reshape.AggLast, nil
	default:
		return nil, errors.Errorf("unknown aggregation: %s", name)
	}
}

// parseFill interprets a fill flag as int, float, bool, or string.
func parseFill(s string) interface{} {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	if v, err := strconv.ParseBool(s); err == nil {
		return v
	}
	return s
}

// widerPlan is the YAML shape of a `wider --plan` file.
type widerPlan struct {
	NamesFrom  []string `yaml:"names_from"`
	ValuesFrom []string `yaml:"values_from"`
	IDs        []string `yaml:"ids"`
	Sep        string   `yaml:"sep"`
	Glue       string   `yaml:"glue"`
	Sort       bool     `yaml:"sort"`
	Repair     string   `yaml:"repair"`
	Fn         string   `yaml:"fn"`
	Fill       string   `yaml:"fill"`
}

func (a *Action) widerOptions() (reshape.PivotOptions, error) {
	plan := widerPlan{
		NamesFrom:  a.getStringArray("names-from"),
		ValuesFrom: a.getStringArray("values-from"),
		IDs:        a.getStringArray("ids"),
		Sep:        a.getString("sep"),
		Glue:       a.getString("glue"),
		Sort:       a.getBool("sort"),
		Repair:     a.getString("repair"),
		Fn:         a.getString("fn"),
		Fill:       a.getString("fill"),
	}
	if fname := a.getString("plan"); fname != "" {
		data, err := os.ReadFile(fname)
		if err != nil {
			return reshape.PivotOptions{}, errors.Wrapf(err, "reading plan %s", fname)
		}
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return reshape.PivotOptions{}, errors.Wrapf(err, "parsing plan %s", fname)
		}
	}

	repair, err := repairFor(plan.Repair)
	if err != nil {
		return reshape.PivotOptions{}, err
	}
	fn, err := aggFor(plan.Fn)
	if err != nil {
		return reshape.PivotOptions{}, err
	}

	opts := reshape.PivotOptions{
		IDCols:      selectorFor(plan.IDs),
		NamesFrom:   selectorFor(plan.NamesFrom),
		ValuesFrom:  selectorFor(plan.ValuesFrom),
		NamesSep:    plan.Sep,
		NamesGlue:   plan.Glue,
		NamesSort:   plan.Sort,
		NamesRepair: repair,
		Fill:        parseFill(plan.Fill),
	}
	if fn != nil {
		opts.ValuesFn = fn
	}
	return opts, nil
}

func runWider(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	df, err := readFrame(args[0])
	if err != nil {
		fatal("%s", err)
	}
	opts, err := a.widerOptions()
	if err != nil {
		fatal("%s", err)
	}
	out, warnings, err := reshape.PivotWider(df, opts)
	if err != nil {
		fatal("%s", err)
	}
	a.emit(out, warnings)
}

func runLonger(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	df, err := readFrame(args[0])
	if err != nil {
		fatal("%s", err)
	}
	out, err := reshape.PivotLonger(df, reshape.LongerOptions{
		Cols:        selectorFor(a.getStringArray("cols")),
		NamesTo:     a.getString("names-to"),
		ValuesTo:    a.getString("values-to"),
		DropMissing: a.getBool("drop-missing"),
	})
	if err != nil {
		fatal("%s", err)
	}
	a.emit(out, nil)
}

func runExpand(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	df, err := readFrame(args[0])
	if err != nil {
		fatal("%s", err)
	}
	cols := a.getStringArray("cols")
	var out *reshape.DataFrame
	if a.getBool("nesting") {
		out, err = reshape.Nesting(df, cols...)
	} else {
		out, err = df.Expand(selectorFor(cols))
	}
	if err != nil {
		fatal("%s", err)
	}
	a.emit(out, nil)
}

func runSpec(cmd *cobra.Command, args []string) {
	a := newAction(cmd)
	df, err := readFrame(args[0])
	if err != nil {
		fatal("%s", err)
	}
	spec, err := reshape.BuildSpec(df, reshape.SpecOptions{
		NamesFrom:  selectorFor(a.getStringArray("names-from")),
		ValuesFrom: selectorFor(a.getStringArray("values-from")),
		NamesSep:   a.getString("sep"),
		NamesGlue:  a.getString("glue"),
		NamesSort:  a.getBool("sort"),
	})
	if err != nil {
		fatal("%s", err)
	}
	a.emit(spec, nil)
}
