package main

import (
	"github.com/spf13/cobra"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "wider input",
		Short: "Pivot a long table to wide layout",
		Args:  cobra.ExactArgs(1),
		Run:   runWider}
	cmd.Flags().StringArray("names-from", nil, "columns whose values become new column names")
	cmd.Flags().StringArray("values-from", nil, "columns whose values populate the new columns")
	cmd.Flags().StringArray("ids", nil, "id columns (default: all remaining columns)")
	cmd.Flags().String("sep", "_", "separator for synthesized column names")
	cmd.Flags().String("glue", "", "name template, e.g. '{k}_{.value}'")
	cmd.Flags().Bool("sort", false, "sort new columns by names values")
	cmd.Flags().String("repair", "check", "name repair policy: unique, minimal, check")
	cmd.Flags().String("fn", "", "aggregation for duplicate cells: sum, mean, min, max, count, first, last")
	cmd.Flags().String("fill", "", "fill value for absent cells")
	cmd.Flags().String("plan", "", "YAML plan file (overrides flags)")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "longer input",
		Short: "Melt a wide table to long layout",
		Args:  cobra.ExactArgs(1),
		Run:   runLonger}
	cmd.Flags().StringArray("cols", nil, "columns to melt")
	cmd.Flags().String("names-to", "name", "output column for melted names")
	cmd.Flags().String("values-to", "value", "output column for melted values")
	cmd.Flags().Bool("drop-missing", false, "drop rows with missing values")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "expand input",
		Short: "Cross the distinct values of the given columns",
		Args:  cobra.ExactArgs(1),
		Run:   runExpand}
	cmd.Flags().StringArray("cols", nil, "columns to cross (default: all)")
	cmd.Flags().Bool("nesting", false, "keep only observed combinations")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "spec input",
		Short: "Print the pivot spec a wider call would use",
		Args:  cobra.ExactArgs(1),
		Run:   runSpec}
	cmd.Flags().StringArray("names-from", nil, "columns whose values become new column names")
	cmd.Flags().StringArray("values-from", nil, "columns whose values populate the new columns")
	cmd.Flags().String("sep", "_", "separator for synthesized column names")
	cmd.Flags().String("glue", "", "name template, e.g. '{k}_{.value}'")
	cmd.Flags().Bool("sort", false, "sort new columns by names values")
	root.AddCommand(cmd)
}

func main() {
	var root = &cobra.Command{Use: "reshape"}
	root.PersistentFlags().StringP("output", "o", "", "output file (default: stdout, pretty)")
	root.PersistentFlags().BoolP("quiet", "q", false, "silence warnings")
	addCommands(root)
	root.Execute()
}
