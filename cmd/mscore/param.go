package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msplatform/mscore/internal/paramtree"
)

var paramCmd = &cobra.Command{
	Use:   "param",
	Short: "Inspect and validate Param-flavored XML parameter trees",
}

var paramValidateInput string

var paramValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load a parameter tree and report restriction violations",
	RunE:  runParamValidate,
}

func init() {
	paramValidateCmd.Flags().StringVar(&paramValidateInput, "input", "", "Path to a Param XML file (required)")
	paramValidateCmd.MarkFlagRequired("input")
	paramCmd.AddCommand(paramValidateCmd)
}

func runParamValidate(cmd *cobra.Command, args []string) error {
	f, err := os.Open(paramValidateInput)
	if err != nil {
		return fmt.Errorf("opening param file: %w", err)
	}
	defer f.Close()

	root, err := paramtree.Load(f)
	if err != nil {
		return fmt.Errorf("parsing param tree: %w", err)
	}

	violations := root.Validate()
	if len(violations) == 0 {
		fmt.Println("ok: no restriction violations")
		return nil
	}
	for _, v := range violations {
		fmt.Println(v)
	}
	return fmt.Errorf("%d restriction violation(s)", len(violations))
}
