// Command minstral assembles, disassembles, and executes minstral
// assembly, wrapping internal/asm, internal/disasm, and internal/vm behind
// the four subcommands original_source/src/main.c's help text advertises:
// asm, dis, exe, and run.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/oisee/minstral/internal/asm"
	"github.com/oisee/minstral/internal/console"
	"github.com/oisee/minstral/internal/disasm"
	"github.com/oisee/minstral/internal/vm"
)

func main() {
	flag.Parse() // registers glog's -v/-logtostderr flags
	defer glog.Flush()

	var outfile string
	var decimal bool
	var linebreak bool

	rootCmd := &cobra.Command{
		Use:   "minstral",
		Short: "assembler, disassembler, and VM for the minstral ISA",
	}

	asmCmd := &cobra.Command{
		Use:   "asm <source>",
		Short: "assemble a source file into a machine code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(args[0], resolveOutfile(outfile, "a.out"), decimal, linebreak)
		},
	}

	disCmd := &cobra.Command{
		Use:   "dis <image>",
		Short: "disassemble a machine code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDisassemble(args[0], resolveOutfile(outfile, "dis.min"))
		},
	}

	exeCmd := &cobra.Command{
		Use:   "exe <image>",
		Short: "execute an already-assembled machine code image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExecute(args[0])
		},
	}

	runCmd := &cobra.Command{
		Use:   "run <source>",
		Short: "assemble then immediately execute a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := resolveOutfile(outfile, "a.out")
			if err := runAssemble(args[0], out, decimal, linebreak); err != nil {
				return err
			}
			return runExecute(out)
		},
	}

	for _, c := range []*cobra.Command{asmCmd, runCmd} {
		c.Flags().StringVarP(&outfile, "output", "o", "", "output filename")
		c.Flags().BoolVar(&decimal, "decimal", false, "emit decimal machine code instead of binary")
		c.Flags().BoolVar(&linebreak, "linebreak", false, "separate pairs with newlines instead of spaces")
	}
	disCmd.Flags().StringVarP(&outfile, "output", "o", "", "output filename")

	rootCmd.AddCommand(asmCmd, disCmd, exeCmd, runCmd)
	if err := rootCmd.Execute(); err != nil {
		glog.Errorf("%v", err)
		os.Exit(1)
	}
}

func resolveOutfile(outfile, fallback string) string {
	if outfile == "" {
		return fallback
	}
	return outfile
}

func runAssemble(infile, outfile string, decimal, linebreak bool) error {
	src, err := os.ReadFile(infile)
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}

	img, sink := asm.Assemble(infile, src)
	if sink.Count() > 0 {
		for _, d := range sink.All() {
			fmt.Fprintln(os.Stderr, d.String())
		}
		return fmt.Errorf("minstral: %d error(s) assembling %s", sink.Count(), infile)
	}

	f, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}
	defer f.Close()

	codec := asm.Codec{Decimal: decimal, Linebreak: linebreak}
	if err := codec.WriteImage(f, img); err != nil {
		return fmt.Errorf("minstral: %w", err)
	}
	glog.V(1).Infof("assembled %s -> %s (%d ops)", infile, outfile, img.OpCount)
	return nil
}

func runDisassemble(infile, outfile string) error {
	f, err := os.Open(infile)
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}
	img, err := asm.ReadImage(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}

	out, err := os.Create(outfile)
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}
	defer out.Close()

	if _, err := out.WriteString(disasm.Image(img)); err != nil {
		return fmt.Errorf("minstral: %w", err)
	}
	glog.V(1).Infof("disassembled %s -> %s", infile, outfile)
	return nil
}

func runExecute(infile string) error {
	f, err := os.Open(infile)
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}
	img, err := asm.ReadImage(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("minstral: %w", err)
	}

	state := vm.New()
	state.Instructions = img.Instructions
	state.Data = img.Data

	term := console.New(os.Stdin, os.Stdout)
	defer term.Flush()

	if err := state.Run(context.Background(), term); err != nil {
		term.Flush()
		fmt.Fprintln(os.Stderr, err)
		return fmt.Errorf("minstral: %w", err)
	}
	return nil
}
