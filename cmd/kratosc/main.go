// Command kratosc is a thin driver for the kratos-go hardware generator
// framework: it builds one of a small set of built-in example designs,
// runs the default pass pipeline over it, and emits SystemVerilog (or a
// text dump of the post-pass IR). It exists so the core packages have a
// real caller outside their tests; it is not itself the framework.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"kratosc/internal/codegen"
	"kratosc/internal/debugdb"
	"kratosc/internal/diag"
	"kratosc/internal/examples"
	"kratosc/internal/ir"
	"kratosc/internal/passes"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printGlobalUsage()
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "compile":
		return runCompile(args[1:])
	default:
		printGlobalUsage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func printGlobalUsage() {
	fmt.Fprintf(os.Stderr, "kratosc (scaffold)\n\n")
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  kratosc compile [options]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  compile    Build a built-in example design, run the default passes, and emit SystemVerilog\n")
}

var builtinExamples = map[string]func(*ir.Context) (*ir.Generator, error){
	"register": examples.Register,
	"mux":      examples.Mux,
}

func runCompile(args []string) error {
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	example := fs.String("example", "register", "built-in example to compile (register|mux)")
	emit := fs.String("emit", "verilog", "output format (verilog|ir)")
	output := fs.String("o", "", "output file path (stdout when omitted)")
	debug := fs.Bool("debug", false, "enable the debug generator and breakpoint/verilator-public passes")
	diagFormat := fs.String("diag-format", "text", "diagnostic output format (text|json)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	build, ok := builtinExamples[*example]
	if !ok {
		return fmt.Errorf("unknown example %q (want one of: %s)", *example, builtinExampleNames())
	}

	ctx := ir.NewContext()
	top, err := build(ctx)
	if err != nil {
		return err
	}
	top.Debug = *debug

	reporter := diag.NewReporter(os.Stderr, *diagFormat)
	db := debugdb.New()
	pipeline := passes.DefaultPipeline(reporter, db)
	design := ir.NewDesign(top)

	if err := pipeline.Run(context.Background(), design); err != nil {
		return err
	}
	if reporter.HasErrors() {
		return fmt.Errorf("pass pipeline reported errors")
	}

	switch *emit {
	case "ir":
		return withOutputWriter(*output, func(w io.Writer) error {
			return dumpDesign(w, design)
		})
	case "verilog":
		modules, err := codegen.Generate(design, codegen.Options{DB: db})
		if err != nil {
			return err
		}
		return withOutputWriter(*output, func(w io.Writer) error {
			return writeModules(w, modules)
		})
	default:
		return fmt.Errorf("unknown emit format: %s", *emit)
	}
}

func builtinExampleNames() string {
	names := make([]string, 0, len(builtinExamples))
	for name := range builtinExamples {
		names = append(names, name)
	}
	sort.Strings(names)
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

// writeModules emits every module's source, sorted by name, separated by
// a blank line, so output is stable across runs regardless of map
// iteration order.
func writeModules(w io.Writer, modules map[string]string) error {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)
	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := io.WriteString(w, modules[name]); err != nil {
			return err
		}
	}
	return nil
}

func dumpDesign(w io.Writer, design *ir.Design) error {
	for _, g := range design.Generators() {
		fmt.Fprintf(w, "generator %s: %d ports, %d vars, %d stmts\n", g.Name, len(g.Ports()), len(g.Vars()), len(g.Stmts()))
	}
	return nil
}

func withOutputWriter(path string, fn func(io.Writer) error) error {
	w, cleanup, err := outputWriter(path)
	if err != nil {
		return err
	}
	if cleanup == nil {
		return fn(w)
	}
	err = fn(w)
	if closeErr := cleanup(); err == nil && closeErr != nil {
		err = closeErr
	}
	return err
}

func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
