// Command avmc is a development/integration-test harness for the compiler
// core (SPEC_FULL §1): it is not the real CLI driver spec.md scopes out,
// but a thin cobra-based wrapper that reads a JSON fixture standing in for
// a front-end ParseResult and runs it through the full
// awst -> mir -> teal -> bytecode pipeline, following the teacher's
// cmd/cli and cmd/synnergy command style.
package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/avmforge/avmc/internal/asm"
	"github.com/avmforge/avmc/internal/diag"
	"github.com/avmforge/avmc/internal/wtypes"
	"github.com/avmforge/avmc/pkg/compiler"
	"github.com/avmforge/avmc/pkg/parseresult"
)

var logger = logrus.StandardLogger()

func main() {
	_ = godotenv.Load(".env")

	if lvl := os.Getenv("AVMC_LOG_LEVEL"); lvl != "" {
		if parsed, err := logrus.ParseLevel(lvl); err == nil {
			logger.SetLevel(parsed)
		}
	}

	root := &cobra.Command{
		Use:   "avmc",
		Short: "AVM contract compiler core harness",
	}
	root.AddCommand(compileCmd())
	if err := root.Execute(); err != nil {
		logger.Fatalf("avmc: %v", err)
	}
}

func compileCmd() *cobra.Command {
	var targetAVMVersion int
	var optimizationLevel int
	var outDir string
	var templateVarFlags []string

	cmd := &cobra.Command{
		Use:   "compile [fixture.json]",
		Short: "compile every contract in a JSON fixture to TEAL bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read fixture: %w", err)
			}

			ctx := diag.NewContext(logger)

			pr, err := decodeFixture(ctx, raw)
			if err != nil {
				return fmt.Errorf("decode fixture: %w", err)
			}

			templateVars, err := parseTemplateVars(templateVarFlags)
			if err != nil {
				return err
			}

			opts := parseresult.CompileOptions{
				TargetAVMVersion:  targetAVMVersion,
				OptimizationLevel: optimizationLevel,
				OutDir:            outDir,
				TemplateVariables: templateVars,
			}

			res, err := compiler.Compile(ctx, pr, opts)
			if err != nil {
				return fmt.Errorf("compile: %w", err)
			}

			for _, d := range ctx.Diagnostics() {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", d.Level, d.Message)
			}
			for _, artifact := range res.Contracts {
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s: %d bytes\n", artifact.Path, artifact.ContractName, len(artifact.Bytecode))
				if outDir != "" {
					outPath := outDir + "/" + artifact.ContractName + ".teal.bin"
					if err := os.WriteFile(outPath, artifact.Bytecode, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", outPath, err)
					}
				}
			}
			if ctx.ErrorCount() > 0 {
				return fmt.Errorf("compile: %d diagnostic error(s)", ctx.ErrorCount())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&targetAVMVersion, "target-avm-version", 10, "target AVM version")
	cmd.Flags().IntVar(&optimizationLevel, "optimize", 1, "optimization level")
	cmd.Flags().StringVar(&outDir, "out", "", "directory to write compiled bytecode to (optional)")
	cmd.Flags().StringArrayVar(&templateVarFlags, "template-var", nil, "NAME=TYPE:VALUE template variable binding, repeatable")

	return cmd
}

// parseTemplateVars decodes repeated --template-var NAME=TYPE:VALUE flags
// into the assembler's TemplateVariable bindings (spec §4.6). TYPE is
// "uint64" (VALUE a decimal integer) or "bytes" (VALUE hex-encoded).
func parseTemplateVars(flags []string) (map[string]asm.TemplateVariable, error) {
	out := map[string]asm.TemplateVariable{}
	for _, f := range flags {
		name, rest, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("malformed --template-var %q, want NAME=TYPE:VALUE", f)
		}
		typeName, value, ok := strings.Cut(rest, ":")
		if !ok {
			return nil, fmt.Errorf("malformed --template-var %q, want NAME=TYPE:VALUE", f)
		}
		var wtype *wtypes.WType
		switch typeName {
		case "uint64":
			wtype = wtypes.U64
		case "bytes":
			wtype = wtypes.Bytes
			if _, err := hex.DecodeString(value); err != nil {
				return nil, fmt.Errorf("--template-var %s: malformed hex value: %w", name, err)
			}
		default:
			return nil, fmt.Errorf("--template-var %s: unsupported type %q", name, typeName)
		}
		out[name] = asm.TemplateVariable{Name: name, Type: wtype, Value: value}
	}
	return out, nil
}
