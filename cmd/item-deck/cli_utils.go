package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"
)

// normalizeArgs reorders args so flags come before positional arguments.
// Go's flag package stops parsing at the first non-flag argument, which means
// "show Rock --json" would silently ignore --json.
func normalizeArgs(fs *flag.FlagSet, args []string) []string {
	boolFlags := make(map[string]bool)
	fs.VisitAll(func(f *flag.Flag) {
		if bf, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && bf.IsBoolFlag() {
			boolFlags[f.Name] = true
		}
	})

	var flags, positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--" terminates flag processing
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}

		if strings.HasPrefix(arg, "-") && arg != "-" {
			flags = append(flags, arg)

			name := strings.TrimLeft(arg, "-")
			if strings.Contains(name, "=") {
				continue
			}

			// If it's not a bool flag, the next arg is its value
			if !boolFlags[name] && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		} else {
			positional = append(positional, arg)
		}
	}
	return append(flags, positional...)
}

// CLIOutput handles consistent output formatting across all CLI commands
type CLIOutput struct {
	out      io.Writer
	errOut   io.Writer
	jsonMode bool
}

// NewCLIOutput creates a new CLI output handler
func NewCLIOutput(out, errOut io.Writer, jsonMode bool) *CLIOutput {
	return &CLIOutput{out: out, errOut: errOut, jsonMode: jsonMode}
}

// Print prints data (human-readable or JSON)
func (c *CLIOutput) Print(humanOutput string, jsonData any) error {
	if c.jsonMode {
		return c.printJSON(jsonData)
	}
	_, err := io.WriteString(c.out, humanOutput)
	return err
}

// Error prints an error message or JSON error response
func (c *CLIOutput) Error(message, code string) {
	if c.jsonMode {
		_ = c.printJSON(map[string]any{
			"success": false,
			"error":   message,
			"code":    code,
		})
		return
	}
	fmt.Fprintf(c.errOut, "Error: %s\n", message)
}

func (c *CLIOutput) printJSON(data any) error {
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(c.out, string(output))
	return err
}

// Error codes
const (
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeNoDataDir  = "NO_DATA_DIR"
	ErrCodeLoadFailed = "LOAD_FAILED"
	ErrCodeUsage      = "USAGE"
)

// cliError carries an exit message together with its JSON error code.
type cliError struct {
	code string
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }

func (e *cliError) Unwrap() error { return e.err }

func newCLIError(code string, err error) error {
	return &cliError{code: code, err: err}
}
