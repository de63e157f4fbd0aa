package cmd

import (
	"fmt"
	"os"

	"github.com/autoflowhq/autoflow/pkg/precheck"
)

// Exit codes, one per failure class, so wrapper scripts can tell a bad
// config from a flaky cloud call.
const (
	CodeGeneric  = 1
	CodeConfig   = 2 // bad configuration, missing credentials, failed preflight
	CodeCloud    = 3 // Azure control-plane or data-plane call failed
	CodePrecheck = 4 // precheck endpoint unreachable or returned garbage
)

func Die(err string, code int) {
	_, _ = fmt.Fprintln(os.Stderr, err)
	os.Exit(code)
}

func DieFmt(msg string, args ...interface{}) {
	Die(fmt.Sprintf(msg, args...), CodeGeneric)
}

func DieErr(err error, code int) {
	Die(err.Error(), code)
}

func Fmt(msg string, args ...interface{}) {
	fmt.Printf(msg, args...)
}

func printReport(header string, report *precheck.Report) {
	Fmt("%s\n", header)
	if len(report.Summary.Present) > 0 {
		Fmt("  present:\n")
		for _, item := range report.Summary.Present {
			Fmt("    - %s\n", item)
		}
	}
	if len(report.Summary.Missing) > 0 {
		Fmt("  missing:\n")
		for _, item := range report.Summary.Missing {
			if item.HowToFix != "" {
				Fmt("    - %s (%s)\n", item.Item, item.HowToFix)
			} else {
				Fmt("    - %s\n", item.Item)
			}
		}
	}
	if len(report.Summary.Errors) > 0 {
		Fmt("  errors:\n")
		for _, item := range report.Summary.Errors {
			Fmt("    - %s\n", item.Item)
		}
	}
	if report.Converged() {
		Fmt("  all prerequisites present\n")
	}
}
