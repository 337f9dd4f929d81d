// Command ecdsa generates secp256k1 key pairs, signs messages and verifies
// signatures and signature files.
//
// Usage:
//
//	ecdsa [-v] keygen
//	ecdsa [-v] sign -key <hex> -message <text> [-hash keccak256|sha256] [-deterministic]
//	ecdsa [-v] verify -pub <hex> -message <text> -r <hex> -s <hex> [-hash ...] [-cross-check]
//	ecdsa [-v] verify-file -signatures <path> -pub <hex> [-format json|csv] [-hash ...] [-workers N]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mahdiidarabi/ecdsa-weierstrass/internal/logging"
	"github.com/mahdiidarabi/ecdsa-weierstrass/pkg/curve"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every subcommand needs.
type app struct {
	params *curve.Params
	logger logging.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("ecdsa", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: ecdsa [-v] <keygen|sign|verify|verify-file> [flags]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	a := &app{
		params: curve.Secp256k1(),
		logger: logging.NewText(stderr, level),
		stdout: stdout,
		stderr: stderr,
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var err error
	switch cmd {
	case "keygen":
		err = a.keygen(rest)
	case "sign":
		err = a.sign(ctx, rest)
	case "verify":
		err = a.verify(rest)
	case "verify-file":
		err = a.verifyFile(ctx, rest)
	default:
		fmt.Fprintf(stderr, "Error: unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errVerificationFailed):
		return 1
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
}
