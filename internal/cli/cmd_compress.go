package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/density/pkg/density"
)

var errUnknownMode = errors.New("unknown mode")

var errUnknownBlockType = errors.New("unknown block type")

func parseMode(s string) (density.Mode, error) {
	switch s {
	case "copy":
		return density.ModeCopy, nil
	case "chameleon":
		return density.ModeChameleon, nil
	case "cheetah":
		return density.ModeCheetah, nil
	default:
		return 0, fmt.Errorf("%w: %s (want copy, chameleon, or cheetah)", errUnknownMode, s)
	}
}

func parseBlockType(s string) (density.BlockType, error) {
	switch s {
	case "default":
		return density.BlockTypeDefault, nil
	case "integrity":
		return density.BlockTypeWithHashsumIntegrityCheck, nil
	default:
		return 0, fmt.Errorf("%w: %s (want default or integrity)", errUnknownBlockType, s)
	}
}

// writeOutput runs produce against either stdout or, when path is
// non-empty, an atomically-replaced file: produce's writes never land
// partially on disk if it returns an error partway through.
func writeOutput(path string, produce func(w io.Writer) error) error {
	if path == "" {
		return produce(os.Stdout)
	}

	pr, pw := io.Pipe()

	done := make(chan error, 1)

	go func() {
		done <- atomic.WriteFile(path, pr)
	}()

	produceErr := produce(pw)
	_ = pw.CloseWithError(produceErr)

	writeErr := <-done
	if produceErr != nil {
		return produceErr
	}

	if writeErr != nil {
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}

	return nil
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path) //nolint:gosec // path is user-controlled by design
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	return f, nil
}

// CompressCmd compresses an input file (or stdin) to an output file (or
// stdout) using the given codec mode.
func CompressCmd(profile Profile) *Command {
	flags := flag.NewFlagSet("compress", flag.ContinueOnError)
	mode := flags.StringP("mode", "m", profile.Mode, "codec: copy, chameleon, or cheetah")
	blockType := flags.StringP("block-type", "b", profile.BlockType, "default or integrity")
	parallel := flags.BoolP("parallelizable", "p", profile.ParallelizableOutput, "emit a trailing footer for parallel decode")
	output := flags.StringP("output", "o", "", "output file (default: stdout)")

	return &Command{
		Flags: flags,
		Usage: "compress [flags] [file]",
		Short: "Compress a file or stdin",
		Long:  "Compress a file (or stdin, given '-' or no argument) with the chameleon/cheetah/copy codec family.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			m, err := parseMode(*mode)
			if err != nil {
				return err
			}

			bt, err := parseBlockType(*blockType)
			if err != nil {
				return err
			}

			var inputPath string
			if len(args) > 0 {
				inputPath = args[0]
			}

			in, err := openInput(inputPath)
			if err != nil {
				return err
			}
			defer in.Close()

			var read, written uint64

			err = writeOutput(*output, func(w io.Writer) error {
				var streamErr error
				read, written, streamErr = streamCompress(in, w, m, bt, *parallel)
				return streamErr
			})
			if err != nil {
				return err
			}

			o.Printf("compressed %d -> %d bytes (%s, %s)\n", read, written, m, bt)

			return nil
		},
	}
}

// DecompressCmd decompresses a file (or stdin) produced by [CompressCmd].
func DecompressCmd(profile Profile) *Command {
	flags := flag.NewFlagSet("decompress", flag.ContinueOnError)
	parallel := flags.BoolP("parallelizable", "p", profile.ParallelizableOutput, "input carries a trailing parallel-decode footer")
	output := flags.StringP("output", "o", "", "output file (default: stdout)")

	return &Command{
		Flags: flags,
		Usage: "decompress [flags] [file]",
		Short: "Decompress a file or stdin",
		Long:  "Decompress a file (or stdin, given '-' or no argument) produced by the compress command.",
		Exec: func(_ context.Context, o *IO, args []string) error {
			var inputPath string
			if len(args) > 0 {
				inputPath = args[0]
			}

			in, err := openInput(inputPath)
			if err != nil {
				return err
			}
			defer in.Close()

			var read, written uint64

			err = writeOutput(*output, func(w io.Writer) error {
				var streamErr error
				read, written, streamErr = streamDecompress(in, w, *parallel)
				return streamErr
			})
			if err != nil {
				return err
			}

			o.Printf("decompressed %d -> %d bytes\n", read, written)

			return nil
		},
	}
}
