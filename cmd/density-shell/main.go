// density-shell is an interactive REPL for driving the density codec
// against typed-in lines, useful for poking at dictionary/signature
// behavior without writing a file first.
//
// Commands:
//
//	mode <copy|chameleon|cheetah>   Switch codec mode (resets the stream)
//	integrity <on|off>              Toggle block integrity hashing (resets the stream)
//	put <text>                      Compress+decompress <text> standalone, verify roundtrip
//	stream <text>                   Feed <text> into the persistent stream without finishing it
//	flush                           Finish the persistent stream, verify and report its totals
//	file <path>                     Compress a file in one shot, report the ratio
//	stats                           Show running totals for the persistent stream
//	reset                           Start a fresh persistent stream (clears dictionaries)
//	help                            Show this help
//	exit / quit / q                 Exit
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/calvinalkan/density/pkg/density"
)

func main() {
	mode := flag.String("mode", "chameleon", "initial codec: copy, chameleon, or cheetah")
	integrity := flag.Bool("integrity", false, "enable block integrity hashing")
	flag.Parse()

	s := newShell(*mode, *integrity)
	if err := s.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var errShellStreamFailed = errors.New("stream processing failed")

// shell holds one live EncodeStream so that "stream" commands accumulate
// into the same dictionary and teleport staging buffer until "flush" or
// "reset" -- the point being to let a user watch compression improve as
// repeated text arrives across separate REPL lines, something a single
// BufferCompress call could never show.
type shell struct {
	mode      density.Mode
	blockType density.BlockType

	enc          *density.EncodeStream
	encStarted   bool
	encFinishing bool
	streamOut    []byte // accumulated compressed bytes for the live stream
	streamIn     []byte // accumulated plaintext fed via "stream", for flush's roundtrip check

	scratchOut []byte // EncodeStream's working output buffer, drained into streamOut

	putOut    []byte // one-shot compress target buffer for "put"
	putDecOut []byte // one-shot decompress target buffer for "put"

	liner *liner.State
}

func newShell(modeName string, integrity bool) *shell {
	s := &shell{
		scratchOut: make([]byte, 64*1024),
		putOut:     make([]byte, 1<<20),
		putDecOut:  make([]byte, 1<<20),
	}
	s.mode = parseModeOrDefault(modeName)

	if integrity {
		s.blockType = density.BlockTypeWithHashsumIntegrityCheck
	}

	s.resetStream()

	return s
}

func parseModeOrDefault(s string) density.Mode {
	switch s {
	case "copy":
		return density.ModeCopy
	case "cheetah":
		return density.ModeCheetah
	default:
		return density.ModeChameleon
	}
}

func (s *shell) resetStream() {
	s.enc = density.NewEncodeStream()
	s.encStarted = false
	s.encFinishing = false
	s.streamOut = s.streamOut[:0]
	s.streamIn = s.streamIn[:0]
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".density_shell_history")
}

// Run starts the REPL loop.
func (s *shell) Run() error {
	s.liner = liner.NewLiner()
	defer s.liner.Close()

	s.liner.SetCtrlCAborts(true)
	s.liner.SetCompleter(s.completer)

	if f, err := os.Open(historyFile()); err == nil {
		s.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("density-shell (mode=%s, block_type=%s)\n", s.mode, s.blockType)
	fmt.Println("Type 'help' for available commands.")
	fmt.Println()

	for {
		line, err := s.liner.Prompt("density> ")
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			fmt.Println("Bye!")
			s.saveHistory()

			return nil

		case "help", "?":
			s.printHelp()

		case "mode":
			s.cmdMode(args)

		case "integrity":
			s.cmdIntegrity(args)

		case "put":
			s.cmdPut(strings.TrimSpace(strings.TrimPrefix(line, parts[0])))

		case "stream":
			s.cmdStream(strings.TrimSpace(strings.TrimPrefix(line, parts[0])))

		case "flush":
			s.cmdFlush()

		case "file":
			s.cmdFile(args)

		case "stats":
			s.cmdStats()

		case "reset":
			s.resetStream()
			fmt.Println("stream reset")

		default:
			fmt.Printf("unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	s.saveHistory()

	return nil
}

func (s *shell) saveHistory() {
	if path := historyFile(); path != "" {
		if f, err := os.Create(path); err == nil {
			s.liner.WriteHistory(f)
			f.Close()
		}
	}
}

func (s *shell) completer(line string) []string {
	commands := []string{"mode", "integrity", "put", "stream", "flush", "file", "stats", "reset", "help", "exit", "quit", "q"}

	var completions []string

	lower := strings.ToLower(line)
	for _, c := range commands {
		if strings.HasPrefix(c, lower) {
			completions = append(completions, c)
		}
	}

	return completions
}

func (s *shell) printHelp() {
	fmt.Println("Commands:")
	fmt.Println("  mode <copy|chameleon|cheetah>   Switch codec mode (resets the stream)")
	fmt.Println("  integrity <on|off>              Toggle block integrity hashing (resets the stream)")
	fmt.Println("  put <text>                      Compress+decompress <text> standalone, verify roundtrip")
	fmt.Println("  stream <text>                   Feed <text> into the persistent stream without finishing it")
	fmt.Println("  flush                           Finish the persistent stream, verify and report its totals")
	fmt.Println("  file <path>                     Compress a file in one shot, report the ratio")
	fmt.Println("  stats                           Show running totals for the persistent stream")
	fmt.Println("  reset                           Start a fresh stream (clears dictionaries)")
	fmt.Println("  help                            Show this help")
	fmt.Println("  exit / quit / q                 Exit")
}

func (s *shell) cmdMode(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: mode <copy|chameleon|cheetah>")
		return
	}

	switch args[0] {
	case "copy":
		s.mode = density.ModeCopy
	case "chameleon":
		s.mode = density.ModeChameleon
	case "cheetah":
		s.mode = density.ModeCheetah
	default:
		fmt.Printf("unknown mode: %s\n", args[0])
		return
	}

	s.resetStream()
	fmt.Printf("mode set to %s (stream reset)\n", s.mode)
}

func (s *shell) cmdIntegrity(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: integrity <on|off>")
		return
	}

	switch args[0] {
	case "on":
		s.blockType = density.BlockTypeWithHashsumIntegrityCheck
	case "off":
		s.blockType = density.BlockTypeDefault
	default:
		fmt.Printf("usage: integrity <on|off>, got %q\n", args[0])
		return
	}

	s.resetStream()
	fmt.Printf("block type set to %s (stream reset)\n", s.blockType)
}

// cmdPut compresses text in one shot via the one-shot buffer API (so
// dictionary state does not persist across separate "put" lines) and
// verifies the roundtrip, which keeps the REPL's mental model simple:
// every "put" is self-contained, unlike "stream" which carries dictionary
// state across calls until "flush".
func (s *shell) cmdPut(text string) {
	if text == "" {
		fmt.Println("usage: put <text>")
		return
	}

	in := []byte(text)

	cr := density.BufferCompress(in, s.putOut, s.mode, s.blockType)
	if cr.State != density.BufferOK {
		fmt.Printf("compress failed: %s\n", cr.State)
		return
	}

	dr := density.BufferDecompress(s.putOut[:cr.BytesWritten], s.putDecOut)
	if dr.State != density.BufferOK {
		fmt.Printf("decompress failed: %s\n", dr.State)
		return
	}

	got := s.putDecOut[:dr.BytesWritten]
	match := bytes.Equal(in, got)

	fmt.Printf("%d -> %d bytes (ratio %.2fx), roundtrip ok: %v\n",
		len(in), cr.BytesWritten, ratio(len(in), int(cr.BytesWritten)), match)

	if !match {
		fmt.Printf("  want: %q\n  got:  %q\n", in, got)
	}
}

// pumpEncode drives s.enc with in as the next chunk of input, leaving the
// stream stalled on input (ready for the next "stream" call) unless
// finish is set, in which case it drives all the way through Finish().
// Every produced byte is appended to s.streamOut as it becomes available,
// mirroring the stall/refill loop the streaming CLI commands use but
// against in-memory chunks instead of an io.Reader.
func (s *shell) pumpEncode(in []byte, finish bool) error {
	var st density.State

	if !s.encStarted {
		st = s.enc.Init(s.mode, s.blockType, in, s.scratchOut)
		s.encStarted = true
	} else {
		s.enc.UpdateInput(in)
		st = s.enc.Continue()
	}

	for {
		switch st {
		case density.StateStallOnOutput:
			s.streamOut = append(s.streamOut, s.scratchOut[:s.enc.OutputAvailableForUse()]...)
			s.enc.UpdateOutput(s.scratchOut)
			st = s.enc.Continue()

		case density.StateStallOnInput:
			if !finish {
				return nil
			}

			st = s.enc.Finish()
			s.encFinishing = true

		case density.StateReady:
			if s.encFinishing {
				s.streamOut = append(s.streamOut, s.scratchOut[:s.enc.OutputAvailableForUse()]...)
				s.encFinishing = false

				return nil
			}
			// Init just wrote the main header; keep driving so the
			// chunk just handed to it actually gets encoded.
			st = s.enc.Continue()

		default:
			return fmt.Errorf("%w: %s", errShellStreamFailed, st)
		}
	}
}

func (s *shell) cmdStream(text string) {
	if text == "" {
		fmt.Println("usage: stream <text>")
		return
	}

	in := []byte(text)

	if err := s.pumpEncode(in, false); err != nil {
		fmt.Printf("stream failed: %v\n", err)
		return
	}

	s.streamIn = append(s.streamIn, in...)
	fmt.Printf("queued %d bytes (stream so far: %d in, %d out)\n", len(in), len(s.streamIn), len(s.streamOut))
}

func (s *shell) cmdFlush() {
	if !s.encStarted {
		fmt.Println("nothing to flush, use 'stream' first")
		return
	}

	if err := s.pumpEncode(nil, true); err != nil {
		fmt.Printf("flush failed: %v\n", err)
		return
	}

	outBuf := make([]byte, len(s.streamIn)+int(density.MinimumOutputBufferSize))

	dr := density.BufferDecompress(s.streamOut, outBuf)
	if dr.State != density.BufferOK {
		fmt.Printf("verification decompress failed: %s\n", dr.State)
	} else {
		match := bytes.Equal(s.streamIn, outBuf[:dr.BytesWritten])
		fmt.Printf("stream complete: %d -> %d bytes (ratio %.2fx), roundtrip ok: %v\n",
			len(s.streamIn), len(s.streamOut), ratio(len(s.streamIn), len(s.streamOut)), match)
	}

	s.resetStream()
}

func (s *shell) cmdFile(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: file <path>")
		return
	}

	data, err := os.ReadFile(args[0]) //nolint:gosec // path is user-controlled by design
	if err != nil {
		fmt.Printf("error reading %s: %v\n", args[0], err)
		return
	}

	out := make([]byte, len(data)*2+int(density.MinimumOutputBufferSize))

	cr := density.BufferCompress(data, out, s.mode, s.blockType)
	if cr.State != density.BufferOK {
		fmt.Printf("compress failed: %s\n", cr.State)
		return
	}

	fmt.Printf("%s: %d -> %d bytes (ratio %.2fx)\n",
		args[0], cr.BytesRead, cr.BytesWritten, ratio(int(cr.BytesRead), int(cr.BytesWritten)))
}

func (s *shell) cmdStats() {
	fmt.Printf("stream: %d bytes read, %d bytes written\n", s.enc.TotalRead(), s.enc.TotalWritten())
}

func ratio(in, out int) float64 {
	if out == 0 {
		return 0
	}

	return float64(in) / float64(out)
}
