package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/ethereum/go-ethereum/log"

	vybiumtracevm "github.com/vybium/vybium-trace-vm/pkg/vybium-trace-vm"
)

var (
	version = "v0.1.0"
	commit  = "unknown"
)

// InputFile is the JSON form of the program inputs
type InputFile struct {
	StackInit  []uint64 `json:"stack_init"`
	AdviceTape []uint64 `json:"advice_tape"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, stdin io.Reader, stdout io.Writer) int {
	fs := flag.NewFlagSet("vybium-trace-vm", flag.ContinueOnError)

	example := fs.String("example", "fib", "Program to run: fib, merkle, advice")
	n := fs.Uint64("n", 10, "Number of iterations for the fib program")
	index := fs.Uint64("index", 5, "Leaf index updated by the merkle program")
	inputsPath := fs.String("inputs", "", "JSON file with stack_init and advice_tape for the advice program (- for stdin)")
	maxCycles := fs.Uint64("max-cycles", 1<<20, "Maximum number of clock cycles")
	workers := fs.Int("workers", 0, "Trace worker count (0 = number of CPUs)")
	noCommit := fs.Bool("no-commit", false, "Skip the trace commitment")
	verbosity := fs.Int("verbosity", 3, "Log level 0-5 (0=silent, 5=trace)")
	showVersion := fs.Bool("version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if *showVersion {
		fmt.Fprintf(stdout, "vybium-trace-vm %s (commit %s)\n", version, commit)
		return 0
	}

	if *maxCycles > math.MaxUint32 {
		fmt.Fprintf(os.Stderr, "Error: -max-cycles %d exceeds %d\n", *maxCycles, uint64(math.MaxUint32))
		return 2
	}

	setupLogging(*verbosity)

	config := vybiumtracevm.DefaultConfig().
		WithMaxCycles(uint32(*maxCycles)).
		WithCommitTrace(!*noCommit)
	if *workers > 0 {
		config = config.WithWorkers(*workers)
	}

	var (
		program vybiumtracevm.CodeBlock
		inputs  *vybiumtracevm.ProgramInputs
		err     error
	)
	switch *example {
	case "fib":
		program, inputs, err = fibProgram(*n)
	case "merkle":
		program, inputs, err = merkleProgram(*index)
	case "advice":
		var file *InputFile
		if file, err = readInputFile(*inputsPath, stdin); err == nil {
			program, inputs, err = adviceProgram(file)
		}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown example %q\n", *example)
		return 2
	}
	if err != nil {
		log.Error("Failed to build program", "example", *example, "err", err)
		return 1
	}

	vm, err := vybiumtracevm.NewVM(config)
	if err != nil {
		log.Error("Failed to create VM", "err", err)
		return 1
	}

	log.Info("Running program", "example", *example, "max_cycles", config.MaxCycles, "workers", config.Workers)
	res, err := vm.Run(program, inputs)
	if err != nil {
		if execErr, ok := vybiumtracevm.ExecutionErrorOf(err); ok {
			log.Error("Execution failed", "step", execErr.Step, "err", execErr)
		} else {
			log.Error("Run failed", "err", err)
		}
		return 1
	}

	enc := json.NewEncoder(stdout)
	if err := enc.Encode(res); err != nil {
		log.Error("Failed to write result", "err", err)
		return 1
	}
	return 0
}

func setupLogging(verbosity int) {
	var lvl slog.Level
	switch {
	case verbosity <= 1:
		lvl = slog.LevelError
	case verbosity == 2:
		lvl = slog.LevelWarn
	case verbosity == 3:
		lvl = slog.LevelInfo
	case verbosity == 4:
		lvl = slog.LevelDebug
	default:
		lvl = log.LevelTrace
	}
	log.SetDefault(log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true)))
}

func readInputFile(path string, stdin io.Reader) (*InputFile, error) {
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return &InputFile{AdviceTape: []uint64{1, 2, 3, 4, 5, 6, 7, 8}}, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read inputs: %w", err)
	}
	var file InputFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse inputs: %w", err)
	}
	return &file, nil
}
