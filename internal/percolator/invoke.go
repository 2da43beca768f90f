package percolator

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// defaultMinThreads is the safety floor below which --num-threads is not
// lowered unless Force is set (§5 "Thread count for external tool").
const defaultMinThreads = 1

// InvokeOptions encodes every configurable Percolator flag (§4.6
// "External invocation").
type InvokeOptions struct {
	Executable string
	PINPath    string
	PoutPath   string
	DecoyPoutPath string
	ProteinPoutPath string

	TestFDR    float64
	TrainFDR   float64
	MaxIter    int
	CVBins     int
	WeightsOut string
	InitWeights string
	Seed       int64
	HasSeed    bool
	DescriptionOfCorrectFeatures bool
	ProteinFDRInput string

	NumThreads int
	ForceThreads bool
}

// BuildArgs renders InvokeOptions into the subprocess argument list
// (§4.6 "Spawn a subprocess whose arguments encode every configurable
// option").
func BuildArgs(opts InvokeOptions) []string {
	var args []string
	args = append(args, "-i", opts.PINPath)
	args = append(args, "-r", opts.PoutPath)
	if opts.DecoyPoutPath != "" {
		args = append(args, "-B", opts.DecoyPoutPath)
	}
	if opts.ProteinPoutPath != "" {
		args = append(args, "-l", opts.ProteinPoutPath)
	}
	if opts.TestFDR > 0 {
		args = append(args, "--testFDR", formatFloat(opts.TestFDR))
	}
	if opts.TrainFDR > 0 {
		args = append(args, "--trainFDR", formatFloat(opts.TrainFDR))
	}
	if opts.MaxIter > 0 {
		args = append(args, "--maxiter", strconv.Itoa(opts.MaxIter))
	}
	if opts.CVBins > 0 {
		args = append(args, "--nested-xval-bins", strconv.Itoa(opts.CVBins))
	}
	if opts.WeightsOut != "" {
		args = append(args, "--weights", opts.WeightsOut)
	}
	if opts.InitWeights != "" {
		args = append(args, "--init-weights", opts.InitWeights)
	}
	if opts.HasSeed {
		args = append(args, "--seed", strconv.FormatInt(opts.Seed, 10))
	}
	if opts.DescriptionOfCorrectFeatures {
		args = append(args, "-D", "1")
	}
	if opts.ProteinFDRInput != "" {
		args = append(args, "-f", opts.ProteinFDRInput)
	}
	threads := resolveThreads(opts.NumThreads, opts.ForceThreads)
	args = append(args, "--num-threads", strconv.Itoa(threads))
	return args
}

// resolveThreads enforces the safety floor of §5: thread count forwarded
// to the subprocess never drops below defaultMinThreads unless the
// caller explicitly forces it.
func resolveThreads(requested int, force bool) int {
	if requested < defaultMinThreads && !force {
		return defaultMinThreads
	}
	if requested <= 0 {
		return defaultMinThreads
	}
	return requested
}

// Run spawns the Percolator subprocess, routes stderr/stdout through the
// host logger, and fails on non-zero exit (§4.6 "External invocation";
// §5 "external process invocations... block the caller until
// completion").
func Run(ctx context.Context, opts InvokeOptions) error {
	const op = apperrors.Op("percolator.Run")
	args := BuildArgs(opts)
	cmd := exec.CommandContext(ctx, opts.Executable, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("percolator: %s", stderr.String())
		return apperrors.WrapMsg(op, fmt.Sprintf("percolator exited with error (stderr: %s)", stderr.String()), err)
	}
	if stdout.Len() > 0 {
		log.Printf("percolator: %s", stdout.String())
	}
	return nil
}
