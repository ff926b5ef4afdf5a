package utils

import (
	"fmt"
	"math"
	"runtime"
)

// Config holds the execution and trace-building parameters
type Config struct {
	// Execution limits
	MaxCycles uint32 // Clock cycles allowed before execution aborts

	// Trace parameters
	MinTraceLength     int // Smallest trace length; must be a power of two >= 16
	NumAuxRandElements int // Random elements drawn for the auxiliary segment

	// Hash function used by the Fiat-Shamir channel
	HashFunction string // "sha256" or "sha3"

	// Parallelism for commitment and constraint checking
	Workers int

	// CommitTrace enables committing to the main trace and drawing the
	// auxiliary randomness from the commitment
	CommitTrace bool
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxCycles:          1 << 20,
		MinTraceLength:     16,
		NumAuxRandElements: 4,
		HashFunction:       "sha3",
		Workers:            runtime.NumCPU(),
		CommitTrace:        true,
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MaxCycles == 0 {
		return fmt.Errorf("max cycles must be positive")
	}

	if c.MinTraceLength < 16 || !IsPowerOfTwo(c.MinTraceLength) {
		return fmt.Errorf("min trace length must be a power of two >= 16, got %d", c.MinTraceLength)
	}

	if c.NumAuxRandElements < 4 {
		return fmt.Errorf("auxiliary segment needs at least 4 random elements, got %d", c.NumAuxRandElements)
	}

	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("hash function must be 'sha256' or 'sha3', got '%s'", c.HashFunction)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}

	if c.MaxCycles == math.MaxUint32 {
		return fmt.Errorf("max cycles must leave room for the final row")
	}

	return nil
}

// WithMaxCycles sets the cycle limit
func (c *Config) WithMaxCycles(cycles uint32) *Config {
	c.MaxCycles = cycles
	return c
}

// WithMinTraceLength sets the minimum trace length
func (c *Config) WithMinTraceLength(length int) *Config {
	c.MinTraceLength = length
	return c
}

// WithNumAuxRandElements sets the number of auxiliary random elements
func (c *Config) WithNumAuxRandElements(n int) *Config {
	c.NumAuxRandElements = n
	return c
}

// WithHashFunction sets the hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// WithWorkers sets the worker count
func (c *Config) WithWorkers(workers int) *Config {
	c.Workers = workers
	return c
}

// WithCommitTrace enables or disables the trace commitment
func (c *Config) WithCommitTrace(commit bool) *Config {
	c.CommitTrace = commit
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	return &Config{
		MaxCycles:          c.MaxCycles,
		MinTraceLength:     c.MinTraceLength,
		NumAuxRandElements: c.NumAuxRandElements,
		HashFunction:       c.HashFunction,
		Workers:            c.Workers,
		CommitTrace:        c.CommitTrace,
	}
}
