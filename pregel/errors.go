package pregel

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateKey is returned when a schema declares the same key twice.
	ErrDuplicateKey = errors.New("duplicate schema key")

	// ErrMissingInverseIndex is returned when a bidirectional computation runs on a graph without incoming relationships.
	ErrMissingInverseIndex = errors.New("requires inverse indexes")

	// ErrAlreadyRun is returned when Run is called more than once, or after Release.
	ErrAlreadyRun = errors.New("pregel computation already run")
)

// ConfigError reports an invalid configuration value, detected at construction.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Field + " " + e.Reason
}

// QueueCapacityError is returned when a message queue would grow beyond Config.MaxQueueSize.
type QueueCapacityError struct {
	NodeId uint32
	Size   int
}

func (e *QueueCapacityError) Error() string {
	return fmt.Sprintf("message queue of node %d exceeded its capacity at size %d", e.NodeId, e.Size)
}

// ComputationError wraps a panic raised by user code during one of the phases.
type ComputationError struct {
	Phase     Phase
	Superstep int
	NodeId    uint32
	Cause     any
}

func (e *ComputationError) Error() string {
	if e.Phase == MASTER_COMPUTE {
		return fmt.Sprintf("%s failed in superstep %d: %v", e.Phase, e.Superstep, e.Cause)
	}
	return fmt.Sprintf("%s failed in superstep %d at node %d: %v", e.Phase, e.Superstep, e.NodeId, e.Cause)
}

func (e *ComputationError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}
