// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrDependencyCycle is returned when resolving a type requires resolving that same type again.
	ErrDependencyCycle = errors.New("dependency cycle detected")

	// ErrNoImplementation is returned when an interface type is requested and no implementation is bound to it.
	ErrNoImplementation = errors.New("no implementation available for abstract type")

	// ErrNoRecipe is returned when a type has no recipe and cannot be default initialized.
	ErrNoRecipe = errors.New("type is not default initializable and there was no recipe")

	// ErrAbstractType is returned when a fresh instance of an interface type is requested.
	ErrAbstractType = errors.New("cannot create an instance of an abstract type")

	// ErrInvalidRecipe is returned when a constructor recipe does not have a usable signature.
	ErrInvalidRecipe = errors.New("invalid recipe")

	// ErrInvalidTarget is returned when a singleton is requested for a type that cannot be shared by reference.
	ErrInvalidTarget = errors.New("singleton types must be pointers or interfaces")

	// ErrTypeMismatch is returned when a stored instance does not have the requested type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrInstanceNotFound is returned when a type map holds no instance of the requested type.
	ErrInstanceNotFound = errors.New("instance not found")

	// ErrAlreadyEmplaced is returned when an instance of a type is already held by a type map.
	ErrAlreadyEmplaced = errors.New("instance already present")

	// ErrInjectorClosed is returned when the injector has been closed.
	ErrInjectorClosed = errors.New("injector is closed")

	// ErrRecordTooLarge is returned when a single message record cannot fit in an empty buffer.
	ErrRecordTooLarge = errors.New("record exceeds the maximum message size")

	// ErrInvalidQueue is returned when operating on a queue that no longer owns its storage.
	ErrInvalidQueue = errors.New("message queue is not valid")

	// ErrQueueSealed is returned when pushing onto a sealed queue.
	ErrQueueSealed = errors.New("message queue is sealed")

	// ErrPayloadMismatch is returned when a managed payload is read as a type other than the one it holds.
	ErrPayloadMismatch = errors.New("managed payload type mismatch")

	// ErrMailboxClaimed is returned when a mailbox is claimed a second time.
	ErrMailboxClaimed = errors.New("mailbox already claimed")

	// ErrMailboxClosed is returned when the mailbox router has been closed.
	ErrMailboxClosed = errors.New("mailbox is closed")

	// ErrForeignElement is returned when an element is given back to a pool it did not come from.
	ErrForeignElement = errors.New("element does not belong to this pool")

	// ErrElementNotInUse is returned when an element is given back to its pool twice.
	ErrElementNotInUse = errors.New("element is not in use")

	// ErrPropTypeMismatch is returned when a property is accessed with a type other than the one it holds.
	ErrPropTypeMismatch = errors.New("property type mismatch")

	// ErrSchedulerNotStarted is returned when scheduling deferred work on a scheduler that is not running.
	ErrSchedulerNotStarted = errors.New("scheduler has not started")

	// ErrSchedulerStopped is returned when submitting work to a scheduler that has stopped.
	ErrSchedulerStopped = errors.New("scheduler has stopped")

	// ErrInvalidPriority is returned when a job is submitted with the ignore priority where one is required.
	ErrInvalidPriority = errors.New("invalid job priority")

	// ErrJobNotFound is returned when cancelling a deferred job that is unknown.
	ErrJobNotFound = errors.New("job not found")

	// ErrInitFailure is returned when a subsystem fails to initialize.
	ErrInitFailure = errors.New("failed to initialize")

	// ErrAllocationFailure marks a failure to obtain memory.
	ErrAllocationFailure = errors.New("memory allocation failed")
)

// NewErrDependencyCycle formats an ErrDependencyCycle for the given type name.
func NewErrDependencyCycle(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrDependencyCycle)
}

// NewErrNoImplementation formats an ErrNoImplementation for the given type name.
func NewErrNoImplementation(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrNoImplementation)
}

// NewErrNoRecipe formats an ErrNoRecipe for the given type name.
func NewErrNoRecipe(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrNoRecipe)
}

// NewErrAbstractType formats an ErrAbstractType for the given type name.
func NewErrAbstractType(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrAbstractType)
}

// NewErrInvalidRecipe wraps a reason with ErrInvalidRecipe.
func NewErrInvalidRecipe(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRecipe, reason)
}

// NewErrInvalidTarget formats an ErrInvalidTarget for the given type name.
func NewErrInvalidTarget(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrInvalidTarget)
}

// NewErrTypeMismatch formats an ErrTypeMismatch between the wanted and the stored type.
func NewErrTypeMismatch(want, got string) error {
	return fmt.Errorf("want=(%s) got=(%s) %w", want, got, ErrTypeMismatch)
}

// NewErrInstanceNotFound formats an ErrInstanceNotFound for the given type name.
func NewErrInstanceNotFound(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrInstanceNotFound)
}

// NewErrAlreadyEmplaced formats an ErrAlreadyEmplaced for the given type name.
func NewErrAlreadyEmplaced(typeName string) error {
	return fmt.Errorf("type=(%s) %w", typeName, ErrAlreadyEmplaced)
}

// NewErrRecordTooLarge formats an ErrRecordTooLarge for the given size.
func NewErrRecordTooLarge(size, limit int) error {
	return fmt.Errorf("size=(%d) limit=(%d) %w", size, limit, ErrRecordTooLarge)
}

// NewErrMailboxClaimed formats an ErrMailboxClaimed for the given mailbox id.
func NewErrMailboxClaimed(id uint64) error {
	return fmt.Errorf("mailbox=(%d) %w", id, ErrMailboxClaimed)
}

// NewErrPropTypeMismatch formats an ErrPropTypeMismatch for the given key.
func NewErrPropTypeMismatch(key, want, got string) error {
	return fmt.Errorf("key=(%s) want=(%s) got=(%s) %w", key, want, got, ErrPropTypeMismatch)
}

// NewErrJobNotFound formats an ErrJobNotFound for the given job key.
func NewErrJobNotFound(key string) error {
	return fmt.Errorf("job=(%s) %w", key, ErrJobNotFound)
}

// NewErrInitFailure wraps a base error with ErrInitFailure to indicate a startup failure.
func NewErrInitFailure(err error) error {
	return errors.Join(ErrInitFailure, err)
}

// PanicError defines the panic error
// wrapping the underlying error
type PanicError struct {
	err error
}

// enforce compilation error
var _ error = (*PanicError)(nil)

// NewPanicError creates an instance of PanicError
func NewPanicError(err error) *PanicError {
	return &PanicError{err}
}

// Error implements the standard error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.err)
}

func (e *PanicError) Unwrap() error {
	return e.err
}
