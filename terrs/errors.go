package terrs

import (
	"fmt"
	"strings"
)

// Kind classifies the errors named in §7 of the specification. Propagation
// policy differs per kind: BadAction and UnknownTracepoint are recovered
// locally by the caller (warn, drop or return a nil result); every other
// kind aborts the current command.
type Kind int

const (
	// Unclassified is the zero value for errors that did not originate in
	// this package (see Is/Has below) and for plain wrapping.
	Unclassified Kind = iota

	// InvalidArgument is user-supplied text that could not be parsed.
	InvalidArgument

	// UnknownTracepoint is a warning-level lookup failure. Non-fatal.
	UnknownTracepoint

	// BadAction is a warning from the action line validator. The offending
	// line is dropped; compilation of the rest of the tracepoint continues.
	BadAction

	// TooComplex means the assembled packet would exceed the transport size
	// limit.
	TooComplex

	// ProtocolError is an unrecognised reply, or a reply that violates the
	// noisy-reply contract (e.g. a bogus OK).
	ProtocolError

	// RemoteError is an E-prefixed packet from the target. Subcategory is
	// carried separately in Error.remote.
	RemoteError

	// Unsupported means the target returned an empty reply: it lacks the
	// command that was sent.
	Unsupported

	// NotRemote means the active target is not a remote stub.
	NotRemote

	// NotFound means tfind failed to locate a matching frame.
	NotFound

	// UserQuit means the user aborted an interactive read.
	UserQuit
)

func (k Kind) String() string {
	switch k {
	case InvalidArgument:
		return "InvalidArgument"
	case UnknownTracepoint:
		return "UnknownTracepoint"
	case BadAction:
		return "BadAction"
	case TooComplex:
		return "TooComplex"
	case ProtocolError:
		return "ProtocolError"
	case RemoteError:
		return "RemoteError"
	case Unsupported:
		return "Unsupported"
	case NotRemote:
		return "NotRemote"
	case NotFound:
		return "NotFound"
	case UserQuit:
		return "UserQuit"
	}
	return "Unclassified"
}

// RemoteSubcategory refines a RemoteError as described in §7: the character
// following the leading 'E' of the packet determines which of these applies.
type RemoteSubcategory int

const (
	// RemoteUnknown is used when the packet could not be subcategorised.
	RemoteUnknown RemoteSubcategory = iota

	// RemoteMalformedPacket is E10: the outgoing packet was malformed.
	RemoteMalformedPacket

	// RemoteMalformedField is E1n: the outgoing packet was malformed at
	// field n.
	RemoteMalformedField

	// RemoteTraceAPI is E2xx: a target-side trace API error.
	RemoteTraceAPI
)

// Error is the concrete error type returned throughout this module.
type Error struct {
	kind    Kind
	pattern string
	values  []interface{}

	// remote carries the RemoteError subcategory and, for
	// RemoteMalformedField/RemoteTraceAPI, the numeric code that followed
	// the leading E. Zero value for every other Kind.
	remote     RemoteSubcategory
	remoteCode int
}

// New creates an Error of the given Kind. pattern is used both as the
// formatting string (as with fmt.Errorf) and, unformatted, as the error's
// identity for IsPattern()/Has().
func New(kind Kind, pattern string, values ...interface{}) error {
	return Error{kind: kind, pattern: pattern, values: values}
}

// NewRemote creates a RemoteError with a decoded subcategory, per §7's E10 /
// E1n / E2xx / opaque breakdown.
func NewRemote(sub RemoteSubcategory, code int, pattern string, values ...interface{}) error {
	return Error{kind: RemoteError, pattern: pattern, values: values, remote: sub, remoteCode: code}
}

// Error implements the error interface. When the first two ": "-separated
// parts of the message are equal, the first is dropped, so that wrapping an
// error in its own leading text does not produce "x: x: y". Repeated parts
// further along the message are left as they are.
func (e Error) Error() string {
	s := fmt.Errorf(e.pattern, e.values...).Error()

	p := strings.SplitN(s, ": ", 3)
	if len(p) > 1 && p[0] == p[1] {
		return strings.Join(p[1:], ": ")
	}
	return strings.Join(p, ": ")
}

// KindOf returns the Kind of err and whether it originated in this package.
func KindOf(err error) (Kind, bool) {
	if err == nil {
		return Unclassified, false
	}
	if e, ok := err.(Error); ok {
		return e.kind, true
	}
	return Unclassified, false
}

// RemoteInfo returns the RemoteError subcategory and code, valid only when
// KindOf(err) == RemoteError.
func RemoteInfo(err error) (RemoteSubcategory, int, bool) {
	e, ok := err.(Error)
	if !ok || e.kind != RemoteError {
		return RemoteUnknown, 0, false
	}
	return e.remote, e.remoteCode, true
}

// IsAny reports whether err was created by this package.
func IsAny(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(Error)
	return ok
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsPattern reports whether err was created with the exact given pattern,
// regardless of Kind. Useful for distinguishing two errors of the same Kind.
func IsPattern(err error, pattern string) bool {
	if e, ok := err.(Error); ok {
		return e.pattern == pattern
	}
	return false
}

// Has reports whether pattern occurs anywhere in err's wrapping chain.
func Has(err error, pattern string) bool {
	if err == nil {
		return false
	}
	if !IsAny(err) {
		return false
	}
	if IsPattern(err, pattern) {
		return true
	}
	for _, v := range err.(Error).values {
		if e, ok := v.(Error); ok {
			if Has(e, pattern) {
				return true
			}
		}
		if e, ok := v.(error); ok {
			if Has(e, pattern) {
				return true
			}
		}
	}
	return false
}
