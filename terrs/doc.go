// Package terrs is a small helper for the plain Go error interface, used
// throughout the tracepoint subsystem so that every error can be asked "what
// kind of failure is this" without resorting to string matching at call
// sites.
//
// An Error is created with New(), which pairs a Kind (one of the taxonomy in
// §7 of the tracepoint specification: InvalidArgument, UnknownTracepoint,
// BadAction, TooComplex, ProtocolError, RemoteError, Unsupported, NotRemote,
// NotFound, UserQuit) with an fmt.Errorf-style pattern and its values. Is()
// compares the Kind. The pattern doubles as the error's identity for
// IsPattern()/Has() — two errors created from the same pattern are
// considered the same error by those, regardless of the formatted values:
//
//	e := terrs.New(terrs.NotFound, "tfind: no frame matching %s", loc)
//	if terrs.Is(e, terrs.NotFound) { ... }
//
// Error() drops the leading message part when the part after it repeats it,
// so wrapping an error that already carries the same leading text does not
// produce "x: x: y".
package terrs
