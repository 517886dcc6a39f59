// Package compile implements the ActionCompiler component (§4.4): walking a
// tracepoint's action list, splitting it into trap and stepping
// sub-programs, and emitting the two canonical CollectionLists (as
// memrange.Set values) that the Serializer turns into a QTDP packet.
package compile
