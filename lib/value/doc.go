// Package value implements the generic structured value that reads from a dataspace
// decode into and that document writes encode from.
//
// A Value has exactly one Kind:
//
//   - KindAbsent: no value (missing key, unreachable store, unsupported remote type)
//   - KindString, KindNumber: scalars
//   - KindList: ordered strings
//   - KindSet: strings whose order carries no meaning
//   - KindMap: string fields to string values
//
// Values render to JSON and YAML through the ISerializer implementations, which is
// how the command line prints read results.
package value
