// Package datatype describes the data that travels over a connection.
//
// Every input and output carries a DataType. For data produced inside the
// host the descriptor is simply a cty.Type. Data coming from a foreign runtime
// (a scripting interpreter, a C struct bridge, or one of the client-reserved
// slots) is boxed: the cty shape is usually cty.DynamicPseudoType and the
// foreign type handle rides along in Extended.
//
// Dynamic descriptors defer compatibility decisions to an optional
// ExtendedInfo capability instead of comparing shapes.
//
// Value is the matching payload: a tagged union holding either a native
// cty.Value or an opaque foreign handle.
package datatype
