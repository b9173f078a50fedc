/*
Package nodeversion provides the (major, minor) revision tag of a node
implementation together with the parsing rules used when resolving node
names saved by older builds.

Versions order lexicographically. The MostRecent sentinel (-1, -1) is not a
real version: it asks for the highest concretely registered revision and must
be checked with IsMostRecent before any ordinary comparison.

A versioned identifier embeds its revision after a trailing `_v` marker with
`p` standing in for the decimal point, e.g. `Blend_v2p1` is revision 2.1 of
`Blend`.
*/
package nodeversion
