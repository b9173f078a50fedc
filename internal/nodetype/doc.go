// Package nodetype keeps the catalog of node types a graph can instantiate.
//
// A node type is identified by its library and name plus a Version. Names may
// carry their revision inline (`Add_v2p1` is `Add` at 2.1). Libraries and
// node types may also list historical names; Seal folds them into a remap
// table so graphs saved under old names still resolve. The table is built
// once and never mutated afterwards.
//
// Resolution rules:
//
//   - An empty version text or nodeversion.MostRecent picks the highest
//     registered revision.
//   - An exact revision is returned when present. When it is missing the
//     highest registered revision is used instead.
//   - An identity with no registered revision is ErrUnknownNodeType.
package nodetype
