// Package irfile reads graph description files into [ir.Graph] values.
//
// Graph files exist so graphs can be dumped without a compiler attached:
// they list nodes by class, bind their edge slots by name and may carry a
// precomputed schedule. Both JSON ([ReadJSON]) and TOML ([ReadTOML]) are
// accepted; [Load] picks the decoder from the file extension.
//
// Errors carry the codes of package errors: INVALID_FORMAT for syntax
// problems, INVALID_GRAPH for dangling references or unknown classes, and
// FILE_NOT_FOUND for missing files.
package irfile
