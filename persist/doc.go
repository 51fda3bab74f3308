// Package persist implements the Serializer contract from spec.md §6:
// round-tripping scalars, vectors, and matrices through a small set of
// textual formats, plus the literal SVM-cplex ASCII model format named in
// spec §6. Feature/label container persistence and a full
// ASCII/JSON/XML/HDF5 reader/writer matrix are non-goals (spec §1); only
// ASCII and JSON are built out, since spec §8's round-trip laws name
// concrete precisions for them and exercising those laws requires at least
// one textual and one structured format to exist. XML and HDF5 are named in
// the Format enum and return ErrFormatNotImplemented (see DESIGN.md).
package persist
