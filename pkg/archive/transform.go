package archive

// Transform unpacks each element of refs in order. In the source this took
// a std::tuple of references and splatted an index sequence over it; Go has
// no variadic heterogeneous tuple type, so refs is simply the flattened
// pointer list the functor layer already builds positionally. Kept as a
// distinct name from Unpack because arity.go calls it specifically when
// materializing a method's argument list, matching how the original
// Archive::transform is a named entry point distinct from Archive::unpack
// even though the two share an implementation.
func Transform(a *Archive, refs ...any) error {
	return Unpack(a, refs...)
}
