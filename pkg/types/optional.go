package types

// Optional is a field of an update request that has three states:
//   - not supplied: the zero value; the stored value is left alone
//   - null: supplied without a value; the stored value is cleared
//   - value: supplied with a value; the stored value is replaced
type Optional[T any] struct {
	value *T
	set   bool
}

// Some returns an Optional holding val.
func Some[T any](val T) Optional[T] {
	return Optional[T]{value: &val, set: true}
}

// Null returns an Optional that was supplied as null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// NotSupplied returns the zero Optional.
func NotSupplied[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr returns Null for a nil pointer and Some(*val) otherwise.
func FromPtr[T any](val *T) Optional[T] {
	if val == nil {
		return Null[T]()
	}
	return Optional[T]{value: val, set: true}
}

// IsSet reports whether the field was supplied, with or without a value.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsNull reports whether the field was supplied as null.
func (o Optional[T]) IsNull() bool {
	return o.set && o.value == nil
}

// HasValue reports whether the field was supplied with a value.
func (o Optional[T]) HasValue() bool {
	return o.set && o.value != nil
}

// Value returns the supplied value, or nil when not supplied or null.
func (o Optional[T]) Value() *T {
	return o.value
}
