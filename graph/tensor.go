package graph

import (
	"fmt"
	"reflect"
)

// Tensor is a type-erased, shape-tagged array (spec §4.8). It may own its
// backing slice or be a view aliasing caller-provided storage; a view must
// outlive every evaluation that reads it.
type Tensor struct {
	shape Shape
	dtype ElemType
	data  interface{}
	owned bool
}

func (t *Tensor) Shape() Shape     { return t.shape.clone() }
func (t *Tensor) DType() ElemType  { return t.dtype }
func (t *Tensor) IsOwned() bool    { return t.owned }

var goTypeOf = map[ElemType]reflect.Type{
	Bool:       reflect.TypeOf(false),
	Int8:       reflect.TypeOf(int8(0)),
	Int16:      reflect.TypeOf(int16(0)),
	Int32:      reflect.TypeOf(int32(0)),
	Int64:      reflect.TypeOf(int64(0)),
	Uint8:      reflect.TypeOf(uint8(0)),
	Uint16:     reflect.TypeOf(uint16(0)),
	Uint32:     reflect.TypeOf(uint32(0)),
	Uint64:     reflect.TypeOf(uint64(0)),
	Float32:    reflect.TypeOf(float32(0)),
	Float64:    reflect.TypeOf(float64(0)),
	Complex128: reflect.TypeOf(complex128(0)),
}

func elemTypeFromGo(t reflect.Type) (ElemType, bool) {
	for et, gt := range goTypeOf {
		if gt == t {
			return et, true
		}
	}

	return 0, false
}

// NewOwnedTensor wraps data as an owned tensor of the given shape and
// dtype. data's Go element type must match dtype (spec §4.8 "Casting to a
// different dtype requires an explicit Cast node").
func NewOwnedTensor(shape Shape, dtype ElemType, data interface{}) (*Tensor, error) {
	return newTensor(shape, dtype, data, true)
}

// NewViewTensor wraps data as a view: it aliases the caller's slice rather
// than copying it (spec §4.8 "Tensors may be owned or views; views alias
// user storage and must outlive evaluation").
func NewViewTensor(shape Shape, dtype ElemType, data interface{}) (*Tensor, error) {
	return newTensor(shape, dtype, data, false)
}

func newTensor(shape Shape, dtype ElemType, data interface{}, owned bool) (*Tensor, error) {
	if !shape.resolved() {
		return nil, fmt.Errorf("%w: tensor shape must be fully resolved", ErrUnresolvedShape)
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice {
		return nil, fmt.Errorf("%w: backing data must be a slice", ErrDowncast)
	}
	want, ok := goTypeOf[dtype]
	if !ok || rv.Type().Elem() != want {
		return nil, fmt.Errorf("%w: dtype %s does not match backing element type %s", ErrDowncast, dtype, rv.Type().Elem())
	}
	if n := shape.NumElements(); rv.Len() != n {
		return nil, fmt.Errorf("%w: shape has %d elements, data has %d", ErrShapeMismatch, n, rv.Len())
	}

	return &Tensor{shape: shape.clone(), dtype: dtype, data: data, owned: owned}, nil
}

// As downcasts t to a concrete, statically typed slice view. It fails if
// t's dtype does not correspond to T, or if the backing data is not
// actually a []T (spec §4.8 "as<T> downcast ... fails if dtype or shape
// rank mismatches").
func As[T any](t *Tensor) ([]T, error) {
	var zero T
	want, ok := elemTypeFromGo(reflect.TypeOf(zero))
	if !ok || want != t.dtype {
		return nil, fmt.Errorf("%w: tensor dtype %s does not match requested type", ErrDowncast, t.dtype)
	}
	data, ok := t.data.([]T)
	if !ok {
		return nil, fmt.Errorf("%w: backing storage is not []%T", ErrDowncast, zero)
	}

	return data, nil
}
