package svm

import "errors"

var (
	// ErrEmptyDataset is returned when Train is called with zero examples.
	ErrEmptyDataset = errors.New("svm: empty dataset")

	// ErrLabelMismatch is returned when the label count disagrees with the
	// feature count, or a label is not exactly +1/-1.
	ErrLabelMismatch = errors.New("svm: label/feature count mismatch or non-binary label")

	// ErrInvalidParams is returned for a non-positive C. A non-positive
	// working-set size or tolerance selects its default instead.
	ErrInvalidParams = errors.New("svm: invalid training parameters")

	// ErrNotTrained is returned by Model methods called before a
	// successful Train.
	ErrNotTrained = errors.New("svm: model has not been trained")
)
