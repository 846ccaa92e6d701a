// Package registry provides the model registry: the single collection that
// owns every named entity declared during one model session.
//
// Names are unique across the whole registry regardless of kind. Entities are
// only ever added; the registry never shrinks. Initial conditions are held
// next to the entities because they have no name of their own.
//
// The registry is passed explicitly to every declaration context and to the
// lint engine; there is no ambient "current model".
package registry
