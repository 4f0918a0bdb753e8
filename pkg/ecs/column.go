package ecs

import (
	"github.com/argus-labs/reactive-font/pkg/assert"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// columnFactory is a function that creates a new abstractColumn instance.
type columnFactory func() abstractColumn

// abstractColumn is an internal interface for generic column operations.
type abstractColumn interface {
	len() int
	name() string
	extend()

	setAbstract(row int, component Component)
	getAbstract(row int) Component
	remove(row int)

	serialize() (columnSnapshot, error)
	deserialize(columnSnapshot) error
}

var _ abstractColumn = &column[Component]{}

// column stores the component data of entities in an archetype. The length of the components slice
// must match the length of the entities slice in the archetype.
type column[T Component] struct {
	compName   string // The name of the component stored in this column
	components []T    // Array containing the component data
}

// newColumn creates a new column with the specified type.
func newColumn[T Component]() column[T] {
	var zero T
	const initialCapacity = 16
	return column[T]{
		compName:   zero.Name(),
		components: make([]T, 0, initialCapacity),
	}
}

// newColumnFactory returns a function that constructs a new column of type T.
func newColumnFactory[T Component]() columnFactory {
	return func() abstractColumn {
		col := newColumn[T]()
		return &col
	}
}

func (c *column[T]) len() int {
	return len(c.components)
}

func (c *column[T]) name() string {
	return c.compName
}

// extend adds a new row to the components slice and initializes it with the zero value.
func (c *column[T]) extend() {
	var zero T
	c.components = append(c.components, zero)
}

// set sets the component in a given row. A row corresponds to a single entity. Whenever possible
// prefer this method over setAbstract since it avoids the type assertion.
func (c *column[T]) set(row int, component T) {
	assert.That(row < len(c.components), "column isn't extended when entity is created")
	c.components[row] = component
}

// setAbstract sets the component in a given row. Use this method only when you don't know the
// concrete type of the component.
func (c *column[T]) setAbstract(row int, component Component) {
	concrete, ok := component.(T)
	assert.That(ok, "tried to set the wrong component type")
	c.set(row, concrete)
}

// get gets the value from a given row. Expects the caller to make sure the row is inside the column.
func (c *column[T]) get(row int) T {
	assert.That(row < len(c.components), "component doesn't exist")
	return c.components[row]
}

func (c *column[T]) getAbstract(row int) Component {
	return c.get(row)
}

// remove removes a given row. A remove swaps the last value in the slice with the row to remove.
func (c *column[T]) remove(row int) {
	assert.That(row < len(c.components), "tried to remove component that doesn't exist")

	lastIndex := len(c.components) - 1
	c.components[row] = c.components[lastIndex]

	// Zero the vacated slot so it doesn't keep references alive.
	var zero T
	c.components[lastIndex] = zero
	c.components = c.components[:lastIndex]
}

func (c *column[T]) serialize() (columnSnapshot, error) {
	values := make([]json.RawMessage, len(c.components))
	for i, component := range c.components {
		data, err := json.Marshal(component)
		if err != nil {
			return columnSnapshot{}, eris.Wrapf(err, "failed to serialize component at index %d", i)
		}
		values[i] = data
	}
	return columnSnapshot{Component: c.compName, Values: values}, nil
}

func (c *column[T]) deserialize(snapshot columnSnapshot) error {
	if snapshot.Component != c.compName {
		return eris.Errorf("component name mismatch: expected %s, got %s", c.compName, snapshot.Component)
	}

	components := make([]T, len(snapshot.Values))
	for i, data := range snapshot.Values {
		if err := json.Unmarshal(data, &components[i]); err != nil {
			return eris.Wrapf(err, "failed to deserialize component at index %d", i)
		}
	}
	c.components = components
	return nil
}

// getColumn returns the typed column for T in the archetype.
func getColumn[T Component](arch *archetype) (*column[T], error) {
	var zero T
	for _, col := range arch.columns {
		if col.name() != zero.Name() {
			continue
		}
		typed, ok := col.(*column[T])
		if !ok {
			return nil, eris.Errorf("column %s holds a different component type", zero.Name())
		}
		return typed, nil
	}
	return nil, eris.Wrapf(ErrComponentNotFound, "component %s", zero.Name())
}
