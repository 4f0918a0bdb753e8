package ecs

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// SearchParam contains paramters for a search query.
// We use expr lang for the where clause to filter the entities, please refer to its documentation
// for more details: https://expr-lang.org/docs/getting-started.
type SearchParam struct {
	Find  []string    `json:"find"`  // List of component names to search for
	Match SearchMatch `json:"match"` // A match type to use for the search
	Where string      `json:"where"` // Optional expr language string to filter the results.
}

// validateAndGetFilter validates the search parameters and returns an expr VM program compiled
// from the where clause.
func (s *SearchParam) validateAndGetFilter() (*vm.Program, error) {
	if len(s.Find) == 0 {
		return nil, eris.New("component list cannot be empty")
	}

	if s.Match != MatchExact && s.Match != MatchContains {
		return nil, eris.Errorf("invalid `match` value: must be either '%s' or '%s'", MatchExact, MatchContains)
	}

	// If no expression is provided, return a nil program
	if len(s.Where) == 0 {
		return nil, nil //nolint:nilnil // No filter
	}

	// Compile the expression and check that the return type is boolean.
	filter, err := expr.Compile(s.Where, expr.AsBool())
	if err != nil {
		return nil, eris.Wrap(err, "failed to parse where clause")
	}

	return filter, nil
}

// SearchMatch is the type of match to use for the search.
type SearchMatch string

const (
	// MatchExact matches entities that have exactly the specified components.
	MatchExact SearchMatch = "exact"
	// MatchContains matches entities that contains the specified components, but may have other
	// components as well.
	MatchContains SearchMatch = "contains"
)

// NewSearch returns the entities that match the given search parameters. Each result maps component
// names to the component's JSON form and carries the entity ID under "_id". The where clause sees
// the same map, e.g. `text_font.size > 18`.
func (w *World) NewSearch(params SearchParam) ([]map[string]any, error) {
	filter, err := params.validateAndGetFilter()
	if err != nil {
		return nil, eris.Wrap(err, "invalid search params")
	}

	archs, err := getArchetypes(w.state, params.Find, params.Match)
	if err != nil {
		return nil, eris.Wrap(err, "failed to get archetypes from components")
	}

	results := make([]map[string]any, 0)
	for _, arch := range archs {
		for _, eid := range arch.entities {
			entityMap, err := eid.toMap(arch)
			if err != nil {
				return nil, err
			}

			// If there's no filter, include all entities.
			if filter == nil {
				results = append(results, entityMap)
				continue
			}

			// Run the filter expression. We set the entity map as the environment for `Run` so the vm
			// program has access to the entity data to filter.
			output, err := expr.Run(filter, entityMap)
			if err != nil {
				return nil, eris.Wrap(err, "failed to run filter expression")
			}

			// Because we compile the expr once without passing in the environment, expr.Compile can't
			// fully check that the expression returns a bool.
			isMatchFilter, ok := output.(bool)
			if !ok {
				return nil, eris.New("invalid where clause")
			}

			if isMatchFilter {
				results = append(results, entityMap)
			}
		}
	}

	return results, nil
}

// getArchetypes returns the archetypes that match the given components and match type.
func getArchetypes(ws *WorldState, compNames []string, match SearchMatch) ([]*archetype, error) {
	components, err := ws.componentBitmap(compNames)
	if err != nil {
		return nil, err
	}

	var archs []*archetype
	switch match {
	case MatchExact:
		if arch := ws.archExact(components); arch != nil {
			archs = []*archetype{arch}
		}
	case MatchContains:
		archs = ws.archContains(components)
	}
	return archs, nil
}

// toMap converts an entity to a map of its components. A "_id" key is added to the map
// to store the entity ID.
func (id EntityID) toMap(arch *archetype) (map[string]any, error) {
	data := make(map[string]any, arch.compCount+1)

	// Stored as an int so expressions can compare it with integer literals.
	data["_id"] = int(id)

	for _, comp := range arch.componentsOf(id) {
		raw, err := json.Marshal(comp)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to encode component %s", comp.Name())
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, eris.Wrapf(err, "failed to decode component %s", comp.Name())
		}
		data[comp.Name()] = value
	}

	return data, nil
}
