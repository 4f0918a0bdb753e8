package server

import (
	"reflect"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/invopop/jsonschema"
	"github.com/rotisserie/eris"
)

type HealthReply struct {
	IsServerRunning bool   `json:"isServerRunning"`
	TickHeight      uint64 `json:"tickHeight"`
	Entities        int    `json:"entities"`
}

type ListFontsReply struct {
	Default      string        `json:"default"`
	DefaultUsers int           `json:"defaultUsers"`
	Presets      []font.Preset `json:"presets"`
}

type FontUsersReply struct {
	Key      string         `json:"key"`
	Entities []ecs.EntityID `json:"entities"`
}

type ComponentsReply struct {
	Components map[string]map[string]any `json:"components"`
}

type SearchReply struct {
	Results []map[string]any `json:"results"`
}

func (s *Server) getHealth(ctx *fiber.Ctx) error {
	var res HealthReply
	err := s.guard.View(func(w *ecs.World) error {
		res = HealthReply{
			IsServerRunning: true,
			TickHeight:      w.TickHeight(),
			Entities:        w.EntityCount(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (s *Server) listFonts(ctx *fiber.Ctx) error {
	var res ListFontsReply
	err := s.viewRegistry(func(reg *font.Registry) error {
		res = ListFontsReply{
			Default:      reg.DefaultKey(),
			DefaultUsers: len(reg.UsedBy("")),
			Presets:      reg.Presets(),
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (s *Server) getFont(ctx *fiber.Ctx) error {
	key := ctx.Params("key")

	var res font.Preset
	err := s.viewRegistry(func(reg *font.Registry) error {
		preset, err := reg.Lookup(key)
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "font not found: "+key)
		}
		res = preset
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// getFontUsers lists the entities whose marker names the key. The key doesn't have to be
// registered, so texts waiting for a preset can be inspected too.
func (s *Server) getFontUsers(ctx *fiber.Ctx) error {
	key := ctx.Params("key")

	res := FontUsersReply{Key: key}
	err := s.viewRegistry(func(reg *font.Registry) error {
		res.Entities = reg.UsedBy(key)
		if _, err := reg.Lookup(key); err != nil && len(res.Entities) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "font not found: "+key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (s *Server) postSearch(ctx *fiber.Ctx) error {
	var params ecs.SearchParam
	if err := ctx.BodyParser(&params); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to parse request body: "+err.Error())
	}
	if params.Match == "" {
		params.Match = ecs.MatchContains
	}

	var res SearchReply
	err := s.guard.View(func(w *ecs.World) error {
		results, err := w.NewSearch(params)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, eris.Cause(err).Error())
		}
		res.Results = results
		return nil
	})
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (s *Server) viewRegistry(fn func(reg *font.Registry) error) error {
	return s.guard.View(func(w *ecs.World) error {
		reg, err := ecs.GetResource[font.Registry](w.State())
		if err != nil {
			return eris.Wrap(err, "font plugin is not registered")
		}
		return fn(reg)
	})
}

// getComponents lists the registered components with the JSON schema of their search form.
func (s *Server) getComponents(ctx *fiber.Ctx) error {
	var types map[string]reflect.Type
	err := s.guard.View(func(w *ecs.World) error {
		types = w.ComponentTypes()
		return nil
	})
	if err != nil {
		return err
	}

	res := ComponentsReply{Components: make(map[string]map[string]any, len(types))}
	for name, typ := range types {
		schema, err := reflectSchema(typ)
		if err != nil {
			return eris.Wrapf(err, "component %s", name)
		}
		res.Components[name] = schema
	}
	return ctx.JSON(res)
}

// reflectSchema generates a JSON schema from a component type. The fields that are the same for
// every struct are dropped.
func reflectSchema(t reflect.Type) (map[string]any, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true, // Don't add $id based on package path
		ExpandedStruct: true, // Inline the struct fields directly
	}

	data, err := json.Marshal(r.ReflectFromType(t))
	if err != nil {
		return nil, eris.Wrap(err, "failed to marshal schema")
	}
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, eris.Wrap(err, "failed to unmarshal schema")
	}

	delete(result, "$schema")
	delete(result, "type")
	delete(result, "additionalProperties")
	return result, nil
}
