package csg

import (
	"mapc/internal/entity"
	"mapc/internal/plane"
)

func newTestRegistry() *plane.Registry {
	return plane.NewRegistry()
}

func namedEntity(classname string) *entity.Entity {
	e := entity.New()
	e.Set("classname", classname)
	return e
}
