package capi

import (
	"github.com/yafaray/yafaray-go/pkg/core"
	"github.com/yafaray/yafaray-go/pkg/geometry"
)

// ParamMap is a flat, string-keyed bag of typed values: the unit every
// entity-creation call (CreateMaterial, CreateLight, ...) reads its
// configuration from, mirroring the param-map-as-configuration-object
// pattern of the XML file format's attribute/child-element groups.
type ParamMap struct {
	ints     map[string]int
	floats   map[string]float64
	vectors  map[string]core.Vec3
	colors   map[string]core.Vec3
	matrices map[string]geometry.Matrix4
	strings  map[string]string
	bools    map[string]bool
}

var paramMaps = newRegistry[*ParamMap]()

// CreateParamMap allocates a new, empty parameter map and returns its
// handle.
func CreateParamMap() ParamMapHandle {
	return ParamMapHandle{id: paramMaps.add(&ParamMap{})}
}

// FreeParamMap releases a parameter map's handle. Safe to call on a handle
// already consumed by an entity-creation call.
func FreeParamMap(h ParamMapHandle) {
	paramMaps.remove(h.id)
}

// The SetParamMap* functions are the handle-indirected counterparts of
// ParamMap's own SetX methods, for callers (pkg/sceneio's XML loader, a
// future cgo boundary) that only ever see a ParamMapHandle and never a
// live *ParamMap. A handle that doesn't resolve is silently a no-op,
// matching a C API's "invalid handle" tolerance at a configuration-only
// call site.

func SetParamMapInt(h ParamMapHandle, name string, v int) {
	if p, ok := lookupParamMap(h); ok {
		p.SetInt(name, v)
	}
}

func SetParamMapFloat(h ParamMapHandle, name string, v float64) {
	if p, ok := lookupParamMap(h); ok {
		p.SetFloat(name, v)
	}
}

func SetParamMapVector(h ParamMapHandle, name string, v core.Vec3) {
	if p, ok := lookupParamMap(h); ok {
		p.SetVector(name, v)
	}
}

func SetParamMapColor(h ParamMapHandle, name string, v core.Vec3) {
	if p, ok := lookupParamMap(h); ok {
		p.SetColor(name, v)
	}
}

func SetParamMapMatrix(h ParamMapHandle, name string, m geometry.Matrix4) {
	if p, ok := lookupParamMap(h); ok {
		p.SetMatrix(name, m)
	}
}

func SetParamMapString(h ParamMapHandle, name, v string) {
	if p, ok := lookupParamMap(h); ok {
		p.SetString(name, v)
	}
}

func SetParamMapBool(h ParamMapHandle, name string, v bool) {
	if p, ok := lookupParamMap(h); ok {
		p.SetBool(name, v)
	}
}

func lookupParamMap(h ParamMapHandle) (*ParamMap, bool) {
	return paramMaps.get(h.id)
}

func (p *ParamMap) SetInt(name string, v int) {
	if p.ints == nil {
		p.ints = make(map[string]int)
	}
	p.ints[name] = v
}

func (p *ParamMap) SetFloat(name string, v float64) {
	if p.floats == nil {
		p.floats = make(map[string]float64)
	}
	p.floats[name] = v
}

func (p *ParamMap) SetVector(name string, v core.Vec3) {
	if p.vectors == nil {
		p.vectors = make(map[string]core.Vec3)
	}
	p.vectors[name] = v
}

func (p *ParamMap) SetColor(name string, v core.Vec3) {
	if p.colors == nil {
		p.colors = make(map[string]core.Vec3)
	}
	p.colors[name] = v
}

func (p *ParamMap) SetMatrix(name string, m geometry.Matrix4) {
	if p.matrices == nil {
		p.matrices = make(map[string]geometry.Matrix4)
	}
	p.matrices[name] = m
}

func (p *ParamMap) SetString(name, v string) {
	if p.strings == nil {
		p.strings = make(map[string]string)
	}
	p.strings[name] = v
}

func (p *ParamMap) SetBool(name string, v bool) {
	if p.bools == nil {
		p.bools = make(map[string]bool)
	}
	p.bools[name] = v
}

func (p *ParamMap) GetInt(name string, fallback int) int {
	if v, ok := p.ints[name]; ok {
		return v
	}
	return fallback
}

func (p *ParamMap) GetFloat(name string, fallback float64) float64 {
	if v, ok := p.floats[name]; ok {
		return v
	}
	return fallback
}

func (p *ParamMap) GetVector(name string, fallback core.Vec3) core.Vec3 {
	if v, ok := p.vectors[name]; ok {
		return v
	}
	return fallback
}

func (p *ParamMap) GetColor(name string, fallback core.Vec3) core.Vec3 {
	if v, ok := p.colors[name]; ok {
		return v
	}
	return fallback
}

func (p *ParamMap) GetMatrix(name string, fallback geometry.Matrix4) geometry.Matrix4 {
	if v, ok := p.matrices[name]; ok {
		return v
	}
	return fallback
}

func (p *ParamMap) GetString(name, fallback string) string {
	if v, ok := p.strings[name]; ok {
		return v
	}
	return fallback
}

func (p *ParamMap) GetBool(name string, fallback bool) bool {
	if v, ok := p.bools[name]; ok {
		return v
	}
	return fallback
}

// Has reports whether name was set under any type.
func (p *ParamMap) Has(name string) bool {
	if _, ok := p.ints[name]; ok {
		return true
	}
	if _, ok := p.floats[name]; ok {
		return true
	}
	if _, ok := p.vectors[name]; ok {
		return true
	}
	if _, ok := p.colors[name]; ok {
		return true
	}
	if _, ok := p.matrices[name]; ok {
		return true
	}
	if _, ok := p.strings[name]; ok {
		return true
	}
	if _, ok := p.bools[name]; ok {
		return true
	}
	return false
}

// requireKeys checks that every named key is present, returning
// ErrorParamsMissing (with no OK bit) if any is absent.
func requireKeys(p *ParamMap, names ...string) ResultFlags {
	for _, name := range names {
		if !p.Has(name) {
			return ErrorParamsMissing
		}
	}
	return OK
}
