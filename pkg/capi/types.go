package capi

// SceneHandle refers to a scene under construction or already preprocessed.
type SceneHandle struct{ id uint64 }

// RendererHandle refers to a configured renderer bound to a scene.
type RendererHandle struct{ id uint64 }

// FilmHandle refers to an image film a renderer accumulates samples into.
type FilmHandle struct{ id uint64 }

// ParamMapHandle refers to a single flat string-keyed parameter map, the
// unit every entity-creation call configures itself from.
type ParamMapHandle struct{ id uint64 }

// ParamMapListHandle refers to an ordered list of ParamMapHandles, used by
// the few creation calls (instances, mesh smoothing) that take more than
// one parameter map at a time.
type ParamMapListHandle struct{ id uint64 }

// LoggerHandle refers to a registered core.Logger.
type LoggerHandle struct{ id uint64 }

// ObjectHandle identifies a mesh under construction via the incremental
// addVertex/addTriangle geometry-assembly calls.
type ObjectHandle struct{ id uint64 }

// InstanceHandle identifies an instance under construction via the
// incremental addInstanceObject/addInstanceMatrix calls.
type InstanceHandle struct{ id uint64 }

// Invalid reports whether a handle was never issued by this package's
// Create* functions (the zero value, or one returned alongside a non-OK
// ResultFlags).
func (h SceneHandle) Invalid() bool    { return h.id == 0 }
func (h RendererHandle) Invalid() bool { return h.id == 0 }
func (h FilmHandle) Invalid() bool     { return h.id == 0 }
func (h ParamMapHandle) Invalid() bool { return h.id == 0 }
func (h ObjectHandle) Invalid() bool   { return h.id == 0 }
func (h InstanceHandle) Invalid() bool { return h.id == 0 }
func (h LoggerHandle) Invalid() bool   { return h.id == 0 }

// ResultFlags reports the outcome of an entity-creation or configuration
// call as a bitmask rather than a single error value, since a call can
// simultaneously succeed and warn (e.g. an unknown param ignored).
type ResultFlags uint32

// OK indicates unconditional success.
const OK ResultFlags = 0

const (
	// Warning indicates the call succeeded but something about it is
	// worth surfacing to the user (an ignored or defaulted parameter).
	Warning ResultFlags = 1 << iota
	// ErrorWhileCreating indicates the underlying entity failed to
	// construct (e.g. a degenerate triangle or a zero-radius light).
	ErrorWhileCreating
	// ErrorDuplicateName indicates the requested name collides with an
	// already-registered entity of the same kind.
	ErrorDuplicateName
	// ErrorTypeUnknown indicates the "type" parameter named a material,
	// light, or texture kind this build doesn't implement.
	ErrorTypeUnknown
	// ErrorParamsMissing indicates a required parameter was absent from
	// the supplied ParamMap.
	ErrorParamsMissing
)

// HasError reports whether any Error* bit is set.
func (f ResultFlags) HasError() bool {
	return f&(ErrorWhileCreating|ErrorDuplicateName|ErrorTypeUnknown|ErrorParamsMissing) != 0
}

// HasWarning reports whether the Warning bit is set.
func (f ResultFlags) HasWarning() bool {
	return f&Warning != 0
}

func (f ResultFlags) String() string {
	if f == OK {
		return "OK"
	}
	s := ""
	add := func(bit ResultFlags, name string) {
		if f&bit != 0 {
			if s != "" {
				s += "|"
			}
			s += name
		}
	}
	add(Warning, "Warning")
	add(ErrorWhileCreating, "ErrorWhileCreating")
	add(ErrorDuplicateName, "ErrorDuplicateName")
	add(ErrorTypeUnknown, "ErrorTypeUnknown")
	add(ErrorParamsMissing, "ErrorParamsMissing")
	return s
}
