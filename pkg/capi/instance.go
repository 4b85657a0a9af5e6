package capi

import "github.com/yafaray/yafaray-go/pkg/geometry"

// instanceBuild accumulates an instance's base primitives and transform
// keyframes across the incremental addInstanceObject/addInstanceOfInstance/
// addInstanceMatrix calls.
type instanceBuild struct {
	base      []geometry.Primitive
	keyframes []geometry.TransformKeyframe
}

var instanceBuilds = newRegistry[*instanceBuild]()

// CreateInstance begins a new instance; base primitives and transform
// keyframes are added with AddInstanceObject/AddInstanceOfInstance and
// AddInstanceMatrix before FinalizeInstance.
func CreateInstance(sceneHandle SceneHandle) InstanceHandle {
	return InstanceHandle{id: instanceBuilds.add(&instanceBuild{})}
}

// AddInstanceObject adds a previously finalized mesh object as one of this
// instance's base primitives.
func AddInstanceObject(instanceHandle InstanceHandle, obj ObjectHandle) ResultFlags {
	ib, ok := instanceBuilds.get(instanceHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	mb, ok := lookupMesh(obj)
	if !ok || mb.finalized == nil {
		return ErrorParamsMissing
	}
	ib.base = append(ib.base, mb.finalized)
	return OK
}

// AddInstanceOfInstance nests an already-finalized instance as a base
// primitive of this one, letting the renderer flatten arbitrarily deep
// instance trees down to transform-free geometry at Hit time.
func AddInstanceOfInstance(instanceHandle InstanceHandle, nested InstanceHandle) ResultFlags {
	ib, ok := instanceBuilds.get(instanceHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	nestedInst, ok := finalizedInstances.get(nested.id)
	if !ok {
		return ErrorParamsMissing
	}
	ib.base = append(ib.base, nestedInst)
	return OK
}

// AddInstanceMatrix appends one object-to-world transform keyframe at the
// given shutter time. An instance finalized with exactly one keyframe is
// static; exactly three keyframes are Bezier-interpolated across shutter
// time (matching pkg/geometry.Instance); any other count is rejected at
// FinalizeInstance.
func AddInstanceMatrix(instanceHandle InstanceHandle, m geometry.Matrix4, time float64) ResultFlags {
	ib, ok := instanceBuilds.get(instanceHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	ib.keyframes = append(ib.keyframes, geometry.TransformKeyframe{Matrix: m, Time: time})
	return OK
}

var finalizedInstances = newRegistry[*geometry.Instance]()

// FinalizeInstance builds the geometry.Instance from its accumulated base
// primitives and keyframes and adds it to the scene's primitive list.
func FinalizeInstance(sceneHandle SceneHandle, instanceHandle InstanceHandle) ResultFlags {
	build, ok := lookupScene(sceneHandle)
	if !ok {
		return ErrorWhileCreating
	}
	ib, ok := instanceBuilds.get(instanceHandle.id)
	if !ok {
		return ErrorWhileCreating
	}
	if len(ib.base) == 0 || (len(ib.keyframes) != 1 && len(ib.keyframes) != 3) {
		return ErrorParamsMissing
	}

	inst := geometry.NewInstance(ib.base, ib.keyframes)
	finalizedInstances.set(instanceHandle.id, inst)
	build.scn.Primitives = append(build.scn.Primitives, inst)
	return OK
}
