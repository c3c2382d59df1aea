// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	glm "github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective viewer. Rotation is in degrees around X, Y and Z.
type Camera struct {
	Position    glm.Vec3
	Rotation    glm.Vec3
	FieldOfView float32
	Near        float32
	Far         float32
}

// NewCamera creates a camera from its configuration.
func NewCamera(cfg CameraConfiguration) Camera {
	return Camera{
		Position:    glm.Vec3(cfg.Position),
		Rotation:    glm.Vec3(cfg.Rotation),
		FieldOfView: cfg.FieldOfView,
		Near:        cfg.Near,
		Far:         cfg.Far,
	}
}

// Projection returns the perspective projection for an aspect ratio,
// with Y flipped for Vulkan clip space.
func (c Camera) Projection(aspect float32) glm.Mat4 {
	return flipY(glm.Perspective(glm.DegToRad(c.FieldOfView), aspect, c.Near, c.Far))
}

// View returns the world to camera transform.
func (c Camera) View() glm.Mat4 {
	return viewMatrix(c.Position, c.Rotation)
}

// Light is the orthographic shadow caster.
type Light struct {
	Position glm.Vec3
	Rotation glm.Vec3

	// Size is the half width of the square the light covers.
	Size      float32
	Near, Far float32
}

// DefaultLight returns the light looking down from above the origin.
func DefaultLight() Light {
	return Light{
		Position: glm.Vec3{0, -20, 0},
		Rotation: glm.Vec3{-90, -20, 0},
		Size:     20,
		Near:     1,
		Far:      30,
	}
}

// Projection returns the orthographic light projection.
func (l Light) Projection() glm.Mat4 {
	return flipY(glm.Ortho(-l.Size, l.Size, -l.Size, l.Size, l.Near, l.Far))
}

// View returns the world to light transform.
func (l Light) View() glm.Mat4 {
	return viewMatrix(l.Position, l.Rotation)
}

// Uniforms builds the frame block for a camera and a light.
func (c Camera) Uniforms(l Light, aspect float32) FrameUniforms {
	return FrameUniforms{
		Projection:      c.Projection(aspect),
		View:            c.View(),
		LightProjection: l.Projection(),
		LightView:       l.View(),
	}
}

func viewMatrix(position, rotation glm.Vec3) glm.Mat4 {
	rot := glm.HomogRotate3DX(glm.DegToRad(rotation.X())).
		Mul4(glm.HomogRotate3DY(glm.DegToRad(rotation.Y()))).
		Mul4(glm.HomogRotate3DZ(glm.DegToRad(rotation.Z())))
	return rot.Mul4(glm.Translate3D(position.X(), position.Y(), position.Z()))
}

func flipY(m glm.Mat4) glm.Mat4 {
	m[5] *= -1
	return m
}
