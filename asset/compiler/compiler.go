package compiler

import (
	"fmt"
	"time"

	"github.com/achilleasa/glint/asset/compiler/input"
	"github.com/achilleasa/glint/asset/scene"
	"github.com/achilleasa/glint/log"
	"github.com/achilleasa/glint/types"
)

type sceneCompiler struct {
	parsedScene    *input.Scene
	optimizedScene *scene.Scene
	logger         log.Logger

	// A map of 1-based material ids to their index in the compiled
	// material list.
	matIdToIndex map[int]int
}

// Compile a scene representation parsed by a scene reader into the flat
// scene format consumed by the BVH builder and the tracers.
//
// The compiler resolves all 1-based material and vertex ids into 0-based
// indices, flattens meshes into a single triangle list and validates the
// scene cameras. Any dangling reference is reported as an error.
func Compile(parsedScene *input.Scene) (*scene.Scene, error) {
	compiler := &sceneCompiler{
		parsedScene: parsedScene,
		optimizedScene: &scene.Scene{
			BackgroundColor:   parsedScene.BackgroundColor,
			AmbientLight:      parsedScene.AmbientLight,
			ShadowRayEpsilon:  parsedScene.ShadowRayEpsilon,
			MaxRecursionDepth: parsedScene.MaxRecursionDepth,
		},
		logger:       log.New("scene compiler"),
		matIdToIndex: make(map[int]int, len(parsedScene.Materials)),
	}

	start := time.Now()
	compiler.logger.Infof("compiling scene")

	if parsedScene.MaxRecursionDepth < 0 {
		return nil, fmt.Errorf("compiler: invalid max recursion depth %d", parsedScene.MaxRecursionDepth)
	}

	var err error
	err = compiler.compileMaterials()
	if err != nil {
		return nil, err
	}

	err = compiler.compileGeometry()
	if err != nil {
		return nil, err
	}

	err = compiler.compileLightsAndCameras()
	if err != nil {
		return nil, err
	}

	compiler.warnUnusedMaterials()

	compiler.logger.Infof("compiled scene in %d ms", time.Since(start).Nanoseconds()/1e6)
	return compiler.optimizedScene, nil
}

// Assign an index to each material and copy its reflectance coefficients.
func (sc *sceneCompiler) compileMaterials() error {
	sc.optimizedScene.Materials = make([]scene.Material, 0, len(sc.parsedScene.Materials))
	for _, pm := range sc.parsedScene.Materials {
		if _, exists := sc.matIdToIndex[pm.Id]; exists {
			return fmt.Errorf("compiler: duplicate material id %d", pm.Id)
		}

		sc.matIdToIndex[pm.Id] = len(sc.optimizedScene.Materials)
		sc.optimizedScene.Materials = append(sc.optimizedScene.Materials, scene.Material{
			IsMirror:      pm.IsMirror,
			Ambient:       pm.Ambient,
			Diffuse:       pm.Diffuse,
			Specular:      pm.Specular,
			Mirror:        pm.Mirror,
			PhongExponent: pm.PhongExponent,
		})
	}

	return nil
}

// Flatten meshes and standalone triangles into a single triangle list and
// resolve sphere centers.
func (sc *sceneCompiler) compileGeometry() error {
	sc.optimizedScene.Triangles = make([]scene.Triangle, 0, sc.parsedScene.TriangleCount())
	sc.optimizedScene.Spheres = make([]scene.Sphere, 0, len(sc.parsedScene.Spheres))

	for _, pm := range sc.parsedScene.Meshes {
		matIndex, err := sc.materialIndex(pm.MaterialId, fmt.Sprintf("mesh %d", pm.Id))
		if err != nil {
			return err
		}

		for faceIndex, face := range pm.Faces {
			tri, err := sc.triangle(face, matIndex, fmt.Sprintf("mesh %d face %d", pm.Id, faceIndex))
			if err != nil {
				return err
			}
			sc.optimizedScene.Triangles = append(sc.optimizedScene.Triangles, tri)
		}
	}

	for _, pt := range sc.parsedScene.Triangles {
		owner := fmt.Sprintf("triangle %d", pt.Id)
		matIndex, err := sc.materialIndex(pt.MaterialId, owner)
		if err != nil {
			return err
		}

		tri, err := sc.triangle(pt.Indices, matIndex, owner)
		if err != nil {
			return err
		}
		sc.optimizedScene.Triangles = append(sc.optimizedScene.Triangles, tri)
	}

	for _, ps := range sc.parsedScene.Spheres {
		owner := fmt.Sprintf("sphere %d", ps.Id)
		matIndex, err := sc.materialIndex(ps.MaterialId, owner)
		if err != nil {
			return err
		}

		center, err := sc.vertex(ps.CenterVertex, owner)
		if err != nil {
			return err
		}

		if ps.Radius <= 0 {
			return fmt.Errorf("compiler: %s has invalid radius %f", owner, ps.Radius)
		}

		sc.optimizedScene.Spheres = append(sc.optimizedScene.Spheres, scene.NewSphere(center, ps.Radius, matIndex))
	}

	sc.logger.Infof("flattened %d mesh(es) into %d triangle(s); %d sphere(s)", len(sc.parsedScene.Meshes), len(sc.optimizedScene.Triangles), len(sc.optimizedScene.Spheres))
	return nil
}

func (sc *sceneCompiler) compileLightsAndCameras() error {
	sc.optimizedScene.PointLights = make([]scene.PointLight, len(sc.parsedScene.PointLights))
	for index, pl := range sc.parsedScene.PointLights {
		sc.optimizedScene.PointLights[index] = scene.PointLight{
			Position:  pl.Position,
			Intensity: pl.Intensity,
		}
	}

	if len(sc.parsedScene.Cameras) == 0 {
		return fmt.Errorf("compiler: scene does not define any cameras")
	}

	sc.optimizedScene.Cameras = make([]*scene.Camera, len(sc.parsedScene.Cameras))
	for index, pc := range sc.parsedScene.Cameras {
		cam := &scene.Camera{
			Position: pc.Position,
			Gaze:     pc.Gaze,
			Up:       pc.Up,
			NearPlane: scene.NearPlane{
				Left:   pc.NearPlane[0],
				Right:  pc.NearPlane[1],
				Bottom: pc.NearPlane[2],
				Top:    pc.NearPlane[3],
			},
			NearDistance: pc.NearDistance,
			Width:        pc.Width,
			Height:       pc.Height,
			ImageName:    pc.ImageName,
		}

		if err := cam.Validate(); err != nil {
			return fmt.Errorf("compiler: camera %d: %s", pc.Id, err.Error())
		}
		sc.optimizedScene.Cameras[index] = cam
	}

	return nil
}

// Lookup the compiled index of a 1-based material id and flag the material
// as used.
func (sc *sceneCompiler) materialIndex(matId int, owner string) (int, error) {
	index, exists := sc.matIdToIndex[matId]
	if !exists {
		return -1, fmt.Errorf("compiler: %s references undefined material %d", owner, matId)
	}
	sc.parsedScene.Materials[index].Used = true
	return index, nil
}

// Lookup a 1-based vertex id.
func (sc *sceneCompiler) vertex(vertexId int, owner string) (types.Vec3, error) {
	if vertexId < 1 || vertexId > len(sc.parsedScene.Vertices) {
		return types.Vec3{}, fmt.Errorf("compiler: %s references vertex %d; scene defines %d vertices", owner, vertexId, len(sc.parsedScene.Vertices))
	}
	return sc.parsedScene.Vertices[vertexId-1], nil
}

func (sc *sceneCompiler) triangle(face input.Face, matIndex int, owner string) (scene.Triangle, error) {
	var v [3]types.Vec3
	for i, vertexId := range face {
		var err error
		if v[i], err = sc.vertex(vertexId, owner); err != nil {
			return scene.Triangle{}, err
		}
	}
	return scene.NewTriangle(v[0], v[1], v[2], matIndex), nil
}

func (sc *sceneCompiler) warnUnusedMaterials() {
	for _, pm := range sc.parsedScene.Materials {
		if !pm.Used {
			sc.logger.Warningf("material %d is not referenced by any scene geometry", pm.Id)
		}
	}
}
