package main

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/urfave/cli"

	"ssao-engine/core"
	"ssao-engine/math"
	"ssao-engine/scene"
)

var errEmptyScene = errors.New("scene has no geometry")

func frameFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 640,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 360,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "row band workers, 0 uses every CPU",
		},
	}
}

func sceneFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "gltf",
			Usage: "load the scene from a glTF 2.0 file",
		},
		cli.StringFlag{
			Name:  "obj",
			Usage: "load the scene from a wavefront obj file",
		},
	}
}

// loadScene builds the scene named by the flags, or the demo scene, and an
// orbit camera framing it.
func loadScene(ctx *cli.Context, aspect float32) (*scene.Scene, *scene.OrbitCamera, error) {
	var nodes []*scene.Node
	switch {
	case ctx.String("gltf") != "":
		loaded, err := scene.LoadGLTF(ctx.String("gltf"))
		if err != nil {
			return nil, nil, err
		}
		nodes = loaded
	case ctx.String("obj") != "":
		meshes, err := scene.LoadOBJ(ctx.String("obj"))
		if err != nil {
			return nil, nil, err
		}
		for _, m := range meshes {
			nodes = append(nodes, scene.NewMeshNode(m.Name, m, math.Vec3Zero))
		}
	default:
		s, orbit := scene.CreateDemoScene(aspect)
		return s, orbit, nil
	}

	s := scene.NewScene()
	for _, n := range nodes {
		s.AddNode(n)
	}
	orbit, err := frameScene(s, aspect)
	if err != nil {
		return nil, nil, err
	}
	s.AddLight(&scene.Light{
		Direction: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
		Color:     core.ColorWhite,
		Intensity: 0.9,
	})
	return s, orbit, nil
}

// frameScene points an orbit camera at the scene bounds from far enough to
// see all of it.
func frameScene(s *scene.Scene, aspect float32) (*scene.OrbitCamera, error) {
	box, ok := s.Bounds()
	if !ok {
		return nil, errEmptyScene
	}
	center := box.Min.Add(box.Max).Mul(0.5)
	radius := max(box.Max.Sub(box.Min).Length()*0.5, 0.1)

	const fov = math32.Pi / 3
	distance := radius / math32.Sin(fov*0.5) * 1.1
	orbit := scene.NewOrbitCamera(center, distance, fov, aspect)
	orbit.NearPlane = max(distance-radius, 0.01) * 0.1
	orbit.FarPlane = (distance + radius) * 1.5
	orbit.UpdatePosition()
	s.SetCamera(&orbit.Camera)

	logger.Infof("framed %d nodes: center %v, radius %.2f", len(s.GetVisibleNodes(nil)), center, radius)
	return orbit, nil
}

func describeScene(s *scene.Scene) string {
	nodes := s.GetVisibleNodes(nil)
	tris := 0
	for _, n := range nodes {
		tris += n.Mesh.TriangleCount()
	}
	return fmt.Sprintf("%d meshes, %d triangles", len(nodes), tris)
}

func viewFlags() []cli.Flag {
	flags := append(frameFlags(), sceneFlags()...)
	return append(flags, settingsFlags()...)
}

func renderFlags() []cli.Flag {
	return append(viewFlags(),
		cli.StringFlag{
			Name:  "out, o",
			Value: "ssao.png",
			Usage: "image filename for the published frame",
		},
		cli.StringFlag{
			Name:  "color-out",
			Usage: "also write the shaded color buffer before occlusion",
		},
		cli.StringFlag{
			Name:  "depth-out",
			Usage: "also write the depth buffer as a grayscale image",
		},
		cli.StringFlag{
			Name:  "normals-out",
			Usage: "also write the view-space normals as an RGB image",
		},
	)
}
